package domain

import (
	"math"
	"strings"
)

// Validate checks the caller-controlled fields of a save request.
// Derived fields are not inspected here; the save path recomputes them.
func (r SaveBillRequest) Validate() error {
	if strings.TrimSpace(r.InvoiceNumber) == "" {
		return ErrInvalidInvoiceNumber
	}
	if strings.TrimSpace(r.CustomerName) == "" {
		return ErrInvalidCustomerName
	}
	if len(r.Items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range r.Items {
		if strings.TrimSpace(item.Description) == "" {
			return ErrInvalidItemDescription
		}
		if item.Qty < 0 || math.IsNaN(item.Qty) || math.IsInf(item.Qty, 0) {
			return ErrInvalidQuantity
		}
		if item.Rate < 0 || math.IsNaN(item.Rate) || math.IsInf(item.Rate, 0) {
			return ErrInvalidRate
		}
	}
	return nil
}

// ItemAmount derives a line amount from quantity and rate, rounded to
// two decimals.
func ItemAmount(qty, rate float64) float64 {
	return round2(qty * rate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BuildItems turns validated inputs into line items with contiguous
// 1-based serial numbers and derived amounts.
func BuildItems(invoiceNumber string, inputs []LineItemInput) []LineItem {
	items := make([]LineItem, 0, len(inputs))
	for i, input := range inputs {
		items = append(items, LineItem{
			InvoiceNumber: invoiceNumber,
			SNo:           i + 1,
			Description:   strings.TrimSpace(input.Description),
			Qty:           input.Qty,
			Rate:          input.Rate,
			Amount:        ItemAmount(input.Qty, input.Rate),
		})
	}
	return items
}

// Total sums line amounts, rounded to two decimals.
func Total(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Amount
	}
	return round2(total)
}
