package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/vamsi4727/bhanus-studio-billing/internal/billdate"
)

type LineItemInput struct {
	Description string  `json:"description"`
	Qty         float64 `json:"qty"`
	Rate        float64 `json:"rate"`
}

type SaveBillRequest struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          string          `json:"date"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone *string         `json:"customerPhone"`
	Items         []LineItemInput `json:"items"`
}

type DateRangeRequest struct {
	From string
	To   string
}

type Service interface {
	Save(ctx context.Context, req SaveBillRequest) (Bill, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (Bill, error)
	List(ctx context.Context) ([]Bill, error)
	ListSorted(ctx context.Context) ([]Bill, error)
	Latest(ctx context.Context) (*Bill, error)
	SearchByCustomerName(ctx context.Context, term string) ([]Bill, error)
	FilterByDateRange(ctx context.Context, req DateRangeRequest) ([]Bill, error)
}

var (
	ErrInvalidInvoiceNumber   = errors.New("invalid_invoice_number")
	ErrInvalidCustomerName    = errors.New("invalid_customer_name")
	ErrEmptyItems             = errors.New("empty_items")
	ErrInvalidItemDescription = errors.New("invalid_item_description")
	ErrInvalidQuantity        = errors.New("invalid_quantity")
	ErrInvalidRate            = errors.New("invalid_rate")
	ErrInvalidDateRange       = errors.New("invalid_date_range")
	ErrNotFound               = errors.New("not_found")
)

// StorageError marks a failure of the persistence layer itself, as
// opposed to a validation rejection or a missing record.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err belongs to the validation taxonomy,
// i.e. the request was rejected before any persistence was attempted.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInvoiceNumber),
		errors.Is(err, ErrInvalidCustomerName),
		errors.Is(err, ErrEmptyItems),
		errors.Is(err, ErrInvalidItemDescription),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidRate),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, billdate.ErrInvalidDate):
		return true
	default:
		return false
	}
}
