package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() SaveBillRequest {
	return SaveBillRequest{
		InvoiceNumber: "00001",
		CustomerName:  "Ravi Kumar",
		Items: []LineItemInput{
			{Description: "Passport photos", Qty: 2, Rate: 150.50},
		},
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	require.NoError(t, validRequest().Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*SaveBillRequest)
		wantErr error
	}{
		{"blank invoice number", func(r *SaveBillRequest) { r.InvoiceNumber = "  " }, ErrInvalidInvoiceNumber},
		{"blank customer name", func(r *SaveBillRequest) { r.CustomerName = "" }, ErrInvalidCustomerName},
		{"no items", func(r *SaveBillRequest) { r.Items = nil }, ErrEmptyItems},
		{"blank description", func(r *SaveBillRequest) { r.Items[0].Description = "   " }, ErrInvalidItemDescription},
		{"negative qty", func(r *SaveBillRequest) { r.Items[0].Qty = -1 }, ErrInvalidQuantity},
		{"negative rate", func(r *SaveBillRequest) { r.Items[0].Rate = -0.01 }, ErrInvalidRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			assert.ErrorIs(t, req.Validate(), tc.wantErr)
		})
	}
}

func TestItemAmountRoundsToTwoDecimals(t *testing.T) {
	assert.Equal(t, 301.0, ItemAmount(2, 150.50))
	assert.Equal(t, 0.0, ItemAmount(0, 150.50))
	// 3 * 33.335 = 100.005, rounds half away from zero.
	assert.Equal(t, 100.01, ItemAmount(3, 33.335))
}

func TestBuildItemsAssignsSerialNumbers(t *testing.T) {
	items := BuildItems("00001", []LineItemInput{
		{Description: "  Passport photos ", Qty: 2, Rate: 150.50},
		{Description: "Lamination", Qty: 1, Rate: 80},
	})
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].SNo)
	assert.Equal(t, 2, items[1].SNo)
	assert.Equal(t, "Passport photos", items[0].Description)
	assert.Equal(t, "00001", items[1].InvoiceNumber)
	assert.Equal(t, 381.0, Total(items))
}
