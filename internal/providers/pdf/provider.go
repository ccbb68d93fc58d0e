// Package pdf renders bills as printable PDF documents.
package pdf

import (
	"context"
	"io"

	"github.com/gosimple/slug"
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
)

// StudioProfile is the letterhead printed on every bill. It comes from
// the settings store and every field may be blank.
type StudioProfile struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

type Provider interface {
	GenerateBill(ctx context.Context, bill domain.Bill, profile StudioProfile) (io.Reader, error)
}

// Filename names the PDF download for a bill.
func Filename(bill domain.Bill) string {
	name := slug.Make(bill.CustomerName)
	if name == "" {
		return bill.InvoiceNumber + ".pdf"
	}
	return bill.InvoiceNumber + "-" + name + ".pdf"
}
