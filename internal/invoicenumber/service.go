// Package invoicenumber suggests the next invoice number for a new
// bill. The suggestion is advisory: numbers are not reserved, and the
// store's upsert-by-key behavior remains the uniqueness authority.
package invoicenumber

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	billdomain "github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// First is the canonical number for an empty store, and the fallback
// whenever the latest bill cannot be read.
const First = "00001"

var (
	exactFormat  = regexp.MustCompile(`^(\d{5})$`)
	legacyFormat = regexp.MustCompile(`INV-(\d+)`)
	anyDigits    = regexp.MustCompile(`(\d+)`)
)

var fallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "billing_invoice_number_fallbacks_total",
	Help: "Times the allocator degraded to the first invoice number because the store could not be read.",
})

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo billdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo billdomain.Repository
}

func New(p Params) *Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("invoicenumber.service"),
		repo: p.Repo,
	}
}

// Next returns the suggested number for a new bill: the numeric part of
// the most recently created bill's invoice number, plus one, zero-padded
// to five digits. Never fails: a store read error degrades to First so
// bill creation is never blocked by the numbering hint. Two concurrent
// form sessions can therefore be offered the same suggestion; the
// store's overwrite-by-key save makes that self-correcting.
func (s *Service) Next(ctx context.Context) string {
	latest, err := s.repo.Latest(ctx, s.db)
	if err != nil {
		fallbacksTotal.Inc()
		s.log.Warn("falling back to first invoice number", zap.Error(err))
		return First
	}
	if latest == nil || strings.TrimSpace(latest.InvoiceNumber) == "" {
		return First
	}
	return Format(Extract(latest.InvoiceNumber) + 1)
}

// Extract pulls the numeric component out of an invoice number. Both
// historical formats are recognized: the current five-digit form
// ("00001") and the legacy prefixed form ("INV-0001"). Anything else
// falls back to the first run of digits, or zero when there are none.
func Extract(invoiceNumber string) int {
	if m := exactFormat.FindStringSubmatch(invoiceNumber); m != nil {
		return mustAtoi(m[1])
	}
	if m := legacyFormat.FindStringSubmatch(invoiceNumber); m != nil {
		return mustAtoi(m[1])
	}
	if m := anyDigits.FindStringSubmatch(invoiceNumber); m != nil {
		return mustAtoi(m[1])
	}
	return 0
}

// Format zero-pads to five digits; larger values widen naturally.
func Format(n int) string {
	return fmt.Sprintf("%05d", n)
}

func mustAtoi(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
