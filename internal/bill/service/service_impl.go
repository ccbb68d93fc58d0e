package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	"github.com/vamsi4727/bhanus-studio-billing/internal/billdate"
	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var billsSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "billing_bills_saved_total",
	Help: "Bills persisted through the store, overwrites included.",
})

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("bill.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Save validates and finalizes the request, then upserts by invoice
// number. Every derived field (line amounts, total, date sort key) is
// recomputed here; caller-supplied derived values are never trusted.
func (s *Service) Save(ctx context.Context, req domain.SaveBillRequest) (domain.Bill, error) {
	if err := req.Validate(); err != nil {
		return domain.Bill{}, err
	}

	invoiceNumber := strings.TrimSpace(req.InvoiceNumber)

	date := billdate.Today(s.clock)
	if raw := strings.TrimSpace(req.Date); raw != "" {
		parsed, err := billdate.Parse(raw)
		if err != nil {
			return domain.Bill{}, err
		}
		date = parsed
	}

	items := domain.BuildItems(invoiceNumber, req.Items)

	bill := domain.Bill{
		InvoiceNumber: invoiceNumber,
		Date:          date.String(),
		DateSort:      date.SortKey(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: normalizePhone(req.CustomerPhone),
		Items:         items,
		TotalAmount:   domain.Total(items),
		CreatedAt:     billdate.Timestamp(s.clock),
	}

	if err := s.repo.Upsert(ctx, s.db, &bill); err != nil {
		var storageErr *domain.StorageError
		if errors.As(err, &storageErr) {
			return domain.Bill{}, err
		}
		return domain.Bill{}, domain.NewStorageError("save", err)
	}

	billsSavedTotal.Inc()
	s.log.Info("bill saved",
		zap.String("invoice_number", bill.InvoiceNumber),
		zap.Float64("total_amount", bill.TotalAmount),
		zap.Int("items", len(bill.Items)),
	)

	return bill, nil
}

// GetByInvoiceNumber looks up a single bill. A missing record surfaces
// as ErrNotFound, which callers treat as a normal empty outcome.
func (s *Service) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (domain.Bill, error) {
	bill, err := s.repo.FindByInvoiceNumber(ctx, s.db, strings.TrimSpace(invoiceNumber))
	if err != nil {
		return domain.Bill{}, domain.NewStorageError("get", err)
	}
	if bill == nil {
		return domain.Bill{}, domain.ErrNotFound
	}
	return *bill, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Bill, error) {
	bills, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, domain.NewStorageError("list", err)
	}
	return bills, nil
}

func (s *Service) ListSorted(ctx context.Context) ([]domain.Bill, error) {
	bills, err := s.repo.ListSorted(ctx, s.db)
	if err != nil {
		return nil, domain.NewStorageError("list", err)
	}
	return bills, nil
}

// Latest returns the most recently created bill, nil when the store is
// empty. Consistent with ListSorted: it is always that listing's head.
func (s *Service) Latest(ctx context.Context) (*domain.Bill, error) {
	bill, err := s.repo.Latest(ctx, s.db)
	if err != nil {
		return nil, domain.NewStorageError("latest", err)
	}
	return bill, nil
}

// SearchByCustomerName matches case-insensitive substrings. An empty
// term matches every bill; skipping blank searches is the caller's
// concern, not the store's.
func (s *Service) SearchByCustomerName(ctx context.Context, term string) ([]domain.Bill, error) {
	bills, err := s.repo.SearchByCustomerName(ctx, s.db, strings.TrimSpace(term))
	if err != nil {
		return nil, domain.NewStorageError("search", err)
	}
	return bills, nil
}

// FilterByDateRange returns bills whose calendar date falls inside the
// inclusive [from, to] range. The bill date is compared, not createdAt.
func (s *Service) FilterByDateRange(ctx context.Context, req domain.DateRangeRequest) ([]domain.Bill, error) {
	from, err := billdate.Parse(req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", domain.ErrInvalidDateRange, err)
	}
	to, err := billdate.Parse(req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %v", domain.ErrInvalidDateRange, err)
	}
	if from.After(to) {
		return nil, domain.ErrInvalidDateRange
	}

	bills, err := s.repo.FilterByDateRange(ctx, s.db, from.SortKey(), to.SortKey())
	if err != nil {
		return nil, domain.NewStorageError("filter", err)
	}
	return bills, nil
}

func normalizePhone(phone *string) *string {
	if phone == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
