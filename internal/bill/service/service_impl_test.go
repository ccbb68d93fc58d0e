package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/repository"
	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupBillTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Bill{}, &domain.LineItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, c clock.Clock) domain.Service {
	t.Helper()
	return &Service{
		db:    db,
		log:   zap.NewNop(),
		clock: c,
		repo:  repository.Provide(),
	}
}

func phone(v string) *string { return &v }

func TestSaveComputesDerivedFields(t *testing.T) {
	db := setupBillTestDB(t)
	fake := clock.NewFakeClock(time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC))
	svc := newTestService(t, db, fake)

	saved, err := svc.Save(context.Background(), domain.SaveBillRequest{
		InvoiceNumber: "00001",
		CustomerName:  "  Ravi Kumar  ",
		CustomerPhone: phone(" 9876543210 "),
		Items: []domain.LineItemInput{
			{Description: "Photo frame", Qty: 3, Rate: 150.50},
			{Description: "Album", Qty: 0, Rate: 500},
			{Description: "Print", Qty: 1, Rate: 100.25},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if saved.CustomerName != "Ravi Kumar" {
		t.Fatalf("expected trimmed customer name, got %q", saved.CustomerName)
	}
	if saved.CustomerPhone == nil || *saved.CustomerPhone != "9876543210" {
		t.Fatalf("expected trimmed phone, got %v", saved.CustomerPhone)
	}
	if saved.Items[0].Amount != 451.50 {
		t.Fatalf("expected amount 451.50, got %v", saved.Items[0].Amount)
	}
	if saved.Items[1].Amount != 0 {
		t.Fatalf("expected zero amount for zero qty, got %v", saved.Items[1].Amount)
	}
	if saved.TotalAmount != 551.75 {
		t.Fatalf("expected total 551.75, got %v", saved.TotalAmount)
	}
	for i, item := range saved.Items {
		if item.SNo != i+1 {
			t.Fatalf("expected contiguous serial numbers, item %d has sno %d", i, item.SNo)
		}
	}
	// Date defaults to the clock's calendar date in the reference zone.
	if saved.Date != "15/06/2024" {
		t.Fatalf("expected default date 15/06/2024, got %q", saved.Date)
	}
	if saved.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be assigned")
	}
	if saved.SyncedToGoogleDrive || saved.GoogleDriveFileID != nil {
		t.Fatalf("expected inert sync placeholders")
	}
}

func TestSaveRejectsCallerSuppliedAmounts(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))

	// The request shape carries no amount or total fields at all; the
	// persisted record must still come back fully derived.
	saved, err := svc.Save(context.Background(), domain.SaveBillRequest{
		InvoiceNumber: "00002",
		Date:          "01/02/2024",
		CustomerName:  "Anita",
		Items:         []domain.LineItemInput{{Description: "Passport photos", Qty: 4, Rate: 25}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Items[0].Amount != 100 || saved.TotalAmount != 100 {
		t.Fatalf("expected derived amount/total 100, got %v/%v", saved.Items[0].Amount, saved.TotalAmount)
	}
}

func TestSaveUpsertReplacesWholeRecord(t *testing.T) {
	db := setupBillTestDB(t)
	fake := clock.NewFakeClock(time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC))
	svc := newTestService(t, db, fake)
	ctx := context.Background()

	if _, err := svc.Save(ctx, domain.SaveBillRequest{
		InvoiceNumber: "00005",
		Date:          "01/03/2024",
		CustomerName:  "Suresh",
		Items: []domain.LineItemInput{
			{Description: "Frame", Qty: 2, Rate: 300},
			{Description: "Album", Qty: 1, Rate: 1200},
		},
	}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	fake.Advance(time.Hour)
	if _, err := svc.Save(ctx, domain.SaveBillRequest{
		InvoiceNumber: "00005",
		Date:          "02/03/2024",
		CustomerName:  "Suresh Babu",
		Items:         []domain.LineItemInput{{Description: "Print", Qty: 1, Rate: 50}},
	}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := svc.GetByInvoiceNumber(ctx, "00005")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerName != "Suresh Babu" || got.Date != "02/03/2024" {
		t.Fatalf("expected replaced record, got %+v", got)
	}
	if len(got.Items) != 1 || got.TotalAmount != 50 {
		t.Fatalf("expected old items dropped, got %d items total %v", len(got.Items), got.TotalAmount)
	}

	var itemCount int64
	if err := db.Model(&domain.LineItem{}).Where("invoice_number = ?", "00005").Count(&itemCount).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if itemCount != 1 {
		t.Fatalf("expected 1 persisted line item, got %d", itemCount)
	}
}

func TestSaveValidationRejectsBeforePersisting(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.SaveBillRequest
		want error
	}{
		{
			name: "missing invoice number",
			req: domain.SaveBillRequest{
				CustomerName: "Ravi",
				Items:        []domain.LineItemInput{{Description: "Frame", Qty: 1, Rate: 10}},
			},
			want: domain.ErrInvalidInvoiceNumber,
		},
		{
			name: "missing customer name",
			req: domain.SaveBillRequest{
				InvoiceNumber: "00010",
				CustomerName:  "   ",
				Items:         []domain.LineItemInput{{Description: "Frame", Qty: 1, Rate: 10}},
			},
			want: domain.ErrInvalidCustomerName,
		},
		{
			name: "empty item list",
			req: domain.SaveBillRequest{
				InvoiceNumber: "00010",
				CustomerName:  "Ravi",
			},
			want: domain.ErrEmptyItems,
		},
		{
			name: "blank item description",
			req: domain.SaveBillRequest{
				InvoiceNumber: "00010",
				CustomerName:  "Ravi",
				Items:         []domain.LineItemInput{{Description: " ", Qty: 1, Rate: 10}},
			},
			want: domain.ErrInvalidItemDescription,
		},
		{
			name: "negative quantity",
			req: domain.SaveBillRequest{
				InvoiceNumber: "00010",
				CustomerName:  "Ravi",
				Items:         []domain.LineItemInput{{Description: "Frame", Qty: -1, Rate: 10}},
			},
			want: domain.ErrInvalidQuantity,
		},
		{
			name: "negative rate",
			req: domain.SaveBillRequest{
				InvoiceNumber: "00010",
				CustomerName:  "Ravi",
				Items:         []domain.LineItemInput{{Description: "Frame", Qty: 1, Rate: -10}},
			},
			want: domain.ErrInvalidRate,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Save(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Malformed date is rejected too, and nothing was ever persisted.
	if _, err := svc.Save(ctx, domain.SaveBillRequest{
		InvoiceNumber: "00010",
		Date:          "31/02/2024",
		CustomerName:  "Ravi",
		Items:         []domain.LineItemInput{{Description: "Frame", Qty: 1, Rate: 10}},
	}); err == nil {
		t.Fatalf("expected error for impossible date")
	}

	var count int64
	if err := db.Model(&domain.Bill{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no bills persisted, got %d", count)
	}
}

func TestGetByInvoiceNumberReturnsExactMatch(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	for i, name := range []string{"Ravi", "Anita"} {
		if _, err := svc.Save(ctx, domain.SaveBillRequest{
			InvoiceNumber: fmt.Sprintf("%05d", i+1),
			Date:          "01/06/2024",
			CustomerName:  name,
			Items:         []domain.LineItemInput{{Description: "Frame", Qty: 1, Rate: 100}},
		}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	got, err := svc.GetByInvoiceNumber(ctx, "00002")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.InvoiceNumber != "00002" || got.CustomerName != "Anita" {
		t.Fatalf("expected exact match, got %+v", got)
	}

	if _, err := svc.GetByInvoiceNumber(ctx, "99999"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent key, got %v", err)
	}
}

func TestListSortedAndLatest(t *testing.T) {
	db := setupBillTestDB(t)
	fake := clock.NewFakeClock(time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC))
	svc := newTestService(t, db, fake)
	ctx := context.Background()

	if latest, err := svc.Latest(ctx); err != nil || latest != nil {
		t.Fatalf("expected nil latest on empty store, got %v, %v", latest, err)
	}

	for i := 1; i <= 3; i++ {
		if _, err := svc.Save(ctx, domain.SaveBillRequest{
			InvoiceNumber: fmt.Sprintf("%05d", i),
			Date:          "01/01/2024",
			CustomerName:  "Customer",
			Items:         []domain.LineItemInput{{Description: "Frame", Qty: 1, Rate: 10}},
		}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		fake.Advance(time.Minute)
	}

	sorted, err := svc.ListSorted(ctx)
	if err != nil {
		t.Fatalf("list sorted: %v", err)
	}
	if len(sorted) != 3 {
		t.Fatalf("expected 3 bills, got %d", len(sorted))
	}
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].CreatedAt.Before(sorted[i+1].CreatedAt) {
			t.Fatalf("expected createdAt descending at position %d", i)
		}
	}
	if sorted[0].InvoiceNumber != "00003" {
		t.Fatalf("expected newest bill first, got %s", sorted[0].InvoiceNumber)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(sorted) {
		t.Fatalf("sorted listing must be a permutation of the full scan")
	}
	seen := map[string]bool{}
	for _, b := range all {
		seen[b.InvoiceNumber] = true
	}
	for _, b := range sorted {
		if !seen[b.InvoiceNumber] {
			t.Fatalf("bill %s missing from full scan", b.InvoiceNumber)
		}
	}

	latest, err := svc.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.InvoiceNumber != sorted[0].InvoiceNumber {
		t.Fatalf("latest must equal head of sorted listing, got %v", latest)
	}
}

func TestSearchByCustomerName(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	names := map[string]string{"00001": "Ravi Kumar", "00002": "Anita Sharma"}
	for inv, name := range names {
		if _, err := svc.Save(ctx, domain.SaveBillRequest{
			InvoiceNumber: inv,
			Date:          "01/06/2024",
			CustomerName:  name,
			Items:         []domain.LineItemInput{{Description: "Frame", Qty: 1, Rate: 100}},
		}); err != nil {
			t.Fatalf("save %s: %v", inv, err)
		}
	}

	for _, term := range []string{"ravi", "KUMAR", "avi kum"} {
		got, err := svc.SearchByCustomerName(ctx, term)
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if len(got) != 1 || got[0].CustomerName != "Ravi Kumar" {
			t.Fatalf("search %q: expected Ravi Kumar, got %+v", term, got)
		}
	}

	got, err := svc.SearchByCustomerName(ctx, "xyz")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}

	// The empty string is a substring of everything.
	got, err = svc.SearchByCustomerName(ctx, "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected empty term to match all bills, got %d", len(got))
	}
}

func TestFilterByDateRange(t *testing.T) {
	db := setupBillTestDB(t)
	svc := newTestService(t, db, clock.NewFakeClock(time.Now()))
	ctx := context.Background()

	dates := map[string]string{"00001": "01/01/2024", "00002": "15/06/2024", "00003": "31/12/2024"}
	for inv, date := range dates {
		if _, err := svc.Save(ctx, domain.SaveBillRequest{
			InvoiceNumber: inv,
			Date:          date,
			CustomerName:  "Customer",
			Items:         []domain.LineItemInput{{Description: "Frame", Qty: 1, Rate: 100}},
		}); err != nil {
			t.Fatalf("save %s: %v", inv, err)
		}
	}

	got, err := svc.FilterByDateRange(ctx, domain.DateRangeRequest{From: "01/06/2024", To: "01/07/2024"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 || got[0].Date != "15/06/2024" {
		t.Fatalf("expected only the June bill, got %+v", got)
	}

	// Bounds are inclusive.
	got, err = svc.FilterByDateRange(ctx, domain.DateRangeRequest{From: "15/06/2024", To: "15/06/2024"})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected inclusive bounds to match, got %d", len(got))
	}

	if _, err := svc.FilterByDateRange(ctx, domain.DateRangeRequest{From: "01/07/2024", To: "01/06/2024"}); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected inverted range rejection, got %v", err)
	}
	if _, err := svc.FilterByDateRange(ctx, domain.DateRangeRequest{From: "2024-06-01", To: "01/07/2024"}); !errors.Is(err, domain.ErrInvalidDateRange) {
		t.Fatalf("expected malformed bound rejection, got %v", err)
	}
}
