package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang/snappy"
	billdomain "github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	billrepository "github.com/vamsi4727/bhanus-studio-billing/internal/bill/repository"
	billservice "github.com/vamsi4727/bhanus-studio-billing/internal/bill/service"
	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupBackupTest(t *testing.T) (*Service, billdomain.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&billdomain.Bill{}, &billdomain.LineItem{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC))
	bills := billservice.New(billservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: fake,
		Repo:  billrepository.Provide(),
	})
	svc := &Service{
		log:   zap.NewNop(),
		clock: fake,
		bills: bills,
	}
	return svc, bills
}

func saveBill(t *testing.T, bills billdomain.Service, invoiceNumber, customer string, rate float64) {
	t.Helper()
	_, err := bills.Save(context.Background(), billdomain.SaveBillRequest{
		InvoiceNumber: invoiceNumber,
		Date:          "15/06/2024",
		CustomerName:  customer,
		Items: []billdomain.LineItemInput{
			{Description: "Passport photos", Qty: 2, Rate: rate},
		},
	})
	if err != nil {
		t.Fatalf("save bill %s: %v", invoiceNumber, err)
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	svc, bills := setupBackupTest(t)
	ctx := context.Background()

	saveBill(t, bills, "00001", "Ravi Kumar", 150.50)
	saveBill(t, bills, "00002", "Priya Sharma", 80)

	id, data, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if id == "" {
		t.Fatal("expected a snapshot id")
	}

	// Restore into a fresh store.
	restoreSvc, restoreBills := setupBackupTest(t)
	result, err := restoreSvc.Restore(ctx, data)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if result.Restored != 2 {
		t.Fatalf("expected 2 restored, got %d", result.Restored)
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("expected no skips, got %v", result.Skipped)
	}

	bill, err := restoreBills.GetByInvoiceNumber(ctx, "00001")
	if err != nil {
		t.Fatalf("get restored bill: %v", err)
	}
	if bill.CustomerName != "Ravi Kumar" {
		t.Fatalf("unexpected customer: %q", bill.CustomerName)
	}
	// Amounts come from the save path, not the file.
	if bill.TotalAmount != 301 {
		t.Fatalf("expected recomputed total 301, got %v", bill.TotalAmount)
	}
}

func TestRestoreRejectsCorruptPayload(t *testing.T) {
	svc, _ := setupBackupTest(t)

	if _, err := svc.Restore(context.Background(), []byte("not a snapshot")); err != ErrCorruptSnapshot {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestRestoreSkipsInvalidBills(t *testing.T) {
	svc, bills := setupBackupTest(t)
	ctx := context.Background()

	good := billdomain.Bill{
		InvoiceNumber: "00001",
		Date:          "15/06/2024",
		CustomerName:  "Ravi Kumar",
		Items: []billdomain.LineItem{
			{Description: "Passport photos", Qty: 2, Rate: 150.50},
		},
	}
	// No items, fails validation on replay.
	bad := billdomain.Bill{
		InvoiceNumber: "00099",
		Date:          "15/06/2024",
		CustomerName:  "Priya Sharma",
	}

	raw, err := json.Marshal(snapshot{ID: "test", Bills: []billdomain.Bill{good, bad}})
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	result, err := svc.Restore(ctx, snappy.Encode(nil, raw))
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if result.Restored != 1 {
		t.Fatalf("expected 1 restored, got %d", result.Restored)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "00099" {
		t.Fatalf("expected 00099 skipped, got %v", result.Skipped)
	}
	if _, err := bills.GetByInvoiceNumber(ctx, "00099"); err != billdomain.ErrNotFound {
		t.Fatalf("expected skipped bill absent, got %v", err)
	}
}
