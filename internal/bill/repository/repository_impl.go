package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	pkgdb "github.com/vamsi4727/bhanus-studio-billing/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Upsert writes the bill and its line items as one transaction. A
// pre-existing record under the same invoice number is replaced whole:
// old line items are dropped, never merged.
func (r *repo) Upsert(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_number = ?", bill.InvoiceNumber).
			Delete(&domain.LineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Items").
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(bill).Error; err != nil {
			return err
		}
		if len(bill.Items) == 0 {
			return nil
		}
		if err := tx.Create(&bill.Items).Error; err != nil {
			// Two writers racing on the same invoice number both pass the
			// delete above; the loser trips the (invoice_number, sno) key.
			if pkgdb.IsDuplicateKeyErr(err) {
				return domain.NewStorageError("save_conflict", err)
			}
			return err
		}
		return nil
	})
}

func (r *repo) FindByInvoiceNumber(ctx context.Context, db *gorm.DB, invoiceNumber string) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		First(&bill, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Bill, error) {
	var bills []domain.Bill
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// ListSorted orders by creation time, newest first. The invoice number
// breaks ties so the order is deterministic for a given collection.
func (r *repo) ListSorted(ctx context.Context, db *gorm.DB) ([]domain.Bill, error) {
	var bills []domain.Bill
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		Order("created_at desc, invoice_number desc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) Latest(ctx context.Context, db *gorm.DB) (*domain.Bill, error) {
	var bills []domain.Bill
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		Order("created_at desc, invoice_number desc").
		Limit(1).
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, nil
	}
	return &bills[0], nil
}

func (r *repo) SearchByCustomerName(ctx context.Context, db *gorm.DB, term string) ([]domain.Bill, error) {
	var bills []domain.Bill
	pattern := "%" + strings.ToLower(term) + "%"
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("LOWER(customer_name) LIKE ?", pattern).
		Order("created_at desc, invoice_number desc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) FilterByDateRange(ctx context.Context, db *gorm.DB, fromKey, toKey string) ([]domain.Bill, error) {
	var bills []domain.Bill
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("date_sort >= ? AND date_sort <= ?", fromKey, toKey).
		Order("date_sort asc, invoice_number asc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func orderItems(tx *gorm.DB) *gorm.DB {
	return tx.Order("sno asc")
}
