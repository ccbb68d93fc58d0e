package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByInvoiceNumber(ctx context.Context, db *gorm.DB, invoiceNumber string) (*Bill, error)
	List(ctx context.Context, db *gorm.DB) ([]Bill, error)
	ListSorted(ctx context.Context, db *gorm.DB) ([]Bill, error)
	Latest(ctx context.Context, db *gorm.DB) (*Bill, error)
	SearchByCustomerName(ctx context.Context, db *gorm.DB, term string) ([]Bill, error)
	FilterByDateRange(ctx context.Context, db *gorm.DB, fromKey, toKey string) ([]Bill, error)
}
