package domain

import (
	"time"
)

// LineItem is one row of a bill. SNo is 1-based and contiguous; Amount
// is always derived from Qty and Rate, never taken from the caller.
type LineItem struct {
	InvoiceNumber string  `gorm:"primaryKey;column:invoice_number" json:"-"`
	SNo           int     `gorm:"primaryKey;column:sno" json:"sno"`
	Description   string  `gorm:"type:text;not null" json:"description"`
	Qty           float64 `gorm:"not null" json:"qty"`
	Rate          float64 `gorm:"not null" json:"rate"`
	Amount        float64 `gorm:"not null" json:"amount"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "bill_line_items" }

// Bill is the aggregate root, keyed by invoice number. Saving an
// existing key replaces the whole record, line items included.
//
// The JSON field names are the persisted record layout the original
// dataset uses, so an exported snapshot stays readable by it.
type Bill struct {
	InvoiceNumber string     `gorm:"primaryKey;column:invoice_number" json:"invoiceNumber"`
	Date          string     `gorm:"type:text;not null" json:"date"`
	DateSort      string     `gorm:"column:date_sort;type:text;not null;index" json:"-"`
	CustomerName  string     `gorm:"type:text;not null;index" json:"customerName"`
	CustomerPhone *string    `gorm:"type:text" json:"customerPhone"`
	Items         []LineItem `gorm:"foreignKey:InvoiceNumber;references:InvoiceNumber" json:"items"`
	TotalAmount   float64    `gorm:"not null" json:"totalAmount"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"createdAt"`

	// Placeholders for the external drive-sync collaborator. Inert:
	// nothing in this codebase sets them past their defaults.
	SyncedToGoogleDrive bool    `gorm:"not null;default:false" json:"syncedToGoogleDrive"`
	GoogleDriveFileID   *string `gorm:"type:text" json:"googleDriveFileId"`
}

// TableName sets the database table name.
func (Bill) TableName() string { return "bills" }
