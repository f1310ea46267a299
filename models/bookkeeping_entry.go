package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Entry types for the EÜR ledger.
const (
	EntryIncome  = "income"
	EntryExpense = "expense"
)

// BookkeepingEntry is one row of the EÜR income/expense ledger. Entries
// derived from an invoice carry its id; manual entries have InvoiceID nil.
type BookkeepingEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date        time.Time       `gorm:"index;not null" json:"date"`
	Type        string          `gorm:"not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `json:"description"`

	// JSON array of receipt file names.
	ReceiptFiles string `gorm:"type:text" json:"receiptFiles,omitempty"`

	CategoryID uint      `gorm:"index;not null" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	InvoiceID *uint `gorm:"index" json:"invoiceId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReceiptFileList decodes the stored JSON receipt names. Malformed data
// reads as no files.
func (e *BookkeepingEntry) ReceiptFileList() []string {
	if e.ReceiptFiles == "" {
		return nil
	}
	var files []string
	if err := json.Unmarshal([]byte(e.ReceiptFiles), &files); err != nil {
		return nil
	}
	return files
}

// SetReceiptFiles stores the receipt names as JSON, clearing the column
// when the list is empty.
func (e *BookkeepingEntry) SetReceiptFiles(files []string) {
	if len(files) == 0 {
		e.ReceiptFiles = ""
		return
	}
	data, err := json.Marshal(files)
	if err != nil {
		return
	}
	e.ReceiptFiles = string(data)
}
