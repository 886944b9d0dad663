package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LineItem belongs to exactly one invoice. Every invoice carries at
// least one; the normalizer synthesizes a covering item when the source
// document has none.
type LineItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index:idx_line_items_invoice" json:"invoice_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Quantity    float64   `gorm:"type:decimal(15,3);not null;default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(15,2);not null;default:0" json:"unit_price"`
	Amount      float64   `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Category    string    `gorm:"type:varchar(100)" json:"category,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (LineItem) TableName() string {
	return "line_items"
}

// BeforeCreate sets UUID before creating
func (l *LineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
