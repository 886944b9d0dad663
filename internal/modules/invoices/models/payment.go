package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is recorded only for invoices normalized with status paid.
type Payment struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index:idx_payments_invoice" json:"invoice_id"`
	Amount      float64   `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	PaymentDate time.Time `gorm:"not null" json:"payment_date"`
	Method      string    `gorm:"type:varchar(50);not null;default:'bank_transfer'" json:"method"`
	Reference   string    `gorm:"type:varchar(255)" json:"reference,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate sets UUID before creating
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
