package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor is the supplier side of an invoice. Name is soft-unique: the
// normalizer resolves vendors by exact name match but the schema does
// not enforce uniqueness.
type Vendor struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;index:idx_vendors_name" json:"name"`
	Email       string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	TaxID       string    `gorm:"type:varchar(100)" json:"tax_id,omitempty"`
	PartyNumber string    `gorm:"type:varchar(100)" json:"party_number,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Vendor) TableName() string {
	return "vendors"
}

// BeforeCreate sets UUID before creating
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
