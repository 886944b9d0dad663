package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice status values
const (
	StatusDraft   = "draft"
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

// Invoice is the canonical record produced by the extraction normalizer.
// Created once per source document; read-only for analytics and chat.
type Invoice struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_invoices_number" json:"invoice_number"`
	VendorID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_invoices_vendor" json:"vendor_id"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null" json:"customer_id"`
	Date          time.Time  `gorm:"not null;index:idx_invoices_date" json:"date"`
	DueDate       time.Time  `gorm:"not null;index:idx_invoices_due_date" json:"due_date"`
	DeliveryDate  *time.Time `json:"delivery_date,omitempty"`
	TotalAmount   float64    `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	TaxAmount     float64    `gorm:"type:decimal(15,2);not null;default:0" json:"tax_amount"`
	NetAmount     float64    `gorm:"type:decimal(15,2);not null;default:0" json:"net_amount"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_invoices_status" json:"status"`
	Category      string     `gorm:"type:varchar(100);not null;default:'Uncategorized'" json:"category"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`

	// Provenance and data-quality metadata from the extraction pipeline
	DocumentID         string         `gorm:"type:varchar(255);not null;index:idx_invoices_document" json:"document_id"`
	FileName           string         `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	FilePath           string         `gorm:"type:text" json:"file_path,omitempty"`
	FileType           string         `gorm:"type:varchar(50)" json:"file_type,omitempty"`
	OrganizationID     string         `gorm:"type:varchar(255);index:idx_invoices_organization" json:"organization_id,omitempty"`
	DepartmentID       string         `gorm:"type:varchar(255);index:idx_invoices_department" json:"department_id,omitempty"`
	UploadedByID       string         `gorm:"type:varchar(255)" json:"uploaded_by_id,omitempty"`
	TemplateID         string         `gorm:"type:varchar(255)" json:"template_id,omitempty"`
	TemplateName       string         `gorm:"type:varchar(255)" json:"template_name,omitempty"`
	ConfidenceScore    float64        `gorm:"type:float;not null;default:0.5" json:"confidence_score"`
	IsValidatedByHuman bool           `gorm:"not null;default:false" json:"is_validated_by_human"`
	SourceData         datatypes.JSON `gorm:"type:jsonb" json:"-"` // raw extraction payload

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Vendor    Vendor     `gorm:"foreignKey:VendorID;references:ID" json:"-"`
	Customer  Customer   `gorm:"foreignKey:CustomerID;references:ID" json:"-"`
	LineItems []LineItem `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// TableName specifies the table name
func (Invoice) TableName() string {
	return "invoices"
}

// BeforeCreate sets UUID before creating
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
