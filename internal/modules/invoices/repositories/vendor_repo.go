package repositories

import (
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/models"
	"gorm.io/gorm"
)

// VendorRepo interface defines vendor operations
type VendorRepo interface {
	Create(vendor *models.Vendor) error
	FindByName(name string) (*models.Vendor, error)
	GetByID(id string) (*models.Vendor, error)
}

type vendorRepo struct {
	db *gorm.DB
}

// NewVendorRepo creates a new vendor repository
func NewVendorRepo(db *gorm.DB) VendorRepo {
	return &vendorRepo{db: db}
}

// Create inserts a new vendor
func (r *vendorRepo) Create(vendor *models.Vendor) error {
	return r.db.Create(vendor).Error
}

// FindByName retrieves a vendor by exact name match
func (r *vendorRepo) FindByName(name string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Where("name = ?", name).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// GetByID retrieves a vendor by ID
func (r *vendorRepo) GetByID(id string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Where("id = ?", id).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}
