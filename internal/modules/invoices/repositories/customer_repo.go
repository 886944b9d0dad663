package repositories

import (
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/models"
	"gorm.io/gorm"
)

// CustomerRepo interface defines customer operations
type CustomerRepo interface {
	FindOrCreate(customer *models.Customer) error
}

type customerRepo struct {
	db *gorm.DB
}

// NewCustomerRepo creates a new customer repository
func NewCustomerRepo(db *gorm.DB) CustomerRepo {
	return &customerRepo{db: db}
}

// FindOrCreate upserts the customer by name. The core runs with one
// default customer per tenant.
func (r *customerRepo) FindOrCreate(customer *models.Customer) error {
	return r.db.Where("name = ?", customer.Name).FirstOrCreate(customer).Error
}
