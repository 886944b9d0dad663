package repositories

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/buchhaltung/invoice-analytics-be/internal/core/analytics"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/models"
	"gorm.io/gorm"
)

// ListParams filters and pages the invoice listing.
type ListParams struct {
	Search string
	Status string
	Sort   string
	Order  string
	Limit  int
	Offset int
}

// InvoiceRepo interface defines invoice operations
type InvoiceRepo interface {
	// CreateWithItems persists an invoice together with its line items
	// and optional payment as one atomic unit.
	CreateWithItems(invoice *models.Invoice, items []models.LineItem, payment *models.Payment) error
	ExistsByDocument(documentID, invoiceNumber string) (bool, error)
	List(params ListParams) ([]models.Invoice, int64, error)
	ListFiles(departmentID, organizationID string) ([]models.Invoice, error)
	Snapshot() ([]analytics.InvoiceRow, error)
	MarkOverdue(now time.Time) (int64, error)
	ExecRaw(query string, args ...interface{}) ([]map[string]interface{}, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

// NewInvoiceRepo creates a new invoice repository
func NewInvoiceRepo(db *gorm.DB) InvoiceRepo {
	return &invoiceRepo{db: db}
}

// CreateWithItems writes invoice, line items and payment in a single
// transaction so a concurrent read never observes an invoice without
// its line items.
func (r *invoiceRepo) CreateWithItems(invoice *models.Invoice, items []models.LineItem, payment *models.Payment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("failed to create line item: %w", err)
			}
		}
		if payment != nil {
			payment.InvoiceID = invoice.ID
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("failed to create payment: %w", err)
			}
		}
		return nil
	})
}

// ExistsByDocument reports whether the dedup key (documentId, invoice
// number) is already present in the store.
func (r *invoiceRepo) ExistsByDocument(documentID, invoiceNumber string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Invoice{}).
		Where("document_id = ? AND invoice_number = ?", documentID, invoiceNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Sortable columns for the invoice listing. Anything else falls back to
// the invoice date.
var sortColumns = map[string]string{
	"date":          "invoices.date",
	"due_date":      "invoices.due_date",
	"amount":        "invoices.total_amount",
	"status":        "invoices.status",
	"invoiceNumber": "invoices.invoice_number",
	"vendor":        "vendors.name",
}

// List returns a filtered, sorted, paginated slice of invoices with
// vendors preloaded, plus the total match count.
func (r *invoiceRepo) List(params ListParams) ([]models.Invoice, int64, error) {
	query := r.db.Model(&models.Invoice{}).
		Joins("JOIN vendors ON vendors.id = invoices.vendor_id")

	if params.Status != "" && params.Status != "all" {
		query = query.Where("invoices.status = ?", params.Status)
	}
	if params.Search != "" {
		needle := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(invoices.invoice_number) LIKE ? OR LOWER(vendors.name) LIKE ?", needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	column, ok := sortColumns[params.Sort]
	if !ok {
		column = sortColumns["date"]
	}
	direction := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		direction = "ASC"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var invoices []models.Invoice
	err := query.Preload("Vendor").
		Order(column + " " + direction).
		Limit(limit).
		Offset(params.Offset).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, total, nil
}

// ListFiles returns invoices that carry a source file, newest first,
// optionally filtered by department or organization.
func (r *invoiceRepo) ListFiles(departmentID, organizationID string) ([]models.Invoice, error) {
	query := r.db.Model(&models.Invoice{}).
		Where("file_path <> ''").
		Preload("Vendor").
		Order("date DESC")

	if departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if organizationID != "" {
		query = query.Where("organization_id = ?", organizationID)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return invoices, nil
}

// Snapshot loads the read-side aggregation snapshot: every invoice
// joined to its vendor name plus the line-item count.
func (r *invoiceRepo) Snapshot() ([]analytics.InvoiceRow, error) {
	var rows []analytics.InvoiceRow
	err := r.db.Table("invoices").
		Select(`invoices.id, invoices.invoice_number, vendors.name AS vendor_name,
			invoices.date, invoices.due_date, invoices.total_amount, invoices.tax_amount,
			invoices.status, invoices.category, invoices.department_id, invoices.organization_id,
			invoices.confidence_score, invoices.is_validated_by_human,
			(SELECT COUNT(*) FROM line_items WHERE line_items.invoice_id = invoices.id) AS line_item_count`).
		Joins("JOIN vendors ON vendors.id = invoices.vendor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return rows, nil
}

// MarkOverdue flips pending invoices past their due date to overdue and
// returns how many rows changed.
func (r *invoiceRepo) MarkOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.Invoice{}).
		Where("status = ? AND due_date < ?", models.StatusPending, now).
		Update("status", models.StatusOverdue)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ExecRaw executes one parameterized query and returns the rows with
// driver-specific numeric types coerced to standard ones.
func (r *invoiceRepo) ExecRaw(query string, args ...interface{}) ([]map[string]interface{}, error) {
	var results []map[string]interface{}
	if err := r.db.Raw(query, args...).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	for _, row := range results {
		for key, value := range row {
			row[key] = coerceValue(value)
		}
	}
	return results, nil
}

// coerceValue normalizes wide or driver-specific values (NUMERIC comes
// back as bytes, counts as int64) to plain Go numbers.
func coerceValue(value interface{}) interface{} {
	switch v := value.(type) {
	case []byte:
		s := string(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return s
	case int64:
		return float64(v)
	default:
		return value
	}
}
