package analytics

import "time"

// InvoiceRow is one invoice in the read-side snapshot the engine
// aggregates over: canonical invoice columns joined to the vendor name
// plus the line-item count.
type InvoiceRow struct {
	ID                 string    `json:"id"`
	InvoiceNumber      string    `json:"invoice_number"`
	VendorName         string    `json:"vendor_name"`
	Date               time.Time `json:"date"`
	DueDate            time.Time `json:"due_date"`
	TotalAmount        float64   `json:"total_amount"`
	TaxAmount          float64   `json:"tax_amount"`
	Status             string    `json:"status"`
	Category           string    `json:"category"`
	DepartmentID       string    `json:"department_id"`
	OrganizationID     string    `json:"organization_id"`
	ConfidenceScore    float64   `json:"confidence_score"`
	IsValidatedByHuman bool      `json:"is_validated_by_human"`
	LineItemCount      int       `json:"line_item_count"`
}

// TrendPoint is one month of the invoice trend series.
type TrendPoint struct {
	Month        string  `json:"month"` // YYYY-MM
	InvoiceCount int     `json:"invoice_count"`
	TotalSpend   float64 `json:"total_spend"`
}

// VendorSpend is one entry of the top-vendors ranking.
type VendorSpend struct {
	Vendor       string  `json:"vendor"`
	TotalSpend   float64 `json:"total_spend"`
	InvoiceCount int     `json:"invoice_count"`
	Percentage   float64 `json:"percentage"`
}

// CategorySpend is the spend breakdown for one category.
type CategorySpend struct {
	Category     string  `json:"category"`
	TotalSpend   float64 `json:"total_spend"`
	InvoiceCount int     `json:"invoice_count"`
	Percentage   float64 `json:"percentage"`
}

// OutflowBucket is one fixed period of the cash-outflow forecast.
type OutflowBucket struct {
	Period          string  `json:"period"`
	ExpectedOutflow float64 `json:"expected_outflow"`
	InvoiceCount    int     `json:"invoice_count"`
}

// DepartmentStats is the per-department rollup.
type DepartmentStats struct {
	DepartmentID   string  `json:"department_id"`
	TotalSpent     float64 `json:"total_spent"`
	InvoiceCount   int     `json:"invoice_count"`
	AvgConfidence  float64 `json:"avg_confidence"`
	PaidCount      int     `json:"paid_count"`
	PendingCount   int     `json:"pending_count"`
	PaidPercentage float64 `json:"paid_percentage"`
}

// ConfidenceSummary holds the aggregate extraction-quality numbers.
type ConfidenceSummary struct {
	TotalInvoices       int     `json:"total_invoices"`
	AvgConfidence       float64 `json:"avg_confidence"`
	LowConfidenceCount  int     `json:"low_confidence_count"`
	MediumConfidenceCount int   `json:"medium_confidence_count"`
	HighConfidenceCount int     `json:"high_confidence_count"`
	HumanValidatedCount int     `json:"human_validated_count"`
	HumanValidationRate float64 `json:"human_validation_rate"`
}

// ConfidenceBuckets partitions invoices by confidence band.
type ConfidenceBuckets struct {
	Low    int `json:"low"`    // < 0.7
	Medium int `json:"medium"` // [0.7, 0.9)
	High   int `json:"high"`   // >= 0.9
}

// ReviewItem is one low-confidence invoice flagged for human review.
type ReviewItem struct {
	InvoiceNumber string  `json:"invoice_number"`
	Vendor        string  `json:"vendor"`
	Amount        float64 `json:"amount"`
	Confidence    float64 `json:"confidence"`
	Validated     bool    `json:"validated"`
}

// ConfidenceReport is the full confidence-distribution view.
type ConfidenceReport struct {
	Summary      ConfidenceSummary `json:"summary"`
	Distribution ConfidenceBuckets `json:"distribution"`
	NeedsReview  []ReviewItem      `json:"needs_review"`
}

// MonthlyChange is the month-over-month movement of the overview cards.
type MonthlyChange struct {
	Spend    float64 `json:"spend"`
	Invoices float64 `json:"invoices"`
}

// OverviewStats backs the dashboard summary cards.
type OverviewStats struct {
	TotalSpend        float64       `json:"total_spend"` // year to date
	TotalInvoices     int           `json:"total_invoices"`
	DocumentsUploaded int           `json:"documents_uploaded"`
	AvgInvoiceValue   float64       `json:"avg_invoice_value"`
	MonthlyChange     MonthlyChange `json:"monthly_change"`
}
