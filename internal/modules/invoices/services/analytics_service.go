package services

import (
	"fmt"
	"time"

	"github.com/buchhaltung/invoice-analytics-be/internal/core/analytics"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/repositories"
)

// Dashboard bundles every rollup the dashboard renders in one response
// so the frontend makes a single request.
type Dashboard struct {
	Overview     analytics.OverviewStats     `json:"overview"`
	MonthlyTrend []analytics.TrendPoint      `json:"monthlyTrend"`
	TopVendors   []analytics.VendorSpend     `json:"topVendors"`
	Categories   []analytics.CategorySpend   `json:"categories"`
	CashOutflow  []analytics.OutflowBucket   `json:"cashOutflow"`
	Departments  []analytics.DepartmentStats `json:"departments"`
	Confidence   analytics.ConfidenceReport  `json:"confidence"`
}

// AnalyticsService computes dashboard rollups from the invoice
// snapshot. All aggregation is pure; this layer only loads rows and
// supplies the clock.
type AnalyticsService struct {
	invoiceRepo repositories.InvoiceRepo
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(invoiceRepo repositories.InvoiceRepo) *AnalyticsService {
	return &AnalyticsService{
		invoiceRepo: invoiceRepo,
		now:         time.Now,
	}
}

func (s *AnalyticsService) snapshot() ([]analytics.InvoiceRow, error) {
	rows, err := s.invoiceRepo.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to load analytics snapshot: %w", err)
	}
	return rows, nil
}

// GetDashboard loads the snapshot once and computes every rollup from
// the same rows, so all sections describe the same instant.
func (s *AnalyticsService) GetDashboard() (*Dashboard, error) {
	rows, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	now := s.now()

	return &Dashboard{
		Overview:     analytics.Overview(rows, now),
		MonthlyTrend: analytics.MonthlyTrend(rows, 12, now),
		TopVendors:   analytics.TopVendors(rows, 5),
		Categories:   analytics.CategoryBreakdown(rows),
		CashOutflow:  analytics.CashOutflow(rows, now),
		Departments:  analytics.DepartmentRollup(rows),
		Confidence:   analytics.ConfidenceAnalysis(rows),
	}, nil
}

// GetOverview returns the summary cards alone.
func (s *AnalyticsService) GetOverview() (analytics.OverviewStats, error) {
	rows, err := s.snapshot()
	if err != nil {
		return analytics.OverviewStats{}, err
	}
	return analytics.Overview(rows, s.now()), nil
}

// GetMonthlyTrend returns the dense month series for the requested
// window, clamped to [1, 36] months.
func (s *AnalyticsService) GetMonthlyTrend(months int) ([]analytics.TrendPoint, error) {
	if months < 1 {
		months = 12
	}
	if months > 36 {
		months = 36
	}
	rows, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyTrend(rows, months, s.now()), nil
}

// GetTopVendors returns vendor spend ranking, limit clamped to [1, 100].
func (s *AnalyticsService) GetTopVendors(limit int) ([]analytics.VendorSpend, error) {
	if limit < 1 {
		limit = 5
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.TopVendors(rows, limit), nil
}

// GetCategorySpend returns the per-category spend breakdown.
func (s *AnalyticsService) GetCategorySpend() ([]analytics.CategorySpend, error) {
	rows, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.CategoryBreakdown(rows), nil
}

// GetCashOutflow returns the 90-day outflow forecast buckets.
func (s *AnalyticsService) GetCashOutflow() ([]analytics.OutflowBucket, error) {
	rows, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.CashOutflow(rows, s.now()), nil
}

// GetDepartments returns the per-department rollup.
func (s *AnalyticsService) GetDepartments() ([]analytics.DepartmentStats, error) {
	rows, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return analytics.DepartmentRollup(rows), nil
}

// GetConfidence returns the extraction-confidence report.
func (s *AnalyticsService) GetConfidence() (analytics.ConfidenceReport, error) {
	rows, err := s.snapshot()
	if err != nil {
		return analytics.ConfidenceReport{}, err
	}
	return analytics.ConfidenceAnalysis(rows), nil
}
