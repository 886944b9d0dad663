package handlers

import (
	"strconv"

	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/services"
	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetDashboard godoc
// @Summary Dashboard rollups
// @Description Compute every dashboard section (overview, trend, vendors, categories, cash outflow, departments, confidence) from one snapshot
// @Tags Analytics
// @Produce json
// @Success 200 {object} services.Dashboard
// @Failure 500 {object} map[string]interface{}
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *fiber.Ctx) error {
	dashboard, err := h.analyticsService.GetDashboard()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(dashboard)
}

// GetStats godoc
// @Summary Overview stats
// @Description YTD spend, invoice/document counts, average value and month-over-month movement
// @Tags Analytics
// @Produce json
// @Success 200 {object} analytics.OverviewStats
// @Failure 500 {object} map[string]interface{}
// @Router /analytics/stats [get]
func (h *AnalyticsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.analyticsService.GetOverview()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(stats)
}

// GetMonthlyTrend godoc
// @Summary Monthly spending trend
// @Description Dense month-by-month spend and count series, including zero months
// @Tags Analytics
// @Produce json
// @Param months query int false "Window size in months (1-36, default 12)"
// @Success 200 {array} analytics.TrendPoint
// @Failure 500 {object} map[string]interface{}
// @Router /analytics/invoice-trends [get]
func (h *AnalyticsHandler) GetMonthlyTrend(c *fiber.Ctx) error {
	months, _ := strconv.Atoi(c.Query("months", "12"))
	trend, err := h.analyticsService.GetMonthlyTrend(months)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"months": len(trend),
		"trend":  trend,
	})
}

// GetTopVendors godoc
// @Summary Top vendors by spend
// @Description Vendor ranking with spend share percentages over the grand total
// @Tags Analytics
// @Produce json
// @Param limit query int false "Number of vendors (1-100, default 5)"
// @Success 200 {array} analytics.VendorSpend
// @Failure 500 {object} map[string]interface{}
// @Router /analytics/top-vendors [get]
func (h *AnalyticsHandler) GetTopVendors(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	vendors, err := h.analyticsService.GetTopVendors(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"count":   len(vendors),
		"vendors": vendors,
	})
}

// GetCategorySpend godoc
// @Summary Spending by category
// @Description Per-category spend with share percentages summing to 100
// @Tags Analytics
// @Produce json
// @Success 200 {array} analytics.CategorySpend
// @Failure 500 {object} map[string]interface{}
// @Router /analytics/category-spend [get]
func (h *AnalyticsHandler) GetCategorySpend(c *fiber.Ctx) error {
	categories, err := h.analyticsService.GetCategorySpend()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"count":      len(categories),
		"categories": categories,
	})
}

// GetCashOutflow godoc
// @Summary Cash outflow forecast
// @Description Expected outflow of unpaid invoices due in the next 90 days, in four fixed buckets
// @Tags Analytics
// @Produce json
// @Success 200 {array} analytics.OutflowBucket
// @Failure 500 {object} map[string]interface{}
// @Router /analytics/cash-outflow [get]
func (h *AnalyticsHandler) GetCashOutflow(c *fiber.Ctx) error {
	forecast, err := h.analyticsService.GetCashOutflow()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"forecast": forecast,
	})
}

// GetDepartments godoc
// @Summary Spending by department
// @Description Per-department spend, counts, paid share and extraction confidence
// @Tags Analytics
// @Produce json
// @Success 200 {array} analytics.DepartmentStats
// @Failure 500 {object} map[string]interface{}
// @Router /analytics/departments [get]
func (h *AnalyticsHandler) GetDepartments(c *fiber.Ctx) error {
	departments, err := h.analyticsService.GetDepartments()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"count":       len(departments),
		"departments": departments,
	})
}

// GetConfidence godoc
// @Summary Extraction confidence report
// @Description Confidence band distribution plus the lowest-confidence invoices needing review
// @Tags Analytics
// @Produce json
// @Success 200 {object} analytics.ConfidenceReport
// @Failure 500 {object} map[string]interface{}
// @Router /analytics/confidence [get]
func (h *AnalyticsHandler) GetConfidence(c *fiber.Ctx) error {
	report, err := h.analyticsService.GetConfidence()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(report)
}
