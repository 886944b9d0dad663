package analytics

import (
	"math"
	"sort"
	"time"
)

// Engine functions are pure over an immutable snapshot of invoice rows.
// They never touch the store and always return well-formed zero/empty
// structures on empty input.

// Cash-outflow forecast periods, in fixed emit order. The 60+ bucket is
// capped at 90 days by the due-date pre-filter.
var outflowPeriods = []string{"0-7 days", "8-30 days", "31-60 days", "60+ days"}

// MonthlyTrend buckets invoices by calendar month over the trailing
// months anchored at now's month. Every month in range appears, even
// with zero invoices.
func MonthlyTrend(rows []InvoiceRow, months int, now time.Time) []TrendPoint {
	if months <= 0 {
		months = 12
	}

	type agg struct {
		count int
		total float64
	}
	byMonth := map[string]agg{}
	for _, row := range rows {
		key := MonthKey(row.Date)
		a := byMonth[key]
		a.count++
		a.total += row.TotalAmount
		byMonth[key] = a
	}

	points := make([]TrendPoint, 0, months)
	for _, key := range LastMonths(now, months) {
		a := byMonth[key]
		points = append(points, TrendPoint{
			Month:        key,
			InvoiceCount: a.count,
			TotalSpend:   a.total,
		})
	}
	return points
}

// TopVendors ranks vendors by total spend, descending, truncated to
// limit. Percentage is each vendor's share of the grand total across
// all vendors, not just the returned ones.
func TopVendors(rows []InvoiceRow, limit int) []VendorSpend {
	if limit <= 0 {
		limit = 10
	}

	type agg struct {
		total float64
		count int
	}
	byVendor := map[string]agg{}
	var grand float64
	for _, row := range rows {
		a := byVendor[row.VendorName]
		a.total += row.TotalAmount
		a.count++
		byVendor[row.VendorName] = a
		grand += row.TotalAmount
	}

	ranking := make([]VendorSpend, 0, len(byVendor))
	for name, a := range byVendor {
		entry := VendorSpend{Vendor: name, TotalSpend: a.total, InvoiceCount: a.count}
		if grand > 0 {
			entry.Percentage = a.total / grand * 100
		}
		ranking = append(ranking, entry)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalSpend != ranking[j].TotalSpend {
			return ranking[i].TotalSpend > ranking[j].TotalSpend
		}
		return ranking[i].Vendor < ranking[j].Vendor
	})

	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

// CategoryBreakdown groups spend by category; empty categories fall
// into "Uncategorized". Percentages across all categories sum to 100.
func CategoryBreakdown(rows []InvoiceRow) []CategorySpend {
	type agg struct {
		total float64
		count int
	}
	byCategory := map[string]agg{}
	var grand float64
	for _, row := range rows {
		category := row.Category
		if category == "" {
			category = "Uncategorized"
		}
		a := byCategory[category]
		a.total += row.TotalAmount
		a.count++
		byCategory[category] = a
		grand += row.TotalAmount
	}

	breakdown := make([]CategorySpend, 0, len(byCategory))
	for category, a := range byCategory {
		entry := CategorySpend{Category: category, TotalSpend: a.total, InvoiceCount: a.count}
		if grand > 0 {
			entry.Percentage = a.total / grand * 100
		}
		breakdown = append(breakdown, entry)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].TotalSpend != breakdown[j].TotalSpend {
			return breakdown[i].TotalSpend > breakdown[j].TotalSpend
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

// CashOutflow forecasts expected outflow for unpaid invoices due within
// the next 90 days, bucketed by days until due. All four buckets are
// always emitted, zero-filled when empty.
func CashOutflow(rows []InvoiceRow, now time.Time) []OutflowBucket {
	horizon := now.AddDate(0, 0, 90)
	byPeriod := map[string]OutflowBucket{}

	for _, row := range rows {
		if row.Status == "paid" {
			continue
		}
		if row.DueDate.Before(now) || row.DueDate.After(horizon) {
			continue
		}
		days := int(math.Ceil(row.DueDate.Sub(now).Hours() / 24))

		var period string
		switch {
		case days <= 7:
			period = outflowPeriods[0]
		case days <= 30:
			period = outflowPeriods[1]
		case days <= 60:
			period = outflowPeriods[2]
		default:
			period = outflowPeriods[3]
		}

		bucket := byPeriod[period]
		bucket.ExpectedOutflow += row.TotalAmount
		bucket.InvoiceCount++
		byPeriod[period] = bucket
	}

	forecast := make([]OutflowBucket, 0, len(outflowPeriods))
	for _, period := range outflowPeriods {
		bucket := byPeriod[period]
		bucket.Period = period
		forecast = append(forecast, bucket)
	}
	return forecast
}

// DepartmentRollup groups invoices by department; missing department
// ids fall into "unknown".
func DepartmentRollup(rows []InvoiceRow) []DepartmentStats {
	type agg struct {
		total      float64
		count      int
		confidence float64
		paid       int
		pending    int
	}
	byDept := map[string]agg{}
	for _, row := range rows {
		dept := row.DepartmentID
		if dept == "" {
			dept = "unknown"
		}
		a := byDept[dept]
		a.total += row.TotalAmount
		a.count++
		a.confidence += row.ConfidenceScore
		if row.Status == "paid" {
			a.paid++
		}
		if row.Status == "pending" {
			a.pending++
		}
		byDept[dept] = a
	}

	rollup := make([]DepartmentStats, 0, len(byDept))
	for dept, a := range byDept {
		rollup = append(rollup, DepartmentStats{
			DepartmentID:   dept,
			TotalSpent:     a.total,
			InvoiceCount:   a.count,
			AvgConfidence:  a.confidence / float64(a.count),
			PaidCount:      a.paid,
			PendingCount:   a.pending,
			PaidPercentage: float64(a.paid) / float64(a.count) * 100,
		})
	}
	sort.Slice(rollup, func(i, j int) bool {
		if rollup[i].TotalSpent != rollup[j].TotalSpent {
			return rollup[i].TotalSpent > rollup[j].TotalSpent
		}
		return rollup[i].DepartmentID < rollup[j].DepartmentID
	})
	return rollup
}

// ConfidenceAnalysis partitions invoices into low/medium/high extraction
// confidence bands and lists the lowest-confidence ones for review.
func ConfidenceAnalysis(rows []InvoiceRow) ConfidenceReport {
	report := ConfidenceReport{NeedsReview: []ReviewItem{}}
	report.Summary.TotalInvoices = len(rows)

	var confidenceSum float64
	var low []InvoiceRow
	for _, row := range rows {
		confidenceSum += row.ConfidenceScore
		switch {
		case row.ConfidenceScore < 0.7:
			report.Distribution.Low++
			low = append(low, row)
		case row.ConfidenceScore < 0.9:
			report.Distribution.Medium++
		default:
			report.Distribution.High++
		}
		if row.IsValidatedByHuman {
			report.Summary.HumanValidatedCount++
		}
	}

	if len(rows) > 0 {
		report.Summary.AvgConfidence = confidenceSum / float64(len(rows))
		report.Summary.HumanValidationRate = float64(report.Summary.HumanValidatedCount) / float64(len(rows)) * 100
	}
	report.Summary.LowConfidenceCount = report.Distribution.Low
	report.Summary.MediumConfidenceCount = report.Distribution.Medium
	report.Summary.HighConfidenceCount = report.Distribution.High

	sort.Slice(low, func(i, j int) bool {
		if low[i].ConfidenceScore != low[j].ConfidenceScore {
			return low[i].ConfidenceScore < low[j].ConfidenceScore
		}
		return low[i].InvoiceNumber < low[j].InvoiceNumber
	})
	if len(low) > 10 {
		low = low[:10]
	}
	for _, row := range low {
		report.NeedsReview = append(report.NeedsReview, ReviewItem{
			InvoiceNumber: row.InvoiceNumber,
			Vendor:        row.VendorName,
			Amount:        row.TotalAmount,
			Confidence:    row.ConfidenceScore,
			Validated:     row.IsValidatedByHuman,
		})
	}
	return report
}

// Overview computes the dashboard summary cards: YTD spend, counts,
// average invoice value and month-over-month movement.
func Overview(rows []InvoiceRow, now time.Time) OverviewStats {
	stats := OverviewStats{TotalInvoices: len(rows)}

	yearStart := YearStart(now)
	currentMonthStart := MonthStart(now)
	previousMonthStart := currentMonthStart.AddDate(0, -1, 0)

	var allSpend float64
	var currentSpend, previousSpend float64
	var currentCount, previousCount int
	for _, row := range rows {
		allSpend += row.TotalAmount
		if !row.Date.Before(yearStart) {
			stats.TotalSpend += row.TotalAmount
		}
		if row.LineItemCount > 0 {
			stats.DocumentsUploaded++
		}
		switch {
		case !row.Date.Before(currentMonthStart):
			currentSpend += row.TotalAmount
			currentCount++
		case !row.Date.Before(previousMonthStart):
			previousSpend += row.TotalAmount
			previousCount++
		}
	}

	if len(rows) > 0 {
		stats.AvgInvoiceValue = allSpend / float64(len(rows))
	}
	if previousSpend > 0 {
		stats.MonthlyChange.Spend = roundTenth((currentSpend - previousSpend) / previousSpend * 100)
	}
	if previousCount > 0 {
		stats.MonthlyChange.Invoices = roundTenth(float64(currentCount-previousCount) / float64(previousCount) * 100)
	}
	return stats
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
