package analytics

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func row(mod func(*InvoiceRow)) InvoiceRow {
	r := InvoiceRow{
		InvoiceNumber:   "INV-1",
		VendorName:      "ACME",
		Date:            testNow.AddDate(0, 0, -10),
		DueDate:         testNow.AddDate(0, 0, 20),
		TotalAmount:     100,
		Status:          "pending",
		Category:        "Operations",
		ConfidenceScore: 0.8,
		LineItemCount:   1,
	}
	if mod != nil {
		mod(&r)
	}
	return r
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMonthlyTrendDenseSeries(t *testing.T) {
	rows := []InvoiceRow{
		row(func(r *InvoiceRow) { r.Date = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC); r.TotalAmount = 100 }),
		row(func(r *InvoiceRow) { r.Date = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC); r.TotalAmount = 50 }),
		row(func(r *InvoiceRow) { r.Date = time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC); r.TotalAmount = 30 }),
	}
	trend := MonthlyTrend(rows, 6, testNow)

	if len(trend) != 6 {
		t.Fatalf("expected 6 points, got %d", len(trend))
	}
	if trend[0].Month != "2025-01" || trend[5].Month != "2025-06" {
		t.Fatalf("window wrong: %s .. %s", trend[0].Month, trend[5].Month)
	}
	// May has no invoices but must still appear.
	if trend[4].Month != "2025-05" || trend[4].InvoiceCount != 0 || trend[4].TotalSpend != 0 {
		t.Errorf("zero month malformed: %+v", trend[4])
	}
	if trend[5].InvoiceCount != 2 || !almostEqual(trend[5].TotalSpend, 150) {
		t.Errorf("june = %+v", trend[5])
	}
	if trend[3].Month != "2025-04" || !almostEqual(trend[3].TotalSpend, 30) {
		t.Errorf("april = %+v", trend[3])
	}
}

func TestMonthlyTrendEmptyInput(t *testing.T) {
	trend := MonthlyTrend(nil, 3, testNow)
	if len(trend) != 3 {
		t.Fatalf("expected 3 zero points, got %d", len(trend))
	}
	for _, p := range trend {
		if p.InvoiceCount != 0 || p.TotalSpend != 0 {
			t.Errorf("expected zero point, got %+v", p)
		}
	}
}

func TestTopVendorsRankingAndShare(t *testing.T) {
	rows := []InvoiceRow{
		row(func(r *InvoiceRow) { r.VendorName = "A"; r.TotalAmount = 600 }),
		row(func(r *InvoiceRow) { r.VendorName = "B"; r.TotalAmount = 300 }),
		row(func(r *InvoiceRow) { r.VendorName = "C"; r.TotalAmount = 100 }),
	}
	top := TopVendors(rows, 2)

	if len(top) != 2 {
		t.Fatalf("expected 2 vendors, got %d", len(top))
	}
	if top[0].Vendor != "A" || top[1].Vendor != "B" {
		t.Fatalf("order wrong: %s, %s", top[0].Vendor, top[1].Vendor)
	}
	// Share is over the grand total of all vendors, including truncated C.
	if !almostEqual(top[0].Percentage, 60) || !almostEqual(top[1].Percentage, 30) {
		t.Errorf("percentages = %v, %v; want 60, 30", top[0].Percentage, top[1].Percentage)
	}
}

func TestTopVendorsTieBreaksByName(t *testing.T) {
	rows := []InvoiceRow{
		row(func(r *InvoiceRow) { r.VendorName = "Zeta"; r.TotalAmount = 100 }),
		row(func(r *InvoiceRow) { r.VendorName = "Alpha"; r.TotalAmount = 100 }),
	}
	top := TopVendors(rows, 10)
	if top[0].Vendor != "Alpha" || top[1].Vendor != "Zeta" {
		t.Fatalf("tie break wrong: %s, %s", top[0].Vendor, top[1].Vendor)
	}
}

func TestCategoryBreakdownPercentagesSum(t *testing.T) {
	rows := []InvoiceRow{
		row(func(r *InvoiceRow) { r.Category = "Operations"; r.TotalAmount = 70 }),
		row(func(r *InvoiceRow) { r.Category = ""; r.TotalAmount = 20 }),
		row(func(r *InvoiceRow) { r.Category = "Marketing"; r.TotalAmount = 10 }),
	}
	breakdown := CategoryBreakdown(rows)

	var sum float64
	seenUncategorized := false
	for _, entry := range breakdown {
		sum += entry.Percentage
		if entry.Category == "Uncategorized" {
			seenUncategorized = true
		}
	}
	if !almostEqual(sum, 100) {
		t.Errorf("percentages sum to %v, want 100", sum)
	}
	if !seenUncategorized {
		t.Error("empty category should map to Uncategorized")
	}
	if breakdown[0].Category != "Operations" {
		t.Errorf("largest category first, got %s", breakdown[0].Category)
	}
}

func TestCashOutflowAlwaysFourBuckets(t *testing.T) {
	forecast := CashOutflow(nil, testNow)
	want := []string{"0-7 days", "8-30 days", "31-60 days", "60+ days"}
	if len(forecast) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(forecast))
	}
	for i, bucket := range forecast {
		if bucket.Period != want[i] {
			t.Errorf("bucket %d = %q, want %q", i, bucket.Period, want[i])
		}
		if bucket.ExpectedOutflow != 0 || bucket.InvoiceCount != 0 {
			t.Errorf("empty input bucket not zero: %+v", bucket)
		}
	}
}

func TestCashOutflowBucketing(t *testing.T) {
	rows := []InvoiceRow{
		// Due in 5 days → 0-7.
		row(func(r *InvoiceRow) { r.DueDate = testNow.AddDate(0, 0, 5); r.TotalAmount = 10 }),
		// Due in 20 days → 8-30.
		row(func(r *InvoiceRow) { r.DueDate = testNow.AddDate(0, 0, 20); r.TotalAmount = 20 }),
		// Due in 45 days → 31-60.
		row(func(r *InvoiceRow) { r.DueDate = testNow.AddDate(0, 0, 45); r.TotalAmount = 30 }),
		// Due in 75 days → 60+.
		row(func(r *InvoiceRow) { r.DueDate = testNow.AddDate(0, 0, 75); r.TotalAmount = 40 }),
		// Paid: excluded.
		row(func(r *InvoiceRow) { r.Status = "paid"; r.DueDate = testNow.AddDate(0, 0, 5); r.TotalAmount = 999 }),
		// Already overdue: excluded.
		row(func(r *InvoiceRow) { r.DueDate = testNow.AddDate(0, 0, -1); r.TotalAmount = 999 }),
		// Beyond 90 days: excluded.
		row(func(r *InvoiceRow) { r.DueDate = testNow.AddDate(0, 0, 120); r.TotalAmount = 999 }),
	}
	forecast := CashOutflow(rows, testNow)

	wantAmounts := []float64{10, 20, 30, 40}
	for i, bucket := range forecast {
		if !almostEqual(bucket.ExpectedOutflow, wantAmounts[i]) || bucket.InvoiceCount != 1 {
			t.Errorf("bucket %q = %+v, want amount %v", bucket.Period, bucket, wantAmounts[i])
		}
	}
}

func TestDepartmentRollup(t *testing.T) {
	rows := []InvoiceRow{
		row(func(r *InvoiceRow) { r.DepartmentID = "d1"; r.TotalAmount = 100; r.Status = "paid"; r.ConfidenceScore = 0.9 }),
		row(func(r *InvoiceRow) { r.DepartmentID = "d1"; r.TotalAmount = 50; r.Status = "pending"; r.ConfidenceScore = 0.7 }),
		row(func(r *InvoiceRow) { r.DepartmentID = ""; r.TotalAmount = 10 }),
	}
	rollup := DepartmentRollup(rows)

	if len(rollup) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(rollup))
	}
	d1 := rollup[0]
	if d1.DepartmentID != "d1" || !almostEqual(d1.TotalSpent, 150) {
		t.Fatalf("d1 = %+v", d1)
	}
	if !almostEqual(d1.AvgConfidence, 0.8) || d1.PaidCount != 1 || d1.PendingCount != 1 || !almostEqual(d1.PaidPercentage, 50) {
		t.Errorf("d1 stats = %+v", d1)
	}
	if rollup[1].DepartmentID != "unknown" {
		t.Errorf("missing department should be unknown, got %q", rollup[1].DepartmentID)
	}
}

func TestConfidenceAnalysisBands(t *testing.T) {
	rows := []InvoiceRow{
		row(func(r *InvoiceRow) { r.InvoiceNumber = "L1"; r.ConfidenceScore = 0.5 }),
		row(func(r *InvoiceRow) { r.InvoiceNumber = "L2"; r.ConfidenceScore = 0.69 }),
		row(func(r *InvoiceRow) { r.InvoiceNumber = "M1"; r.ConfidenceScore = 0.7 }),
		row(func(r *InvoiceRow) { r.InvoiceNumber = "M2"; r.ConfidenceScore = 0.89 }),
		row(func(r *InvoiceRow) { r.InvoiceNumber = "H1"; r.ConfidenceScore = 0.9; r.IsValidatedByHuman = true }),
		row(func(r *InvoiceRow) { r.InvoiceNumber = "H2"; r.ConfidenceScore = 1.0 }),
	}
	report := ConfidenceAnalysis(rows)

	d := report.Distribution
	if d.Low != 2 || d.Medium != 2 || d.High != 2 {
		t.Fatalf("distribution = %+v", d)
	}
	if d.Low+d.Medium+d.High != report.Summary.TotalInvoices {
		t.Error("band counts must sum to total")
	}
	if report.Summary.HumanValidatedCount != 1 {
		t.Errorf("validated = %d", report.Summary.HumanValidatedCount)
	}
	// Review list: only low band, lowest first.
	if len(report.NeedsReview) != 2 || report.NeedsReview[0].InvoiceNumber != "L1" {
		t.Errorf("needsReview = %+v", report.NeedsReview)
	}
}

func TestConfidenceAnalysisReviewCap(t *testing.T) {
	var rows []InvoiceRow
	for i := 0; i < 15; i++ {
		n := i
		rows = append(rows, row(func(r *InvoiceRow) {
			r.InvoiceNumber = string(rune('A' + n))
			r.ConfidenceScore = 0.1 + float64(n)*0.01
		}))
	}
	report := ConfidenceAnalysis(rows)
	if len(report.NeedsReview) != 10 {
		t.Fatalf("review list capped at 10, got %d", len(report.NeedsReview))
	}
	if report.NeedsReview[0].Confidence > report.NeedsReview[9].Confidence {
		t.Error("review list must be ascending by confidence")
	}
}

func TestConfidenceAnalysisEmpty(t *testing.T) {
	report := ConfidenceAnalysis(nil)
	if report.Summary.TotalInvoices != 0 || report.Summary.AvgConfidence != 0 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if report.NeedsReview == nil || len(report.NeedsReview) != 0 {
		t.Error("needsReview must be an empty slice, not nil")
	}
}

func TestOverview(t *testing.T) {
	rows := []InvoiceRow{
		// Current month (June).
		row(func(r *InvoiceRow) { r.Date = time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC); r.TotalAmount = 300 }),
		// Previous month (May).
		row(func(r *InvoiceRow) { r.Date = time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC); r.TotalAmount = 200 }),
		row(func(r *InvoiceRow) { r.Date = time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC); r.TotalAmount = 100 }),
		// Last year: excluded from YTD, counted in totals.
		row(func(r *InvoiceRow) {
			r.Date = time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
			r.TotalAmount = 400
			r.LineItemCount = 0
		}),
	}
	stats := Overview(rows, testNow)

	if stats.TotalInvoices != 4 {
		t.Errorf("totalInvoices = %d", stats.TotalInvoices)
	}
	if !almostEqual(stats.TotalSpend, 600) {
		t.Errorf("YTD spend = %v, want 600", stats.TotalSpend)
	}
	if stats.DocumentsUploaded != 3 {
		t.Errorf("documentsUploaded = %d, want 3", stats.DocumentsUploaded)
	}
	if !almostEqual(stats.AvgInvoiceValue, 250) {
		t.Errorf("avgInvoiceValue = %v, want 250", stats.AvgInvoiceValue)
	}
	// June 300 vs May 300 → 0%; June 1 vs May 2 → -50%.
	if stats.MonthlyChange.Spend != 0 {
		t.Errorf("spend change = %v, want 0", stats.MonthlyChange.Spend)
	}
	if stats.MonthlyChange.Invoices != -50 {
		t.Errorf("invoice change = %v, want -50", stats.MonthlyChange.Invoices)
	}
}

func TestOverviewEmptyInput(t *testing.T) {
	stats := Overview(nil, testNow)
	if stats.TotalSpend != 0 || stats.TotalInvoices != 0 || stats.AvgInvoiceValue != 0 {
		t.Errorf("empty overview = %+v", stats)
	}
	if stats.MonthlyChange.Spend != 0 || stats.MonthlyChange.Invoices != 0 {
		t.Error("division by zero must yield zero change")
	}
}

func TestLastMonthsAnchoredAtMonthStart(t *testing.T) {
	// Jan 31 anchor: naive AddDate month arithmetic would skew.
	keys := LastMonths(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 3)
	want := []string{"2024-11", "2024-12", "2025-01"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}
