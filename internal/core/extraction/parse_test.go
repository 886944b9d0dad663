package extraction

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1234.56", 1234.56, true},
		{"1,234.56", 1234.56, true},
		{"1.234,56", 1234.56, true},
		{"€ 1.234,56", 1234.56, true},
		{"$1,234.56", 1234.56, true},
		{"1234,56", 1234.56, true},
		{"1234,5", 1234.5, true},
		{"1,234", 1234, true},
		{"500", 500, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"  £99.90 ", 99.90, true},
	}
	for _, c := range cases {
		got, ok := ParseAmount(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseAmount(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-03-15", "2025-03-15", true},
		{"2025-03-15T10:30:00Z", "2025-03-15", true},
		{"15.03.2025", "2025-03-15", true},
		{"15/03/2025", "2025-03-15", true},
		{"March 15, 2025", "2025-03-15", true},
		{"not a date", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := ParseDate(c.in)
		if ok != c.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != c.want {
			t.Errorf("ParseDate(%q) = %s, want %s", c.in, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestFallbackChains(t *testing.T) {
	n := parseNode(t, `{
		"invoice": {"value": {"invoiceNumber": {"value": "R-2025-001", "confidence": 0.9}}},
		"amount": {"value": {"total": {"value": "1.234,56 €", "confidence": 0.8}}},
		"payment": {"value": {"dueDate": {"value": "2025-04-14", "confidence": 0.85}}}
	}`)

	// First path misses, second hits.
	if s, ok := FirstText(n, "invoice.invoiceId", "invoice.invoiceNumber"); !ok || s != "R-2025-001" {
		t.Errorf("FirstText = %q, %v", s, ok)
	}
	if f, ok := FirstAmount(n, "amount.totalAmount", "amount.total"); !ok || f != 1234.56 {
		t.Errorf("FirstAmount = %v, %v", f, ok)
	}
	d, ok := FirstDate(n, "payment.dueDate")
	if !ok || !d.Equal(time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("FirstDate = %v, %v", d, ok)
	}

	// No path hits.
	if _, ok := FirstText(n, "vendor.name", "vendor.vendorName"); ok {
		t.Error("FirstText should miss on absent paths")
	}
}

func TestPayloadNilWhenNoExtraction(t *testing.T) {
	doc := RawDocument{ID: "doc-1"}
	if doc.Payload() != nil {
		t.Fatal("document without extractedData must have nil payload")
	}
	doc.ExtractedData = &ExtractedData{}
	if doc.Payload() != nil {
		t.Fatal("document without llmData must have nil payload")
	}
}

func TestResolvedMetadataFallbacks(t *testing.T) {
	doc := RawDocument{
		Metadata: DocumentMeta{
			OriginalFileName: "scan.pdf",
			OrganizationID:   "org-meta",
			DepartmentID:     "dept-meta",
			UploadedBy:       "user-meta",
		},
	}
	if doc.FileName() != "scan.pdf" {
		t.Errorf("FileName = %q", doc.FileName())
	}
	if doc.ResolvedOrganizationID() != "org-meta" {
		t.Errorf("org = %q", doc.ResolvedOrganizationID())
	}

	doc.Name = "invoice.pdf"
	doc.OrganizationID = "org-top"
	doc.DepartmentID = "dept-top"
	doc.UploadedByID = "user-top"
	if doc.FileName() != "invoice.pdf" {
		t.Errorf("top-level name should win, got %q", doc.FileName())
	}
	if doc.ResolvedOrganizationID() != "org-top" || doc.ResolvedDepartmentID() != "dept-top" || doc.ResolvedUploaderID() != "user-top" {
		t.Error("top-level routing fields should win over metadata")
	}
}
