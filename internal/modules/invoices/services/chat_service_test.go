package services

import (
	"strings"
	"testing"
)

func newRouter() *ChatService {
	return NewChatService(nil, nil)
}

func TestRouteIsDeterministic(t *testing.T) {
	s := newRouter()
	questions := []string{
		"What is my total spend in the last 90 days?",
		"Show me the top 3 vendors",
		"which invoices are overdue?",
		"random gibberish that matches nothing",
	}
	for _, q := range questions {
		first := s.Route(q)
		for i := 0; i < 5; i++ {
			again := s.Route(q)
			if again.Intent != first.Intent || again.Query.SQL != first.Query.SQL {
				t.Fatalf("routing of %q is not stable: %s vs %s", q, first.Intent, again.Intent)
			}
			if len(again.Query.Args) != len(first.Query.Args) {
				t.Fatalf("arg count drifted for %q", q)
			}
		}
	}
}

func TestRouteIntents(t *testing.T) {
	s := newRouter()
	cases := []struct {
		question string
		intent   string
	}{
		{"What is my total spend in the last 90 days?", "total_spend"},
		{"total amount last 30 days", "total_spend"},
		{"What's my total spend overall?", "total_spend"},
		{"Show me the top 5 vendors", "top_vendors"},
		{"top suppliers please", "top_vendors"},
		{"Which invoices are overdue?", "overdue_invoices"},
		{"show pending invoices", "pending_invoices"},
		{"How many invoices do I have?", "invoice_count"},
		{"spending by category", "category_breakdown"},
		{"department breakdown", "department_spend"},
		{"confidence summary", "confidence_analysis"},
		{"what needs review?", "confidence_analysis"},
		{"list my uploaded files", "document_listing"},
		{"spend per organization", "organization_spend"},
		{"human validated invoices", "validated_invoices"},
		{"how much vat did I pay?", "tax_analysis"},
		{"average invoice value", "average_invoice"},
		{"cash outflow forecast", "due_soon"},
		{"what is due next week", "due_soon"},
		{"show paid invoices", "paid_invoices"},
		{"latest invoices", "recent_invoices"},
		{"hello there", "recent_invoices_default"},
		{"", "recent_invoices_default"},
	}
	for _, c := range cases {
		got := s.Route(c.question)
		if got.Intent != c.intent {
			t.Errorf("Route(%q) = %s, want %s", c.question, got.Intent, c.intent)
		}
	}
}

func TestRouteTotalSpendWindowVariants(t *testing.T) {
	s := newRouter()

	got := s.Route("What's the total spend in the last 30 days?")
	if got.Intent != "total_spend" || !strings.Contains(got.Query.SQL, "'30 days'") {
		t.Errorf("30-day variant: intent=%s sql=%q", got.Intent, got.Query.SQL)
	}
	got = s.Route("total spend in the last 90 days")
	if !strings.Contains(got.Query.SQL, "'90 days'") {
		t.Errorf("90-day variant sql=%q", got.Query.SQL)
	}
	got = s.Route("what's my total spend?")
	if strings.Contains(got.Query.SQL, "INTERVAL") {
		t.Errorf("all-time variant must have no window: %q", got.Query.SQL)
	}
}

func TestRouteTopThreeVendors(t *testing.T) {
	s := newRouter()
	got := s.Route("top 3 vendors")
	if got.Intent != "top_vendors" || len(got.Query.Args) != 1 || got.Query.Args[0] != 3 {
		t.Fatalf("routed = %s %v", got.Intent, got.Query.Args)
	}
}

func TestRoutePriorityOverdueBeatsDueSoon(t *testing.T) {
	s := newRouter()
	// "overdue" contains "due"; the overdue rule must win.
	got := s.Route("overdue invoices due last month")
	if got.Intent != "overdue_invoices" {
		t.Fatalf("intent = %s, want overdue_invoices", got.Intent)
	}
}

func TestTopVendorsLimitParsing(t *testing.T) {
	s := newRouter()
	cases := []struct {
		question string
		want     int
	}{
		{"top 3 vendors", 3},
		{"top 100 vendors", 100},
		{"top 999 vendors", 100}, // clamped high
		{"top 0 vendors", 1},     // clamped low
		{"top vendors", 10},      // default
	}
	for _, c := range cases {
		got := s.Route(c.question)
		if got.Intent != "top_vendors" {
			t.Fatalf("Route(%q) = %s", c.question, got.Intent)
		}
		if len(got.Query.Args) != 1 || got.Query.Args[0] != c.want {
			t.Errorf("Route(%q) limit = %v, want %d", c.question, got.Query.Args, c.want)
		}
	}
}

func TestRouteValuesAreBoundNotInterpolated(t *testing.T) {
	s := newRouter()
	// A hostile question must never leak into the SQL text.
	hostile := "top 5 vendors'; DROP TABLE invoices; --"
	got := s.Route(hostile)
	if strings.Contains(got.Query.SQL, "DROP") {
		t.Fatal("question text leaked into SQL")
	}
	for _, arg := range got.Query.Args {
		if _, ok := arg.(int); !ok {
			t.Fatalf("top vendors arg should be an int, got %T", arg)
		}
	}
}

func TestRouteCaseInsensitive(t *testing.T) {
	s := newRouter()
	if s.Route("TOP 5 VENDORS").Intent != "top_vendors" {
		t.Error("routing must be case-insensitive")
	}
	if s.Route("  Overdue Invoices  ").Intent != "overdue_invoices" {
		t.Error("routing must trim whitespace")
	}
}

func TestEveryRuleYieldsExecutableTemplate(t *testing.T) {
	s := newRouter()
	for _, rule := range s.rules {
		query, explanation := rule.build("top 5 vendors in the last 90 days")
		if !strings.HasPrefix(query.SQL, "SELECT ") {
			t.Errorf("rule %s: template does not start with SELECT: %q", rule.name, query.SQL)
		}
		if strings.Count(query.SQL, "?") != len(query.Args) {
			t.Errorf("rule %s: %d placeholders but %d args", rule.name, strings.Count(query.SQL, "?"), len(query.Args))
		}
		if explanation == "" {
			t.Errorf("rule %s: empty explanation", rule.name)
		}
	}
}
