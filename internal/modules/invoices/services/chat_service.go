package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/buchhaltung/invoice-analytics-be/internal/core/llm"
	"github.com/buchhaltung/invoice-analytics-be/internal/modules/invoices/repositories"
)

// ChatQuery is one fixed, parameterized query shape. Values are always
// bound, never interpolated into the SQL text.
type ChatQuery struct {
	SQL  string
	Args []interface{}
}

// RoutedQuery is the routing result for one question.
type RoutedQuery struct {
	Intent      string
	Query       ChatQuery
	Explanation string
}

// ChatResponse is what the chat endpoint returns: the executed query,
// its rows and a human-readable explanation. Answer is only present
// when the optional LLM summarizer is enabled.
type ChatResponse struct {
	Query       string                   `json:"query"`
	Explanation string                   `json:"explanation"`
	Results     []map[string]interface{} `json:"results"`
	Answer      string                   `json:"answer,omitempty"`
}

// intentRule is one (predicate, template) pair. Rules are evaluated in
// fixed priority order; the first match wins.
type intentRule struct {
	name  string
	match func(q string) bool
	build func(q string) (ChatQuery, string)
}

// ChatService maps free-text questions onto the fixed set of query
// templates and executes them through the store.
type ChatService struct {
	invoiceRepo repositories.InvoiceRepo
	summarizer  *llm.Service
	rules       []intentRule
}

// NewChatService creates a new chat service. summarizer may be nil.
func NewChatService(invoiceRepo repositories.InvoiceRepo, summarizer *llm.Service) *ChatService {
	s := &ChatService{
		invoiceRepo: invoiceRepo,
		summarizer:  summarizer,
	}
	s.rules = buildRules()
	return s
}

// Route maps a question to a template. Pure: identical input always
// yields the identical intent, query and explanation.
func (s *ChatService) Route(text string) RoutedQuery {
	q := strings.ToLower(strings.TrimSpace(text))
	for _, rule := range s.rules {
		if rule.match(q) {
			query, explanation := rule.build(q)
			return RoutedQuery{Intent: rule.name, Query: query, Explanation: explanation}
		}
	}
	// buildRules ends with a catch-all, so this is unreachable.
	query, explanation := defaultRule().build(q)
	return RoutedQuery{Intent: "recent_invoices_default", Query: query, Explanation: explanation}
}

// Answer routes the question, runs the selected template and optionally
// phrases the rows into a natural-language answer.
func (s *ChatService) Answer(ctx context.Context, text string) (*ChatResponse, error) {
	routed := s.Route(text)

	rows, err := s.invoiceRepo.ExecRaw(routed.Query.SQL, routed.Query.Args...)
	if err != nil {
		return nil, fmt.Errorf("chat query failed: %w", err)
	}

	resp := &ChatResponse{
		Query:       routed.Query.SQL,
		Explanation: routed.Explanation,
		Results:     rows,
	}
	if s.summarizer != nil {
		answer, err := s.summarizer.SummarizeResults(ctx, text, routed.Explanation, rows)
		if err == nil {
			resp.Answer = answer
		}
		// A summarizer failure never fails the query itself.
	}
	return resp, nil
}

var topNPattern = regexp.MustCompile(`top\s+(\d{1,3})`)

// parseTopN extracts the bounded N of a "top <N>" question, clamped to
// [1, 100] so an adversarial value never reaches the store as a limit.
func parseTopN(q string, fallback int) int {
	m := topNPattern.FindStringSubmatch(q)
	if m == nil {
		return fallback
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	if n < 1 {
		return 1
	}
	if n > 100 {
		return 100
	}
	return n
}

func containsAny(q string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(q, needle) {
			return true
		}
	}
	return false
}

const invoiceVendorJoin = "FROM invoices i JOIN vendors v ON v.id = i.vendor_id"

func defaultRule() intentRule {
	return intentRule{
		name:  "recent_invoices_default",
		match: func(string) bool { return true },
		build: func(string) (ChatQuery, string) {
			return ChatQuery{
					SQL: "SELECT i.invoice_number, v.name AS vendor, i.total_amount, i.date, i.status " +
						invoiceVendorJoin + " ORDER BY i.date DESC LIMIT ?",
					Args: []interface{}{20},
				},
				"Showing recent invoices (try asking about: total spend, top vendors, overdue invoices, " +
					"spending by category, cash outflow, or confidence analysis)"
		},
	}
}

// buildRules enumerates every recognized intent in priority order.
func buildRules() []intentRule {
	return []intentRule{
		{
			name:  "total_spend",
			match: func(q string) bool { return containsAny(q, "total spend", "total amount") },
			build: func(q string) (ChatQuery, string) {
				switch {
				case containsAny(q, "90 days", "last 90"):
					return ChatQuery{
						SQL:  "SELECT SUM(total_amount) AS total_spend FROM invoices WHERE date >= NOW() - INTERVAL '90 days'",
						Args: nil,
					}, "Calculating total spend from invoices in the last 90 days"
				case containsAny(q, "30 days", "last 30"):
					return ChatQuery{
						SQL:  "SELECT SUM(total_amount) AS total_spend FROM invoices WHERE date >= NOW() - INTERVAL '30 days'",
						Args: nil,
					}, "Calculating total spend from invoices in the last 30 days"
				default:
					return ChatQuery{
						SQL: "SELECT SUM(total_amount) AS total_spend FROM invoices",
					}, "Calculating total spend from all invoices"
				}
			},
		},
		{
			name: "top_vendors",
			match: func(q string) bool {
				return strings.Contains(q, "top") && containsAny(q, "vendor", "supplier")
			},
			build: func(q string) (ChatQuery, string) {
				n := parseTopN(q, 10)
				return ChatQuery{
					SQL: "SELECT v.name AS vendor, SUM(i.total_amount) AS total_spend, COUNT(*) AS invoice_count " +
						invoiceVendorJoin + " GROUP BY v.id, v.name ORDER BY total_spend DESC LIMIT ?",
					Args: []interface{}{n},
				}, fmt.Sprintf("Finding the top %d vendors by total spend", n)
			},
		},
		{
			name:  "overdue_invoices",
			match: func(q string) bool { return strings.Contains(q, "overdue") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT i.invoice_number, v.name AS vendor, i.total_amount, i.due_date " +
						invoiceVendorJoin + " WHERE i.status = ? ORDER BY i.due_date",
					Args: []interface{}{"overdue"},
				}, "Finding all overdue invoices"
			},
		},
		{
			name:  "pending_invoices",
			match: func(q string) bool { return strings.Contains(q, "pending") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT i.invoice_number, v.name AS vendor, i.total_amount, i.due_date " +
						invoiceVendorJoin + " WHERE i.status = ? ORDER BY i.due_date",
					Args: []interface{}{"pending"},
				}, "Finding all pending invoices"
			},
		},
		{
			name: "invoice_count",
			match: func(q string) bool {
				return containsAny(q, "how many invoice", "count", "number of invoice")
			},
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT COUNT(*) AS total_invoices FROM invoices",
				}, "Counting total number of invoices"
			},
		},
		{
			name:  "category_breakdown",
			match: func(q string) bool { return containsAny(q, "category", "categories") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT COALESCE(NULLIF(category, ''), 'Uncategorized') AS category, " +
						"SUM(total_amount) AS total_spend, COUNT(*) AS invoice_count " +
						"FROM invoices GROUP BY 1 ORDER BY total_spend DESC",
				}, "Breaking down spending by category"
			},
		},
		{
			name:  "department_spend",
			match: func(q string) bool { return strings.Contains(q, "department") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT COALESCE(NULLIF(department_id, ''), 'unknown') AS department, " +
						"SUM(total_amount) AS total_spent, COUNT(*) AS invoice_count, " +
						"AVG(confidence_score) AS avg_confidence " +
						"FROM invoices GROUP BY 1 ORDER BY total_spent DESC",
				}, "Breaking down spending by department with extraction confidence"
			},
		},
		{
			name: "confidence_analysis",
			match: func(q string) bool {
				return containsAny(q, "confidence", "needs review")
			},
			build: func(q string) (ChatQuery, string) {
				if containsAny(q, "review", "low") {
					return ChatQuery{
						SQL: "SELECT i.invoice_number, v.name AS vendor, i.total_amount, i.confidence_score, i.is_validated_by_human " +
							invoiceVendorJoin + " WHERE i.confidence_score < ? ORDER BY i.confidence_score ASC LIMIT ?",
						Args: []interface{}{0.7, 10},
					}, "Listing low-confidence invoices that need human review"
				}
				return ChatQuery{
					SQL: "SELECT COUNT(*) AS total_invoices, AVG(confidence_score) AS avg_confidence, " +
						"SUM(CASE WHEN confidence_score < 0.7 THEN 1 ELSE 0 END) AS low_confidence_count, " +
						"SUM(CASE WHEN is_validated_by_human THEN 1 ELSE 0 END) AS human_validated_count " +
						"FROM invoices",
				}, "Summarizing extraction confidence across all invoices"
			},
		},
		{
			name:  "document_listing",
			match: func(q string) bool { return containsAny(q, "file", "document") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT i.invoice_number, i.file_name, i.file_path, v.name AS vendor, i.total_amount, i.date " +
						invoiceVendorJoin + " WHERE i.file_path <> '' ORDER BY i.date DESC LIMIT ?",
					Args: []interface{}{20},
				}, "Listing uploaded invoice documents, newest first"
			},
		},
		{
			name:  "organization_spend",
			match: func(q string) bool { return containsAny(q, "organization", "organisation") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT COALESCE(NULLIF(organization_id, ''), 'unknown') AS organization, " +
						"SUM(total_amount) AS total_spend, COUNT(*) AS invoice_count " +
						"FROM invoices GROUP BY 1 ORDER BY total_spend DESC",
				}, "Breaking down spending by organization"
			},
		},
		{
			name:  "validated_invoices",
			match: func(q string) bool { return containsAny(q, "validated", "human") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT i.invoice_number, v.name AS vendor, i.total_amount, i.confidence_score " +
						invoiceVendorJoin + " WHERE i.is_validated_by_human = ? ORDER BY i.date DESC",
					Args: []interface{}{true},
				}, "Finding invoices that were validated by a human"
			},
		},
		{
			name:  "tax_analysis",
			match: func(q string) bool { return containsAny(q, "tax", "vat") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT SUM(tax_amount) AS total_tax, AVG(tax_amount) AS avg_tax, " +
						"SUM(total_amount) AS total_spend FROM invoices",
				}, "Analyzing tax amounts across all invoices"
			},
		},
		{
			name:  "average_invoice",
			match: func(q string) bool { return containsAny(q, "average", "avg") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT AVG(total_amount) AS average_invoice FROM invoices",
				}, "Calculating average invoice amount"
			},
		},
		{
			name: "due_soon",
			match: func(q string) bool {
				return containsAny(q, "cash outflow", "due", "next 30")
			},
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT i.invoice_number, v.name AS vendor, i.total_amount, i.due_date " +
						invoiceVendorJoin +
						" WHERE i.status <> ? AND i.due_date >= NOW() AND i.due_date <= NOW() + INTERVAL '30 days'" +
						" ORDER BY i.due_date",
					Args: []interface{}{"paid"},
				}, "Finding invoices due in the next 30 days"
			},
		},
		{
			name:  "paid_invoices",
			match: func(q string) bool { return strings.Contains(q, "paid") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT i.invoice_number, v.name AS vendor, i.total_amount, i.date " +
						invoiceVendorJoin + " WHERE i.status = ? ORDER BY i.date DESC",
					Args: []interface{}{"paid"},
				}, "Finding all paid invoices"
			},
		},
		{
			name:  "recent_invoices",
			match: func(q string) bool { return containsAny(q, "recent", "latest") },
			build: func(string) (ChatQuery, string) {
				return ChatQuery{
					SQL: "SELECT i.invoice_number, v.name AS vendor, i.total_amount, i.date, i.status " +
						invoiceVendorJoin + " ORDER BY i.date DESC LIMIT ?",
					Args: []interface{}{10},
				}, "Finding the 10 most recent invoices"
			},
		},
		defaultRule(),
	}
}
