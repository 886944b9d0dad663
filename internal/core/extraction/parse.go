package extraction

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
	"January 2, 2006",
	"2. January 2006",
}

// ParseDate parses a date string best-effort against the layouts the
// upstream extractors are known to emit.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a monetary string after stripping currency symbols,
// thousands separators and whitespace. Both 1,234.56 and 1.234,56 styles
// are accepted.
func ParseAmount(raw string) (float64, bool) {
	s := strings.Map(func(r rune) rune {
		if r == '€' || r == '$' || r == '£' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if s == "" {
		return 0, false
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-comma-1 <= 2 {
			// 1234,5 or 1234,56 — decimal comma
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// AmountOf reads a monetary value off a scalar node, numeric or string.
func AmountOf(n *Node) (float64, bool) {
	if n == nil || n.Kind != KindScalar {
		return 0, false
	}
	if f, ok := n.Float(); ok {
		return f, true
	}
	if s, ok := n.Text(); ok {
		return ParseAmount(s)
	}
	return 0, false
}

// DateOf reads a date value off a scalar node.
func DateOf(n *Node) (time.Time, bool) {
	s, ok := n.Text()
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(s)
}
