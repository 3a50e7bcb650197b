package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/budgetwise/budgetwise/internal/document"
)

// Statements print their own aggregate in a handful of layouts. Three
// strategies are tried in fixed order, each scanning pages in document
// order; the first match anywhere wins and strategies are never combined.
var (
	// "Total 12 1,234.56" - a count column between the marker and amount.
	totalStrictPattern = regexp.MustCompile(`Total\s+\d+\s+([\d,]+\.\d{2})`)

	// Any decimal amount later on the same line as "Total".
	totalLoosePattern = regexp.MustCompile(`Total.*?([\d,]*\d\.\d{2})`)

	// A standalone decimal token, used by the line-proximity fallback.
	amountTokenPattern = regexp.MustCompile(`([\d,]*\d\.\d{2})`)
)

// ExtractStatementTotal scans raw page text for the statement-reported
// total. The boolean is false when no strategy matches on any page; that
// is a valid outcome, not an error, and it disables reconciliation.
func ExtractStatementTotal(pages []document.Page) (float64, bool) {
	for _, pattern := range []*regexp.Regexp{totalStrictPattern, totalLoosePattern} {
		for _, page := range pages {
			if m := pattern.FindStringSubmatch(page.Text); m != nil {
				if v, ok := parseAmountToken(m[1]); ok {
					return v, true
				}
			}
		}
	}

	// Fallback: a line containing "Total" with the amount on that line or
	// the one below it (column-style spend reports).
	for _, page := range pages {
		lines := strings.Split(page.Text, "\n")
		for i, line := range lines {
			if !strings.Contains(line, "Total") {
				continue
			}
			if m := amountTokenPattern.FindStringSubmatch(line); m != nil {
				if v, ok := parseAmountToken(m[1]); ok {
					return v, true
				}
			}
			if i+1 < len(lines) {
				if m := amountTokenPattern.FindStringSubmatch(lines[i+1]); m != nil {
					if v, ok := parseAmountToken(m[1]); ok {
						return v, true
					}
				}
			}
		}
	}

	return 0, false
}

// parseAmountToken converts a matched monetary token to a float,
// stripping thousands separators first.
func parseAmountToken(token string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
