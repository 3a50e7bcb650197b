package pipeline

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// noiseMarkers flag descriptions that belong to statement aggregates
// (spend reports, budgets, payment acknowledgements) rather than actual
// transactions. Matching is case-insensitive substring containment.
var noiseMarkers = []string{
	"total",
	"summary",
	"spend categories",
	"year-to-date",
	"budget",
	"payment thank you",
}

// spendCategoryTable maps statement-native spend report labels onto the
// canonical category set. Checked in order by substring so partial labels
// like "Restaurants and Bars" still resolve. A label not covered here
// falls through to the record's own category guess.
var spendCategoryTable = []struct {
	label    string
	category domain.Category
}{
	{"Restaurants", domain.CategoryDining},
	{"Retail and Grocery", domain.CategoryShopping},
	{"Transportation", domain.CategoryTransportation},
	{"Hotel, Entertainment and Recreation", domain.CategoryEntertainment},
	{"Health and Education", domain.CategoryHealth},
	{"Professional and Financial Services", domain.CategoryOther},
	{"Personal and Household Expenses", domain.CategoryOther},
}

// Normalizer converts raw extracted records into canonical transactions,
// rejecting records that cannot be repaired. Rejection is silent: the
// pipeline filters rejected records out instead of failing.
type Normalizer struct {
	period domain.StatementPeriod
}

// NewNormalizer creates a normalizer bound to the given statement period.
func NewNormalizer(period domain.StatementPeriod) *Normalizer {
	return &Normalizer{period: period}
}

// Normalize returns the canonical transaction for a raw record, or
// ok=false when the record is rejected. Rules are applied in order:
// unusable date, uncoercible amount, summary/noise description, then
// category resolution (which never rejects).
func (n *Normalizer) Normalize(raw RawRecord) (domain.Transaction, bool) {
	dateStr, ok := stringField(raw, "date")
	if !ok || dateStr == "" {
		return domain.Transaction{}, false
	}
	date := n.canonicalDate(dateStr)

	amount, ok := coerceAmount(raw["amount"])
	if !ok {
		return domain.Transaction{}, false
	}

	description, _ := stringField(raw, "description")
	if containsNoiseMarker(description) {
		return domain.Transaction{}, false
	}

	return domain.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Category:    n.resolveCategory(raw),
	}, true
}

// canonicalDate parses the accepted date shapes and forces the result
// into the statement period's year. Statements print two-digit or absent
// years; the period parameter is authoritative. The loose fallback never
// fails, it defaults missing pieces to January 1 of the period year.
func (n *Normalizer) canonicalDate(s string) civil.Date {
	s = strings.TrimSpace(s)

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return n.dateInPeriod(t.Month(), t.Day())
	}

	// MM/DD/YYYY or MM/DD/YY.
	if parts := strings.Split(s, "/"); len(parts) == 3 {
		if month, day, ok := parseMonthDay(parts[0], parts[1]); ok {
			return n.dateInPeriod(month, day)
		}
	}

	// YYYY-MM-DD with a malformed year, or YY-MM-DD.
	if parts := strings.Split(s, "-"); len(parts) == 3 {
		if month, day, ok := parseMonthDay(parts[1], parts[2]); ok {
			return n.dateInPeriod(month, day)
		}
	}

	return n.looseDate(s)
}

// dateInPeriod builds a calendar date in the period year. time.Date
// normalizes overflow (Feb 29 in a non-leap year) so the result always
// parses as a real date.
func (n *Normalizer) dateInPeriod(month time.Month, day int) civil.Date {
	return civil.DateOf(time.Date(n.period.Year, month, day, 0, 0, 0, 0, time.UTC))
}

var dayTokenPattern = regexp.MustCompile(`\d{1,2}`)

// looseDate is the last-resort shape: find a month name and a day number
// anywhere in the text, defaulting each to the start of the period.
func (n *Normalizer) looseDate(s string) civil.Date {
	lower := strings.ToLower(s)

	month := time.January
	for m := time.January; m <= time.December; m++ {
		if strings.Contains(lower, strings.ToLower(m.String()[:3])) {
			month = m
			break
		}
	}

	day := 1
	if token := dayTokenPattern.FindString(s); token != "" {
		if d, err := strconv.Atoi(token); err == nil && d >= 1 && d <= 31 {
			day = d
		}
	}

	return n.dateInPeriod(month, day)
}

func parseMonthDay(monthStr, dayStr string) (time.Month, int, bool) {
	month, err := strconv.Atoi(strings.TrimSpace(monthStr))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(dayStr))
	if err != nil || day < 1 || day > 31 {
		return 0, 0, false
	}
	return time.Month(month), day, true
}

// resolveCategory applies the two-tier category policy: a recognized
// statement-native spend_category label wins, then the record's own
// category if it is a member of the canonical set, then Other.
func (n *Normalizer) resolveCategory(raw RawRecord) domain.Category {
	if label, ok := stringField(raw, "spend_category"); ok && label != "" {
		for _, entry := range spendCategoryTable {
			if strings.Contains(label, entry.label) {
				return entry.category
			}
		}
	}
	if guess, ok := stringField(raw, "category"); ok {
		if category, valid := domain.ParseCategory(strings.TrimSpace(guess)); valid {
			return category
		}
	}
	return domain.CategoryOther
}

func containsNoiseMarker(description string) bool {
	lower := strings.ToLower(description)
	for _, marker := range noiseMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// stringField reads a field as a trimmed string. A missing or mistyped
// value reports ok=false; the model does not always honor the schema.
func stringField(m RawRecord, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// coerceAmount converts an amount field to a float, accepting JSON
// numbers as well as strings carrying a currency symbol and thousands
// separators.
func coerceAmount(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		s := strings.TrimSpace(val)
		negative := false
		if strings.HasPrefix(s, "-") {
			negative = true
			s = strings.TrimSpace(s[1:])
		}
		s = strings.TrimLeft(s, "$£€")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		if negative {
			f = -f
		}
		return f, true
	default:
		return 0, false
	}
}
