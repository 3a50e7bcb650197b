package pipeline

import (
	"testing"

	"github.com/budgetwise/budgetwise/internal/domain"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(domain.NewStatementPeriod(2025))
}

func TestNormalize_Accepted(t *testing.T) {
	tests := []struct {
		name         string
		raw          RawRecord
		wantDate     string
		wantDesc     string
		wantAmount   float64
		wantCategory domain.Category
	}{
		{
			name: "statement style record",
			raw: RawRecord{
				"date":        "3/5/25",
				"description": "STARBUCKS #123",
				"amount":      "$4.50",
				"category":    "Dining",
			},
			wantDate:     "2025-03-05",
			wantDesc:     "STARBUCKS #123",
			wantAmount:   4.5,
			wantCategory: domain.CategoryDining,
		},
		{
			name: "iso date and numeric amount",
			raw: RawRecord{
				"date":        "2025-03-05",
				"description": "GROCERY MART",
				"amount":      32.10,
				"category":    "Food",
			},
			wantDate:     "2025-03-05",
			wantDesc:     "GROCERY MART",
			wantAmount:   32.10,
			wantCategory: domain.CategoryFood,
		},
		{
			name: "iso date outside the statement year is clamped",
			raw: RawRecord{
				"date":        "2024-03-05",
				"description": "SUBSCRIPTION",
				"amount":      9.99,
				"category":    "Entertainment",
			},
			wantDate:     "2025-03-05",
			wantDesc:     "SUBSCRIPTION",
			wantAmount:   9.99,
			wantCategory: domain.CategoryEntertainment,
		},
		{
			name: "four digit slash year",
			raw: RawRecord{
				"date":        "12/31/2025",
				"description": "NYE DINNER",
				"amount":      120.00,
				"category":    "Dining",
			},
			wantDate:     "2025-12-31",
			wantDesc:     "NYE DINNER",
			wantAmount:   120.00,
			wantCategory: domain.CategoryDining,
		},
		{
			name: "loose month name date",
			raw: RawRecord{
				"date":        "Mar 5",
				"description": "TAXI",
				"amount":      18.75,
				"category":    "Transportation",
			},
			wantDate:     "2025-03-05",
			wantDesc:     "TAXI",
			wantAmount:   18.75,
			wantCategory: domain.CategoryTransportation,
		},
		{
			name: "unintelligible date defaults to start of period",
			raw: RawRecord{
				"date":        "posted recently",
				"description": "PHARMACY",
				"amount":      6.20,
				"category":    "Health",
			},
			wantDate:     "2025-01-01",
			wantDesc:     "PHARMACY",
			wantAmount:   6.20,
			wantCategory: domain.CategoryHealth,
		},
		{
			name: "amount with thousands separators",
			raw: RawRecord{
				"date":        "2025-02-01",
				"description": "RENT FEBRUARY",
				"amount":      "1,850.00",
				"category":    "Rent",
			},
			wantDate:     "2025-02-01",
			wantDesc:     "RENT FEBRUARY",
			wantAmount:   1850.00,
			wantCategory: domain.CategoryRent,
		},
		{
			name: "negative string amount keeps its sign",
			raw: RawRecord{
				"date":        "2025-02-14",
				"description": "REFUND SHOES",
				"amount":      "-$35.00",
				"category":    "Shopping",
			},
			wantDate:     "2025-02-14",
			wantDesc:     "REFUND SHOES",
			wantAmount:   -35.00,
			wantCategory: domain.CategoryShopping,
		},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, ok := n.Normalize(tt.raw)
			if !ok {
				t.Fatal("record rejected, want accepted")
			}
			if got := tx.Date.String(); got != tt.wantDate {
				t.Errorf("date = %s, want %s", got, tt.wantDate)
			}
			if tx.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", tx.Description, tt.wantDesc)
			}
			if tx.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", tx.Amount, tt.wantAmount)
			}
			if tx.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", tx.Category, tt.wantCategory)
			}
		})
	}
}

func TestNormalize_Rejected(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
	}{
		{
			name: "missing date",
			raw:  RawRecord{"description": "COFFEE", "amount": 4.50},
		},
		{
			name: "empty date",
			raw:  RawRecord{"date": "  ", "description": "COFFEE", "amount": 4.50},
		},
		{
			name: "non-string date",
			raw:  RawRecord{"date": 20250305, "description": "COFFEE", "amount": 4.50},
		},
		{
			name: "uncoercible amount",
			raw:  RawRecord{"date": "2025-03-05", "description": "COFFEE", "amount": "four fifty"},
		},
		{
			name: "missing amount",
			raw:  RawRecord{"date": "2025-03-05", "description": "COFFEE"},
		},
		{
			name: "total summary line",
			raw:  RawRecord{"date": "2025-03-05", "description": "Total", "amount": 1234.56},
		},
		{
			name: "year to date line",
			raw:  RawRecord{"date": "2025-03-05", "description": "Year-to-date Spend", "amount": 5000.0},
		},
		{
			name: "payment acknowledgement",
			raw:  RawRecord{"date": "2025-03-05", "description": "PAYMENT THANK YOU", "amount": -500.0},
		},
		{
			name: "spend categories heading",
			raw:  RawRecord{"date": "2025-03-05", "description": "Spend Categories breakdown", "amount": 100.0},
		},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := n.Normalize(tt.raw); ok {
				t.Error("record accepted, want rejected")
			}
		})
	}
}

func TestNormalize_CategoryResolution(t *testing.T) {
	tests := []struct {
		name          string
		category      any
		spendCategory any
		want          domain.Category
	}{
		{
			name:          "spend category overrides the model's guess",
			category:      "Shopping",
			spendCategory: "Restaurants",
			want:          domain.CategoryDining,
		},
		{
			name:          "spend category matched by substring",
			spendCategory: "Hotel, Entertainment and Recreation - Other",
			want:          domain.CategoryEntertainment,
		},
		{
			name:          "unknown spend category falls through to category",
			category:      "Health",
			spendCategory: "Mystery Label",
			want:          domain.CategoryHealth,
		},
		{
			name:     "category outside the enum becomes Other",
			category: "Groceries",
			want:     domain.CategoryOther,
		},
		{
			name: "no category information at all",
			want: domain.CategoryOther,
		},
		{
			name:          "professional services maps to Other",
			category:      "Utilities",
			spendCategory: "Professional and Financial Services",
			want:          domain.CategoryOther,
		},
	}

	n := newTestNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawRecord{"date": "2025-03-05", "description": "SOMETHING", "amount": 10.0}
			if tt.category != nil {
				raw["category"] = tt.category
			}
			if tt.spendCategory != nil {
				raw["spend_category"] = tt.spendCategory
			}
			tx, ok := n.Normalize(raw)
			if !ok {
				t.Fatal("record rejected, want accepted")
			}
			if tx.Category != tt.want {
				t.Errorf("category = %q, want %q", tx.Category, tt.want)
			}
		})
	}
}

// Re-running normalization on an already-canonical record must yield the
// same record.
func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer()

	first, ok := n.Normalize(RawRecord{
		"date":        "3/5/25",
		"description": "STARBUCKS #123",
		"amount":      "$4.50",
		"category":    "Dining",
	})
	if !ok {
		t.Fatal("first pass rejected")
	}

	second, ok := n.Normalize(RawRecord{
		"date":        first.Date.String(),
		"description": first.Description,
		"amount":      first.Amount,
		"category":    string(first.Category),
	})
	if !ok {
		t.Fatal("second pass rejected")
	}
	if second != first {
		t.Errorf("second pass = %+v, want %+v", second, first)
	}
}
