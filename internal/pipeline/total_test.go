package pipeline

import (
	"testing"

	"github.com/budgetwise/budgetwise/internal/document"
)

func TestExtractStatementTotal(t *testing.T) {
	tests := []struct {
		name    string
		pages   []string
		want    float64
		wantOK  bool
	}{
		{
			name:   "strict pattern with count column",
			pages:  []string{"Spend Report\nTotal 12 1,234.56\n"},
			want:   1234.56,
			wantOK: true,
		},
		{
			name:   "loose pattern same line",
			pages:  []string{"Summary\nTotal balance 987.65\n"},
			want:   987.65,
			wantOK: true,
		},
		{
			name:   "amount on the line below",
			pages:  []string{"Spend Report\nTotal\n1,111.22\n"},
			want:   1111.22,
			wantOK: true,
		},
		{
			name:   "no total anywhere",
			pages:  []string{"just some transactions\nCOFFEE SHOP 4.50\n"},
			wantOK: false,
		},
		{
			name:   "empty document",
			pages:  nil,
			wantOK: false,
		},
		{
			name: "strict match on a later page beats an earlier loose match",
			pages: []string{
				"Total abc 55.55",
				"Total 3 99.99",
			},
			want:   99.99,
			wantOK: true,
		},
		{
			name:   "commas stripped before parsing",
			pages:  []string{"Total 7 12,345.67"},
			want:   12345.67,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.FromPages(tt.pages)
			got, ok := ExtractStatementTotal(doc.Pages)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("total = %v, want %v", got, tt.want)
			}
		})
	}
}
