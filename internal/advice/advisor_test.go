package advice

import (
	"strings"
	"testing"

	bq "github.com/budgetwise/budgetwise/internal/bigquery"
)

func TestAdvicePrompt(t *testing.T) {
	totals := []bq.CategoryTotal{
		{Category: "Dining", Total: 412.5, Count: 23},
		{Category: "Transportation", Total: 120, Count: 4},
	}

	prompt := advicePrompt(totals)

	if !strings.Contains(prompt, "Dining: 412.50 across 23 transactions") {
		t.Errorf("prompt missing dining line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Transportation: 120.00 across 4 transactions") {
		t.Errorf("prompt missing transportation line:\n%s", prompt)
	}
	// Category order is preserved so the model sees largest-first.
	if strings.Index(prompt, "Dining") > strings.Index(prompt, "Transportation") {
		t.Error("prompt reordered categories")
	}
}
