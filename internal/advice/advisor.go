package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	bq "github.com/budgetwise/budgetwise/internal/bigquery"
)

// ErrNoSpending is returned when a user has no transactions to analyze.
var ErrNoSpending = errors.New("advice: no spending data")

// Advisor produces a natural-language review of a user's spending.
type Advisor interface {
	Advise(ctx context.Context, totals []bq.CategoryTotal) (string, error)
}

// GeminiAdvisor is the Gemini-backed Advisor implementation.
type GeminiAdvisor struct {
	client *genai.Client
	model  string
}

// NewGeminiAdvisor creates an advisor using the given Gemini model. The
// client picks up GEMINI_API_KEY from the environment.
func NewGeminiAdvisor(ctx context.Context, model string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiAdvisor: creating client: %w", err)
	}
	return &GeminiAdvisor{client: client, model: model}, nil
}

// Advise asks the model for budgeting suggestions based on the user's
// per-category spending totals.
func (a *GeminiAdvisor) Advise(ctx context.Context, totals []bq.CategoryTotal) (string, error) {
	if len(totals) == 0 {
		return "", ErrNoSpending
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		genai.Text(advicePrompt(totals)), nil)
	if err != nil {
		return "", fmt.Errorf("Advise: generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("Advise: model returned empty response")
	}
	return text, nil
}

func advicePrompt(totals []bq.CategoryTotal) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. ")
	b.WriteString("Review the spending summary below and give practical, specific advice.\n\n")
	b.WriteString("Spending by category:\n")
	for _, t := range totals {
		fmt.Fprintf(&b, "- %s: %.2f across %d transactions\n", t.Category, t.Total, t.Count)
	}
	b.WriteString("\nRespond with 3-5 short suggestions. ")
	b.WriteString("Call out the largest categories first and suggest realistic reductions. ")
	b.WriteString("Plain text only, no markdown.")
	return b.String()
}
