package pipeline

import (
	"strings"

	"google.golang.org/genai"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// extractionPrompt builds the instruction block sent with every window.
// The category enum is a hint for the model, not a guarantee; the
// normalizer re-validates every field locally.
func extractionPrompt() string {
	categories := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		categories = append(categories, string(c))
	}

	var b strings.Builder
	b.WriteString("You are a financial statement parser for bank and credit card statements.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Extract ALL spending transactions from the statement text below.\n")
	b.WriteString("- Output STRICT JSON only: a JSON array of objects, no comments, no extra text.\n\n")
	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"date\": string, the transaction date as printed (e.g. \"2025-03-05\" or \"3/5/25\")\n")
	b.WriteString("- \"description\": string, the transaction description\n")
	b.WriteString("- \"amount\": number, the transaction amount\n")
	b.WriteString("- \"category\": string, one of: " + strings.Join(categories, ", ") + "\n")
	b.WriteString("- \"spend_category\": string, the statement's own spend category label if one is printed, else omit\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Only include actual transactions, never totals, summaries, or budget lines.\n")
	b.WriteString("- If no transactions appear in the text, return an empty array [].\n")
	b.WriteString("Return ONLY valid raw JSON. Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")

	return b.String()
}

// recordSchema declares the extraction schema passed to the model as a
// structured-output constraint. Required: date, description, amount.
func recordSchema() *genai.Schema {
	categories := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		categories = append(categories, string(c))
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"date": {
					Type:        genai.TypeString,
					Description: "Transaction date in YYYY-MM-DD or MM/DD/YY format",
				},
				"description": {
					Type:        genai.TypeString,
					Description: "Description of the transaction",
				},
				"amount": {
					Type:        genai.TypeNumber,
					Description: "Transaction amount as a number",
				},
				"category": {
					Type:        genai.TypeString,
					Enum:        categories,
					Description: "Category of the transaction",
				},
				"spend_category": {
					Type:        genai.TypeString,
					Description: "The original spend category label from the statement",
				},
			},
			Required: []string{"date", "description", "amount"},
		},
	}
}
