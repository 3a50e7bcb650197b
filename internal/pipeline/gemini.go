package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiExtractor is the production RecordExtractor backed by Gemini.
// One GenerateContent call per window, structured output requested via a
// response schema. The client is created once and shared; calls are
// stateless and independent.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor creates an extractor using application-default
// credentials, the same way the rest of the Google clients are built.
func NewGeminiExtractor(ctx context.Context, model string) (*GeminiExtractor, error) {
	if model == "" {
		model = DefaultModelName
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiExtractor: create genai client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// ExtractRecords sends one window of statement text to the model and
// decodes the returned record array. No retries here; the caller decides
// what a failed window is worth.
func (e *GeminiExtractor) ExtractRecords(ctx context.Context, windowText string) ([]RawRecord, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: extractionPrompt()},
				{Text: "Statement text:\n" + windowText},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recordSchema(),
	}

	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("ExtractRecords: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("ExtractRecords: empty response from model")
	}

	clean := cleanModelJSON(rawText)

	var records []RawRecord
	if err := json.Unmarshal([]byte(clean), &records); err != nil {
		return nil, fmt.Errorf("ExtractRecords: unmarshal JSON: %w\nraw response: %s", err, rawText)
	}

	return records, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only the outermost JSON array if junk remains around it.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
