package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/budgetwise/budgetwise/internal/document"
	"github.com/budgetwise/budgetwise/internal/domain"
	"github.com/budgetwise/budgetwise/internal/logger"
	"github.com/budgetwise/budgetwise/internal/pipeline"
)

// process runs the extraction pipeline over a local statement PDF and
// prints the categorized transactions as JSON. Useful for trying out a
// statement without the API server or any cloud storage.
func main() {
	var (
		file    = flag.String("file", "", "Path to the statement PDF (required)")
		year    = flag.Int("year", time.Now().Year(), "Statement year anchoring date parsing")
		model   = flag.String("model", pipeline.DefaultModelName, "Gemini model for extraction")
		out     = flag.String("out", "", "Write JSON to this file instead of stdout")
		timeout = flag.Duration("timeout", 10*time.Minute, "Overall processing timeout")
	)
	flag.Parse()

	log := logger.New()

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}

	doc, err := document.LoadPDF(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to load PDF")
	}
	log.Info().Int("pages", len(doc.Pages)).Msg("Loaded statement")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	extractor, err := pipeline.NewGeminiExtractor(ctx, *model)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini extractor")
	}

	processor := pipeline.NewProcessor(extractor, domain.NewStatementPeriod(*year), pipeline.ProcessorConfig{}, log)

	txs, err := processor.Process(ctx, doc)
	if err != nil {
		log.Fatal().Err(err).Msg("Processing failed")
	}
	log.Info().Int("transactions", len(txs)).Msg("Processing complete")

	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode transactions")
	}
	data = append(data, '\n')

	if *out != "" {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.Fatal().Err(err).Str("out", *out).Msg("Failed to write output file")
		}
		log.Info().Str("out", *out).Msg("Wrote transactions")
		return
	}
	os.Stdout.Write(data)
}
