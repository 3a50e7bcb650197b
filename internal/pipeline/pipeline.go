package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/budgetwise/budgetwise/internal/document"
	"github.com/budgetwise/budgetwise/internal/domain"
)

// ErrNoDocument is returned when there is no readable document to
// process. It is the only failure Process reports; everything below the
// document level degrades to fewer records instead of an error.
var ErrNoDocument = errors.New("pipeline: no document to process")

// ProcessorConfig carries the tunable knobs of a pipeline run. Zero
// values fall back to the package defaults.
type ProcessorConfig struct {
	ChunkSize     int
	ChunkOverlap  int
	OracleTimeout time.Duration
}

// Processor runs the full extraction pipeline for one statement document:
// total extraction, chunking, per-window record extraction, normalization
// and reconciliation. A Processor holds no per-run state and is safe to
// reuse across documents.
type Processor struct {
	extractor RecordExtractor
	period    domain.StatementPeriod
	cfg       ProcessorConfig
	log       zerolog.Logger
}

// NewProcessor creates a processor around the given extractor and
// statement period.
func NewProcessor(extractor RecordExtractor, period domain.StatementPeriod, cfg ProcessorConfig, log zerolog.Logger) *Processor {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = DefaultChunkOverlap
	}
	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = DefaultOracleTimeout
	}
	return &Processor{
		extractor: extractor,
		period:    period,
		cfg:       cfg,
		log:       log,
	}
}

// Process extracts, normalizes and reconciles the transactions of one
// statement document. A window whose extraction call fails contributes
// zero records and the run continues; a statement that is mostly
// extractable should never fail as a whole because one window errored.
// An empty result with a nil error is a valid outcome, distinct from the
// ErrNoDocument failure.
func (p *Processor) Process(ctx context.Context, doc *document.Document) ([]domain.Transaction, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	statementTotal, hasTotal := ExtractStatementTotal(doc.Pages)
	if hasTotal {
		p.log.Info().Float64("statement_total", statementTotal).Msg("Extracted statement total")
	} else {
		p.log.Info().Msg("No statement total found; reconciliation disabled")
	}

	windows := SplitPages(doc.Pages, p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	p.log.Info().Int("pages", len(doc.Pages)).Int("windows", len(windows)).Msg("Split document into windows")

	normalizer := NewNormalizer(p.period)
	transactions := make([]domain.Transaction, 0)

	for _, window := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if skipWindow(window.Content) {
			p.log.Debug().Int("chunk", window.ChunkIndex).Msg("Skipping summary/payment window")
			continue
		}

		records, err := p.extractWindow(ctx, window)
		if err != nil {
			p.log.Warn().Err(err).Int("chunk", window.ChunkIndex).Msg("Window extraction failed; continuing without it")
			continue
		}

		for _, raw := range records {
			tx, ok := normalizer.Normalize(raw)
			if !ok {
				continue
			}
			if tx.Amount == 0 {
				p.log.Debug().Str("description", tx.Description).Msg("Skipping zero-value transaction")
				continue
			}
			transactions = append(transactions, tx)
		}
	}

	transactions = Reconcile(transactions, statementTotal, hasTotal, p.period)

	p.log.Info().Int("transactions", len(transactions)).Msg("Statement processing complete")
	return transactions, nil
}

// extractWindow applies the per-call timeout around the oracle call. A
// timed-out call is indistinguishable from any other failed window.
func (p *Processor) extractWindow(ctx context.Context, window Window) ([]RawRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.OracleTimeout)
	defer cancel()
	return p.extractor.ExtractRecords(callCtx, window.Content)
}

// skipWindow recognizes windows that only carry statement aggregates or
// payment acknowledgements; sending those to the model yields noise that
// the normalizer would have to filter record by record.
func skipWindow(content string) bool {
	if strings.Contains(content, "Spend Report") && strings.Contains(content, "Total") {
		return true
	}
	if strings.Contains(content, "Your payments") && strings.Contains(content, "PAYMENT THANK YOU") {
		return true
	}
	return false
}
