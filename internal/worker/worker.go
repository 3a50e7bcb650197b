package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/budgetwise/budgetwise/internal/bigquery"
	"github.com/budgetwise/budgetwise/internal/document"
	"github.com/budgetwise/budgetwise/internal/domain"
	"github.com/budgetwise/budgetwise/internal/gcs"
	"github.com/budgetwise/budgetwise/internal/jobs"
	"github.com/budgetwise/budgetwise/internal/pipeline"
)

// Repository is the slice of persistence the worker needs.
type Repository interface {
	InsertTransactions(ctx context.Context, rows []*bigquery.TransactionRow) error
	MarkStatementProcessed(ctx context.Context, statementID string, txCount int) error
}

// Worker turns queued statement jobs into persisted transactions: fetch
// the PDF from storage, run the extraction pipeline, insert the rows.
type Worker struct {
	extractor pipeline.RecordExtractor
	storage   gcs.Storage
	repo      Repository
	cfg       pipeline.ProcessorConfig
	log       zerolog.Logger

	// loadPDF is swappable in tests so fixtures do not need real PDF bytes.
	loadPDF func(data []byte) (*document.Document, error)
}

// New creates a Worker.
func New(extractor pipeline.RecordExtractor, storage gcs.Storage, repo Repository, cfg pipeline.ProcessorConfig, log zerolog.Logger) *Worker {
	return &Worker{
		extractor: extractor,
		storage:   storage,
		repo:      repo,
		cfg:       cfg,
		log:       log,
		loadPDF:   document.LoadPDFBytes,
	}
}

// Handle processes one statement job. It satisfies jobs.Handler.
func (w *Worker) Handle(ctx context.Context, job *jobs.ProcessStatementJob) error {
	log := w.log.With().
		Str("job_id", job.JobID).
		Str("statement_id", job.StatementID).
		Str("gcs_uri", job.GCSURI).
		Logger()

	log.Info().Msg("Processing statement job")

	data, err := w.storage.Fetch(ctx, job.GCSURI)
	if err != nil {
		return fmt.Errorf("Handle: fetching statement: %w", err)
	}

	doc, err := w.loadPDF(data)
	if err != nil {
		return fmt.Errorf("Handle: loading PDF: %w", err)
	}

	period := domain.NewStatementPeriod(job.StatementYear)
	processor := pipeline.NewProcessor(w.extractor, period, w.cfg, log)

	txs, err := processor.Process(ctx, doc)
	if err != nil {
		return fmt.Errorf("Handle: running pipeline: %w", err)
	}

	rows := bigquery.RowsFromTransactions(txs, job.UserID, job.StatementID)
	if err := w.repo.InsertTransactions(ctx, rows); err != nil {
		return fmt.Errorf("Handle: inserting transactions: %w", err)
	}

	if err := w.repo.MarkStatementProcessed(ctx, job.StatementID, len(rows)); err != nil {
		return fmt.Errorf("Handle: marking statement processed: %w", err)
	}

	job.TransactionCount = len(rows)
	log.Info().Int("transactions", len(rows)).Msg("Statement job completed")
	return nil
}
