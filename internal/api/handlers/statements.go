package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/bigquery"
	"github.com/budgetwise/budgetwise/internal/gcs"
	"github.com/budgetwise/budgetwise/internal/jobs"
)

// maxUploadBytes caps statement uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// StatementsHandler handles statement upload and listing endpoints.
type StatementsHandler struct {
	repo        bigquery.StatementRepository
	storage     gcs.Storage
	publisher   jobs.Publisher
	defaultYear int
	log         zerolog.Logger
}

// NewStatementsHandler creates a new statements handler.
func NewStatementsHandler(repo bigquery.StatementRepository, storage gcs.Storage, publisher jobs.Publisher, defaultYear int, log zerolog.Logger) *StatementsHandler {
	return &StatementsHandler{
		repo:        repo,
		storage:     storage,
		publisher:   publisher,
		defaultYear: defaultYear,
		log:         log,
	}
}

// Upload handles POST /api/statements
//
// Accepts a multipart form with a "file" part (the PDF) and an optional
// "year" field anchoring date parsing. The statement is stored in GCS,
// recorded in BigQuery and queued for asynchronous processing.
func (h *StatementsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "A 'file' part is required")
		return
	}
	defer file.Close()

	year := h.defaultYear
	if yearStr := r.FormValue("year"); yearStr != "" {
		year, err = strconv.Atoi(yearStr)
		if err != nil || year < 1900 || year > 2200 {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid year")
			return
		}
	}

	filename := filepath.Base(header.Filename)
	if filename == "" || filename == "." {
		filename = "statement.pdf"
	}

	statementID := uuid.NewString()
	objectName := fmt.Sprintf("statements/%s/%s/%s-%s", userID, time.Now().Format("2006/01/02"), statementID, filename)

	gcsURI, err := h.storage.Upload(ctx, objectName, file)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to upload statement to GCS")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store statement")
		return
	}

	row := &bigquery.StatementRow{
		StatementID:      statementID,
		UserID:           userID,
		GCSURI:           gcsURI,
		OriginalFilename: filename,
		StatementYear:    year,
		UploadTS:         time.Now().UTC(),
	}
	if err := h.repo.InsertStatement(ctx, row); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert statement metadata")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to save statement metadata")
		return
	}

	job := &jobs.ProcessStatementJob{
		StatementID:   statementID,
		UserID:        userID,
		GCSURI:        gcsURI,
		StatementYear: year,
	}
	if err := h.publisher.PublishProcessStatement(ctx, job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue processing job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue processing job")
		return
	}

	h.log.Info().
		Str("statement_id", statementID).
		Str("job_id", job.JobID).
		Str("gcs_uri", gcsURI).
		Msg("Statement uploaded and queued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"statement_id": statementID,
		"job_id":       job.JobID,
		"gcs_uri":      gcsURI,
		"status":       string(job.Status),
	})
}

// List handles GET /api/statements
func (h *StatementsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	statements, err := h.repo.ListStatementsByUser(ctx, middleware.GetUserID(ctx))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list statements")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list statements")
		return
	}

	if statements == nil {
		statements = []*bigquery.StatementRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"statements": statements,
		"count":      len(statements),
	})
}
