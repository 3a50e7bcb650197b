package handlers

import (
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/bigquery"
)

// TransactionsHandler handles transaction listing and summary endpoints.
type TransactionsHandler struct {
	repo bigquery.TransactionRepository
	log  zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo bigquery.TransactionRepository, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{repo: repo, log: log}
}

// List handles GET /api/transactions
//
// Optional start_date and end_date query parameters (YYYY-MM-DD) narrow
// the range; without them all of the user's transactions are returned.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	query := r.URL.Query()
	startStr := query.Get("start_date")
	endStr := query.Get("end_date")

	var (
		transactions []*bigquery.TransactionRow
		err          error
	)
	if startStr != "" || endStr != "" {
		start, end, parseErr := parseDateRange(startStr, endStr)
		if parseErr != nil {
			middleware.WriteError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		transactions, err = h.repo.QueryTransactionsByDateRange(ctx, userID, start, end)
	} else {
		transactions, err = h.repo.ListTransactionsByUser(ctx, userID)
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to query transactions")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to query transactions")
		return
	}

	// Return array directly for frontend compatibility.
	if transactions == nil {
		transactions = []*bigquery.TransactionRow{}
	}
	middleware.WriteJSON(w, http.StatusOK, transactions)
}

// Summary handles GET /api/transactions/summary
func (h *TransactionsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totals, err := h.repo.CategoryTotalsByUser(ctx, middleware.GetUserID(ctx))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to aggregate spending")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to aggregate spending")
		return
	}

	if totals == nil {
		totals = []bigquery.CategoryTotal{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": totals,
		"count":      len(totals),
	})
}

func parseDateRange(startStr, endStr string) (civil.Date, civil.Date, error) {
	start := civil.Date{Year: 1900, Month: 1, Day: 1}
	end := civil.Date{Year: 2200, Month: 12, Day: 31}

	var err error
	if startStr != "" {
		if start, err = civil.ParseDate(startStr); err != nil {
			return civil.Date{}, civil.Date{}, errInvalidDate("start_date")
		}
	}
	if endStr != "" {
		if end, err = civil.ParseDate(endStr); err != nil {
			return civil.Date{}, civil.Date{}, errInvalidDate("end_date")
		}
	}
	return start, end, nil
}

type errInvalidDate string

func (e errInvalidDate) Error() string {
	return "Invalid " + string(e) + " format, expected YYYY-MM-DD"
}
