package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/budgetwise/budgetwise/internal/advice"
	"github.com/budgetwise/budgetwise/internal/api/middleware"
	"github.com/budgetwise/budgetwise/internal/bigquery"
)

// AdviceHandler handles the spending advice endpoint.
type AdviceHandler struct {
	repo    bigquery.TransactionRepository
	advisor advice.Advisor
	log     zerolog.Logger
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(repo bigquery.TransactionRepository, advisor advice.Advisor, log zerolog.Logger) *AdviceHandler {
	return &AdviceHandler{repo: repo, advisor: advisor, log: log}
}

// Get handles GET /api/advice
//
// Aggregates the user's spending per category and asks the model for
// budgeting suggestions.
func (h *AdviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totals, err := h.repo.CategoryTotalsByUser(ctx, middleware.GetUserID(ctx))
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to aggregate spending")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to aggregate spending")
		return
	}

	text, err := h.advisor.Advise(ctx, totals)
	if err != nil {
		if errors.Is(err, advice.ErrNoSpending) {
			middleware.WriteError(w, http.StatusNotFound, "No spending data yet, upload a statement first")
			return
		}
		h.log.Error().Err(err).Msg("Failed to generate advice")
		middleware.WriteError(w, http.StatusBadGateway, "Failed to generate advice")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"advice":     text,
		"categories": totals,
	})
}
