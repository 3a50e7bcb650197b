package bigquery

import (
	"time"

	"github.com/google/uuid"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// RowsFromTransactions maps pipeline output to insertable rows, stamping
// each with a fresh transaction ID and the owning user and statement.
func RowsFromTransactions(txs []domain.Transaction, userID, statementID string) []*TransactionRow {
	now := time.Now().UTC()
	rows := make([]*TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, &TransactionRow{
			TransactionID:   uuid.NewString(),
			UserID:          userID,
			StatementID:     statementID,
			TransactionDate: tx.Date,
			Description:     tx.Description,
			Amount:          tx.Amount,
			ExpenseCategory: string(tx.Category),
			CreatedTS:       now,
		})
	}
	return rows
}
