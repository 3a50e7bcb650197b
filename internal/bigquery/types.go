package bigquery

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/budgetwise/budgetwise/internal/domain"
)

// TransactionRepository provides an interface for transaction-related
// database operations.
type TransactionRepository interface {
	// InsertTransactions inserts a batch of TransactionRow into the database.
	InsertTransactions(ctx context.Context, rows []*TransactionRow) error

	// ListTransactionsByUser retrieves all transactions for a user, newest first.
	ListTransactionsByUser(ctx context.Context, userID string) ([]*TransactionRow, error)

	// QueryTransactionsByDateRange queries a user's transactions within the
	// specified date range.
	QueryTransactionsByDateRange(ctx context.Context, userID string, start, end civil.Date) ([]*TransactionRow, error)

	// CategoryTotalsByUser aggregates a user's spending per expense category.
	CategoryTotalsByUser(ctx context.Context, userID string) ([]CategoryTotal, error)
}

// StatementRepository provides an interface for statement-document
// database operations.
type StatementRepository interface {
	// InsertStatement inserts a single StatementRow into the database.
	InsertStatement(ctx context.Context, row *StatementRow) error

	// MarkStatementProcessed sets the processed timestamp and transaction
	// count for a statement.
	MarkStatementProcessed(ctx context.Context, statementID string, txCount int) error

	// ListStatementsByUser retrieves all statements uploaded by a user.
	ListStatementsByUser(ctx context.Context, userID string) ([]*StatementRow, error)
}

// UserRepository provides an interface for user-related database operations.
type UserRepository interface {
	// InsertUser inserts a single UserRow into the database.
	InsertUser(ctx context.Context, row *UserRow) error

	// FindUserByUsername retrieves a user by username, or nil when absent.
	FindUserByUsername(ctx context.Context, username string) (*UserRow, error)
}

// TransactionRow represents a categorized transaction record in BigQuery.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id" json:"transaction_id"`

	UserID      string `bigquery:"user_id" json:"user_id"`
	StatementID string `bigquery:"statement_id" json:"statement_id"`

	TransactionDate civil.Date `bigquery:"transaction_date" json:"transaction_date"`

	Description string  `bigquery:"description" json:"description"`
	Amount      float64 `bigquery:"amount" json:"amount"`

	ExpenseCategory string `bigquery:"expense_category" json:"expense_category"`

	CreatedTS time.Time `bigquery:"created_ts" json:"created_ts"`
}

// ToDomain converts the row back to the pipeline's transaction shape.
func (r *TransactionRow) ToDomain() domain.Transaction {
	cat, _ := domain.ParseCategory(r.ExpenseCategory)
	return domain.Transaction{
		Date:        r.TransactionDate,
		Description: r.Description,
		Amount:      r.Amount,
		Category:    cat,
	}
}

// StatementRow represents an uploaded statement document in BigQuery.
type StatementRow struct {
	StatementID string `bigquery:"statement_id" json:"statement_id"`
	UserID      string `bigquery:"user_id" json:"user_id"`

	GCSURI           string `bigquery:"gcs_uri" json:"gcs_uri"`
	OriginalFilename string `bigquery:"original_filename" json:"original_filename"`

	StatementYear int `bigquery:"statement_year" json:"statement_year"`

	UploadTS    time.Time              `bigquery:"upload_ts" json:"upload_ts"`
	ProcessedTS bigquery.NullTimestamp `bigquery:"processed_ts" json:"processed_ts,omitempty"`

	TransactionCount bigquery.NullInt64 `bigquery:"transaction_count" json:"transaction_count,omitempty"`
}

// UserRow represents a registered user in BigQuery.
type UserRow struct {
	UserID       string    `bigquery:"user_id" json:"user_id"`
	Username     string    `bigquery:"username" json:"username"`
	PasswordHash string    `bigquery:"password_hash" json:"-"`
	CreatedTS    time.Time `bigquery:"created_ts" json:"created_ts"`
}

// CategoryTotal is one row of the per-category spending aggregate.
type CategoryTotal struct {
	Category string  `bigquery:"expense_category" json:"expense_category"`
	Total    float64 `bigquery:"total" json:"total"`
	Count    int64   `bigquery:"tx_count" json:"tx_count"`
}
