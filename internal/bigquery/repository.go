package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"
)

const (
	transactionsTable = "transactions"
	statementsTable   = "statements"
	usersTable        = "users"
)

// Repository is the concrete BigQuery-backed implementation of the
// repository interfaces. It holds a shared BigQuery client to avoid
// creating a new connection for each operation.
type Repository struct {
	client  *bigquery.Client
	dataset string
}

// NewRepository creates a Repository with a shared BigQuery client.
func NewRepository(ctx context.Context, projectID, dataset string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{client: client, dataset: dataset}, nil
}

// Close closes the BigQuery client connection. This should be called when
// the repository is no longer needed to release resources.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// InsertTransactions inserts a batch of TransactionRow into the
// transactions table.
func (r *Repository) InsertTransactions(ctx context.Context, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := r.client.Dataset(r.dataset).Table(transactionsTable).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}

// ListTransactionsByUser retrieves all transactions for a user, newest first.
func (r *Repository) ListTransactionsByUser(ctx context.Context, userID string) ([]*TransactionRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			user_id,
			statement_id,
			transaction_date,
			description,
			amount,
			expense_category,
			created_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY transaction_date DESC, created_ts DESC
	`, r.dataset, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	return r.readTransactions(ctx, q, "ListTransactionsByUser")
}

// QueryTransactionsByDateRange queries a user's transactions within the
// specified date range, inclusive on both ends.
func (r *Repository) QueryTransactionsByDateRange(ctx context.Context, userID string, start, end civil.Date) ([]*TransactionRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id,
			user_id,
			statement_id,
			transaction_date,
			description,
			amount,
			expense_category,
			created_ts
		FROM %s.%s
		WHERE user_id = @user_id
		  AND transaction_date >= @start_date
		  AND transaction_date <= @end_date
		ORDER BY transaction_date, created_ts
	`, r.dataset, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "start_date", Value: start.String()},
		{Name: "end_date", Value: end.String()},
	}

	return r.readTransactions(ctx, q, "QueryTransactionsByDateRange")
}

// CategoryTotalsByUser aggregates a user's spending per expense category,
// largest total first.
func (r *Repository) CategoryTotalsByUser(ctx context.Context, userID string) ([]CategoryTotal, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			expense_category,
			SUM(amount) AS total,
			COUNT(*) AS tx_count
		FROM %s.%s
		WHERE user_id = @user_id
		GROUP BY expense_category
		ORDER BY total DESC
	`, r.dataset, transactionsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("CategoryTotalsByUser: query read: %w", err)
	}

	var totals []CategoryTotal
	for {
		var row CategoryTotal
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CategoryTotalsByUser: iter next: %w", err)
		}
		totals = append(totals, row)
	}
	return totals, nil
}

func (r *Repository) readTransactions(ctx context.Context, q *bigquery.Query, op string) ([]*TransactionRow, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: query read: %w", op, err)
	}

	var rows []*TransactionRow
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: iter next: %w", op, err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
