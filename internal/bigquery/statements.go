package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertStatement inserts a single StatementRow into the statements table.
func (r *Repository) InsertStatement(ctx context.Context, row *StatementRow) error {
	inserter := r.client.Dataset(r.dataset).Table(statementsTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertStatement: inserting row: %w", err)
	}
	return nil
}

// MarkStatementProcessed sets processed_ts and transaction_count for a
// statement after the pipeline finishes.
func (r *Repository) MarkStatementProcessed(ctx context.Context, statementID string, txCount int) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET processed_ts = @processed_ts,
		    transaction_count = @tx_count
		WHERE statement_id = @statement_id
	`, r.dataset, statementsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "processed_ts", Value: time.Now().UTC()},
		{Name: "tx_count", Value: int64(txCount)},
		{Name: "statement_id", Value: statementID},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("MarkStatementProcessed: running update: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("MarkStatementProcessed: waiting for update: %w", err)
	}
	if status.Err() != nil {
		return fmt.Errorf("MarkStatementProcessed: update failed: %w", status.Err())
	}
	return nil
}

// ListStatementsByUser retrieves all statements uploaded by a user,
// newest upload first.
func (r *Repository) ListStatementsByUser(ctx context.Context, userID string) ([]*StatementRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			statement_id,
			user_id,
			gcs_uri,
			original_filename,
			statement_year,
			upload_ts,
			processed_ts,
			transaction_count
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY upload_ts DESC
	`, r.dataset, statementsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListStatementsByUser: query read: %w", err)
	}

	var rows []*StatementRow
	for {
		var row StatementRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListStatementsByUser: iter next: %w", err)
		}
		rows = append(rows, &row)
	}
	return rows, nil
}
