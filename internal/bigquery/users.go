package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// InsertUser inserts a single UserRow into the users table.
func (r *Repository) InsertUser(ctx context.Context, row *UserRow) error {
	inserter := r.client.Dataset(r.dataset).Table(usersTable).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertUser: inserting row: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username. Returns (nil, nil)
// when no user matches.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*UserRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			user_id,
			username,
			password_hash,
			created_ts
		FROM %s.%s
		WHERE username = @username
		LIMIT 1
	`, r.dataset, usersTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "username", Value: username},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("FindUserByUsername: query read: %w", err)
	}

	var row UserRow
	err = it.Next(&row)
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindUserByUsername: iter next: %w", err)
	}
	return &row, nil
}
