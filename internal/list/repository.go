package list

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLRepository stores each user's lists as one opaque JSON document in
// SQLite. Last write wins; the engine treats the backend as eventually
// consistent with its in-memory state.
type SQLRepository struct {
	db *sql.DB
}

// NewSQLRepository creates a repository on an existing connection.
func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Load retrieves all lists for a user. A user with no saved document gets
// an empty result, not an error.
func (r *SQLRepository) Load(ctx context.Context, userID string) ([]*List, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM shopping_lists WHERE user_id = ?`, userID,
	).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load shopping lists: %w", err)
	}

	var lists []*List
	if err := json.Unmarshal([]byte(data), &lists); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping lists: %w", err)
	}
	return lists, nil
}

// Save upserts the user's full document.
func (r *SQLRepository) Save(ctx context.Context, userID string, lists []*List) error {
	data, err := json.Marshal(lists)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping lists: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save shopping lists: %w", err)
	}
	return nil
}
