// Package frequency tracks how often items get checked off, powering the
// "often bought" suggestions. It is a pure side-effect counter: the merge
// engine never reads it.
package frequency

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Store persists frequency counters to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record bumps the counter for a normalized item label.
func (s *Store) Record(ctx context.Context, normalizedLabel string) error {
	normalizedLabel = strings.TrimSpace(normalizedLabel)
	if normalizedLabel == "" {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO frequent_items (label, uses, last_used) VALUES (?, 1, ?)
		 ON CONFLICT(label) DO UPDATE SET uses = uses + 1, last_used = excluded.last_used`,
		normalizedLabel, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record frequent item: %w", err)
	}
	return nil
}

// Search returns up to limit labels matching the query prefix, most used
// first.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label FROM frequent_items
		 WHERE label LIKE ? ESCAPE '\'
		 ORDER BY uses DESC, last_used DESC LIMIT ?`,
		escapeLike(strings.ToLower(strings.TrimSpace(query)))+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search frequent items: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows)
}

// Top returns the limit most used labels.
func (s *Store) Top(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label FROM frequent_items ORDER BY uses DESC, last_used DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list frequent items: %w", err)
	}
	defer rows.Close()

	return collectLabels(rows)
}

func collectLabels(rows *sql.Rows) ([]string, error) {
	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan frequent item: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
