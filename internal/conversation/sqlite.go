package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore persists turns in the messages table of the embedded database.
type SQLiteStore struct {
	db    *sql.DB
	clock Clock
	loc   *time.Location
}

// NewSQLiteStore creates a store over an already-migrated database.
// Timestamps are recorded in loc (UTC if nil).
func NewSQLiteStore(db *sql.DB, loc *time.Location) *SQLiteStore {
	if loc == nil {
		loc = time.UTC
	}
	return &SQLiteStore{db: db, clock: systemClock, loc: loc}
}

// WithClock replaces the timestamp source.
func (s *SQLiteStore) WithClock(c Clock) *SQLiteStore {
	s.clock = c
	return s
}

func (s *SQLiteStore) Append(ctx context.Context, role Role, content string) (Turn, error) {
	if !role.Valid() {
		return Turn{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	now := s.clock().In(s.loc)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (role, content, timestamp) VALUES (?, ?, ?)`,
		string(role), content, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Turn{}, fmt.Errorf("inserting turn: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Turn{}, fmt.Errorf("reading turn id: %w", err)
	}

	return Turn{ID: id, Role: role, Content: content, CreatedAt: now}, nil
}

func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Turn, error) {
	if limit <= 0 {
		return []Turn{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, timestamp FROM messages ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent turns: %w", err)
	}
	defer rows.Close()

	turns := make([]Turn, 0, min(limit, 64))
	for rows.Next() {
		var (
			t  Turn
			ts string
		)
		if err := rows.Scan(&t.ID, &t.Role, &t.Content, &ts); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			t.CreatedAt = parsed
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}

	// Newest-first from the query; callers want oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
