package store

import (
	"context"
	"fmt"
)

// Append inserts a new event and returns it with the id SQLite assigned.
// The message is stored verbatim; an empty message is replaced by
// DefaultMessage.
func (s *Store) Append(ctx context.Context, ts, message string) (Event, error) {
	if message == "" {
		message = DefaultMessage
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO events (ts, message) VALUES (?, ?)`,
		ts, message,
	)
	if err != nil {
		return Event{}, fmt.Errorf("append event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Event{}, fmt.Errorf("append event: last insert id: %w", err)
	}

	return Event{ID: id, Timestamp: ts, Message: message}, nil
}
