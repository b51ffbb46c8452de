package conversation

import (
	"context"
	"time"
)

// Store is an append-only log of chat turns.
type Store interface {
	// Append writes one turn with a server-assigned timestamp.
	Append(ctx context.Context, role Role, content string) (Turn, error)

	// Recent returns up to limit of the most recently appended turns,
	// oldest first.
	Recent(ctx context.Context, limit int) ([]Turn, error)

	Close() error
}

// Clock returns the current time. Stores take one so tests can pin timestamps.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}
