package progress

import (
	"context"
	"time"
)

// Store keeps one progress blob per key.
//
// Load never fails the caller: a missing, unreadable or malformed entry
// yields Default() and false.
type Store interface {
	Load(ctx context.Context, key string) (State, bool)
	Save(ctx context.Context, key string, s State) error
	Clear(ctx context.Context, key string) error
}

// Purger is implemented by stores that can drop stale entries.
type Purger interface {
	Purge(ctx context.Context, maxAge time.Duration) (int, error)
}
