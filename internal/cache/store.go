// Package cache persists merged enrichment payloads keyed by lookup key, each
// with an expiry timestamp. Stores never delete or refresh entries on read:
// an expired entry stays in place until the next Put for the same key
// supersedes it. Whether an entry is still usable is the caller's decision
// (see [Entry.Fresh]).
package cache

import (
	"context"
	"errors"
	"time"
)

// Default time-to-live per cache table.
const (
	PropertyTTL = 30 * 24 * time.Hour
	ClimateTTL  = 90 * 24 * time.Hour
)

// ErrNotInitialised is returned by methods called on a nil store.
var ErrNotInitialised = errors.New("cache: store not initialised")

// Entry is one cached lookup result.
type Entry struct {
	Key       string
	Payload   []byte
	Sources   []string
	ExpiresAt time.Time
}

// Fresh reports whether the entry may be served at now.
func (e Entry) Fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Store is a persistent key -> payload map with per-entry expiry. The TTL is
// fixed per store at construction.
type Store interface {
	// Get returns the entry for key, expired or not. It does not modify it.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Put replaces any entry for key, setting its expiry to now + TTL.
	Put(ctx context.Context, key string, payload []byte, sources []string) error
}

func cloneSources(sources []string) []string {
	out := make([]string, len(sources))
	copy(out, sources)
	return out
}
