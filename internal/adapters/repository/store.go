// Package repository defines the feed cache interface and its Redis implementation.
package repository

import (
	"context"
	"time"
)

// Store caches raw play-by-play payloads keyed by game id.
type Store interface {
	// Get returns the cached payload for gameID.
	// Returns ErrNotFound if nothing is cached or the entry expired.
	Get(ctx context.Context, gameID string) ([]byte, error)

	// Put caches payload for gameID. A non-positive ttl stores without expiry.
	Put(ctx context.Context, gameID string, payload []byte, ttl time.Duration) error
}
