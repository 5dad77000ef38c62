package cache

import (
	"context"
	"time"
)

// Entry is one cached dataset payload plus its fetch provenance.
type Entry struct {
	// Category is the registry key the payload was fetched for.
	Category string `json:"category"`

	// Source is the URL the payload came from.
	Source string `json:"source"`

	// FetchedAt is when the payload left the origin.
	FetchedAt time.Time `json:"fetched_at"`

	// Payload is the raw response body, undecoded.
	Payload []byte `json:"payload"`
}

// Store is a category-keyed payload cache.
type Store interface {
	// Get returns the entry for a category, or (nil, nil) when the
	// category is absent or its entry has expired.
	Get(ctx context.Context, category string) (*Entry, error)

	// Set publishes a complete entry. ttl bounds how long the entry
	// stays valid; zero or negative ttl means it never expires.
	Set(ctx context.Context, entry *Entry, ttl time.Duration) error

	// Delete removes a category's entry. Deleting an absent entry is
	// not an error.
	Delete(ctx context.Context, category string) error

	// Close releases the backend's resources.
	Close() error
}
