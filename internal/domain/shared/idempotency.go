package shared

import (
	"context"
	"time"
)

// ErrIdempotencyKeyInUse is returned while another request holds the same key
var ErrIdempotencyKeyInUse = NewDomainError(CodeConflict, "A request with this Idempotency-Key is already in progress")

// StoredResponse is the replayable outcome of a request made with an
// Idempotency-Key header.
type StoredResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore caches responses by idempotency key
type IdempotencyStore interface {
	// Get returns the stored response for key, or (nil, nil) if none exists
	Get(ctx context.Context, key string) (*StoredResponse, error)

	// Save stores the response for key with a TTL
	Save(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error

	// Lock claims key for one request. It fails fast with
	// ErrIdempotencyKeyInUse instead of waiting. The returned function
	// releases the claim; an unreleased claim expires after ttl.
	Lock(ctx context.Context, key string, ttl time.Duration) (func(), error)

	// Close closes the store and releases resources
	Close() error
}
