package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers the outcome of client requests carrying an
// idempotency key so that retries return the original result.
type IdempotencyStore interface {
	// Claim atomically reserves key for ttl. When the key is already taken it
	// returns false together with the stored value, which is empty while the
	// first request is still in flight.
	Claim(ctx context.Context, key string, ttl time.Duration) (claimed bool, value string, err error)

	// Complete records the result of a claimed key
	Complete(ctx context.Context, key, value string, ttl time.Duration) error

	// Release frees a claimed key after a failed request so it can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// ErrIdempotencyInProgress is returned when a request with the same key is still running
var ErrIdempotencyInProgress = NewDomainError("IDEMPOTENCY_IN_PROGRESS", "A request with this idempotency key is already being processed")
