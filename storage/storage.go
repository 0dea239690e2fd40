// Package storage defines the secure credential store abstraction: an
// opaque key-value store with at-rest protection, read and written one
// item at a time.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("key not found")

// Store is the port for persisted credentials. Implementations must be
// safe for concurrent use. Delete of a missing key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
