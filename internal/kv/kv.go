// Package kv provides the key-value store backing all persistent state:
// user records, sessions, and content records. Values are arbitrary JSON
// documents; keys are namespaced with prefixes like "user:" or "event:".
package kv

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound indicates the key does not exist in the store.
var ErrNotFound = errors.New("kv: key not found")

// Store is the contract every backend implements. All implementations
// must be safe for concurrent use. Writes are visible to subsequent
// reads immediately.
type Store interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Set upserts the value at key. The value is marshalled to JSON.
	Set(ctx context.Context, key string, value any) error

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// GetByPrefix returns every stored value whose key starts with
	// prefix, in unspecified order.
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)

	// Close releases backend resources.
	Close() error
}
