// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written.
var ErrKeyNotFound = errors.New("storage: key not found")

// KV is the opaque key-value store the billing store persists to.
// This abstraction allows swapping storage backends (JSON file, SQLite,
// in-memory) without changing the billing layer. The billing store uses
// exactly one key, but the interface is generic.
type KV interface {
	// Get retrieves the value stored under key.
	// Returns ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the store.
	Close() error
}
