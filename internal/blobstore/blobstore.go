// Package blobstore provides a flat key-value space of opaque records.
// Every implementation serializes single key reads and writes; nothing spans
// more than one key, so concurrent writers to one key are last-write-wins.
package blobstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("blobstore: key not found")

// BlobStore is the persistence contract behind the post repository
type BlobStore interface {
	// Keys lists every key currently stored, in no particular order.
	Keys(ctx context.Context) ([]string, error)
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set creates or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key or returns ErrNotFound.
	Delete(ctx context.Context, key string) error
}
