package core

import (
	"context"
	"io"
)

// Store keeps named JSON documents. Each collection of records lives under one key.
type Store interface {
	io.Closer

	// Get returns the document stored under key, or nil if there is none.
	Get(ctx context.Context, key string) ([]byte, error)

	// Update replaces the document under key with the result of fn.
	// Concurrent updates of the same store are serialized; an error from fn aborts the write.
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}
