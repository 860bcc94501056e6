package kvstore

import (
	"context"
	"sync"

	"github.com/aastu-its/interntrack/core"
)

type memoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory returns a Store that lives as long as the process. Used by tests and throwaway instances.
func NewMemory() core.Store {
	return &memoryStore{docs: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.docs[key]), nil
}

func (s *memoryStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(clone(s.docs[key]))
	if err != nil {
		return err
	}
	s.docs[key] = clone(next)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
