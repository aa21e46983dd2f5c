package blobstore

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the blob in memory. It backs sessions without a cache
// directory and stands in for the filesystem in tests.
type MemoryStore struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the blob, or nil when nothing was saved.
func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.blob), nil
}

// Save replaces the blob.
func (s *MemoryStore) Save(_ context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = slices.Clone(blob)
	return nil
}

// Remove drops the blob.
func (s *MemoryStore) Remove(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blob = nil
	return nil
}
