// Package cache implements the durable, time-boxed key/value store that sits in
// front of every remote read.
package cache

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// FetchFunc produces the encoded value for a cache miss.
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// Store is an in-memory map of expiring entries mirrored to a single persisted blob.
type Store struct {
	persister ports.Persister
	logger    ports.Logger
	clock     clockwork.Clock

	mu      sync.Mutex
	entries map[string]domain.CacheEntry
	group   singleflight.Group

	// saveMu orders snapshot writes so the last save reflects the latest state.
	saveMu sync.Mutex
}

// NewStore creates a Store that persists through persister.
func NewStore(persister ports.Persister, logger ports.Logger, clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		persister: persister,
		logger:    logger,
		clock:     clock,
		entries:   make(map[string]domain.CacheEntry),
	}
}

// Open loads the persisted snapshot into memory.
// A missing, unreadable or corrupt blob leaves the store empty.
func (s *Store) Open(ctx context.Context) {
	blob, err := s.persister.Load(ctx)
	if err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to load cache snapshot"))
		return
	}
	if len(blob) == 0 {
		return
	}

	entries, err := decodeSnapshot(blob)
	if err != nil {
		s.logger.Warn("discarding cache snapshot: " + err.Error())
		return
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
}

// Fetch returns the live value stored under key, or calls fetch, stores its
// result for ttl and returns it. Errors from fetch are returned unmodified and
// leave the store untouched. Concurrent misses for the same key share one call.
func (s *Store) Fetch(ctx context.Context, key string, fetch FetchFunc, ttl time.Duration) (json.RawMessage, error) {
	if value, ok := s.lookup(key); ok {
		return value, nil
	}
	if ttl <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTTL, "cache fetch rejected"), "key", key)
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A waiter that queued behind a finished flight finds the fresh entry here.
		if value, ok := s.lookup(key); ok {
			return value, nil
		}

		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.store(ctx, key, value, ttl); err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.(json.RawMessage)), nil
}

// Set stores value under key for ttl, replacing any existing entry.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidTTL, "cache set rejected"), "key", key)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to encode cache value"), "key", key)
	}
	return s.store(ctx, key, raw, ttl)
}

// Invalidate removes key and reports whether it was present.
// Removing a missing key is a no-op.
func (s *Store) Invalidate(ctx context.Context, key string) bool {
	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()

	if ok {
		s.persist(ctx)
	}
	return ok
}

// InvalidateByPrefix removes every key starting with prefix and returns how many were removed.
func (s *Store) InvalidateByPrefix(ctx context.Context, prefix string) int {
	s.mu.Lock()
	removed := 0
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.persist(ctx)
	}
	return removed
}

// Clear drops every entry and removes the persisted blob.
func (s *Store) Clear(ctx context.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	s.entries = make(map[string]domain.CacheEntry)
	s.mu.Unlock()

	if err := s.persister.Remove(ctx); err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to remove cache snapshot"))
	}
}

// Stats reports the current contents, expired entries included.
func (s *Store) Stats() domain.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.CacheStats{
		Entries: len(s.entries),
		Keys:    make([]string, 0, len(s.entries)),
	}
	for key, entry := range s.entries {
		stats.Keys = append(stats.Keys, key)
		stats.ApproxBytes += len(key) + len(entry.Value)
		if stats.Oldest.IsZero() || entry.CreatedAt.Before(stats.Oldest) {
			stats.Oldest = entry.CreatedAt
		}
	}
	slices.Sort(stats.Keys)
	return stats
}

func (s *Store) lookup(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !entry.IsLive(s.clock.Now()) {
		return nil, false
	}
	return slices.Clone(entry.Value), true
}

func (s *Store) store(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	entry, err := domain.NewCacheEntry(slices.Clone(value), s.clock.Now(), ttl)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "cache write rejected"), "key", key)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// persist writes the whole map. Failures are reported and the in-memory state is kept.
func (s *Store) persist(ctx context.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	blob, err := encodeSnapshot(s.entries)
	s.mu.Unlock()
	if err != nil {
		s.logger.Error(err)
		return
	}

	if err := s.persister.Save(ctx, blob); err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to persist cache snapshot"))
	}
}

func encodeSnapshot(entries map[string]domain.CacheEntry) ([]byte, error) {
	body, err := json.Marshal(entries)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal cache entries")
	}

	blob, err := json.Marshal(domain.Snapshot{
		Version:  domain.SnapshotVersion,
		Checksum: checksum(body),
		Entries:  body,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to marshal cache snapshot")
	}
	return blob, nil
}

func decodeSnapshot(blob []byte) (map[string]domain.CacheEntry, error) {
	var envelope domain.Snapshot
	if err := json.Unmarshal(blob, &envelope); err != nil {
		return nil, zerr.Wrap(domain.ErrCorruptSnapshot, err.Error())
	}
	if envelope.Version != domain.SnapshotVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrCorruptSnapshot, "unsupported snapshot version"), "version", envelope.Version)
	}
	if envelope.Checksum != checksum(envelope.Entries) {
		return nil, zerr.Wrap(domain.ErrCorruptSnapshot, "checksum mismatch")
	}

	entries := make(map[string]domain.CacheEntry)
	if err := json.Unmarshal(envelope.Entries, &entries); err != nil {
		return nil, zerr.Wrap(domain.ErrCorruptSnapshot, err.Error())
	}
	for key, entry := range entries {
		if !entry.Valid() || entry.Value == nil {
			delete(entries, key)
		}
	}
	return entries, nil
}

func checksum(body []byte) string {
	return strconv.FormatUint(xxhash.Sum64(body), 16)
}
