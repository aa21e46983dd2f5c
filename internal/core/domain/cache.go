package domain

import (
	"encoding/json"
	"time"
)

// SnapshotVersion is the layout version written into every persisted cache blob.
const SnapshotVersion = 1

// CacheEntry is a single time-boxed value held by the cache store.
// Entries are replaced wholesale on re-set and never mutated in place.
type CacheEntry struct {
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// NewCacheEntry builds an entry created at now that expires after ttl.
func NewCacheEntry(value json.RawMessage, now time.Time, ttl time.Duration) (CacheEntry, error) {
	if ttl <= 0 {
		return CacheEntry{}, ErrInvalidTTL
	}
	return CacheEntry{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// IsLive reports whether the entry may still be served at now.
func (e CacheEntry) IsLive(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Valid reports whether the entry satisfies ExpiresAt > CreatedAt.
func (e CacheEntry) Valid() bool {
	return e.ExpiresAt.After(e.CreatedAt)
}

// Snapshot is the persisted form of the whole cache.
// Entries holds the encoded map[string]CacheEntry; Checksum covers exactly those bytes.
type Snapshot struct {
	Version  int             `json:"version"`
	Checksum string          `json:"checksum"`
	Entries  json.RawMessage `json:"entries"`
}

// CacheStats is a diagnostic view of the cache contents.
type CacheStats struct {
	Entries     int
	Keys        []string
	ApproxBytes int
	Oldest      time.Time
}
