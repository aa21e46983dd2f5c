package domain

import "time"

const (
	// DefaultCacheTTL is the lifetime of a cached page when no TTL is configured.
	DefaultCacheTTL = 5 * time.Minute
	// DefaultPageSize is the number of records per page when none is configured.
	DefaultPageSize = 10
	// DefaultChainFreshness is how long a cursor chain is trusted before it is rebuilt.
	DefaultChainFreshness = 30 * time.Minute
	// DefaultCacheKey is the well-known name of the persisted cache blob.
	DefaultCacheKey = "tally-cache"
	// DefaultCacheDir is where the cache blob lives when no directory is configured.
	DefaultCacheDir = ".tally"
)

// Config holds the runtime configuration of the accelerator.
type Config struct {
	Cache      CacheConfig
	Pagination PaginationConfig
	Log        LogConfig
	Source     SourceConfig
}

// CacheConfig configures the durable cache store.
type CacheConfig struct {
	// Dir is where the cache blob lives. Empty keeps the cache in memory only.
	Dir        string
	Key        string
	DefaultTTL time.Duration
}

// PaginationConfig configures list views.
type PaginationConfig struct {
	PageSize  int
	Freshness time.Duration
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string
	JSON  bool
}

// SourceConfig points at the document source backing the list views.
type SourceConfig struct {
	Fixture string
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Dir:        DefaultCacheDir,
			Key:        DefaultCacheKey,
			DefaultTTL: DefaultCacheTTL,
		},
		Pagination: PaginationConfig{
			PageSize:  DefaultPageSize,
			Freshness: DefaultChainFreshness,
		},
		Log: LogConfig{Level: "info"},
	}
}
