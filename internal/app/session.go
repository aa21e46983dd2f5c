package app

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/core/ports"
	"go.trai.ch/tally/internal/engine/cache"
	"go.trai.ch/tally/internal/engine/cursor"
	"go.trai.ch/zerr"
)

// Session owns the cache store and cursor registry of one signed-in user.
type Session struct {
	cfg      domain.Config
	logger   ports.Logger
	store    *cache.Store
	registry *cursor.Registry

	mu     sync.Mutex
	closed bool
}

// InvalidateResult counts what an invalidation removed.
type InvalidateResult struct {
	Keys   int
	Chains int
}

// NewSession creates a session over persister. A nil clock uses the real clock.
func NewSession(cfg domain.Config, persister ports.Persister, log ports.Logger, clock clockwork.Clock) *Session {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Session{
		cfg:      cfg,
		logger:   log,
		store:    cache.NewStore(persister, log, clock),
		registry: cursor.NewRegistry(clock, cfg.Pagination.Freshness),
	}
}

// Open restores the persisted cache.
func (s *Session) Open(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	s.store.Open(ctx)
	return nil
}

// Close ends the session. Cached pages stay persisted; cursor chains are dropped.
func (s *Session) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.registry.Flush()
	return nil
}

// Config returns the configuration the session was created with.
func (s *Session) Config() domain.Config {
	return s.cfg
}

// Store returns the cache store of the session.
func (s *Session) Store() *cache.Store {
	return s.store
}

// Registry returns the cursor registry of the session.
func (s *Session) Registry() *cursor.Registry {
	return s.registry
}

// Stats reports what the cache holds.
func (s *Session) Stats() (domain.CacheStats, error) {
	if err := s.check(); err != nil {
		return domain.CacheStats{}, err
	}
	return s.store.Stats(), nil
}

// InvalidateScope drops every cached page and cursor chain of scope.
func (s *Session) InvalidateScope(ctx context.Context, scope string) (InvalidateResult, error) {
	if err := s.check(); err != nil {
		return InvalidateResult{}, err
	}
	prefix := domain.ScopePrefix(scope)
	return InvalidateResult{
		Keys:   s.store.InvalidateByPrefix(ctx, prefix),
		Chains: s.registry.InvalidatePrefix(prefix),
	}, nil
}

// InvalidatePrefix drops every cached key starting with prefix.
func (s *Session) InvalidatePrefix(ctx context.Context, prefix string) (InvalidateResult, error) {
	if err := s.check(); err != nil {
		return InvalidateResult{}, err
	}
	return InvalidateResult{
		Keys:   s.store.InvalidateByPrefix(ctx, prefix),
		Chains: s.registry.InvalidatePrefix(prefix),
	}, nil
}

// InvalidateKey drops a single cached key.
func (s *Session) InvalidateKey(ctx context.Context, key string) (InvalidateResult, error) {
	if err := s.check(); err != nil {
		return InvalidateResult{}, err
	}
	if s.store.Invalidate(ctx, key) {
		return InvalidateResult{Keys: 1}, nil
	}
	return InvalidateResult{}, nil
}

// Clear drops the whole cache and its persisted blob.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	s.store.Clear(ctx)
	s.registry.Flush()
	return nil
}

// SignOut clears everything the session cached and closes it.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zerr.Wrap(domain.ErrSessionClosed, "cannot sign out")
	}
	s.closed = true
	s.store.Clear(ctx)
	s.registry.Flush()
	s.logger.Info("signed out, cache cleared")
	return nil
}

func (s *Session) check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return zerr.Wrap(domain.ErrSessionClosed, "session is no longer usable")
	}
	return nil
}
