// Package cursor keeps the cursor chains discovered while paging through filtered result sets.
package cursor

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/zerr"
)

// Registry maps filter signatures to their cursor chains.
// Chains live in memory only and are rebuilt once they outlive the freshness window.
type Registry struct {
	clock     clockwork.Clock
	freshness time.Duration

	mu     sync.Mutex
	chains map[domain.FilterSignature]domain.CursorChain
}

// NewRegistry creates an empty Registry.
// A non-positive freshness falls back to domain.DefaultChainFreshness.
func NewRegistry(clock clockwork.Clock, freshness time.Duration) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if freshness <= 0 {
		freshness = domain.DefaultChainFreshness
	}
	return &Registry{
		clock:     clock,
		freshness: freshness,
		chains:    make(map[domain.FilterSignature]domain.CursorChain),
	}
}

// Get returns a copy of the chain for sig.
// Missing and stale chains are replaced by a fresh chain that only knows page one.
func (r *Registry) Get(sig domain.FilterSignature) domain.CursorChain {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current(sig).Clone()
}

// SetCursors replaces the cursor list of sig.
func (r *Registry) SetCursors(sig domain.FilterSignature, cursors []domain.Cursor) error {
	if err := domain.ValidateCursors(cursors); err != nil {
		return zerr.With(zerr.Wrap(err, "cursor list rejected"), "signature", sig.String())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	chain := r.current(sig)
	chain.Cursors = append([]domain.Cursor(nil), cursors...)
	chain.TotalPages = max(chain.TotalPages, len(chain.Cursors))
	chain.LastUpdated = r.clock.Now()
	r.chains[sig] = chain
	return nil
}

// Append records cursor as the token for page+1, discovered while fetching page.
// It only grows the chain by one at its tail and reports whether it did.
func (r *Registry) Append(sig domain.FilterSignature, page int, cursor domain.Cursor) bool {
	if cursor.IsStart() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	chain := r.current(sig)
	if page != len(chain.Cursors) {
		return false
	}
	chain.Cursors = append(chain.Cursors, cursor)
	chain.TotalPages = max(chain.TotalPages, len(chain.Cursors))
	chain.LastUpdated = r.clock.Now()
	r.chains[sig] = chain
	return true
}

// SetTotalPages records the page count of sig, clamped to at least one.
// It does not refresh the chain.
func (r *Registry) SetTotalPages(sig domain.FilterSignature, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chain := r.current(sig)
	chain.TotalPages = max(total, 1)
	r.chains[sig] = chain
}

// Reset forgets everything known about sig.
func (r *Registry) Reset(sig domain.FilterSignature) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chains[sig] = domain.NewCursorChain(r.clock.Now())
}

// InvalidatePrefix drops every chain whose signature starts with prefix.
func (r *Registry) InvalidatePrefix(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for sig := range r.chains {
		if strings.HasPrefix(sig.String(), prefix) {
			delete(r.chains, sig)
			removed++
		}
	}
	return removed
}

// Flush drops every chain.
func (r *Registry) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chains = make(map[domain.FilterSignature]domain.CursorChain)
}

// Len returns the number of chains held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.chains)
}

// current returns the live chain of sig, creating or rebuilding it as needed.
// Callers must hold r.mu.
func (r *Registry) current(sig domain.FilterSignature) domain.CursorChain {
	now := r.clock.Now()
	chain, ok := r.chains[sig]
	if !ok || now.Sub(chain.LastUpdated) > r.freshness {
		chain = domain.NewCursorChain(now)
		r.chains[sig] = chain
	}
	return chain
}
