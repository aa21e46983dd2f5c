// Package pager implements cursor-based pagination over forward-only data sources.
package pager

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/core/ports"
	"go.trai.ch/tally/internal/engine/cache"
	"go.trai.ch/tally/internal/engine/cursor"
)

// Options configures a Controller.
type Options struct {
	// PageSize is the number of records requested per page.
	PageSize int
	// TTL is how long fetched pages stay in the cache.
	TTL time.Duration
}

// Controller is the pagination state machine of one list view.
//
// Navigation methods only move the view; Load performs the fetching, including
// the replay walk needed to resolve a jump to a page whose cursor is unknown.
type Controller[R any] struct {
	source   ports.DataSource[R]
	store    *cache.Store
	registry *cursor.Registry
	tracer   ports.Tracer
	opts     Options

	mu         sync.Mutex
	filter     domain.Filter
	sig        domain.FilterSignature
	state      domain.PaginationState
	jumpFailed bool

	subMu  sync.Mutex
	subs   map[int]chan domain.PageEvent
	nextID int
}

// NewController creates a Controller showing the first page of filter.
func NewController[R any](
	source ports.DataSource[R],
	store *cache.Store,
	registry *cursor.Registry,
	tracer ports.Tracer,
	opts Options,
	filter domain.Filter,
) *Controller[R] {
	if opts.PageSize <= 0 {
		opts.PageSize = domain.DefaultPageSize
	}
	if opts.TTL <= 0 {
		opts.TTL = domain.DefaultCacheTTL
	}

	c := &Controller[R]{
		source:   source,
		store:    store,
		registry: registry,
		tracer:   tracer,
		opts:     opts,
		subs:     make(map[int]chan domain.PageEvent),
	}
	c.filter = filter.Normalize()
	c.sig = c.filter.Signature()
	c.state = domain.InitialPaginationState()
	c.syncTotalLocked(c.registry.Get(c.sig))
	return c
}

// SetFilter switches the view to filter. The chain and cached pages of the new
// signature are dropped because its result set is assumed to have changed.
func (c *Controller[R]) SetFilter(filter domain.Filter) {
	c.mu.Lock()
	c.filter = filter.Normalize()
	c.sig = c.filter.Signature()
	ev := c.resetLocked()
	c.mu.Unlock()

	c.dropPages(ev.Signature)
	c.publish(ev)
}

// ResetPagination returns the view to page one with a chain that only knows the
// start cursor. Cached pages of the signature are dropped so the next Load refetches.
func (c *Controller[R]) ResetPagination() {
	c.mu.Lock()
	ev := c.resetLocked()
	c.mu.Unlock()

	c.dropPages(ev.Signature)
	c.publish(ev)
}

func (c *Controller[R]) dropPages(sig domain.FilterSignature) {
	c.store.InvalidateByPrefix(context.Background(), sig.PagePrefix())
}

func (c *Controller[R]) resetLocked() domain.PageEvent {
	c.registry.Reset(c.sig)
	gen := c.state.Generation + 1
	c.state = domain.InitialPaginationState()
	c.state.Generation = gen
	c.jumpFailed = false
	return c.eventLocked(domain.PageEventReset, nil)
}

// HandlePageChange steps one page in dir and reports whether the view moved.
// Next requires the cursor of the following page to be known; prev stops at page one.
// Steps are refused while a jump is pending.
func (c *Controller[R]) HandlePageChange(dir domain.Direction) bool {
	c.mu.Lock()
	if c.state.HasPendingJump() {
		c.mu.Unlock()
		return false
	}

	chain := c.registry.Get(c.sig)
	switch dir {
	case domain.DirectionNext:
		if c.state.CurrentPage >= chain.Known() {
			c.mu.Unlock()
			return false
		}
		c.state.CurrentPage++
	case domain.DirectionPrev:
		if c.state.CurrentPage <= 1 {
			c.mu.Unlock()
			return false
		}
		c.state.CurrentPage--
	default:
		c.mu.Unlock()
		return false
	}
	c.state.Generation++
	c.syncTotalLocked(chain)
	ev := c.eventLocked(domain.PageEventNavigated, nil)
	c.mu.Unlock()

	c.publish(ev)
	return true
}

// GoToSpecificPage moves the view to page and reports whether anything changed.
// Pages outside [1, TotalPages] are ignored. A page whose cursor is not known yet
// becomes a pending jump that the next Load resolves by replaying forward.
func (c *Controller[R]) GoToSpecificPage(page int) bool {
	c.mu.Lock()
	if page < 1 || page > c.state.TotalPages {
		c.mu.Unlock()
		return false
	}

	chain := c.registry.Get(c.sig)
	kind := domain.PageEventNavigated
	if page <= chain.Known() {
		c.state.PendingJump = 0
	} else {
		c.state.PendingJump = page
		kind = domain.PageEventJumpPending
	}
	c.state.CurrentPage = page
	c.state.Generation++
	c.jumpFailed = false
	ev := c.eventLocked(kind, nil)
	c.mu.Unlock()

	c.publish(ev)
	return true
}

// ClearPendingJump abandons a pending jump and moves the view back to the last
// page whose cursor is known. It reports whether a jump was pending.
func (c *Controller[R]) ClearPendingJump() bool {
	c.mu.Lock()
	if !c.state.HasPendingJump() {
		c.mu.Unlock()
		return false
	}

	chain := c.registry.Get(c.sig)
	c.state.PendingJump = 0
	c.state.CurrentPage = min(chain.Known(), max(c.state.TotalPages, 1))
	c.state.Generation++
	c.jumpFailed = false
	ev := c.eventLocked(domain.PageEventNavigated, nil)
	c.mu.Unlock()

	c.publish(ev)
	return true
}

// CurrentPage returns the page the view is on.
func (c *Controller[R]) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CurrentPage
}

// TotalPages returns the number of pages known to exist.
func (c *Controller[R]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.TotalPages
}

// State returns a copy of the pagination state.
func (c *Controller[R]) State() domain.PaginationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Filter returns the normalized filter of the view.
func (c *Controller[R]) Filter() domain.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Signature returns the signature of the current filter.
func (c *Controller[R]) Signature() domain.FilterSignature {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sig
}

// Chain returns a copy of the cursor chain of the current filter.
func (c *Controller[R]) Chain() domain.CursorChain {
	c.mu.Lock()
	sig := c.sig
	c.mu.Unlock()
	return c.registry.Get(sig)
}

func (c *Controller[R]) syncTotalLocked(chain domain.CursorChain) {
	c.state.TotalPages = max(chain.TotalPages, c.state.CurrentPage, 1)
}

func (c *Controller[R]) eventLocked(kind domain.PageEventKind, err error) domain.PageEvent {
	return domain.PageEvent{
		Kind:      kind,
		Signature: c.sig,
		State:     c.state,
		Err:       err,
	}
}
