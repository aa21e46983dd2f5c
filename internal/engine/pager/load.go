package pager

import (
	"context"
	"errors"

	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/core/ports"
	"go.trai.ch/tally/internal/engine/cache"
	"go.trai.ch/zerr"
)

// request is the part of the view captured when a load starts.
type request struct {
	filter domain.Filter
	sig    domain.FilterSignature
	gen    uint64
	page   int
}

// Load fetches the current page through the cache.
//
// When the cursor of the current page is unknown, either because of a pending
// jump or because the chain went stale, Load first walks forward from the last
// known cursor, recording every cursor it discovers. If the result set ends
// before the target, the view lands on the last page that exists.
//
// A failed replay step leaves the jump pending; further loads return
// domain.ErrReplayFailed until ClearPendingJump is called. Results that arrive
// after the view moved on are discarded with domain.ErrStaleResult.
func (c *Controller[R]) Load(ctx context.Context) (domain.Page[R], error) {
	c.mu.Lock()
	req := request{filter: c.filter, sig: c.sig, gen: c.state.Generation, page: c.state.CurrentPage}
	if c.state.HasPendingJump() {
		req.page = c.state.PendingJump
	}
	pending := c.state.HasPendingJump()
	failed := c.jumpFailed
	c.mu.Unlock()

	if failed {
		return domain.Page[R]{}, zerr.With(zerr.Wrap(domain.ErrReplayFailed, "jump must be cleared before retrying"), "target", req.page)
	}

	page, at, err := c.replay(ctx, &req)
	if err != nil {
		if errors.Is(err, domain.ErrStaleResult) {
			return domain.Page[R]{}, err
		}
		return domain.Page[R]{}, c.fail(req, at, pending, err)
	}
	return c.commit(req, page)
}

// replay makes sure the cursor of req.page is known, then fetches it.
// req.page is lowered when the result set turns out to be shorter.
// On failure it also returns the page whose fetch failed.
func (c *Controller[R]) replay(ctx context.Context, req *request) (domain.Page[R], int, error) {
	for {
		chain := c.registry.Get(req.sig)
		if cur, ok := chain.CursorFor(req.page); ok {
			page, err := c.fetch(ctx, req, req.page, cur)
			return page, req.page, err
		}

		last := chain.Known()
		cur, _ := chain.CursorFor(last)
		page, err := c.fetch(ctx, req, last, cur)
		if err != nil {
			return domain.Page[R]{}, last, err
		}
		if !c.current(req.gen) {
			return domain.Page[R]{}, last, zerr.With(zerr.Wrap(domain.ErrStaleResult, "view moved during replay"), "page", last)
		}
		if !page.HasMore() {
			req.page = last
			return page, last, nil
		}
		// fetch appended the discovered cursor; a chain that did not grow was reset underneath the walk.
		if c.registry.Get(req.sig).Known() <= last {
			return domain.Page[R]{}, last, zerr.With(zerr.Wrap(domain.ErrInvalidChain, "cursor chain did not grow"), "page", last)
		}
	}
}

// fetch returns one page, served from the cache when possible, and records
// what it learned about the chain.
func (c *Controller[R]) fetch(ctx context.Context, req *request, page int, cur domain.Cursor) (domain.Page[R], error) {
	result, err := cache.GetOrFetch(ctx, c.store, req.sig.PageKey(page), func(ctx context.Context) (domain.Page[R], error) {
		return c.query(ctx, req, page, cur)
	}, c.opts.TTL)
	if err != nil {
		return domain.Page[R]{}, err
	}

	if result.HasMore() {
		c.registry.Append(req.sig, page, result.NextCursor)
	}
	switch total, ok := result.TotalPages(c.opts.PageSize); {
	case !result.HasMore():
		c.registry.SetTotalPages(req.sig, page)
	case ok:
		c.registry.SetTotalPages(req.sig, total)
	default:
		chain := c.registry.Get(req.sig)
		c.registry.SetTotalPages(req.sig, max(chain.TotalPages, chain.Known()))
	}
	return result, nil
}

func (c *Controller[R]) query(ctx context.Context, req *request, page int, cur domain.Cursor) (domain.Page[R], error) {
	ctx, span := c.tracer.Start(ctx, "pager.query",
		ports.WithAttribute("signature", req.sig.String()),
		ports.WithAttribute("page", page),
	)
	defer span.End()

	result, err := c.source.Query(ctx, domain.Query{
		Filter:   req.filter,
		Cursor:   cur,
		PageSize: c.opts.PageSize,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Page[R]{}, err
	}
	span.SetAttribute("records", len(result.Records))
	return result, nil
}

// commit applies a loaded page to the view unless the view moved on meanwhile.
func (c *Controller[R]) commit(req request, page domain.Page[R]) (domain.Page[R], error) {
	c.mu.Lock()
	if c.state.Generation != req.gen {
		c.mu.Unlock()
		return domain.Page[R]{}, zerr.With(zerr.Wrap(domain.ErrStaleResult, "view moved during load"), "page", req.page)
	}

	c.state.CurrentPage = req.page
	c.state.PendingJump = 0
	c.syncTotalLocked(c.registry.Get(req.sig))
	ev := c.eventLocked(domain.PageEventLoaded, nil)
	c.mu.Unlock()

	c.publish(ev)
	return page, nil
}

// fail wraps err with the load position and publishes it. A failed step of a
// pending jump abandons the jump until the caller clears it.
func (c *Controller[R]) fail(req request, page int, pending bool, err error) error {
	wrapped := zerr.With(zerr.Wrap(err, "failed to load page"), "page", page)
	wrapped = zerr.With(wrapped, "signature", req.sig.String())
	if pending {
		wrapped = zerr.With(wrapped, "target", req.page)
	}

	c.mu.Lock()
	if c.state.Generation != req.gen {
		c.mu.Unlock()
		return wrapped
	}
	c.jumpFailed = pending
	ev := c.eventLocked(domain.PageEventFailed, wrapped)
	c.mu.Unlock()

	c.publish(ev)
	return wrapped
}

func (c *Controller[R]) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Generation == gen
}
