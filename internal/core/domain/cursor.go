package domain

import (
	"slices"
	"time"
)

// Cursor is an opaque continuation token issued by a data source.
// Only the source adapter knows its shape.
type Cursor string

// StartCursor is the null cursor: the beginning of a result set.
const StartCursor Cursor = ""

// IsStart reports whether c points at the start of the result set.
func (c Cursor) IsStart() bool {
	return c == StartCursor
}

// CursorChain is the ordered list of cursors discovered for one filter signature.
// Cursors[i] is the token that fetches page i+1, so Cursors[0] is always StartCursor.
type CursorChain struct {
	Cursors     []Cursor
	TotalPages  int
	LastUpdated time.Time
}

// NewCursorChain returns a chain that only knows the first page.
func NewCursorChain(now time.Time) CursorChain {
	return CursorChain{
		Cursors:     []Cursor{StartCursor},
		TotalPages:  1,
		LastUpdated: now,
	}
}

// Known returns the number of pages whose cursor is known.
func (c CursorChain) Known() int {
	return len(c.Cursors)
}

// CursorFor returns the cursor that fetches page (1-based).
func (c CursorChain) CursorFor(page int) (Cursor, bool) {
	if page < 1 || page > len(c.Cursors) {
		return StartCursor, false
	}
	return c.Cursors[page-1], true
}

// Clone returns a deep copy of the chain.
func (c CursorChain) Clone() CursorChain {
	c.Cursors = slices.Clone(c.Cursors)
	return c
}

// ValidateCursors checks that cursors form a well-formed chain.
func ValidateCursors(cursors []Cursor) error {
	if len(cursors) == 0 || !cursors[0].IsStart() {
		return ErrInvalidChain
	}
	if slices.Contains(cursors[1:], StartCursor) {
		return ErrInvalidChain
	}
	return nil
}
