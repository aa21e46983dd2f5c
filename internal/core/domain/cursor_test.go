package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tally/internal/core/domain"
)

func TestCursorChain(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	chain := domain.NewCursorChain(now)

	assert.Equal(t, 1, chain.Known())
	assert.Equal(t, 1, chain.TotalPages)
	assert.Equal(t, now, chain.LastUpdated)

	cur, ok := chain.CursorFor(1)
	require.True(t, ok)
	assert.True(t, cur.IsStart())

	_, ok = chain.CursorFor(2)
	assert.False(t, ok)
	_, ok = chain.CursorFor(0)
	assert.False(t, ok)

	chain.Cursors = append(chain.Cursors, "c1")
	clone := chain.Clone()
	clone.Cursors[1] = "changed"
	cur, ok = chain.CursorFor(2)
	require.True(t, ok)
	assert.Equal(t, domain.Cursor("c1"), cur)
}

func TestValidateCursors(t *testing.T) {
	assert.NoError(t, domain.ValidateCursors([]domain.Cursor{domain.StartCursor}))
	assert.NoError(t, domain.ValidateCursors([]domain.Cursor{domain.StartCursor, "a", "b"}))

	assert.ErrorIs(t, domain.ValidateCursors(nil), domain.ErrInvalidChain)
	assert.ErrorIs(t, domain.ValidateCursors([]domain.Cursor{"a"}), domain.ErrInvalidChain)
	assert.ErrorIs(t, domain.ValidateCursors([]domain.Cursor{domain.StartCursor, domain.StartCursor}), domain.ErrInvalidChain)
}

func TestPaginationState(t *testing.T) {
	s := domain.InitialPaginationState()
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, 1, s.TotalPages)
	assert.False(t, s.HasPendingJump())

	s.PendingJump = 4
	assert.True(t, s.HasPendingJump())

	assert.Equal(t, "next", domain.DirectionNext.String())
	assert.Equal(t, "prev", domain.DirectionPrev.String())
}
