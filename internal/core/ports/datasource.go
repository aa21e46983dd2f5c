package ports

import (
	"context"

	"go.trai.ch/tally/internal/core/domain"
)

// DataSource is the forward-only query capability of the remote document store.
//
// Sources never offer random access: the only way to reach page n+1 is the
// cursor returned while fetching page n.
type DataSource[R any] interface {
	// Query fetches the page that starts at q.Cursor.
	// A page without a next cursor is the last one.
	Query(ctx context.Context, q domain.Query) (domain.Page[R], error)
}
