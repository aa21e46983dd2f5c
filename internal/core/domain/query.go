package domain

// Query is one forward-only page request against a data source.
type Query struct {
	Filter   Filter
	Cursor   Cursor
	PageSize int
}

// Page is one page of records returned by a data source.
type Page[R any] struct {
	Records    []R    `json:"records"`
	NextCursor Cursor `json:"next_cursor,omitzero"`
	// TotalCount is set when the source can report the size of the full result set.
	TotalCount *int `json:"total_count,omitempty"`
}

// HasMore reports whether the source issued a cursor for a following page.
func (p Page[R]) HasMore() bool {
	return !p.NextCursor.IsStart()
}

// TotalPages converts the reported total count into a page count of at least one.
// It returns false when the source did not report a total.
func (p Page[R]) TotalPages(pageSize int) (int, bool) {
	if p.TotalCount == nil || pageSize <= 0 {
		return 0, false
	}
	pages := (*p.TotalCount + pageSize - 1) / pageSize
	return max(pages, 1), true
}
