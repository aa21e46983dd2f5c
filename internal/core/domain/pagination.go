package domain

// Direction is a single-step page transition.
type Direction int

const (
	// DirectionNext moves to the following page.
	DirectionNext Direction = iota
	// DirectionPrev moves to the preceding page.
	DirectionPrev
)

// String returns the direction name.
func (d Direction) String() string {
	if d == DirectionPrev {
		return "prev"
	}
	return "next"
}

// PaginationState is the position of one list view.
type PaginationState struct {
	CurrentPage int
	TotalPages  int
	// PendingJump is the page a jump is replaying towards; zero means none.
	PendingJump int
	// Generation changes whenever the view starts a new request sequence, so
	// results fetched for an older generation can be recognised and dropped.
	Generation uint64
}

// InitialPaginationState returns the state of a freshly reset view.
func InitialPaginationState() PaginationState {
	return PaginationState{CurrentPage: 1, TotalPages: 1}
}

// HasPendingJump reports whether a jump still needs a replay.
func (s PaginationState) HasPendingJump() bool {
	return s.PendingJump != 0
}

// PageEventKind classifies pagination notifications.
type PageEventKind string

const (
	// PageEventReset is published when the view returns to page one.
	PageEventReset PageEventKind = "reset"
	// PageEventNavigated is published when the current page changes.
	PageEventNavigated PageEventKind = "navigated"
	// PageEventJumpPending is published when a jump needs a replay.
	PageEventJumpPending PageEventKind = "jump_pending"
	// PageEventLoaded is published when the current page finished loading.
	PageEventLoaded PageEventKind = "loaded"
	// PageEventFailed is published when loading the current page failed.
	PageEventFailed PageEventKind = "failed"
)

// PageEvent notifies subscribers of a pagination state change.
type PageEvent struct {
	Kind      PageEventKind
	Signature FilterSignature
	State     PaginationState
	Err       error
}
