package tui

import "go.trai.ch/tally/internal/core/domain"

// MsgPageLoaded is sent when a load finished successfully.
type MsgPageLoaded struct {
	Page domain.Page[domain.Event]
}

// MsgLoadFailed is sent when a load returned an error.
type MsgLoadFailed struct {
	Err error
}

// MsgPageEvent wraps a pagination state change published by the pager.
type MsgPageEvent struct {
	Event domain.PageEvent
}

// MsgEventsClosed is sent when the subscription channel was closed.
type MsgEventsClosed struct{}
