// Package tui provides the interactive list view for paginated records.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/tally/internal/core/domain"
)

// Pager is the pagination controller driven by the list view.
type Pager interface {
	Load(ctx context.Context) (domain.Page[domain.Event], error)
	HandlePageChange(dir domain.Direction) bool
	GoToSpecificPage(page int) bool
	ClearPendingJump() bool
	ResetPagination()
	SetFilter(filter domain.Filter)
	Filter() domain.Filter
	State() domain.PaginationState
	Subscribe() (<-chan domain.PageEvent, func())
}

// LoadPage returns a command that loads the current page of p.
func LoadPage(ctx context.Context, p Pager) tea.Cmd {
	return func() tea.Msg {
		page, err := p.Load(ctx)
		if err != nil {
			return MsgLoadFailed{Err: err}
		}
		return MsgPageLoaded{Page: page}
	}
}

// WaitForEvent returns a command that reads the next state change from events.
func WaitForEvent(events <-chan domain.PageEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return MsgEventsClosed{}
		}
		return MsgPageEvent{Event: ev}
	}
}
