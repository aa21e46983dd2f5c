package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/ui/style"
)

type inputMode int

const (
	modeBrowse inputMode = iota
	modeJump
	modeSearch
)

// Model is the Bubble Tea model of the list view.
type Model struct {
	ctx         context.Context
	pager       Pager
	events      <-chan domain.PageEvent
	unsubscribe func()

	records []domain.Event
	state   domain.PaginationState
	loading bool
	err     error
	notice  string

	mode    inputMode
	input   textinput.Model
	spinner spinner.Model
	width   int
	height  int
}

// NewModel creates a list view over p and subscribes to its state changes.
func NewModel(ctx context.Context, p Pager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = pendingStyle

	in := textinput.New()
	in.CharLimit = 64

	events, unsubscribe := p.Subscribe()
	return &Model{
		ctx:         ctx,
		pager:       p,
		events:      events,
		unsubscribe: unsubscribe,
		state:       p.State(),
		loading:     true,
		input:       in,
		spinner:     s,
	}
}

// Init loads the first page and starts listening for state changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		LoadPage(m.ctx, m.pager),
		WaitForEvent(m.events),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.handleInputKey(msg)
		}
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgPageLoaded:
		m.records = msg.Page.Records
		m.loading = false
		m.err = nil
		m.state = m.pager.State()
		return m, nil
	case MsgLoadFailed:
		return m.handleLoadFailed(msg)
	case MsgPageEvent:
		m.state = msg.Event.State
		return m, WaitForEvent(m.events)
	case MsgEventsClosed:
		return m, nil
	}
	return m, nil
}

func (m *Model) handleLoadFailed(msg MsgLoadFailed) (tea.Model, tea.Cmd) {
	// A newer load is already in flight.
	if errors.Is(msg.Err, domain.ErrStaleResult) {
		return m, nil
	}
	m.loading = false
	m.err = msg.Err
	m.state = m.pager.State()
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch msg.String() {
	case "ctrl+c", "q":
		m.unsubscribe()
		return m, tea.Quit
	case "right", "l", "n":
		return m.navigate(m.pager.HandlePageChange(domain.DirectionNext))
	case "left", "h", "p":
		return m.navigate(m.pager.HandlePageChange(domain.DirectionPrev))
	case "r":
		m.pager.ResetPagination()
		return m.navigate(true)
	case "s":
		f := m.pager.Filter()
		if f.SortDirection == domain.SortDesc {
			f.SortDirection = domain.SortAsc
		} else {
			f.SortDirection = domain.SortDesc
		}
		m.pager.SetFilter(f)
		return m.navigate(true)
	case "esc":
		return m.navigate(m.pager.ClearPendingJump())
	case "enter":
		// retry after a failure
		return m.navigate(m.err != nil)
	case "g":
		return m.startInput(modeJump, "page: ", "")
	case "/":
		return m.startInput(modeSearch, "search: ", m.pager.Filter().SearchQuery)
	}
	return m, nil
}

func (m *Model) startInput(mode inputMode, prompt, value string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.unsubscribe()
		return m, tea.Quit
	case tea.KeyEsc:
		m.endInput()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.endInput()
		if mode == modeJump {
			return m.jump(value)
		}
		return m.search(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endInput() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) jump(value string) (tea.Model, tea.Cmd) {
	page, err := strconv.Atoi(value)
	if err != nil || !m.pager.GoToSpecificPage(page) {
		m.notice = "no page " + value + " (1-" + strconv.Itoa(m.state.TotalPages) + ")"
		return m, nil
	}
	return m.navigate(true)
}

func (m *Model) search(query string) (tea.Model, tea.Cmd) {
	f := m.pager.Filter()
	if query == "" {
		f.SearchMode = domain.SearchNone
		f.SearchQuery = ""
	} else {
		f.SearchMode = domain.SearchContains
		f.SearchQuery = query
	}
	m.pager.SetFilter(f)
	return m.navigate(true)
}

// navigate starts a load when the pager moved.
func (m *Model) navigate(moved bool) (tea.Model, tea.Cmd) {
	if !moved {
		return m, nil
	}
	m.loading = true
	m.err = nil
	m.state = m.pager.State()
	return m, LoadPage(m.ctx, m.pager)
}

func (m *Model) statusLine() string {
	switch {
	case m.loading && m.state.HasPendingJump():
		return m.spinner.View() + pendingStyle.Render(" "+style.Arrow+" jumping to page "+strconv.Itoa(m.state.PendingJump))
	case m.loading:
		return m.spinner.View() + dimStyle.Render(" loading")
	case m.err != nil && m.state.HasPendingJump():
		return errorStyle.Render(style.Cross+" "+m.err.Error()) + dimStyle.Render("  esc: back to last known page")
	case m.err != nil:
		return errorStyle.Render(style.Cross + " " + m.err.Error())
	case m.notice != "":
		return pendingStyle.Render(style.Warning + " " + m.notice)
	}
	return ""
}
