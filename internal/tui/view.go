package tui

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/tally/internal/core/domain"
	"go.trai.ch/tally/internal/ui/style"
)

const (
	dateLayout     = "2006-01-02"
	titleWidth     = 34
	categoryWidth  = 12
	helpText       = "←/→ page • g jump • / search • s sort • r reset • q quit"
	inputHelpText  = "enter confirm • esc cancel"
	emptyListLabel = "no matching records"
)

// View renders the current state of the model as a string.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Events"))
	b.WriteString(" ")
	b.WriteString(m.pageLabel())
	b.WriteString("\n")
	b.WriteString(filterStyle.Render(describeFilter(m.pager.Filter())))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(row("DATE", "TITLE", "CATEGORY", "ATTENDEES")))
	b.WriteString("\n")
	if len(m.records) == 0 && !m.loading {
		b.WriteString(dimStyle.Render(emptyListLabel))
		b.WriteString("\n")
	}
	for _, ev := range m.records {
		b.WriteString(row(ev.Date.Format(dateLayout), ev.Title, ev.Category, strconv.Itoa(ev.Attendees)))
		b.WriteString("\n")
	}

	if status := m.statusLine(); status != "" {
		b.WriteString("\n")
		b.WriteString(status)
		b.WriteString("\n")
	}

	if m.mode != modeBrowse {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString(helpStyle.Render(inputHelpText))
		return b.String()
	}
	b.WriteString(helpStyle.Render(helpText))
	return b.String()
}

func (m *Model) pageLabel() string {
	label := fmt.Sprintf("page %d of %d", m.state.CurrentPage, m.state.TotalPages)
	if m.state.HasPendingJump() {
		return pendingStyle.Render(label + " " + style.Circle)
	}
	return label
}

func row(date, title, category, attendees string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(len(dateLayout)+2).Render(date),
		lipgloss.NewStyle().Width(titleWidth).MaxWidth(titleWidth).Render(truncate(title, titleWidth-2)),
		lipgloss.NewStyle().Width(categoryWidth).Render(category),
		lipgloss.NewStyle().Align(lipgloss.Right).Width(len("ATTENDEES")).Render(attendees),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// describeFilter renders the filter the way a user would phrase it.
func describeFilter(f domain.Filter) string {
	parts := []string{"sorted by " + cmp.Or(f.SortField, "date") + " " + string(f.SortDirection)}
	if f.Category != "" {
		parts = append(parts, "category "+f.Category)
	}
	if f.SearchMode != domain.SearchNone && f.SearchQuery != "" {
		parts = append(parts, fmt.Sprintf("%s %q", f.SearchMode, f.SearchQuery))
	}
	return strings.Join(parts, " · ")
}

