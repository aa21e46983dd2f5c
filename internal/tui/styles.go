package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/tally/internal/ui/style"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Teal).
			Foreground(style.White)

	filterStyle = lipgloss.NewStyle().
			Foreground(style.Slate)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(style.Teal)

	dimStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	pendingStyle = lipgloss.NewStyle().
			Foreground(style.Yellow)

	helpStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			MarginTop(1)
)
