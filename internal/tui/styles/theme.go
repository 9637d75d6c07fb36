package styles

import (
	"github.com/allbin/focus"
	"github.com/allbin/focus/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	// Transcript styles
	TimestampStyle = lipgloss.NewStyle().
			Foreground(colors.Overlay0)

	RequestStyle = lipgloss.NewStyle().
			Foreground(colors.Mauve).
			Bold(true)

	ReplyStyle = lipgloss.NewStyle().
			Foreground(colors.Text)

	EmptyReplyStyle = lipgloss.NewStyle().
			Foreground(colors.Overlay0).
			Italic(true)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	// Info styles
	InfoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Align(lipgloss.Center)
)

// GetStateStyle returns the status bar style for a session state
func GetStateStyle(state focus.State) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)

	switch state {
	case focus.StateIdle, focus.StateDone:
		return style.Foreground(colors.Green)
	case focus.StateFlushing, focus.StateSending:
		return style.Foreground(colors.Yellow)
	case focus.StateAwaitingReply, focus.StateDraining:
		return style.Foreground(colors.Peach)
	default:
		return style.Foreground(colors.Red)
	}
}
