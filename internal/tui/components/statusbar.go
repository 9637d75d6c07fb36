package components

import (
	"fmt"

	"github.com/allbin/focus"
	"github.com/allbin/focus/internal/tui/colors"
	"github.com/allbin/focus/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// SessionInfo describes the open session shown in the status bar
type SessionInfo struct {
	BaudRate  int
	Handshake bool
}

type StatusBar struct {
	device  string
	status  string
	err     error
	width   int
	session *SessionInfo
}

func NewStatusBar(device string) *StatusBar {
	return &StatusBar{
		device: device,
		status: "Initializing...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetDevice(device string) {
	sb.device = device
}

func (sb *StatusBar) SetSessionInfo(info *SessionInfo) {
	sb.session = info
}

func (sb *StatusBar) SetConnecting() {
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected() {
	sb.status = "Connected"
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
	} else {
		sb.status = "Disconnected"
		sb.err = nil
	}
}

func (sb *StatusBar) Status() string {
	return sb.status
}

// View renders the nvim-style status line
func (sb *StatusBar) View(insertMode bool, state focus.State, busy bool, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	modeStyle := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Blue).
		Bold(true).
		Padding(0, 1)
	modeText := "NORMAL"
	if insertMode {
		modeStyle = modeStyle.Background(colors.Green)
		modeText = "INSERT"
	}
	mode := modeStyle.Render(modeText)

	device := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.device)

	var indicator string
	switch {
	case sb.err != nil || state == focus.StateFailed:
		indicator = lipgloss.NewStyle().Foreground(colors.Red).Render("✗")
	case sb.session != nil:
		indicator = lipgloss.NewStyle().Foreground(colors.Green).Render("●")
	default:
		indicator = lipgloss.NewStyle().Foreground(colors.Yellow).Render("○")
	}

	stateText := state.String()
	if busy {
		stateText += "…"
	}
	stateView := styles.GetStateStyle(state).Padding(0, 1).Render(stateText)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	details := "⚡ focus"
	if sb.session != nil {
		details = fmt.Sprintf("⚡ %d baud", sb.session.BaudRate)
		if sb.session.Handshake {
			details += " DTR/DSR"
		}
	}
	detailsView := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(details)

	timeView := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, mode, device, indicator, divider, stateView)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, detailsView, divider, timeView)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	barStyle := lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth)

	return barStyle.Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
