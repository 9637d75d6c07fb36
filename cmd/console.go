/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/allbin/focus"
	"github.com/allbin/focus/internal/tui/components"
	"github.com/allbin/focus/internal/tui/keys"
	"github.com/allbin/focus/internal/tui/models"
	"github.com/allbin/focus/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive Focus console",
	Long: `Open an interactive console to the keyboard.

Each line typed in insert mode is sent as one Focus command and the
cleaned reply is appended to the transcript. Only one command is in
flight at a time.

Keys:
  i        insert mode
  esc      normal mode
  enter    send command
  ↑/↓      history (insert) or scroll (normal)
  c        clear transcript
  q        quit

Example usage:
  focus console
  focus --device /dev/ttyACM0 console`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runConsoleTUI(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

// consoleModel represents the Bubble Tea model for the console command
type consoleModel struct {
	*models.SessionModel
	transcript *components.Transcript
	statusBar  *components.StatusBar
	input      *components.Input
	help       help.Model
	keys       keys.ConsoleKeys
}

func newConsoleModel(ctx context.Context) *consoleModel {
	m := &consoleModel{
		SessionModel: models.NewSessionModel(ctx),
		transcript:   components.NewTranscript(0, 0), // Sized by WindowSizeMsg
		statusBar:    components.NewStatusBar(viper.GetString("device")),
		input:        components.NewInput("Type a command, e.g. version, and press Enter..."),
		help:         help.New(),
		keys:         keys.NewConsoleKeys(),
	}
	m.statusBar.SetConnecting()
	return m
}

func runConsoleTUI(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m := newConsoleModel(ctx)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()

	m.Cleanup()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *consoleModel) Init() tea.Cmd {
	logger := consoleLogger()
	return m.Connect(func(ctx context.Context) (*focus.Session, string, error) {
		return openSession(ctx, logger)
	})
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Transcript top border, input area (with border) and status bar
		verticalMarginHeight := 1 + 3 + 1

		m.transcript.SetSize(msg.Width, msg.Height-verticalMarginHeight)
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.SetReady(true)
		cmds = append(cmds, m.transcript.Update(msg))

	case models.ConnectionStatusMsg:
		m.SetConnection(msg)
		if msg.Device != "" {
			m.statusBar.SetDevice(msg.Device)
		}
		if msg.Error != nil {
			m.statusBar.SetDisconnected(msg.Error)
			m.transcript.AddLine(styles.ErrorStyle.Render("connection failed: " + msg.Error.Error()))
			break
		}

		config := msg.Session.Config()
		m.statusBar.SetConnected()
		m.statusBar.SetSessionInfo(&components.SessionInfo{
			BaudRate:  config.BaudRate,
			Handshake: config.Handshake,
		})
		m.SetInputMode(models.InputModeInsert)
		m.input.Focus()

	case components.ExchangeMsg:
		m.Finish()
		m.transcript.AddExchange(msg)

	case tea.KeyMsg:
		if m.IsInInsertMode() {
			switch {
			case key.Matches(msg, m.keys.Escape):
				m.SetInputMode(models.InputModeNormal)
				m.input.Blur()
				return m, nil
			case key.Matches(msg, m.keys.Enter):
				line := m.input.Value()
				if cmd := m.Exchange(line); cmd != nil {
					m.input.AddToHistory(line)
					m.input.Reset()
					cmds = append(cmds, cmd)
				}
				return m, tea.Batch(cmds...)
			case msg.Type == tea.KeyUp:
				m.input.NavigateHistoryUp()
				return m, nil
			case msg.Type == tea.KeyDown:
				m.input.NavigateHistoryDown()
				return m, nil
			case msg.Type == tea.KeyCtrlC:
				return m, tea.Quit
			}
		} else {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.InsertMode):
				m.SetInputMode(models.InputModeInsert)
				m.input.Focus()
				return m, nil
			case key.Matches(msg, m.keys.Clear):
				m.transcript.Clear()
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
			case key.Matches(msg, m.keys.Up):
				m.transcript.ScrollUp()
			case key.Matches(msg, m.keys.Down):
				m.transcript.ScrollDown()
			case key.Matches(msg, m.keys.GotoTop):
				m.transcript.GotoTop()
			case key.Matches(msg, m.keys.GotoBottom):
				m.transcript.GotoBottom()
			}
		}
	}

	if m.IsInInsertMode() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *consoleModel) View() string {
	content := "Initializing..."
	if m.IsReady() {
		content = m.transcript.View()
	}

	input := m.input.View(m.IsInInsertMode(), m.IsBusy())
	statusBar := m.statusBar.View(m.IsInInsertMode(), m.State(), m.IsBusy(), time.Now().Format("15:04:05"))

	sections := []string{
		styles.ContentBorderStyle.Render(content),
		input,
		statusBar,
	}
	if m.help.ShowAll {
		sections = append(sections, m.help.View(m.keys))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
