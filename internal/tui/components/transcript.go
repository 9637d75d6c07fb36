package components

import (
	"strings"
	"time"

	"github.com/allbin/focus/internal/tui/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ExchangeMsg carries the outcome of one request/reply exchange
type ExchangeMsg struct {
	Request   string
	Reply     string
	Err       error
	Timestamp time.Time
	Elapsed   time.Duration
}

// FormatExchange renders an exchange as the request line followed by the reply lines
func FormatExchange(msg ExchangeMsg) string {
	var b strings.Builder

	b.WriteString(styles.TimestampStyle.Render(msg.Timestamp.Format("15:04:05.000")))
	b.WriteString(" ")
	b.WriteString(styles.RequestStyle.Render("> " + msg.Request))

	switch {
	case msg.Err != nil:
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render("  error: " + msg.Err.Error()))
	case msg.Reply == "":
		b.WriteString("\n")
		b.WriteString(styles.EmptyReplyStyle.Render("  (no reply)"))
	default:
		for _, line := range strings.Split(msg.Reply, "\n") {
			b.WriteString("\n")
			b.WriteString(styles.ReplyStyle.Render("  " + line))
		}
	}

	return b.String()
}

// Transcript is the scrollable history of exchanges
type Transcript struct {
	viewport viewport.Model
	entries  []string
}

func NewTranscript(width, height int) *Transcript {
	return &Transcript{
		viewport: viewport.New(width, height),
		entries:  make([]string, 0),
	}
}

func (t *Transcript) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
}

// AddExchange appends an exchange and scrolls to it
func (t *Transcript) AddExchange(msg ExchangeMsg) {
	t.AddLine(FormatExchange(msg))
}

// AddLine appends a preformatted entry and scrolls to it
func (t *Transcript) AddLine(line string) {
	t.entries = append(t.entries, line)
	t.viewport.SetContent(strings.Join(t.entries, "\n"))
	t.viewport.GotoBottom()
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

func (t *Transcript) Clear() {
	t.entries = make([]string, 0)
	t.viewport.SetContent("")
}

func (t *Transcript) ScrollUp() { t.viewport.LineUp(1) }
func (t *Transcript) ScrollDown() { t.viewport.LineDown(1) }
func (t *Transcript) GotoTop() { t.viewport.GotoTop() }
func (t *Transcript) GotoBottom() { t.viewport.GotoBottom() }
func (t *Transcript) AtBottom() bool { return t.viewport.AtBottom() }

func (t *Transcript) Update(msg tea.Msg) tea.Cmd {
	// Key messages are handled by the model so the viewport does not eat bindings
	if _, ok := msg.(tea.WindowSizeMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

func (t *Transcript) View() string {
	return t.viewport.View()
}
