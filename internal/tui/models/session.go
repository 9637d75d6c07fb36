package models

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/allbin/focus"
	"github.com/allbin/focus/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	switch m {
	case InputModeInsert:
		return "INSERT"
	default:
		return "NORMAL"
	}
}

// ConnectionStatusMsg reports the outcome of opening the device
type ConnectionStatusMsg struct {
	Session *focus.Session
	Device  string
	Error   error
}

var errBusy = errors.New("an exchange is already in progress")

// SessionModel holds the state shared by the console views. At most one
// exchange is in flight; the session itself is not safe for concurrent use.
type SessionModel struct {
	session *focus.Session
	device  string
	err     error
	ready   bool
	busy    bool

	inputMode InputMode

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
}

func NewSessionModel(parent context.Context) *SessionModel {
	ctx, cancel := context.WithCancel(parent)
	return &SessionModel{
		inputMode: InputModeNormal,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Connect returns a command that opens the device and reports a ConnectionStatusMsg
func (m *SessionModel) Connect(open func(ctx context.Context) (*focus.Session, string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		session, device, err := open(ctx)
		return ConnectionStatusMsg{Session: session, Device: device, Error: err}
	}
}

// SetConnection stores the result of a ConnectionStatusMsg
func (m *SessionModel) SetConnection(msg ConnectionStatusMsg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = msg.Session
	m.device = msg.Device
	m.err = msg.Error
}

func (m *SessionModel) Session() *focus.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

func (m *SessionModel) Device() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.device
}

func (m *SessionModel) IsConnected() bool {
	return m.Session() != nil
}

func (m *SessionModel) Error() error {
	return m.err
}

// State reports the session state, or Idle before a session exists.
// The session is only inspected between exchanges.
func (m *SessionModel) State() focus.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.busy:
		return focus.StateAwaitingReply
	case m.session == nil:
		return focus.StateIdle
	default:
		return m.session.State()
	}
}

func (m *SessionModel) IsReady() bool {
	return m.ready
}

func (m *SessionModel) SetReady(ready bool) {
	m.ready = ready
}

func (m *SessionModel) IsBusy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.busy
}

// Exchange parses a command line and returns a command running it against
// the session. The returned ExchangeMsg carries the cleaned reply or the error.
func (m *SessionModel) Exchange(line string) tea.Cmd {
	line = strings.TrimSpace(line)
	started := time.Now()

	fail := func(err error) tea.Cmd {
		return func() tea.Msg {
			return components.ExchangeMsg{Request: line, Err: err, Timestamp: started}
		}
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	m.mu.Lock()
	session := m.session
	if session == nil {
		m.mu.Unlock()
		return fail(focus.ErrPortClosed)
	}
	if m.busy {
		m.mu.Unlock()
		return fail(errBusy)
	}
	m.busy = true
	m.mu.Unlock()

	ctx := m.ctx
	return func() tea.Msg {
		reply, err := session.Command(ctx, fields[0], fields[1:]...)
		return components.ExchangeMsg{
			Request:   line,
			Reply:     reply,
			Err:       err,
			Timestamp: started,
			Elapsed:   time.Since(started),
		}
	}
}

// Finish marks the in-flight exchange as done
func (m *SessionModel) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
}

func (m *SessionModel) GetInputMode() InputMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputMode
}

func (m *SessionModel) SetInputMode(mode InputMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMode = mode
}

func (m *SessionModel) IsInInsertMode() bool {
	return m.GetInputMode() == InputModeInsert
}

func (m *SessionModel) Context() context.Context {
	return m.ctx
}

// Cleanup cancels any pending exchange and closes the session
func (m *SessionModel) Cleanup() {
	if m.cancel != nil {
		m.cancel()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.Close()
		m.session = nil
	}
}
