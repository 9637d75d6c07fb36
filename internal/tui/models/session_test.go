package models

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/allbin/focus"
	"github.com/allbin/focus/internal/tui/components"
)

// echoTransport answers every request line with "<line> ok" and the
// Focus end marker
type echoTransport struct {
	mu      sync.Mutex
	pending []byte
	writes  []string
	closed  bool
}

func (e *echoTransport) Read(buf []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.pending) == 0 {
		return 0, focus.ErrReadTimeout
	}
	n := copy(buf, e.pending)
	e.pending = e.pending[n:]
	return n, nil
}

func (e *echoTransport) Write(data []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	line := strings.TrimSuffix(string(data), "\n")
	e.writes = append(e.writes, line)
	e.pending = append(e.pending, []byte(strings.TrimSpace(line)+" ok\r\n.\r\n")...)
	return len(data), nil
}

func (e *echoTransport) Buffered() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending), nil
}

func (e *echoTransport) SetDTR(bool) error { return nil }
func (e *echoTransport) DSR() (bool, error) { return true, nil }
func (e *echoTransport) FlushInput() error { return nil }

func (e *echoTransport) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func newConnectedModel(t *testing.T) (*SessionModel, *echoTransport) {
	t.Helper()

	transport := &echoTransport{}
	session, err := focus.NewSession(transport, focus.WithPollInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	m := NewSessionModel(context.Background())
	m.SetConnection(ConnectionStatusMsg{Session: session, Device: "/dev/ttyACM0"})
	return m, transport
}

func TestInputModeString(t *testing.T) {
	if InputModeNormal.String() != "NORMAL" {
		t.Errorf("Expected NORMAL, got %s", InputModeNormal)
	}
	if InputModeInsert.String() != "INSERT" {
		t.Errorf("Expected INSERT, got %s", InputModeInsert)
	}
}

func TestExchangeRunsCommand(t *testing.T) {
	m, transport := newConnectedModel(t)

	cmd := m.Exchange("  led.setAll 255 0 0 ")
	if cmd == nil {
		t.Fatal("Expected a command")
	}
	if !m.IsBusy() {
		t.Error("Model should be busy while the exchange runs")
	}
	if m.State() != focus.StateAwaitingReply {
		t.Errorf("Expected awaiting reply while busy, got %s", m.State())
	}

	msg, ok := cmd().(components.ExchangeMsg)
	if !ok {
		t.Fatalf("Expected ExchangeMsg, got %T", msg)
	}
	m.Finish()

	if msg.Err != nil {
		t.Fatalf("Exchange failed: %v", msg.Err)
	}
	if msg.Request != "led.setAll 255 0 0" {
		t.Errorf("Request = %q", msg.Request)
	}
	if msg.Reply != "led.setAll 255 0 0 ok" {
		t.Errorf("Reply = %q", msg.Reply)
	}
	if len(transport.writes) != 1 || transport.writes[0] != "led.setAll 255 0 0" {
		t.Errorf("Unexpected writes: %q", transport.writes)
	}
	if m.IsBusy() {
		t.Error("Model should not be busy after Finish")
	}
	if m.State() != focus.StateIdle {
		t.Errorf("Expected idle after exchange, got %s", m.State())
	}
}

func TestExchangeRejectsWhileBusy(t *testing.T) {
	m, _ := newConnectedModel(t)

	first := m.Exchange("version")
	if first == nil {
		t.Fatal("Expected a command")
	}

	msg := m.Exchange("help")().(components.ExchangeMsg)
	if !errors.Is(msg.Err, errBusy) {
		t.Errorf("Expected errBusy, got %v", msg.Err)
	}

	first()
	m.Finish()
}

func TestExchangeWithoutSession(t *testing.T) {
	m := NewSessionModel(context.Background())

	cmd := m.Exchange("version")
	if cmd == nil {
		t.Fatal("Expected a command reporting the error")
	}
	msg := cmd().(components.ExchangeMsg)
	if !errors.Is(msg.Err, focus.ErrPortClosed) {
		t.Errorf("Expected ErrPortClosed, got %v", msg.Err)
	}
	if m.IsBusy() {
		t.Error("Failed exchange should not mark the model busy")
	}
}

func TestExchangeIgnoresBlankLine(t *testing.T) {
	m, transport := newConnectedModel(t)

	if cmd := m.Exchange("   "); cmd != nil {
		t.Error("Blank line should not produce a command")
	}
	if len(transport.writes) != 0 {
		t.Errorf("Nothing should be written, got %q", transport.writes)
	}
}

func TestConnect(t *testing.T) {
	m := NewSessionModel(context.Background())
	openErr := errors.New("no keyboard")

	cmd := m.Connect(func(ctx context.Context) (*focus.Session, string, error) {
		return nil, "", openErr
	})
	msg := cmd().(ConnectionStatusMsg)
	m.SetConnection(msg)

	if !errors.Is(m.Error(), openErr) {
		t.Errorf("Expected connect error, got %v", m.Error())
	}
	if m.IsConnected() {
		t.Error("Model should not be connected")
	}
}

func TestCleanupClosesSession(t *testing.T) {
	m, transport := newConnectedModel(t)

	m.Cleanup()

	if !transport.closed {
		t.Error("Cleanup should close the transport")
	}
	if m.IsConnected() {
		t.Error("Model should be disconnected after Cleanup")
	}
	if m.Context().Err() == nil {
		t.Error("Cleanup should cancel the model context")
	}
}
