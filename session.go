package focus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// State is the position of a Session in the request/reply cycle
type State int

const (
	StateIdle State = iota
	StateFlushing
	StateSending
	StateAwaitingReply
	StateDraining
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFlushing:
		return "flushing"
	case StateSending:
		return "sending"
	case StateAwaitingReply:
		return "awaiting reply"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session runs Focus exchanges over a single transport. A Session is
// not safe for concurrent use; exchanges must be issued one at a time.
type Session struct {
	transport Transport
	config    Config
	log       zerolog.Logger

	state State
	err   error

	// sleep is replaced in tests
	sleep func(time.Duration)
}

// NewSession wraps an already open transport
func NewSession(transport Transport, opts ...Option) (*Session, error) {
	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Session{
		transport: transport,
		config:    config,
		log:       config.Logger.With().Str("component", "focus").Logger(),
		state:     StateIdle,
		sleep:     time.Sleep,
	}, nil
}

// Dial opens device, wraps it in a Session and flushes stale output.
// The returned Session owns the port; Close releases it.
func Dial(ctx context.Context, device string, opts ...Option) (*Session, error) {
	port, err := Open(device, opts...)
	if err != nil {
		return nil, err
	}

	s, err := NewSession(port, opts...)
	if err != nil {
		port.Close()
		return nil, err
	}

	if err := s.Flush(ctx); err != nil {
		port.Close()
		return nil, err
	}

	return s, nil
}

// State returns the current state of the session
func (s *Session) State() State {
	return s.state
}

// Err returns the error that failed the session, if any
func (s *Session) Err() error {
	return s.err
}

// Config returns the configuration the session runs with
func (s *Session) Config() Config {
	return s.config
}

// Close releases the underlying transport
func (s *Session) Close() error {
	return s.transport.Close()
}

func (s *Session) setState(state State) {
	if s.state == state {
		return
	}
	s.log.Trace().Stringer("from", s.state).Stringer("to", state).Msg("state")
	s.state = state
}

// fail moves the session to StateFailed and records the cause
func (s *Session) fail(err error) error {
	s.setState(StateFailed)
	s.err = err
	s.log.Debug().Err(err).Msg("session failed")
	return err
}

func (s *Session) ready() error {
	if s.state == StateFailed {
		return fmt.Errorf("%w: %w", ErrSessionFailed, s.err)
	}
	return nil
}

// Flush sends an empty command and discards whatever the device replies,
// clearing any reply left over from an earlier interaction.
func (s *Session) Flush(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}

	s.setState(StateFlushing)
	s.log.Debug().Msg("flushing")

	if err := s.send(flushCommand); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	discarded, err := s.receive(ctx)
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	s.log.Debug().Int("discarded", len(discarded)).Msg("flushed")
	s.setState(StateIdle)
	return nil
}

// Send writes one request line without waiting for the reply
func (s *Session) Send(command string, args ...string) error {
	if err := s.ready(); err != nil {
		return err
	}

	if err := s.send(command, args...); err != nil {
		return err
	}

	s.setState(StateIdle)
	return nil
}

// ReadReply waits for the device to start answering, drains the reply
// until the line goes quiet and returns it cleaned
func (s *Session) ReadReply(ctx context.Context) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}

	raw, err := s.receive(ctx)
	if err != nil {
		return "", err
	}

	s.setState(StateDone)
	reply := Clean(raw)
	s.setState(StateIdle)
	return reply, nil
}

// Command sends a request and returns the cleaned reply
func (s *Session) Command(ctx context.Context, command string, args ...string) (string, error) {
	if err := s.Send(command, args...); err != nil {
		return "", err
	}
	return s.ReadReply(ctx)
}

func (s *Session) send(command string, args ...string) error {
	request, err := FormatRequest(command, args...)
	if err != nil {
		return err
	}

	if s.state != StateFlushing {
		s.setState(StateSending)
	}

	if s.config.Handshake {
		if err := s.transport.SetDTR(true); err != nil {
			return s.fail(fmt.Errorf("assert DTR: %w", err))
		}
	}

	if err := writeAll(s.transport, request); err != nil {
		return s.fail(fmt.Errorf("write request: %w", err))
	}

	s.log.Debug().Str("request", strings.TrimSuffix(string(request), "\n")).Int("bytes", len(request)).Msg("sent")
	return nil
}

// receive runs the await and drain phases and returns the raw text
func (s *Session) receive(ctx context.Context) (string, error) {
	flushing := s.state == StateFlushing

	if !flushing {
		s.setState(StateAwaitingReply)
	}
	if err := s.awaitReply(ctx); err != nil {
		return "", err
	}

	if !flushing {
		s.setState(StateDraining)
	}
	return s.drain()
}

// awaitReply blocks until at least one byte is buffered. Without a
// ReplyTimeout it waits indefinitely; ctx is the only other way out.
func (s *Session) awaitReply(ctx context.Context) error {
	var deadline time.Time
	if s.config.ReplyTimeout > 0 {
		deadline = time.Now().Add(s.config.ReplyTimeout)
	}

	sawDSR := !s.config.Handshake
	started := time.Now()

	err := s.pollUntil(ctx, deadline, func() (bool, error) {
		if s.config.Handshake {
			dsr, err := s.transport.DSR()
			if err != nil {
				return false, fmt.Errorf("read DSR: %w", err)
			}
			if !dsr {
				return false, nil
			}
			sawDSR = true
		}

		n, err := s.transport.Buffered()
		if err != nil {
			return false, fmt.Errorf("poll input: %w", err)
		}
		return n > 0, nil
	})

	switch {
	case errors.Is(err, ErrReplyTimeout) && !sawDSR:
		return s.fail(ErrNotReady)
	case err != nil:
		return s.fail(err)
	}

	s.log.Trace().Dur("waited", time.Since(started)).Msg("reply started")
	return nil
}

// drain reads until a read times out, which marks the end of the reply
func (s *Session) drain() (string, error) {
	var raw strings.Builder
	buf := make([]byte, s.config.BufferSize)

	for {
		n, err := s.transport.Read(buf)
		if errors.Is(err, ErrReadTimeout) {
			break
		}
		if err != nil {
			return "", s.fail(fmt.Errorf("read reply: %w", err))
		}

		raw.WriteString(decodeChunk(buf[:n]))
		s.log.Trace().Int("bytes", n).Msg("read")

		s.sleep(s.config.PollInterval)
	}

	s.log.Debug().Int("bytes", raw.Len()).Msg("reply drained")
	return raw.String(), nil
}

// pollUntil calls check every PollInterval until it reports true, fails,
// ctx is done or deadline (when non-zero) passes
func (s *Session) pollUntil(ctx context.Context, deadline time.Time, check func() (bool, error)) error {
	for {
		done, err := check()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return ErrReplyTimeout
		}

		s.sleep(s.config.PollInterval)
	}
}

// writeAll writes data in full, retrying short writes
func writeAll(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		data = data[n:]
	}
	return nil
}
