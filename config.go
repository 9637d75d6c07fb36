package focus

import (
	"time"

	"github.com/rs/zerolog"
)

// Transport and timing defaults for the Focus protocol
const (
	DefaultBaudRate     = 11520
	DefaultReadTimeout  = 100 * time.Millisecond
	DefaultPollInterval = 100 * time.Millisecond
	DefaultBufferSize   = 1024

	maxReadTimeout = 25500 * time.Millisecond // VTIME is a byte of deciseconds
)

// Config holds the configuration for a port and the session running over it
type Config struct {
	BaudRate    int
	ReadTimeout time.Duration // per-read quiet period; doubles as the end-of-reply detector

	PollInterval time.Duration // sleep between availability checks and between reads
	BufferSize   int           // size of a single read

	// ReplyTimeout bounds the wait for the first reply byte. Zero waits forever.
	ReplyTimeout time.Duration

	// Handshake asserts DTR before every request and waits for DSR
	// before reading. Some boards ignore input until DTR is raised.
	Handshake bool

	Logger zerolog.Logger
}

// Option is a functional option for configuring a port or session
type Option func(*Config) error

// DefaultConfig returns a configuration with the protocol defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:     DefaultBaudRate,
		ReadTimeout:  DefaultReadTimeout,
		PollInterval: DefaultPollInterval,
		BufferSize:   DefaultBufferSize,
		Logger:       zerolog.Nop(),
	}
}

func newConfig(opts []Option) (Config, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return Config{}, err
		}
	}
	return config, nil
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if rate <= 0 {
			return ErrInvalidBaudRate
		}
		c.BaudRate = rate
		return nil
	}
}

// WithReadTimeout sets the per-read timeout. The terminal driver counts
// in tenths of a second, so the value must be a multiple of 100ms no
// larger than 25.5s.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 || timeout > maxReadTimeout || timeout%(100*time.Millisecond) != 0 {
			return ErrInvalidConfig
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// WithPollInterval sets the sleep between polls
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) error {
		if interval <= 0 {
			return ErrInvalidConfig
		}
		c.PollInterval = interval
		return nil
	}
}

// WithBufferSize sets the size of a single read
func WithBufferSize(size int) Option {
	return func(c *Config) error {
		if size <= 0 {
			return ErrInvalidConfig
		}
		c.BufferSize = size
		return nil
	}
}

// WithReplyTimeout bounds the wait for the first byte of a reply
func WithReplyTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout < 0 {
			return ErrInvalidConfig
		}
		c.ReplyTimeout = timeout
		return nil
	}
}

// WithHandshake enables DTR/DSR signalling around each exchange
func WithHandshake(enabled bool) Option {
	return func(c *Config) error {
		c.Handshake = enabled
		return nil
	}
}

// WithLogger sets the logger used for protocol tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}
