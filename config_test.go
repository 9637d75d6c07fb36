package focus

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.BaudRate != 11520 {
		t.Errorf("Expected BaudRate 11520, got %d", config.BaudRate)
	}
	if config.ReadTimeout != 100*time.Millisecond {
		t.Errorf("Expected ReadTimeout 100ms, got %v", config.ReadTimeout)
	}
	if config.PollInterval != 100*time.Millisecond {
		t.Errorf("Expected PollInterval 100ms, got %v", config.PollInterval)
	}
	if config.BufferSize != 1024 {
		t.Errorf("Expected BufferSize 1024, got %d", config.BufferSize)
	}
	if config.ReplyTimeout != 0 {
		t.Errorf("Expected no ReplyTimeout, got %v", config.ReplyTimeout)
	}
	if config.Handshake {
		t.Error("Expected Handshake disabled by default")
	}
}

func TestWithReadTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"0ms (non-blocking)", 0, false},
		{"100ms (valid)", 100 * time.Millisecond, false},
		{"500ms (valid)", 500 * time.Millisecond, false},
		{"25500ms (max)", 25500 * time.Millisecond, false},
		{"150ms (not multiple of 100ms)", 150 * time.Millisecond, true},
		{"25600ms (exceeds max)", 25600 * time.Millisecond, true},
		{"-100ms (negative)", -100 * time.Millisecond, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := WithReadTimeout(tt.timeout)(&config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithReadTimeout(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
			if err == nil && config.ReadTimeout != tt.timeout {
				t.Errorf("ReadTimeout = %v, want %v", config.ReadTimeout, tt.timeout)
			}
		})
	}
}

func TestFunctionalOptions(t *testing.T) {
	config, err := newConfig([]Option{
		WithBaudRate(9600),
		WithPollInterval(5 * time.Millisecond),
		WithBufferSize(64),
		WithReplyTimeout(2 * time.Second),
		WithHandshake(true),
	})
	if err != nil {
		t.Fatalf("newConfig failed: %v", err)
	}

	if config.BaudRate != 9600 {
		t.Errorf("Expected BaudRate 9600, got %d", config.BaudRate)
	}
	if config.PollInterval != 5*time.Millisecond {
		t.Errorf("Expected PollInterval 5ms, got %v", config.PollInterval)
	}
	if config.BufferSize != 64 {
		t.Errorf("Expected BufferSize 64, got %d", config.BufferSize)
	}
	if config.ReplyTimeout != 2*time.Second {
		t.Errorf("Expected ReplyTimeout 2s, got %v", config.ReplyTimeout)
	}
	if !config.Handshake {
		t.Error("Expected Handshake enabled")
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{"zero baud", WithBaudRate(0), ErrInvalidBaudRate},
		{"negative baud", WithBaudRate(-9600), ErrInvalidBaudRate},
		{"zero poll interval", WithPollInterval(0), ErrInvalidConfig},
		{"zero buffer", WithBufferSize(0), ErrInvalidConfig},
		{"negative reply timeout", WithReplyTimeout(-time.Second), ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newConfig([]Option{tt.opt})
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
