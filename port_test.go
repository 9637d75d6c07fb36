package focus

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    int
		hasError bool
	}{
		{115200, false},
		{9600, false},
		{57600, false},
		{11520, true}, // Not a termios constant, handled by BOTHER
		{123456, true},
	}

	for _, test := range tests {
		result, err := getBaudRate(test.input)
		if test.hasError {
			if err != ErrInvalidBaudRate {
				t.Errorf("Expected ErrInvalidBaudRate for %d, got %v", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for baud rate %d: %v", test.input, err)
		}
		if result == 0 {
			t.Errorf("Got zero result for valid baud rate %d", test.input)
		}
	}
}

func TestReadTimeoutTenths(t *testing.T) {
	tests := []struct {
		timeout  time.Duration
		expected uint8
	}{
		{0, 0},
		{100 * time.Millisecond, 1},
		{2500 * time.Millisecond, 25},
		{25500 * time.Millisecond, 255},
		{time.Minute, 255},
	}

	for _, tt := range tests {
		if got := readTimeoutTenths(tt.timeout); got != tt.expected {
			t.Errorf("readTimeoutTenths(%v) = %d, expected %d", tt.timeout, got, tt.expected)
		}
	}
}

func TestMapOpenError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"missing", unix.ENOENT, ErrDeviceNotFound},
		{"no such device", unix.ENXIO, ErrDeviceNotFound},
		{"access", unix.EACCES, ErrPermissionDenied},
		{"busy", unix.EBUSY, ErrDeviceInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapOpenError("/dev/ttyACM0", tt.err)
			if !errors.Is(err, tt.want) {
				t.Errorf("mapOpenError(%v) = %v, want %v", tt.err, err, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("mapOpenError(%v) = %v, lost the OS error", tt.err, err)
			}
			if !strings.Contains(err.Error(), tt.err.Error()) {
				t.Errorf("Error text %q should include %q", err.Error(), tt.err.Error())
			}
		})
	}

	err := mapOpenError("/dev/ttyACM0", unix.EIO)
	if !errors.Is(err, unix.EIO) {
		t.Errorf("Expected underlying errno to be preserved, got %v", err)
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent")
	if err == nil {
		t.Fatal("Expected error when opening non-existent device")
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
	if !errors.Is(err, unix.ENOENT) {
		t.Errorf("Expected ENOENT to be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "no such file") {
		t.Errorf("Error should carry the OS message, got %q", err.Error())
	}
}

func TestOpenInvalidOption(t *testing.T) {
	_, err := Open("/dev/nonexistent", WithBufferSize(-1))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestClosedPort(t *testing.T) {
	p := &port{fd: -1, closed: true}

	if _, err := p.Read(make([]byte, 4)); err != ErrPortClosed {
		t.Errorf("Read: expected ErrPortClosed, got %v", err)
	}
	if _, err := p.Write([]byte("x")); err != ErrPortClosed {
		t.Errorf("Write: expected ErrPortClosed, got %v", err)
	}
	if _, err := p.Buffered(); err != ErrPortClosed {
		t.Errorf("Buffered: expected ErrPortClosed, got %v", err)
	}
	if err := p.SetDTR(true); err != ErrPortClosed {
		t.Errorf("SetDTR: expected ErrPortClosed, got %v", err)
	}
	if _, err := p.DSR(); err != ErrPortClosed {
		t.Errorf("DSR: expected ErrPortClosed, got %v", err)
	}
	if err := p.Close(); err != ErrPortClosed {
		t.Errorf("Close: expected ErrPortClosed, got %v", err)
	}
}
