package focus

import "errors"

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid focus configuration")
	ErrPortClosed       = errors.New("serial port is closed")
	ErrReadTimeout      = errors.New("read operation timed out")

	// Device resolution errors
	ErrNoDevice = errors.New("no device found")

	// Protocol errors
	ErrInvalidRequest = errors.New("invalid focus request")
	ErrReplyTimeout   = errors.New("timed out waiting for reply")
	ErrNotReady       = errors.New("device did not assert DSR")
	ErrSessionFailed  = errors.New("focus session failed")
)
