package focus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Transport is the byte stream a Session speaks Focus over
type Transport interface {
	// Read fills buf with whatever arrived. It returns ErrReadTimeout when
	// the configured read timeout passes without any data.
	Read(buf []byte) (int, error)
	Write(data []byte) (int, error)

	// Buffered reports how many bytes are waiting to be read. It never blocks.
	Buffered() (int, error)

	SetDTR(state bool) error
	DSR() (bool, error)
	FlushInput() error
	Close() error
}

// Port is a Transport backed by a terminal device
type Port interface {
	Transport
	Path() string
	ModemSignals() (ModemSignals, error)
}

// port is the concrete implementation of the Port interface
type port struct {
	mu     sync.RWMutex
	fd     int
	path   string
	config Config
	closed bool
}

// Ensure port implements Port interface at compile time
var _ Port = (*port)(nil)

// ModemSignals represents modem control signal states
type ModemSignals struct {
	CTS bool // Clear To Send
	DSR bool // Data Set Ready
	RI  bool // Ring Indicator
	DCD bool // Data Carrier Detect
	RTS bool // Request To Send
	DTR bool // Data Terminal Ready
}

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	switch rate {
	case 50:
		return unix.B50, nil
	case 75:
		return unix.B75, nil
	case 110:
		return unix.B110, nil
	case 134:
		return unix.B134, nil
	case 150:
		return unix.B150, nil
	case 200:
		return unix.B200, nil
	case 300:
		return unix.B300, nil
	case 600:
		return unix.B600, nil
	case 1200:
		return unix.B1200, nil
	case 1800:
		return unix.B1800, nil
	case 2400:
		return unix.B2400, nil
	case 4800:
		return unix.B4800, nil
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	case 500000:
		return unix.B500000, nil
	case 576000:
		return unix.B576000, nil
	case 921600:
		return unix.B921600, nil
	case 1000000:
		return unix.B1000000, nil
	case 1152000:
		return unix.B1152000, nil
	case 1500000:
		return unix.B1500000, nil
	case 2000000:
		return unix.B2000000, nil
	case 2500000:
		return unix.B2500000, nil
	case 3000000:
		return unix.B3000000, nil
	case 3500000:
		return unix.B3500000, nil
	case 4000000:
		return unix.B4000000, nil
	default:
		return 0, ErrInvalidBaudRate
	}
}

// readTimeoutTenths converts a read timeout to a VTIME value
func readTimeoutTenths(timeout time.Duration) uint8 {
	tenths := timeout / (100 * time.Millisecond)
	if tenths > 255 {
		tenths = 255
	}
	return uint8(tenths)
}

// getModemStatus retrieves modem control signals using unix package
func getModemStatus(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCMGET)
}

// setDTR sets DTR signal state
func setDTR(fd int, state bool) error {
	if state {
		return unix.IoctlSetInt(fd, unix.TIOCMBIS, unix.TIOCM_DTR)
	}
	return unix.IoctlSetInt(fd, unix.TIOCMBIC, unix.TIOCM_DTR)
}

// mapOpenError translates errno values from open(2) into package errors
func mapOpenError(device string, err error) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENXIO), errors.Is(err, unix.ENODEV):
		return fmt.Errorf("%w: %s: %w", ErrDeviceNotFound, device, err)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, device, err)
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w: %s: %w", ErrDeviceInUse, device, err)
	default:
		return fmt.Errorf("failed to open %s: %w", device, err)
	}
}

// Open opens a serial port with the given device path and options
func Open(device string, opts ...Option) (Port, error) {
	config, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	// Open non-blocking so a missing carrier cannot hang open(2), then
	// switch back to blocking reads governed by VTIME.
	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, mapOpenError(device, err)
	}

	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to set blocking mode: %w", err)
	}

	if err := configurePort(fd, config); err != nil {
		unix.Close(fd)
		return nil, err
	}

	config.Logger.Debug().
		Str("device", device).
		Int("baud", config.BaudRate).
		Dur("read_timeout", config.ReadTimeout).
		Msg("port opened")

	return &port{
		fd:     fd,
		path:   device,
		config: config,
	}, nil
}

// configurePort puts the terminal in raw mode with VMIN=0 and VTIME
// taken from the read timeout, so a read returns after one quiet period.
func configurePort(fd int, config Config) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %w", err)
	}

	// Raw mode, 8N1
	termios.Cflag = unix.CS8 | unix.CREAD | unix.CLOCAL
	termios.Iflag = 0
	termios.Oflag = 0
	termios.Lflag = 0

	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = readTimeoutTenths(config.ReadTimeout)

	baudRate, err := getBaudRate(config.BaudRate)
	if err != nil {
		// Rates outside the Bxxx table go through termios2
		return setCustomBaudRate(fd, termios, config.BaudRate)
	}

	termios.Cflag = (termios.Cflag &^ unix.CBAUD) | baudRate
	termios.Ispeed = baudRate
	termios.Ospeed = baudRate

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %w", err)
	}

	return nil
}

// setCustomBaudRate applies an arbitrary rate with BOTHER
func setCustomBaudRate(fd int, termios *unix.Termios, rate int) error {
	if rate <= 0 {
		return ErrInvalidBaudRate
	}

	termios.Cflag = (termios.Cflag &^ unix.CBAUD) | unix.BOTHER
	termios.Ispeed = uint32(rate)
	termios.Ospeed = uint32(rate)

	if err := unix.IoctlSetTermios(fd, unix.TCSETS2, termios); err != nil {
		return fmt.Errorf("failed to set baud rate %d: %w", rate, err)
	}

	return nil
}

// Path returns the device path the port was opened with
func (p *port) Path() string {
	return p.path
}

// Close closes the serial port
func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}

	err := unix.Close(p.fd)
	p.closed = true
	return err
}

// Read reads data from the serial port
func (p *port) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	for {
		n, err := unix.Read(p.fd, buf)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if n == 0 && len(buf) > 0 {
			// VMIN=0: VTIME expired with nothing received
			return 0, ErrReadTimeout
		}
		return n, nil
	}
}

// Write writes data to the serial port
func (p *port) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	for {
		n, err := unix.Write(p.fd, data)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}

// Buffered returns the number of bytes waiting in the input queue
func (p *port) Buffered() (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrPortClosed
	}

	return unix.IoctlGetInt(p.fd, unix.TIOCINQ)
}

// SetDTR manually sets the DTR signal state
func (p *port) SetDTR(state bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPortClosed
	}

	return setDTR(p.fd, state)
}

// DSR reports whether the device asserts Data Set Ready
func (p *port) DSR() (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false, ErrPortClosed
	}

	status, err := getModemStatus(p.fd)
	if err != nil {
		return false, err
	}

	return status&unix.TIOCM_DSR != 0, nil
}

// ModemSignals returns current state of all modem control signals
func (p *port) ModemSignals() (ModemSignals, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ModemSignals{}, ErrPortClosed
	}

	status, err := getModemStatus(p.fd)
	if err != nil {
		return ModemSignals{}, err
	}

	return ModemSignals{
		CTS: status&unix.TIOCM_CTS != 0,
		DSR: status&unix.TIOCM_DSR != 0,
		RI:  status&unix.TIOCM_RI != 0,
		DCD: status&unix.TIOCM_CAR != 0,
		RTS: status&unix.TIOCM_RTS != 0,
		DTR: status&unix.TIOCM_DTR != 0,
	}, nil
}

// FlushInput discards any unread input data
func (p *port) FlushInput() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPortClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH)
}
