// Package focus is a client for the Focus protocol, the line-oriented
// request/reply protocol keyboard firmware such as Kaleidoscope speaks
// over its USB serial port.
//
// # Basic Usage
//
// Locate a supported keyboard, open it and run one command:
//
//	device, err := focus.Locate("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := focus.Dial(ctx, device)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	reply, err := session.Command(ctx, "version")
//
// Dial flushes any reply the firmware still has queued before returning.
//
// # Framing
//
// A request is one line: the command and its arguments joined by single
// spaces, terminated by "\n". The firmware answers with any number of
// lines and then goes quiet. A reply is complete once a read times out
// (100ms by default). Lines holding only "." and empty lines are framing
// and are removed by Clean.
//
// # Configuration Options
//
//	session, err := focus.Dial(ctx, "/dev/ttyACM0",
//	    focus.WithReadTimeout(200*time.Millisecond),
//	    focus.WithReplyTimeout(5*time.Second),
//	    focus.WithHandshake(true),
//	    focus.WithLogger(logger),
//	)
//
// By default the wait for the first reply byte is unbounded.
// WithReplyTimeout sets an upper bound.
//
// # Device Discovery
//
// Locate returns an explicit device unchanged. Given "", it enumerates
// serial ports once and picks the first USB device found in
// SupportedDevices.
//
// # Error Handling
//
// Errors wrap the sentinels in this package; use errors.Is:
//
//	if errors.Is(err, focus.ErrNoDevice) {
//	    // nothing plugged in
//	}
//
// # Platform Support
//
// The port implementation uses Linux termios ioctls. Device enumeration
// uses go.bug.st/serial and USB metadata is read from sysfs.
package focus
