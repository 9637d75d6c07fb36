package focus

import (
	"fmt"
	"strconv"

	"go.bug.st/serial/enumerator"
)

// DeviceID identifies USB hardware by vendor and product
type DeviceID struct {
	VendorID  uint16
	ProductID uint16
}

func (d DeviceID) String() string {
	return fmt.Sprintf("%04x:%04x", d.VendorID, d.ProductID)
}

// ParseDeviceID parses hexadecimal vendor and product IDs as reported by
// sysfs or the OS enumerator ("1209", "0x2301")
func ParseDeviceID(vendorID, productID string) (DeviceID, bool) {
	vid, err := strconv.ParseUint(trimHexPrefix(vendorID), 16, 16)
	if err != nil {
		return DeviceID{}, false
	}
	pid, err := strconv.ParseUint(trimHexPrefix(productID), 16, 16)
	if err != nil {
		return DeviceID{}, false
	}
	return DeviceID{VendorID: uint16(vid), ProductID: uint16(pid)}, true
}

func trimHexPrefix(s string) string {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// SupportedDevices lists the keyboards known to speak Focus
var SupportedDevices = map[DeviceID]string{
	{VendorID: 0x1209, ProductID: 0x2301}: "Keyboardio Model 01",
	{VendorID: 0x3496, ProductID: 0x0006}: "Keyboardio Model 100",
	{VendorID: 0x1209, ProductID: 0x2303}: "Keyboardio Atreus",
	{VendorID: 0x1209, ProductID: 0xA1E5}: "Technomancy Atreus",
	{VendorID: 0x1209, ProductID: 0x2201}: "Dygma Raise",
}

// IsSupported reports whether id is on the allow-list
func IsSupported(id DeviceID) bool {
	_, ok := SupportedDevices[id]
	return ok
}

// EnumeratedPort is one serial port as reported by the OS enumerator
type EnumeratedPort struct {
	Name         string
	IsUSB        bool
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string
}

// DeviceID parses the USB identifiers of the port
func (p EnumeratedPort) DeviceID() (DeviceID, bool) {
	if !p.IsUSB {
		return DeviceID{}, false
	}
	return ParseDeviceID(p.VendorID, p.ProductID)
}

// Supported reports whether the port is a USB device on the allow-list
func (p EnumeratedPort) Supported() bool {
	id, ok := p.DeviceID()
	return ok && IsSupported(id)
}

// detailedPortsList is replaced in tests
var detailedPortsList = enumerator.GetDetailedPortsList

// EnumeratePorts takes one snapshot of the serial ports visible to the OS
func EnumeratePorts() ([]EnumeratedPort, error) {
	details, err := detailedPortsList()
	if err != nil {
		if ports, scanErr := scanPorts(); scanErr == nil {
			return ports, nil
		}
		return nil, err
	}

	ports := make([]EnumeratedPort, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		ports = append(ports, EnumeratedPort{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VendorID:     d.VID,
			ProductID:    d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	return ports, nil
}

// Locator resolves the device a session should talk to
type Locator struct {
	// Enumerate lists candidate ports; EnumeratePorts when nil.
	Enumerate func() ([]EnumeratedPort, error)
}

// Locate returns explicit unchanged when it is set. Otherwise it returns
// the first enumerated USB port whose identifiers are on the allow-list.
// Enumeration is a single snapshot; nothing is retried.
func (l Locator) Locate(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	enumerate := l.Enumerate
	if enumerate == nil {
		enumerate = EnumeratePorts
	}

	ports, err := enumerate()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	for _, p := range ports {
		if p.Supported() {
			return p.Name, nil
		}
	}

	return "", ErrNoDevice
}

// Locate resolves a device with the default enumerator
func Locate(explicit string) (string, error) {
	return Locator{}.Locate(explicit)
}

// scanPorts builds the port list from /dev and sysfs when the
// enumerator is unavailable
func scanPorts() ([]EnumeratedPort, error) {
	paths, err := ListPorts()
	if err != nil {
		return nil, err
	}

	ports := make([]EnumeratedPort, 0, len(paths))
	for _, path := range paths {
		info, err := GetPortInfo(path)
		if err != nil {
			continue
		}
		ports = append(ports, EnumeratedPort{
			Name:         info.Path,
			IsUSB:        info.IsUSB(),
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			SerialNumber: info.SerialNumber,
			Product:      info.Product,
		})
	}
	return ports, nil
}
