package focus

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// sysfsRoot is where USB metadata for tty devices is read from
var sysfsRoot = "/sys"

// devRoot is scanned for serial device nodes
var devRoot = "/dev"

var (
	// Regular expressions for different types of serial devices
	serialPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^ttyUSB\d+$`), // USB serial adapters
		regexp.MustCompile(`^ttyACM\d+$`), // USB CDC/ACM devices
		regexp.MustCompile(`^ttyS\d+$`),   // Standard serial ports
		regexp.MustCompile(`^ttyAMA\d+$`), // ARM/Raspberry Pi serial
		regexp.MustCompile(`^ttymxc\d+$`), // i.MX serial ports
		regexp.MustCompile(`^ttyO\d+$`),   // OMAP serial ports
		regexp.MustCompile(`^ttySAC\d+$`), // Samsung serial ports
		regexp.MustCompile(`^ttyTHS\d+$`), // Tegra serial ports
	}

	// Exclude patterns for virtual terminals and other non-serial devices
	excludePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^tty\d+$`),  // Virtual terminals (tty1, tty2, etc.)
		regexp.MustCompile(`^console$`), // Console
		regexp.MustCompile(`^ptmx$`),    // Pseudo-terminal multiplexer
		regexp.MustCompile(`^pty.*$`),   // Pseudo-terminals
		regexp.MustCompile(`^pts/.*$`),  // Pseudo-terminal slaves
	}
)

// ListPorts returns a list of available serial ports on the system
// Filters for communication-capable devices and excludes virtual terminals
func ListPorts() ([]string, error) {
	devDir := devRoot
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		name := entry.Name()
		if !isSerialName(name) {
			continue
		}

		fullPath := filepath.Join(devDir, name)
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)

	return ports, nil
}

// isSerialName reports whether a /dev entry looks like a serial port
func isSerialName(name string) bool {
	for _, pattern := range excludePatterns {
		if pattern.MatchString(name) {
			return false
		}
	}
	for _, pattern := range serialPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo describes a serial port and, for USB devices, the device behind it
type PortInfo struct {
	Name         string
	Path         string
	Description  string
	VendorID     string
	ProductID    string
	SerialNumber string

	InterfaceNumber string
	BusNumber       string
	DeviceNumber    string
	Manufacturer    string
	Product         string
}

// IsUSB reports whether USB identifiers are known for the port
func (i *PortInfo) IsUSB() bool {
	return i.VendorID != "" && i.ProductID != ""
}

// DeviceID parses the USB identifiers of the port
func (i *PortInfo) DeviceID() (DeviceID, bool) {
	if !i.IsUSB() {
		return DeviceID{}, false
	}
	return ParseDeviceID(i.VendorID, i.ProductID)
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)

	info := &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
	}

	if strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM") {
		enrichUSBInfo(info)
	}

	return info, nil
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Port"
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial Port"
	case strings.HasPrefix(name, "ttySAC"):
		return "Samsung Serial Port"
	case strings.HasPrefix(name, "ttyTHS"):
		return "Tegra Serial Port"
	case strings.HasPrefix(name, "ttyO"):
		return "OMAP Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// enrichUSBInfo fills USB metadata from sysfs. The tty's device link
// points at the USB interface; the USB device is its parent.
// Missing files leave fields empty.
func enrichUSBInfo(info *PortInfo) {
	devicePath := filepath.Join(sysfsRoot, "class", "tty", info.Name, "device")
	resolvedPath, err := filepath.EvalSymlinks(devicePath)
	if err != nil {
		return
	}

	// ttyUSB nodes sit one level below the interface, ttyACM nodes link to it
	interfacePath := resolvedPath
	if readSysfsFile(filepath.Join(interfacePath, "bInterfaceNumber")) == "" {
		interfacePath = filepath.Dir(resolvedPath)
	}
	info.InterfaceNumber = readSysfsFile(filepath.Join(interfacePath, "bInterfaceNumber"))

	usbDevicePath := filepath.Dir(interfacePath)
	info.VendorID = readSysfsFile(filepath.Join(usbDevicePath, "idVendor"))
	info.ProductID = readSysfsFile(filepath.Join(usbDevicePath, "idProduct"))
	info.SerialNumber = readSysfsFile(filepath.Join(usbDevicePath, "serial"))
	info.Manufacturer = readSysfsFile(filepath.Join(usbDevicePath, "manufacturer"))
	info.Product = readSysfsFile(filepath.Join(usbDevicePath, "product"))
	info.BusNumber = readSysfsFile(filepath.Join(usbDevicePath, "busnum"))
	info.DeviceNumber = readSysfsFile(filepath.Join(usbDevicePath, "devnum"))
}

// readSysfsFile returns the trimmed content of a sysfs attribute, or "" if unreadable
func readSysfsFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
