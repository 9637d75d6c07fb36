/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/allbin/focus"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [port]",
	Short: "Display detailed information about a serial port",
	Long: `Display detailed information about a serial port including USB metadata,
and whether the device behind it is a supported keyboard.

Without a port argument the configured or auto-detected device is used.

Examples:
  focus info /dev/ttyACM0
  focus info

For USB devices, this displays vendor/product IDs, serial numbers, interface
numbers, and other USB-specific metadata extracted from sysfs.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var portPath string
		if len(args) == 1 {
			portPath = args[0]
		} else {
			device, err := resolveDevice()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			portPath = device
		}

		info, err := focus.GetPortInfo(portPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting port info: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Port Information: %s\n\n", info.Path)
		fmt.Printf("  Name:        %s\n", info.Name)
		fmt.Printf("  Description: %s\n", info.Description)

		if info.VendorID != "" || info.ProductID != "" {
			fmt.Println("\nUSB Device Information:")
			if info.VendorID != "" {
				fmt.Printf("  Vendor ID:    %s\n", info.VendorID)
			}
			if info.ProductID != "" {
				fmt.Printf("  Product ID:   %s\n", info.ProductID)
			}
			if info.SerialNumber != "" {
				fmt.Printf("  Serial:       %s\n", info.SerialNumber)
			}
			if info.InterfaceNumber != "" {
				fmt.Printf("  Interface:    %s\n", info.InterfaceNumber)
			}
			if info.BusNumber != "" {
				fmt.Printf("  Bus:          %s\n", info.BusNumber)
			}
			if info.DeviceNumber != "" {
				fmt.Printf("  Device:       %s\n", info.DeviceNumber)
			}
			if info.Manufacturer != "" {
				fmt.Printf("  Manufacturer: %s\n", info.Manufacturer)
			}
			if info.Product != "" {
				fmt.Printf("  Product:      %s\n", info.Product)
			}
		}

		fmt.Printf("\nFocus keyboard: %s\n", supportedLabel(info))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// supportedLabel names the keyboard model or says why the port is not one
func supportedLabel(info *focus.PortInfo) string {
	id, ok := info.DeviceID()
	if !ok {
		return "no (not a USB device)"
	}
	if name, found := focus.SupportedDevices[id]; found {
		return "yes (" + name + ")"
	}
	return "no (" + id.String() + " is not a supported keyboard)"
}
