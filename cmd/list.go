/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/allbin/focus"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List connected keyboards",
	Long: `List serial ports that belong to supported keyboards.

A port is supported when it is a USB device whose vendor and product
IDs are on the built-in list of keyboards that speak Focus. Use --all
to include every serial port the system reports.

The first supported port listed is the one used when no device is
given.`,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := focus.EnumeratePorts()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		showAll, _ := cmd.Flags().GetBool("all")
		tableFormat, _ := cmd.Flags().GetBool("table")

		filteredPorts := filterPorts(ports, showAll)
		if len(filteredPorts) == 0 {
			if showAll {
				fmt.Println("No serial ports found")
			} else {
				fmt.Println("No supported keyboards found")
			}
			return
		}

		if tableFormat {
			renderTable(filteredPorts)
		} else {
			renderSimple(filteredPorts)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("all", "a", false, "Include ports that are not supported keyboards")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts keeps supported keyboards unless all ports are requested
func filterPorts(ports []focus.EnumeratedPort, all bool) []focus.EnumeratedPort {
	if all {
		return ports
	}

	var filtered []focus.EnumeratedPort
	for _, port := range ports {
		if port.Supported() {
			filtered = append(filtered, port)
		}
	}
	return filtered
}

// renderTable renders the port list in a styled static table format
func renderTable(ports []focus.EnumeratedPort) {
	fmt.Printf("Found %d serial port(s):\n\n", len(ports))

	portWidth := 15
	idWidth := 11
	descWidth := 30

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240")).
		PaddingBottom(1)

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	supportedStyle := cellStyle.
		Foreground(lipgloss.Color("40"))

	header := fmt.Sprintf("%-*s %-*s %-*s",
		portWidth, "Port",
		idWidth, "VID:PID",
		descWidth, "Device")
	fmt.Println(headerStyle.Render(header))

	for _, port := range ports {
		row := fmt.Sprintf("%-*s %-*s %-*s",
			portWidth, port.Name,
			idWidth, portID(port),
			descWidth, portDescription(port))

		if port.Supported() {
			fmt.Println(supportedStyle.Render(row))
		} else {
			fmt.Println(cellStyle.Render(row))
		}
	}
}

// renderSimple renders the port list in simple text format
func renderSimple(ports []focus.EnumeratedPort) {
	for _, port := range ports {
		fmt.Println(port.Name)
	}
}

// portID formats the USB identifiers of a port, or "-" for non-USB ports
func portID(port focus.EnumeratedPort) string {
	id, ok := port.DeviceID()
	if !ok {
		return "-"
	}
	return id.String()
}

// portDescription names the keyboard model, falling back to the USB product string
func portDescription(port focus.EnumeratedPort) string {
	if id, ok := port.DeviceID(); ok {
		if name, found := focus.SupportedDevices[id]; found {
			return name
		}
	}
	if port.Product != "" {
		return port.Product
	}
	if port.IsUSB {
		return "USB Serial Device"
	}
	return "Serial Port"
}
