/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <command> [args...]",
	Short: "Send one Focus command and print the reply",
	Long: `Send a single Focus command to the keyboard and print its reply.

The command and its arguments are sent as one line. Before sending,
any output the keyboard still has queued is flushed. The reply is
printed once the keyboard goes quiet, with the protocol's "." end
marker and blank lines removed. An empty reply prints an empty line.

Everything after the command is passed to the keyboard unchanged, so
arguments that look like flags need no quoting.

Example usage:
  focus send version
  focus send help
  focus send led.setAll 255 0 0
  focus send keymap.custom`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		session, _, err := openSession(ctx, newLogger())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer session.Close()

		reply, err := session.Command(ctx, args[0], args[1:]...)
		if err != nil {
			session.Close()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		printReply(os.Stdout, reply)
	},
}

// printReply writes the cleaned reply followed by a newline; an empty
// reply prints a blank line
func printReply(w io.Writer, reply string) {
	fmt.Fprintln(w, reply)
}

func init() {
	rootCmd.AddCommand(sendCmd)

	// Stop flag parsing at the Focus command so its arguments pass through
	sendCmd.Flags().SetInterspersed(false)
}
