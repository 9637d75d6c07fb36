/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/focus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focus",
	Short: "Talk to keyboard firmware over the Focus protocol",
	Long: `focus sends commands to keyboards that speak the Focus protocol
(Kaleidoscope and compatible firmware) over their USB serial port and
prints the reply.

The device is taken from --device, the FOCUS_DEVICE environment variable
or the config file. When none is set, the first connected keyboard from
the list of supported devices is used.

Example usage:
  focus send version
  focus send led.setAll 255 0 0
  focus --device /dev/ttyACM0 send help
  focus list --table`,
}

// Execute adds all child commands to the root command and runs it
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: $HOME/.focus.yaml)")
	flags.StringP("device", "d", "", "Serial device (default: auto-detect)")
	flags.IntP("baud", "b", focus.DefaultBaudRate, "Baud rate")
	flags.Bool("handshake", false, "Assert DTR and wait for DSR around each exchange")
	flags.Duration("reply-timeout", 0, "Give up waiting for a reply after this long (default: wait forever)")
	flags.BoolP("verbose", "v", false, "Log protocol traffic to stderr")

	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flags: %v\n", err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".focus")
	}

	viper.SetEnvPrefix("focus")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return
		}
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger()
	logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
}

// newLogger builds the stderr logger; --verbose lowers the level to debug
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.000",
	}).Level(level).With().Timestamp().Logger()
}

// sessionOptions collects library options from flags, environment and config
func sessionOptions(logger zerolog.Logger) []focus.Option {
	return []focus.Option{
		focus.WithBaudRate(viper.GetInt("baud")),
		focus.WithHandshake(viper.GetBool("handshake")),
		focus.WithReplyTimeout(viper.GetDuration("reply-timeout")),
		focus.WithLogger(logger),
	}
}

// resolveDevice returns the configured device or auto-detects one
func resolveDevice() (string, error) {
	return focus.Locate(viper.GetString("device"))
}

// consoleLogger discards session logs; stderr output would corrupt the
// alternate screen of the console
func consoleLogger() zerolog.Logger {
	return zerolog.Nop()
}

// openSession resolves, opens and flushes the device
func openSession(ctx context.Context, logger zerolog.Logger) (*focus.Session, string, error) {
	device, err := resolveDevice()
	if err != nil {
		return nil, "", err
	}

	started := time.Now()
	session, err := focus.Dial(ctx, device, sessionOptions(logger)...)
	if err != nil {
		return nil, device, err
	}

	logger.Debug().Str("device", device).Dur("elapsed", time.Since(started)).Msg("session ready")
	return session, device, nil
}
