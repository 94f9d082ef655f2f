package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gasresp",
	Short: "Gas sensor response analysis",
	Long: `gasresp evaluates gas sensor exposure experiments from logged time
series: marker-based cycle windowing, 90% response and recovery times per
channel, baseline drift and noise checks, and power law calibration fits
over accumulated cycles.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Persistent flags
var (
	rootLogLevel  string
	rootLogFormat string
)

// settings holds the environment defaults, loaded once before any command
// runs.
var settings *Settings

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "log level: debug, info, warn or error (default $GASRESP_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", "", "log format: text or json (default $GASRESP_LOG_FORMAT)")
}

func setup() error {
	s, err := LoadSettings()
	if err != nil {
		return err
	}

	settings = s

	level := rootLogLevel
	if level == "" {
		level = s.LogLevel
	}

	format := rootLogFormat
	if format == "" {
		format = s.LogFormat
	}

	initLogger(level, format)

	return nil
}
