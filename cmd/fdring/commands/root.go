package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fdring/pkg/config"
	"fdring/pkg/logging"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	capacity   int
)

var rootCmd = &cobra.Command{
	Use:   "fdring",
	Short: "Fixed-capacity circular byte buffer between descriptors",
	Long: `fdring stages bytes from a descriptor in a fixed-capacity circular buffer
and flushes them to another descriptor.

Examples:
  # Explore the buffer by hand
  fdring shell --capacity 8

  # Copy stdin to stdout through a 4 KiB buffer
  fdring relay --capacity 4096 < in.bin > out.bin

  # Forward stdin to a TCP peer and expose metrics
  fdring relay --connect 127.0.0.1:9000 --metrics-addr :9100`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().IntVar(&capacity, "capacity", 0, "buffer capacity in bytes")

	rootCmd.AddCommand(shellCmd)
}

// loadConfig reads --config and lets explicitly set flags override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("capacity") {
		cfg.Buffer.Capacity = capacity
	}
	if f := flags.Lookup("metrics-addr"); f != nil && f.Changed {
		cfg.Metrics.Addr = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout stays free for relayed bytes.
func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}
