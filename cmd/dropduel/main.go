// dropduel is a two-player falling-pieces duel played in the terminal.
//
// Usage:
//
//	dropduel serve             - Start the websocket gateway (and optional SSH server)
//	dropduel play              - Join a duel on a running server
//	dropduel history           - Browse recorded matches
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.dropduel and ./configs)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/drop-duel/internal/config"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dropduel",
	Short: "Drop Duel - a two-player puzzle duel in your terminal",
	Long: `Drop Duel is a two-player game of picking and throwing colored pieces.
Line up three or more of a color in a row or column to clear them, score
points, and bury your opponent under garbage. The first field to overflow loses.

Available commands:
  serve    - Start the game server
  play     - Join a duel from this terminal
  history  - Browse recorded matches

Examples:
  dropduel serve
  dropduel serve --ssh :23234
  dropduel play --session friday --name alice
  dropduel history`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig loads configuration and applies global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// newLogger creates the process logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "dropduel",
	})
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
