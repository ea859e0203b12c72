// arena is a real-time multiplayer snake server.
//
// Usage:
//
//	arena serve              - Start the websocket game server
//	arena config             - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Path to arena.yaml (default: search ~/.arena/configs, ./configs)
//	--seed <value>      - RNG seed for food and colors (0 = config value)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-arena/internal/config"
)

var (
	// Global flags
	flagConfigPath string
	flagSeed       int64
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Snake Arena - multiplayer snake over websockets",
	Long: `Snake Arena runs a shared arena where browser clients steer snakes
toward their pointer, race for food and play timed rounds.

Available commands:
  serve    - Start the game server (and optionally the SSH spectator console)
  config   - Print the effective configuration as YAML

Examples:
  arena serve
  arena serve --port 8080 --static ./public
  arena serve --ssh :23234
  arena config --config ./arena.yaml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = use config, which defaults to time based)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads configuration and applies global flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = flagSeed
	}
	return cfg, nil
}

// newLogger creates the root logger at the level given by --log-level.
func newLogger() (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "arena",
		Level:           level,
	}), nil
}
