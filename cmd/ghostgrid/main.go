// ghostgrid is a stealth grid game for the terminal: slip past the
// seekers, grab data nodes and reach the exit node before you are traced.
//
// Usage:
//
//	ghostgrid list                  - List rulesets
//	ghostgrid play [ruleset]        - Play a ruleset (default darknet)
//	ghostgrid menu                  - Pick a ruleset and difficulty interactively
//	ghostgrid serve                 - Start SSH server for remote play
//	ghostgrid scores [ruleset]      - Show run history
//	ghostgrid stats                 - Show per-ruleset statistics
//	ghostgrid config dump [ruleset] - Print the effective config as YAML
//
// Global flags:
//
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible gameplay
//	--db <path>        - Set database path (default: ~/.ghostgrid/ghostgrid.db)
//	--log-file <path>  - Write engine logs to a file
//	--debug            - Log at debug level
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostgrid/internal/games/ghostgrid"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogFile string
	flagDebug   bool
)

// logger is nil unless --log-file is given; the TUI owns stdout.
var logger *log.Logger

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ghostgrid",
	Short: "Ghostgrid - evade the trace in your terminal",
	Long: `Ghostgrid is a terminal stealth game. You are a hacker on a grid:
dodge seekers, pick up data nodes, ride teleports and burn tools like
cloaking or a VPN jump to reach the exit node. Every cleared node makes
the next grid bigger and the seekers smarter.

Available commands:
  list     - Show rulesets
  play     - Play a ruleset directly
  menu     - Interactive ruleset and difficulty picker
  serve    - Start SSH server for remote play
  scores   - View run history
  stats    - Per-ruleset statistics
  config   - Inspect and validate configs

Examples:
  ghostgrid play
  ghostgrid play classic --difficulty hard
  ghostgrid menu
  ghostgrid serve --ssh :2222
  ghostgrid scores darknet`,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return setupLogging()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		closeLogging()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ghostgrid/ghostgrid.db", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log at debug level")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
}

var logFile *os.File

// setupLogging routes engine and platform logs to --log-file.
func setupLogging() error {
	if flagLogFile == "" {
		return nil
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	logFile = f

	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "ghostgrid",
		Level:           level,
	})
	ghostgrid.SetLogger(logger)
	return nil
}

func closeLogging() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
