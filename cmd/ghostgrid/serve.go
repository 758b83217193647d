package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/games/ghostgrid"
	"github.com/vovakirdan/ghostgrid/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeLevel  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the ghostgrid SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session and its own engine: a menu, the
run history and any number of runs. Runs are recorded under the SSH user
name and all users share the same history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.ghostgrid/host_key

Examples:
  ghostgrid serve                           # Listen on :23234
  ghostgrid serve --ssh :2222               # Listen on port 2222
  ghostgrid serve --host-key ./my_host_key  # Use specific host key
  ghostgrid serve --db ./ghostgrid.db       # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeLevel, "difficulty", "", "Difficulty preselected in each session's menu")
	serveCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom ruleset config YAML")
}

func runServe(_ *cobra.Command, _ []string) error {
	if _, err := config.ParsePreset(flagServeLevel); err != nil {
		return err
	}
	// sessions pick their preset in the menu; only the config path is global
	ghostgrid.SetConfigPath(flagConfig)

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Difficulty = flagServeLevel

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting ghostgrid SSH server on %s\n", cfg.Address)
	port := "23234"
	if _, p, err := net.SplitHostPort(cfg.Address); err == nil && p != "" {
		port = p
	}
	fmt.Printf("Connect with: ssh localhost -p %s\n", port)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
