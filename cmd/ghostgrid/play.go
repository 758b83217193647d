package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
	"github.com/vovakirdan/ghostgrid/internal/games/ghostgrid"
	"github.com/vovakirdan/ghostgrid/internal/platform/tui"
	"github.com/vovakirdan/ghostgrid/internal/registry"
	"github.com/vovakirdan/ghostgrid/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [ruleset]",
	Short: "Play a ruleset",
	Long: `Start a run of the given ruleset (darknet if omitted).

Controls:
  Arrows/WASD      - Move one tile
  Y U N M          - Diagonal (while Tor Trail is active)
  Shift+Arrows     - VPN jump
  1-6              - Use tool (buy a charge while the shop is open)
  Shift+1-6        - Upgrade tool (shop open)
  Tab              - Toggle shop
  L / X            - Buy extra life / black market
  V                - Revive after being traced
  P/Esc            - Pause
  R                - Restart (paused or traced)
  B                - Back (paused or traced)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Extra lives and coins, cloaking is safer
  normal - Default progression from level 1
  hard   - Start at level 5 with two lives
  fixed  - No progression, every level plays like the first

Examples:
  ghostgrid play
  ghostgrid play classic
  ghostgrid play darknet --difficulty hard
  ghostgrid play --config ./my-darknet.yaml --log-file ghostgrid.log --debug`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, menuCmd} {
		c.Flags().StringVar(&flagConfig, "config", "", "Path to custom ruleset config YAML")
		c.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	}
}

// runtimeConfig sizes the screen from the terminal, defaulting to 80x24.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// applyGameFlags hands --config and --difficulty to the game package.
func applyGameFlags() error {
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}
	ghostgrid.SetConfigPath(flagConfig)
	ghostgrid.SetDifficultyPreset(flagDifficulty)
	return nil
}

// openStore opens the run history, or returns nil so play continues
// without it.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		if logger != nil {
			logger.Warn("run history unavailable", "db", flagDBPath, "err", err)
		}
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) error {
	ruleset := config.RulesetDarknet
	if len(args) == 1 {
		ruleset = args[0]
	}
	if !registry.Exists(ruleset) {
		return fmt.Errorf("unknown ruleset %q (run 'ghostgrid list')", ruleset)
	}
	if err := applyGameFlags(); err != nil {
		return err
	}

	game, err := registry.Create(ruleset)
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig(), logger); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}
