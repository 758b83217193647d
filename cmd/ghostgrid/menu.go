package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostgrid/internal/platform/tui"
	"github.com/vovakirdan/ghostgrid/internal/registry"
)

type difficultySetter interface {
	SetDifficulty(preset string) error
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a ruleset and difficulty interactively",
	Long: `Start ghostgrid in interactive menu mode.

Use arrow keys or j/k to pick a ruleset, left/right to change the
difficulty and Enter to play. Back from a paused or finished run returns
to the menu.

Controls:
  Up/Down/j/k     - Navigate
  Left/Right/h/l  - Difficulty
  Enter/Space     - Play
  Tab             - Run history
  Q               - Quit

Examples:
  ghostgrid menu
  ghostgrid menu --difficulty hard
  ghostgrid menu --fps 30 --db ./ghostgrid.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	if err := applyGameFlags(); err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	preset := flagDifficulty

	for {
		res, err := tui.RunMenu(store, cfg, preset)
		if err != nil {
			return err
		}
		cfg = res.Config
		preset = string(res.Difficulty)

		switch {
		case res.Quit:
			return nil

		case res.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(res.Ruleset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}
		if ds, ok := game.(difficultySetter); ok {
			if err := ds.SetDifficulty(preset); err != nil {
				return err
			}
		}

		run := cfg
		if run.Seed == 0 {
			run.Seed = time.Now().UnixNano()
		}
		if err := tui.Run(game, store, run, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
