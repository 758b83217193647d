package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/registry"
	"github.com/vovakirdan/ghostgrid/internal/storage"
)

var (
	flagLimit  int
	flagRecent bool
	flagClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [ruleset]",
	Short: "Show run history for a ruleset",
	Long: `Display the best runs for a ruleset (darknet if omitted).

Examples:
  ghostgrid scores
  ghostgrid scores classic --limit 25
  ghostgrid scores --recent
  ghostgrid scores darknet --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for every played ruleset",
	RunE:  runStats,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the most recent runs across all rulesets")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the history of the ruleset")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// newTable renders rows with the shared CLI table style.
func newTable(headers []string, rows [][]string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
}

func runRows(runs []storage.Run, withRuleset bool) [][]string {
	rows := make([][]string, 0, len(runs))
	for i, r := range runs {
		row := []string{strconv.Itoa(i + 1)}
		if withRuleset {
			row = append(row, r.Ruleset)
		}
		row = append(row,
			r.Player,
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Level),
			strconv.Itoa(r.Coins),
			r.EndReason,
			r.Duration.Round(time.Second).String(),
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
		rows = append(rows, row)
	}
	return rows
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening run history: %w", err)
	}
	defer store.Close()

	if flagRecent {
		runs, err := store.RecentRuns(flagLimit)
		if err != nil {
			return err
		}
		fmt.Println("Recent runs")
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}
		fmt.Println(newTable(
			[]string{"#", "Ruleset", "Player", "Score", "Level", "Coins", "End", "Time", "Date"},
			runRows(runs, true),
		))
		return nil
	}

	ruleset := config.RulesetDarknet
	if len(args) == 1 {
		ruleset = args[0]
	}
	if !registry.Exists(ruleset) {
		return fmt.Errorf("unknown ruleset %q (run 'ghostgrid list')", ruleset)
	}

	if flagClear {
		if err := store.ClearRuns(ruleset); err != nil {
			return err
		}
		fmt.Printf("Cleared run history for %s.\n", ruleset)
		return nil
	}

	runs, err := store.TopRuns(ruleset, flagLimit)
	if err != nil {
		return fmt.Errorf("error retrieving runs: %w", err)
	}

	game, err := registry.Create(ruleset)
	if err != nil {
		return err
	}
	fmt.Printf("Run history - %s\n", game.Title())
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Printf("Play 'ghostgrid play %s' to set the first record!\n", ruleset)
		return nil
	}

	fmt.Println(newTable(
		[]string{"#", "Player", "Score", "Level", "Coins", "End", "Time", "Date"},
		runRows(runs, false),
	))
	if best, err := store.HighScore(ruleset); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}

func runStats(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening run history: %w", err)
	}
	defer store.Close()

	all, err := store.AllStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		st := all[id]
		rows = append(rows, []string{
			id,
			strconv.Itoa(st.Runs),
			strconv.Itoa(st.HighScore),
			strconv.Itoa(st.BestLevel),
			fmt.Sprintf("%.0f", st.AvgScore),
			strconv.FormatInt(st.TotalCoins, 10),
			st.LastPlayed.Format("2006-01-02 15:04"),
		})
	}
	fmt.Println(newTable([]string{"Ruleset", "Runs", "Best", "Deepest", "Avg", "Coins", "Last played"}, rows))
	return nil
}
