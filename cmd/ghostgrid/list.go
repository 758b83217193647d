package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostgrid/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all rulesets",
	Long:  `Shows every ruleset ghostgrid can play.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No rulesets available.")
		return
	}

	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{g.ID, g.Title})
	}

	fmt.Println("Available rulesets:")
	fmt.Println(newTable([]string{"ID", "Title"}, rows))
	fmt.Println("Run 'ghostgrid play <id>' to start a run.")
}
