package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ghostgrid/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and validate ruleset configs",
}

var configDumpCmd = &cobra.Command{
	Use:   "dump [ruleset]",
	Short: "Print the effective config as YAML",
	Long: `Print the config a run would use, after overlaying --config (or
~/.ghostgrid/configs/<ruleset>.yaml) on the built-in defaults and applying
--difficulty. Redirect it to a file to start a custom ruleset.

Examples:
  ghostgrid config dump
  ghostgrid config dump classic --difficulty hard > classic-hard.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigDump,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a config file against a ruleset",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigValidate,
}

var flagConfigRuleset string

func init() {
	configDumpCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom ruleset config YAML")
	configDumpCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	configValidateCmd.Flags().StringVar(&flagConfigRuleset, "ruleset", config.RulesetDarknet, "Ruleset whose defaults the file overlays")

	configCmd.AddCommand(configDumpCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigDump(_ *cobra.Command, args []string) error {
	ruleset := config.RulesetDarknet
	if len(args) == 1 {
		ruleset = args[0]
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ruleset, flagConfig)
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, preset)
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runConfigValidate(_ *cobra.Command, args []string) error {
	if _, err := config.Load(flagConfigRuleset, args[0]); err != nil {
		return err
	}
	fmt.Printf("%s is a valid %s config\n", args[0], flagConfigRuleset)
	return nil
}
