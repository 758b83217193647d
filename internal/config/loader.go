package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration for a ruleset.
// Search order: customPath -> ~/.ghostgrid/configs/<ruleset>.yaml ->
// ./configs/<ruleset>.yaml -> embedded default -> hardcoded default.
// Files are overlaid on the ruleset defaults, so partial files are fine.
func Load(ruleset, customPath string) (GhostGridConfig, error) {
	base := embeddedDefault(ruleset)

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return base, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		cfg, err := overlay(base, data)
		if err != nil {
			return base, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return base, fmt.Errorf("config: invalid %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{filepath.Join("configs", ruleset+".yaml")}
	if p := userConfigPath(ruleset + ".yaml"); p != "" {
		candidates = append([]string{p}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := overlay(base, data); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	return base, nil
}

// Marshal renders a config as YAML.
func Marshal(cfg GhostGridConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: cannot marshal: %w", err)
	}
	return data, nil
}

// embeddedDefault parses the embedded YAML for a ruleset, falling back to
// the hardcoded values.
func embeddedDefault(ruleset string) GhostGridConfig {
	data := GetDefaultYAML(ruleset)
	if data == nil {
		return DefaultFor(ruleset)
	}
	var cfg GhostGridConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil || cfg.Validate() != nil {
		return DefaultFor(ruleset)
	}
	return cfg
}

func overlay(base GhostGridConfig, data []byte) (GhostGridConfig, error) {
	cfg := base
	// Slices are replaced wholesale by yaml, never merged.
	cfg.Tools = append([]ToolConfig(nil), base.Tools...)
	cfg.Shop.MarketPool = append([]string(nil), base.Shop.MarketPool...)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, err
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ghostgrid", "configs", filename)
}
