package config

import (
	"embed"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// GetDefaultYAML returns the embedded default YAML for a ruleset, or nil.
func GetDefaultYAML(ruleset string) []byte {
	data, err := defaultsFS.ReadFile("defaults/" + ruleset + ".yaml")
	if err != nil {
		return nil
	}
	return data
}

// Rulesets lists the rulesets with embedded defaults.
func Rulesets() []string {
	return []string{RulesetClassic, RulesetDarknet}
}

// DefaultTools returns the standard tool table.
func DefaultTools() []ToolConfig {
	return []ToolConfig{
		{ID: ToolCloaking, Name: "Cloaking", BaseCost: 15, CostIncrement: 8, CooldownSeconds: 25, DurationSeconds: 8, DurationStep: 2, Owned: true},
		{ID: ToolDecoy, Name: "Decoy", BaseCost: 15, CostIncrement: 8, CooldownSeconds: 30, DurationSeconds: 12, DurationStep: 2, Count: 1, Owned: true},
		{ID: ToolTorTrail, Name: "Tor Trail", BaseCost: 20, CostIncrement: 10, CooldownSeconds: 35, DurationSeconds: 8, DurationStep: 2, InShop: true},
		{ID: ToolVPN, Name: "VPN", BaseCost: 12, CostIncrement: 6, CooldownSeconds: 20, DurationSeconds: 6, DurationStep: 2, Count: 2, InShop: true},
		{ID: ToolCCCleaner, Name: "CC Cleaner", BaseCost: 25, CostIncrement: 12, CooldownSeconds: 25, InShop: true},
		{ID: ToolUSB, Name: "Bootable USB", BaseCost: 15, CostIncrement: 5, CooldownSeconds: 10, InShop: true},
	}
}

// DefaultGhostGridConfig returns the darknet ruleset. It is used when the
// embedded YAML cannot be parsed.
func DefaultGhostGridConfig() GhostGridConfig {
	return GhostGridConfig{
		Map: MapConfig{Size: Linear(5, 3, 9)},
		Tiles: TileConfig{
			Firewalls:           Density{MinPct: 0.10, MaxPct: 0.20, Cap: 12},
			DataNodes:           Density{MinPct: 0.05, MaxPct: 0.10, Cap: 5},
			TeleportPairs:       IntRange{Min: 1, Max: 2},
			TeleportMinDistance: 3,
			PlacementAttempts:   100,
			DataNodeCoins:       5,
		},
		Player: PlayerConfig{Lives: 3, GoalMinDistance: 5},
		Seekers: SeekerConfig{
			Count: Steps(
				CurveStep{Below: 10, Value: 2},
				CurveStep{Below: 20, Value: 3},
				CurveStep{Below: 30, Value: 4},
				CurveStep{Below: 40, Value: 5},
				CurveStep{Value: 6},
			),
			IntervalMS: Steps(
				CurveStep{Below: 5, Value: 3000},
				CurveStep{Below: 10, Value: 2500},
				CurveStep{Below: 20, Value: 2000},
				CurveStep{Below: 30, Value: 1500},
				CurveStep{Value: 1000},
			),
			Intelligence:      Linear(1, 3, 10),
			DetectionRange:    Linear(3, 5, 8),
			MinSpawnDistance:  4,
			OptimalBase:       0.7,
			OptimalRange:      0.25,
			AvoidSpecialTiles: true,
			DecoyFollowChance: 0.5,
			CloakCatchChance:  0.3,
		},
		Portals: PortalConfig{Enabled: true, SpawnChance: 0.25, TTLSeconds: 5},
		Rewards: RewardConfig{WinBaseCoins: 10, WinLevelDiv: 2, WinScore: 10, WinDelayMS: 1000, RevealGoalSec: 3},
		Tools:   DefaultTools(),
		Shop: ShopConfig{
			ExtraLifeCost: 30,
			ReviveCost:    30,
			MarketEnabled: true,
			MarketPool:    []string{ToolUSB, ToolTorTrail, ToolCCCleaner, ToolVPN},
		},
		Difficulty: DifficultyConfig{Enabled: true, StartLevel: 1},
	}
}

// DefaultClassicConfig returns the simple ruleset: fixed 10% random steps,
// no portals, seekers walk over special tiles and cloaking always protects.
func DefaultClassicConfig() GhostGridConfig {
	cfg := DefaultGhostGridConfig()
	cfg.Tiles.TeleportMinDistance = 0
	cfg.Tiles.PlacementAttempts = 50
	cfg.Tiles.Firewalls.Cap = 0
	cfg.Tiles.DataNodes.Cap = 0
	cfg.Player.GoalMinDistance = 0
	cfg.Seekers.Count = Linear(1, 2, 5)
	cfg.Seekers.IntervalMS = Steps(
		CurveStep{Below: 10, Value: 3000},
		CurveStep{Below: 31, Value: 2000},
		CurveStep{Value: 1000},
	)
	cfg.Seekers.MinSpawnDistance = 3
	cfg.Seekers.RandomMoveChance = 0.1
	cfg.Seekers.AvoidSpecialTiles = false
	cfg.Seekers.DecoyFollowChance = 0
	cfg.Seekers.CloakCatchChance = 0
	cfg.Portals = PortalConfig{}
	return cfg
}

// DefaultFor returns the hardcoded defaults for a ruleset.
func DefaultFor(ruleset string) GhostGridConfig {
	if ruleset == RulesetClassic {
		return DefaultClassicConfig()
	}
	return DefaultGhostGridConfig()
}
