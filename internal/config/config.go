// Package config provides YAML-based configuration for ghostgrid rulesets:
// map growth, tile densities, seeker difficulty curves, tools and shop prices.
package config

import (
	"errors"
	"fmt"
)

// Ruleset identifiers with embedded defaults.
const (
	RulesetDarknet = "darknet"
	RulesetClassic = "classic"
)

// Tool identifiers understood by the engine.
const (
	ToolCloaking  = "cloaking"
	ToolDecoy     = "decoy"
	ToolTorTrail  = "tor_trail"
	ToolVPN       = "vpn"
	ToolCCCleaner = "cc_cleaner"
	ToolUSB       = "usb"
)

var knownTools = map[string]bool{
	ToolCloaking:  true,
	ToolDecoy:     true,
	ToolTorTrail:  true,
	ToolVPN:       true,
	ToolCCCleaner: true,
	ToolUSB:       true,
}

// GhostGridConfig contains all tunables for one ruleset.
type GhostGridConfig struct {
	Map        MapConfig        `yaml:"map"`
	Tiles      TileConfig       `yaml:"tiles"`
	Player     PlayerConfig     `yaml:"player"`
	Seekers    SeekerConfig     `yaml:"seekers"`
	Portals    PortalConfig     `yaml:"portals"`
	Rewards    RewardConfig     `yaml:"rewards"`
	Tools      []ToolConfig     `yaml:"tools"`
	Shop       ShopConfig       `yaml:"shop"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// MapConfig controls the grid edge length per level.
type MapConfig struct {
	Size Curve `yaml:"size"`
}

// TileConfig controls special tile generation.
type TileConfig struct {
	Firewalls           Density  `yaml:"firewalls"`
	DataNodes           Density  `yaml:"data_nodes"`
	TeleportPairs       IntRange `yaml:"teleport_pairs"`
	TeleportMinDistance float64  `yaml:"teleport_min_distance"`
	PlacementAttempts   int      `yaml:"placement_attempts"`
	DataNodeCoins       int      `yaml:"data_node_coins"`
}

// Density is a tile count expressed as a random fraction of the grid area.
type Density struct {
	MinPct float64 `yaml:"min_pct"`
	MaxPct float64 `yaml:"max_pct"`
	Cap    int     `yaml:"cap"` // 0 = uncapped
}

// Count returns the tile count for the given area. roll is a uniform value
// in [0,1) choosing a point between MinPct and MaxPct.
func (d Density) Count(area int, roll float64) int {
	pct := d.MinPct + roll*(d.MaxPct-d.MinPct)
	n := int(float64(area) * pct)
	if d.Cap > 0 && n > d.Cap {
		n = d.Cap
	}
	return max(n, 0)
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// PlayerConfig defines the hider's starting state.
type PlayerConfig struct {
	Lives           int `yaml:"lives"`
	StartCoins      int `yaml:"start_coins"`
	GoalMinDistance int `yaml:"goal_min_distance"` // Manhattan distance from origin
}

// SeekerConfig defines seeker spawning and pursuit behaviour.
type SeekerConfig struct {
	Count          Curve `yaml:"count"`
	IntervalMS     Curve `yaml:"interval_ms"`
	Intelligence   Curve `yaml:"intelligence"`
	DetectionRange Curve `yaml:"detection_range"`

	MinSpawnDistance float64 `yaml:"min_spawn_distance"`

	// RandomMoveChance, when positive, is a fixed chance of a random step
	// and replaces the intelligence-based formula.
	RandomMoveChance float64 `yaml:"random_move_chance"`
	OptimalBase      float64 `yaml:"optimal_base"`
	OptimalRange     float64 `yaml:"optimal_range"`

	AvoidSpecialTiles bool    `yaml:"avoid_special_tiles"`
	DecoyFollowChance float64 `yaml:"decoy_follow_chance"`
	CloakCatchChance  float64 `yaml:"cloak_catch_chance"`
}

// PortalConfig controls transient portals spawned next to seekers.
type PortalConfig struct {
	Enabled     bool    `yaml:"enabled"`
	SpawnChance float64 `yaml:"spawn_chance"`
	TTLSeconds  float64 `yaml:"ttl_seconds"`
}

// RewardConfig defines what reaching the goal pays out.
type RewardConfig struct {
	WinBaseCoins  int `yaml:"win_base_coins"`
	WinLevelDiv   int `yaml:"win_level_divisor"`
	WinScore      int `yaml:"win_score"`
	WinDelayMS    int `yaml:"win_delay_ms"`
	RevealGoalSec int `yaml:"reveal_goal_seconds"`
}

// WinCoins returns the coins awarded for clearing the given level.
func (r RewardConfig) WinCoins(level int) int {
	bonus := 0
	if r.WinLevelDiv > 0 {
		bonus = level / r.WinLevelDiv
	}
	return r.WinBaseCoins + bonus
}

// ToolConfig describes one ability/tool and its cost curve.
type ToolConfig struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	BaseCost        int     `yaml:"base_cost"`
	CostIncrement   int     `yaml:"cost_increment"`
	CooldownSeconds float64 `yaml:"cooldown_seconds"`
	DurationSeconds float64 `yaml:"duration_seconds"` // 0 for instant tools
	DurationStep    float64 `yaml:"duration_step"`    // added per upgrade level
	Count           int     `yaml:"count"`            // decoy count or jump distance
	Owned           bool    `yaml:"owned"`            // usable without buying charges
	InShop          bool    `yaml:"in_shop"`          // charges can be bought for BaseCost
}

// UpgradeCost returns the cost of upgrading from the given level.
func (t ToolConfig) UpgradeCost(level int) int {
	return t.BaseCost + (max(level, 1)-1)*t.CostIncrement
}

// ShopConfig prices the non-tool shop entries.
type ShopConfig struct {
	ExtraLifeCost int      `yaml:"extra_life_cost"`
	ReviveCost    int      `yaml:"revive_cost"`
	MarketEnabled bool     `yaml:"market_enabled"`
	MarketPool    []string `yaml:"market_pool"`
}

// DifficultyConfig controls level-based progression of the curves.
type DifficultyConfig struct {
	Enabled    bool `yaml:"enabled"`
	StartLevel int  `yaml:"start_level"`
}

// ScalingLevel returns the level the difficulty curves are evaluated at.
// With progression disabled everything stays at the starting level.
func (c GhostGridConfig) ScalingLevel(level int) int {
	if !c.Difficulty.Enabled {
		return max(c.Difficulty.StartLevel, 1)
	}
	return level
}

// Tool returns the tool config with the given ID.
func (c GhostGridConfig) Tool(id string) (ToolConfig, bool) {
	for _, t := range c.Tools {
		if t.ID == id {
			return t, true
		}
	}
	return ToolConfig{}, false
}

// Validate reports every invalid field at once.
func (c GhostGridConfig) Validate() error {
	var errs []error
	if c.Map.Size.At(1) < 2 {
		errs = append(errs, errors.New("map.size must be at least 2 at level 1"))
	}
	if c.Player.Lives <= 0 {
		errs = append(errs, errors.New("player.lives must be positive"))
	}
	if c.Tiles.PlacementAttempts <= 0 {
		errs = append(errs, errors.New("tiles.placement_attempts must be positive"))
	}
	if c.Tiles.TeleportPairs.Min > c.Tiles.TeleportPairs.Max {
		errs = append(errs, errors.New("tiles.teleport_pairs.min exceeds max"))
	}
	if c.Seekers.IntervalMS.At(1) <= 0 {
		errs = append(errs, errors.New("seekers.interval_ms must be positive"))
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"seekers.random_move_chance", c.Seekers.RandomMoveChance},
		{"seekers.decoy_follow_chance", c.Seekers.DecoyFollowChance},
		{"seekers.cloak_catch_chance", c.Seekers.CloakCatchChance},
		{"portals.spawn_chance", c.Portals.SpawnChance},
	} {
		if p.v < 0 || p.v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", p.name, p.v))
		}
	}
	seen := make(map[string]bool)
	for _, t := range c.Tools {
		if !knownTools[t.ID] {
			errs = append(errs, fmt.Errorf("tools: unknown tool %q", t.ID))
		}
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("tools: duplicate tool %q", t.ID))
		}
		seen[t.ID] = true
	}
	for _, id := range c.Shop.MarketPool {
		if !knownTools[id] {
			errs = append(errs, fmt.Errorf("shop.market_pool: unknown tool %q", id))
		}
	}
	return errors.Join(errs...)
}
