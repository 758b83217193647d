package config

import "fmt"

// Curve maps a level number to an integer parameter. Either a step table
// (first step whose Below exceeds the level wins; Below 0 matches anything)
// or a linear form Base + (level/Every)*Step. Min and Max clamp the result
// when non-zero.
type Curve struct {
	Base  int         `yaml:"base"`
	Every int         `yaml:"every"`
	Step  int         `yaml:"step"`
	Min   int         `yaml:"min"`
	Max   int         `yaml:"max"`
	Steps []CurveStep `yaml:"steps"`
}

// CurveStep is one row of a step table.
type CurveStep struct {
	Below int `yaml:"below"`
	Value int `yaml:"value"`
}

// At evaluates the curve at the given level.
func (c Curve) At(level int) int {
	v := c.Base
	switch {
	case len(c.Steps) > 0:
		v = c.Steps[len(c.Steps)-1].Value
		for _, s := range c.Steps {
			if s.Below == 0 || level < s.Below {
				v = s.Value
				break
			}
		}
	case c.Every > 0:
		step := c.Step
		if step == 0 {
			step = 1
		}
		v = c.Base + (level/c.Every)*step
	}
	if c.Min != 0 && v < c.Min {
		v = c.Min
	}
	if c.Max != 0 && v > c.Max {
		v = c.Max
	}
	return v
}

// Linear builds a linear curve.
func Linear(base, every, maxValue int) Curve {
	return Curve{Base: base, Every: every, Step: 1, Max: maxValue}
}

// Steps builds a step-table curve.
func Steps(steps ...CurveStep) Curve {
	return Curve{Steps: steps}
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// StartLevelForPreset returns the level a new game starts at.
func StartLevelForPreset(preset DifficultyPreset) int {
	if preset == DifficultyHard {
		return 5
	}
	return 1
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *GhostGridConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		cfg.Difficulty.StartLevel = max(cfg.Difficulty.StartLevel, 1)
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.StartLevel = StartLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Player.Lives += 2
		cfg.Player.StartCoins += 20
		cfg.Seekers.CloakCatchChance /= 2
	case DifficultyHard:
		cfg.Player.Lives = 2
	}
}
