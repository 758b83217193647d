package engine

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
)

func TestGeneratedLevelInvariants(t *testing.T) {
	rulesets := map[string]config.GhostGridConfig{
		config.RulesetDarknet: config.DefaultGhostGridConfig(),
		config.RulesetClassic: config.DefaultClassicConfig(),
	}
	for name, cfg := range rulesets {
		t.Run(name, func(t *testing.T) {
			for seed := int64(1); seed <= 200; seed++ {
				rng := rand.New(rand.NewSource(seed))
				n := int(seed%40) + 1
				lvl := GenerateLevel(rng, cfg, n, Origin)
				checkLevel(t, cfg, lvl)

				seekers := PlaceSeekers(rng, lvl, Origin, 3, cfg.Seekers.MinSpawnDistance, cfg.Tiles.PlacementAttempts)
				seen := map[core.Pos]bool{}
				for _, s := range seekers {
					if lvl.Tiles.Special(s.Pos) || s.Pos == lvl.Goal {
						t.Errorf("seed %d: seeker on special tile or goal %v", seed, s.Pos)
					}
					if s.Pos.Dist(Origin) < cfg.Seekers.MinSpawnDistance {
						t.Errorf("seed %d: seeker %v too close to the hider", seed, s.Pos)
					}
					if seen[s.Pos] {
						t.Errorf("seed %d: two seekers on %v", seed, s.Pos)
					}
					seen[s.Pos] = true
				}
			}
		})
	}
}

func checkLevel(t *testing.T, cfg config.GhostGridConfig, lvl Level) {
	t.Helper()
	if lvl.Goal == Origin || !lvl.Goal.InBounds(lvl.Size) {
		t.Fatalf("bad goal %v on %dx%d grid", lvl.Goal, lvl.Size, lvl.Size)
	}
	if want := min(cfg.Player.GoalMinDistance, 2*(lvl.Size-1)); lvl.Goal.Manhattan(Origin) < want {
		t.Errorf("goal %v is %d steps from origin, expected at least %d", lvl.Goal, lvl.Goal.Manhattan(Origin), want)
	}

	kinds := map[core.Pos]int{}
	lvl.Tiles.Firewalls.Each(func(p core.Pos) { kinds[p]++ })
	lvl.Tiles.DataNodes.Each(func(p core.Pos) { kinds[p]++ })
	pads := map[int][]core.Pos{}
	for _, tp := range lvl.Tiles.Teleports {
		kinds[tp.Pos]++
		pads[tp.Pair] = append(pads[tp.Pair], tp.Pos)
	}
	for p, n := range kinds {
		if n > 1 {
			t.Errorf("%v holds %d special tiles", p, n)
		}
		if p == Origin || p == lvl.Goal {
			t.Errorf("special tile on reserved cell %v", p)
		}
		if !p.InBounds(lvl.Size) {
			t.Errorf("special tile %v out of bounds", p)
		}
	}
	for id, ps := range pads {
		if len(ps) != 2 {
			t.Errorf("pair %d has %d pads, expected 2", id, len(ps))
			continue
		}
		if ps[0].Dist(ps[1]) < cfg.Tiles.TeleportMinDistance {
			t.Errorf("pair %d pads %v and %v are too close", id, ps[0], ps[1])
		}
	}
	if !Reachable(lvl.Size, Origin, lvl.Goal, func(p core.Pos) bool { return lvl.Tiles.Firewalls.Has(p) }) {
		t.Errorf("goal %v walled off", lvl.Goal)
	}
}

func TestTeleportPairsAreAtomic(t *testing.T) {
	cfg := config.TileConfig{
		TeleportPairs:       config.IntRange{Min: 2, Max: 2},
		TeleportMinDistance: 3,
		PlacementAttempts:   20,
	}
	tiles := GenerateTiles(rand.New(rand.NewSource(3)), cfg, 2, core.P(0, 0), core.P(1, 1))
	if len(tiles.Teleports) != 0 {
		t.Errorf("got %d pads on a grid too small for a pair, expected 0", len(tiles.Teleports))
	}
}

func TestPlaceGoalFallsBackToFarCorner(t *testing.T) {
	got := PlaceGoal(rand.New(rand.NewSource(1)), 5, Origin, 100, 10)
	if want := core.P(4, 4); got != want {
		t.Errorf("PlaceGoal() = %v, expected %v", got, want)
	}
}

func TestPlaceSeekersSkipsWhenNoRoom(t *testing.T) {
	lvl := Level{Size: 2, Goal: core.P(1, 1), Tiles: NewTiles()}
	got := PlaceSeekers(rand.New(rand.NewSource(1)), lvl, Origin, 3, 10, 20)
	if len(got) != 0 {
		t.Errorf("PlaceSeekers() placed %d, expected 0", len(got))
	}
}

func TestLevelSizeFollowsCurve(t *testing.T) {
	fixed := config.DefaultGhostGridConfig()
	config.ApplyPreset(&fixed, config.DifficultyFixed)

	tests := []struct {
		name  string
		cfg   config.GhostGridConfig
		level int
		want  int
	}{
		{"first level", config.DefaultGhostGridConfig(), 1, 5},
		{"level 6", config.DefaultGhostGridConfig(), 6, 7},
		{"capped", config.DefaultGhostGridConfig(), 100, 9},
		{"fixed difficulty", fixed, 30, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := GenerateLevel(rand.New(rand.NewSource(1)), tt.cfg, tt.level, Origin)
			if lvl.Size != tt.want {
				t.Errorf("GenerateLevel(%d).Size = %d, expected %d", tt.level, lvl.Size, tt.want)
			}
		})
	}
}
