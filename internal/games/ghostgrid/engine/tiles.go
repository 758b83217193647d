package engine

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
)

// GenerateLevel builds level number n for a hider starting at origin:
// grid size, goal, then special tiles. Seekers are placed separately.
func GenerateLevel(rng Rand, cfg config.GhostGridConfig, n int, origin core.Pos) Level {
	scale := cfg.ScalingLevel(n)
	size := max(cfg.Map.Size.At(scale), 2)
	goal := PlaceGoal(rng, size, origin, cfg.Player.GoalMinDistance, cfg.Tiles.PlacementAttempts)
	return Level{
		Number: n,
		Size:   size,
		Goal:   goal,
		Tiles:  GenerateTiles(rng, cfg.Tiles, size, origin, goal),
	}
}

// PlaceGoal picks a goal at least minDist steps from origin, falling back
// to the corner farthest from origin.
func PlaceGoal(rng Rand, size int, origin core.Pos, minDist, attempts int) core.Pos {
	if p, ok := Place(rng, size, attempts, NotOn(origin), MinManhattan(origin, minDist)); ok {
		return p
	}
	far := origin
	for _, c := range []core.Pos{core.P(0, 0), core.P(size-1, 0), core.P(0, size-1), core.P(size-1, size-1)} {
		if c.Manhattan(origin) > far.Manhattan(origin) {
			far = c
		}
	}
	return far
}

// GenerateTiles scatters firewalls, data nodes and teleport pairs over a
// size x size grid. reserved[0] and reserved[1] are the hider origin and
// the goal; any further positions are simply kept free. Firewalls never cut
// the goal off from the origin. A teleport pair is placed whole or not at
// all.
func GenerateTiles(rng Rand, cfg config.TileConfig, size int, reserved ...core.Pos) Tiles {
	t := NewTiles()
	taken := mapset.New[core.Pos]()
	for _, p := range reserved {
		taken.Put(p)
	}
	free := NotIn(taken)
	area := size * size
	attempts := cfg.PlacementAttempts

	keepsPath := func(core.Pos) bool { return true }
	if len(reserved) >= 2 {
		origin, goal := reserved[0], reserved[1]
		keepsPath = func(p core.Pos) bool {
			return Reachable(size, origin, goal, func(q core.Pos) bool {
				return q == p || t.Firewalls.Has(q)
			})
		}
	}

	for range cfg.Firewalls.Count(area, rng.Float64()) {
		if p, ok := Place(rng, size, attempts, free, keepsPath); ok {
			t.Firewalls.Put(p)
			taken.Put(p)
		}
	}
	for range cfg.DataNodes.Count(area, rng.Float64()) {
		if p, ok := Place(rng, size, attempts, free); ok {
			t.DataNodes.Put(p)
			taken.Put(p)
		}
	}

	pairs := cfg.TeleportPairs.Min
	if spread := cfg.TeleportPairs.Max - cfg.TeleportPairs.Min; spread > 0 {
		pairs += rng.Intn(spread + 1)
	}
	id := 0
	for range pairs {
		a, ok := Place(rng, size, attempts, free)
		if !ok {
			continue
		}
		b, ok := Place(rng, size, attempts, free, NotOn(a), MinDistance(a, cfg.TeleportMinDistance))
		if !ok {
			continue
		}
		t.Teleports = append(t.Teleports, Teleport{Pos: a, Pair: id}, Teleport{Pos: b, Pair: id})
		taken.Put(a)
		taken.Put(b)
		id++
	}
	return t
}

// PlaceSeekers spawns up to count seekers away from the hider, off the goal
// and off every special tile. Placements that run out of attempts are
// skipped.
func PlaceSeekers(rng Rand, lvl Level, player core.Pos, count int, minDist float64, attempts int) []Seeker {
	seekers := make([]Seeker, 0, count)
	used := mapset.New[core.Pos]()
	for range count {
		p, ok := Place(rng, lvl.Size, attempts,
			NotOn(player, lvl.Goal),
			NotIn(used),
			func(p core.Pos) bool { return !lvl.Tiles.Special(p) },
			MinDistance(player, minDist),
		)
		if !ok {
			continue
		}
		used.Put(p)
		seekers = append(seekers, Seeker{Pos: p, Name: enemyNames[rng.Intn(len(enemyNames))]})
	}
	return seekers
}

var enemyNames = []string{
	"Google Analytics",
	"Meta Pixel",
	"Yandex Metrica",
	"Hotjar",
	"Mixpanel",
	"Adobe Analytics",
	"Amplitude",
	"Segment",
	"Matomo",
	"Heap",
	"FullStory",
	"Crazy Egg",
	"Clicky",
	"Plausible",
}

var detectionMethods = []string{
	"browser fingerprint",
	"tracking cookie",
	"IP correlation",
	"behavioural profile",
}
