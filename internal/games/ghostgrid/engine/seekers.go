package engine

import (
	"math"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
)

// AIParams are the per-level pursuit tunables.
type AIParams struct {
	OptimalChance float64 // probability of taking the closing step
	AvoidSpecial  bool    // treat data nodes, teleports and portals as walls
	DecoyFollow   float64 // chance a confused seeker chases a decoy
}

// ParamsFor derives pursuit parameters for a scaling level.
func ParamsFor(cfg config.SeekerConfig, level int) AIParams {
	p := AIParams{AvoidSpecial: cfg.AvoidSpecialTiles, DecoyFollow: cfg.DecoyFollowChance}
	if cfg.RandomMoveChance > 0 {
		p.OptimalChance = 1 - cfg.RandomMoveChance
	} else {
		ceiling := cfg.Intelligence.Max
		if ceiling <= 0 {
			ceiling = 10
		}
		intel := float64(cfg.Intelligence.At(level)) / float64(ceiling)
		p.OptimalChance = cfg.OptimalBase + intel*cfg.OptimalRange
	}
	p.OptimalChance = math.Max(0, math.Min(1, p.OptimalChance))
	return p
}

// AdvanceSeekers moves every seeker one orthogonal step. A seeker already on
// the hider, or boxed in, stays put.
func AdvanceSeekers(st *GameState, rng Rand, p AIParams) {
	for i := range st.Seekers {
		s := &st.Seekers[i]
		if s.Pos == st.Player.Pos {
			continue
		}
		cands := seekerMoves(st, s.Pos, p.AvoidSpecial)
		if len(cands) == 0 {
			continue
		}
		target := st.Player.Pos
		if st.Confused && len(st.Decoys) > 0 && rng.Float64() < p.DecoyFollow {
			target = nearest(s.Pos, st.Decoys)
		}
		next := closest(cands, target)
		if rng.Float64() >= p.OptimalChance {
			next = cands[rng.Intn(len(cands))]
		}
		s.Pos = next
	}
}

func seekerMoves(st *GameState, from core.Pos, avoidSpecial bool) []core.Pos {
	tiles := &st.Level.Tiles
	var out []core.Pos
	for _, n := range from.Neighbors4(st.Level.Size) {
		if tiles.Firewalls.Has(n) {
			continue
		}
		if avoidSpecial && tiles.Special(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// closest returns the first candidate with the smallest Euclidean distance
// to target.
func closest(cands []core.Pos, target core.Pos) core.Pos {
	best := cands[0]
	bestD := best.Dist(target)
	for _, c := range cands[1:] {
		if d := c.Dist(target); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func nearest(from core.Pos, ps []core.Pos) core.Pos {
	best := ps[0]
	for _, p := range ps[1:] {
		if p.Dist(from) < best.Dist(from) {
			best = p
		}
	}
	return best
}
