package engine

import (
	"cmp"
	"slices"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

// EffectView is an active effect as seen by a renderer.
type EffectView struct {
	Kind      EffectKind
	Remaining time.Duration
	Magnitude int
}

// Snapshot is an immutable copy of everything a renderer needs.
type Snapshot struct {
	Phase     Phase
	Level     int
	Size      int
	Player    core.Pos
	Goal      core.Pos
	Lives     int
	Coins     int
	Score     int
	Detection int
	Interval  time.Duration

	Seekers   []core.Pos
	Firewalls []core.Pos
	DataNodes []core.Pos
	Teleports []Teleport
	Portals   []core.Pos
	Decoys    []core.Pos

	Effects    []EffectView
	Cooldowns  map[string]time.Duration // remaining
	ToolLevels map[string]int
	Inventory  []string
	Owned      []string
	MarketUsed bool
	Log        []string
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	st := &e.state
	now := e.clock.Now()
	s := Snapshot{
		Phase:      st.Phase,
		Level:      st.Level.Number,
		Size:       st.Level.Size,
		Player:     st.Player.Pos,
		Goal:       st.Level.Goal,
		Lives:      st.Player.Lives,
		Coins:      st.Player.Coins,
		Score:      st.Player.Score,
		Detection:  st.Detection,
		Interval:   e.interval,
		Firewalls:  sortedPositions(st.Level.Tiles.Firewalls),
		DataNodes:  sortedPositions(st.Level.Tiles.DataNodes),
		Teleports:  slices.Clone(st.Level.Tiles.Teleports),
		Decoys:     slices.Clone(st.Decoys),
		Cooldowns:  make(map[string]time.Duration, len(st.Cooldowns)),
		ToolLevels: make(map[string]int, len(st.ToolLevel)),
		Inventory:  slices.Clone(st.Player.Inventory),
		Owned:      sortedTools(st.Player.Owned),
		MarketUsed: st.Market,
		Log:        st.Log.Lines(),
	}
	for _, sk := range st.Seekers {
		s.Seekers = append(s.Seekers, sk.Pos)
	}
	for _, p := range st.Level.Tiles.Portals {
		s.Portals = append(s.Portals, p.Pos)
	}
	for _, eff := range st.Player.Effects {
		s.Effects = append(s.Effects, EffectView{Kind: eff.Kind, Remaining: eff.ExpiresAt - now, Magnitude: eff.Magnitude})
	}
	for tool, ready := range st.Cooldowns {
		if ready > now {
			s.Cooldowns[tool] = ready - now
		}
	}
	for tool, lvl := range st.ToolLevel {
		s.ToolLevels[tool] = lvl
	}
	return s
}

// TileAt classifies p. The goal wins over everything else.
func (s Snapshot) TileAt(p core.Pos) TileKind {
	switch {
	case p == s.Goal:
		return TileGoal
	case slices.Contains(s.Firewalls, p):
		return TileFirewall
	case slices.ContainsFunc(s.Teleports, func(t Teleport) bool { return t.Pos == p }):
		return TileTeleport
	case slices.Contains(s.Portals, p):
		return TilePortal
	case slices.Contains(s.DataNodes, p):
		return TileDataNode
	}
	return TileEmpty
}

// HasEffect reports whether an effect of kind is active.
func (s Snapshot) HasEffect(kind EffectKind) bool {
	return slices.ContainsFunc(s.Effects, func(v EffectView) bool { return v.Kind == kind })
}

func sortedPositions(set mapset.Set[core.Pos]) []core.Pos {
	out := make([]core.Pos, 0, set.Size())
	set.Each(func(p core.Pos) { out = append(out, p) })
	slices.SortFunc(out, comparePos)
	return out
}

func sortedTools(set mapset.Set[string]) []string {
	out := make([]string, 0, set.Size())
	set.Each(func(id string) { out = append(out, id) })
	slices.Sort(out)
	return out
}

func comparePos(a, b core.Pos) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}
