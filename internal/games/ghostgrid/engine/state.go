// Package engine is the ghostgrid simulation: level generation, seeker
// pursuit, movement rules, timed abilities and the session state machine.
//
// An Engine owns one GameState and is driven by intents (RequestMove,
// ActivateAbility, ...) and by Advance, which moves game time forward.
// Nothing here touches the terminal or wall-clock time, and an Engine is
// not safe for concurrent use: the host must serialize calls.
package engine

import (
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

// Role is the side the local player controls.
type Role int

const (
	RoleHider Role = iota
	RoleSeeker
)

func (r Role) String() string {
	if r == RoleSeeker {
		return "seeker"
	}
	return "hider"
}

// Phase is the session state.
type Phase int

const (
	PhaseMenu Phase = iota
	PhaseRunning
	PhasePaused
	PhaseLevelComplete // win shown, next level pending
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseLevelComplete:
		return "level complete"
	case PhaseGameOver:
		return "game over"
	}
	return "unknown"
}

// TileKind classifies a grid cell for rendering and tile events.
type TileKind int

const (
	TileEmpty TileKind = iota
	TileFirewall
	TileDataNode
	TileTeleport
	TilePortal
	TileGoal
)

func (k TileKind) String() string {
	switch k {
	case TileFirewall:
		return "firewall"
	case TileDataNode:
		return "data node"
	case TileTeleport:
		return "teleport"
	case TilePortal:
		return "portal"
	case TileGoal:
		return "goal"
	}
	return "empty"
}

// EffectKind names a timed ability effect.
type EffectKind int

const (
	EffectCloaking EffectKind = iota
	EffectDecoy
	EffectTorTrail
	EffectVPN
)

func (k EffectKind) String() string {
	switch k {
	case EffectCloaking:
		return "Cloaking"
	case EffectDecoy:
		return "Decoy"
	case EffectTorTrail:
		return "Tor Trail"
	case EffectVPN:
		return "VPN"
	}
	return "Unknown"
}

// Teleport is one pad of a pair. Exactly two pads share a Pair.
type Teleport struct {
	Pos  core.Pos
	Pair int
}

// Portal is a transient relocation tile spawned next to a seeker.
type Portal struct {
	Pos       core.Pos
	ExpiresAt time.Duration
}

// Tiles holds a level's special tiles.
type Tiles struct {
	Firewalls mapset.Set[core.Pos]
	DataNodes mapset.Set[core.Pos]
	Teleports []Teleport
	Portals   []Portal
}

// NewTiles returns an empty tile set.
func NewTiles() Tiles {
	return Tiles{
		Firewalls: mapset.New[core.Pos](),
		DataNodes: mapset.New[core.Pos](),
	}
}

// TeleportAt returns the pad at p.
func (t Tiles) TeleportAt(p core.Pos) (Teleport, bool) {
	for _, tp := range t.Teleports {
		if tp.Pos == p {
			return tp, true
		}
	}
	return Teleport{}, false
}

// Partner resolves the other pad of tp's pair.
func (t Tiles) Partner(tp Teleport) (core.Pos, bool) {
	for _, other := range t.Teleports {
		if other.Pair == tp.Pair && other.Pos != tp.Pos {
			return other.Pos, true
		}
	}
	return core.Pos{}, false
}

// PortalIndex returns the index of the portal at p, or -1.
func (t Tiles) PortalIndex(p core.Pos) int {
	for i, pt := range t.Portals {
		if pt.Pos == p {
			return i
		}
	}
	return -1
}

// Special reports whether any special tile occupies p.
func (t Tiles) Special(p core.Pos) bool {
	if t.Firewalls.Has(p) || t.DataNodes.Has(p) {
		return true
	}
	if _, ok := t.TeleportAt(p); ok {
		return true
	}
	return t.PortalIndex(p) >= 0
}

// Level is the current grid.
type Level struct {
	Number int
	Size   int
	Goal   core.Pos
	Tiles  Tiles
}

// Effect is an active timed ability.
type Effect struct {
	ID        uint64
	Kind      EffectKind
	ExpiresAt time.Duration
	Magnitude int // decoy count, jump distance, or whole seconds of duration for cloaking and tor trail
	timer     TimerID
}

// Player is the hider.
type Player struct {
	Pos       core.Pos
	Lives     int
	Coins     int
	Score     int
	Effects   []Effect
	Owned     mapset.Set[string] // tools usable without charges
	Inventory []string           // bought one-use charges, oldest first
}

// Effect returns the active effect of the given kind.
func (p *Player) Effect(kind EffectKind) (Effect, bool) {
	for _, e := range p.Effects {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}

// HasEffect reports whether an effect of the given kind is active.
func (p *Player) HasEffect(kind EffectKind) bool {
	_, ok := p.Effect(kind)
	return ok
}

func (p *Player) chargeIndex(tool string) int {
	for i, id := range p.Inventory {
		if id == tool {
			return i
		}
	}
	return -1
}

// Seeker is an AI pursuer. Name is the analytics firm it represents.
type Seeker struct {
	Pos  core.Pos
	Name string
}

// GameState is the aggregate every subsystem reads and mutates.
type GameState struct {
	Role      Role
	Phase     Phase
	Level     Level
	Player    Player
	Seekers   []Seeker
	Decoys    []core.Pos
	Confused  bool
	ToolLevel map[string]int
	Cooldowns map[string]time.Duration // game time at which the tool is ready
	Market    bool                     // market already used this level
	Detection int
	Log       ActionLog
}

func newGameState() GameState {
	return GameState{
		Level:     Level{Number: 1, Tiles: NewTiles()},
		Player:    Player{Owned: mapset.New[string]()},
		ToolLevel: make(map[string]int),
		Cooldowns: make(map[string]time.Duration),
	}
}

// SeekerAt returns the index of the first seeker on p, or -1.
func (s *GameState) SeekerAt(p core.Pos) int {
	for i, sk := range s.Seekers {
		if sk.Pos == p {
			return i
		}
	}
	return -1
}

// LevelOf returns the upgrade level of a tool, at least 1.
func (s *GameState) LevelOf(tool string) int {
	return max(s.ToolLevel[tool], 1)
}
