package engine

import (
	"github.com/vovakirdan/ghostgrid/internal/core"
)

// Reason explains why an intent was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInactive
	ReasonPaused
	ReasonLevelTransition
	ReasonWrongRole
	ReasonUnsupportedRole
	ReasonOutOfBounds
	ReasonFirewall
	ReasonIllegalMove
	ReasonOccupied
	ReasonUnknownTool
	ReasonAlreadyActive
	ReasonCooldown
	ReasonNotOwned
	ReasonNotForSale
	ReasonInsufficientFunds
	ReasonNotGameOver
	ReasonMarketUsed
)

var reasonNames = map[Reason]string{
	ReasonNone:              "ok",
	ReasonInactive:          "game not running",
	ReasonPaused:            "paused",
	ReasonLevelTransition:   "level complete",
	ReasonWrongRole:         "not your role",
	ReasonUnsupportedRole:   "role not supported",
	ReasonOutOfBounds:       "out of bounds",
	ReasonFirewall:          "firewall",
	ReasonIllegalMove:       "illegal move",
	ReasonOccupied:          "tile occupied",
	ReasonUnknownTool:       "unknown tool",
	ReasonAlreadyActive:     "already active",
	ReasonCooldown:          "on cooldown",
	ReasonNotOwned:          "not owned",
	ReasonNotForSale:        "not for sale",
	ReasonInsufficientFunds: "insufficient funds",
	ReasonNotGameOver:       "game not over",
	ReasonMarketUsed:        "market already used",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "unknown"
}

// Outcome is the result of an intent.
type Outcome struct {
	Accepted bool
	Reason   Reason
}

func accepted() Outcome { return Outcome{Accepted: true} }

func rejected(r Reason) Outcome { return Outcome{Reason: r} }

// phaseReason rejects everything but a running session.
func phaseReason(p Phase) Reason {
	switch p {
	case PhaseRunning:
		return ReasonNone
	case PhasePaused:
		return ReasonPaused
	case PhaseLevelComplete:
		return ReasonLevelTransition
	}
	return ReasonInactive
}

// ValidateMove checks whether the hider may step onto target. It never
// mutates state.
func ValidateMove(st *GameState, target core.Pos) Reason {
	if r := phaseReason(st.Phase); r != ReasonNone {
		return r
	}
	if st.Role != RoleHider {
		return ReasonWrongRole
	}
	if !target.InBounds(st.Level.Size) {
		return ReasonOutOfBounds
	}
	if st.Level.Tiles.Firewalls.Has(target) {
		return ReasonFirewall
	}
	if !legalStep(&st.Player, target) {
		return ReasonIllegalMove
	}
	if st.SeekerAt(target) >= 0 && !st.Player.HasEffect(EffectCloaking) {
		return ReasonOccupied
	}
	return ReasonNone
}

// legalStep allows one orthogonal step, one diagonal step under Tor Trail,
// or a VPN jump whose offset along either axis equals the jump distance.
// Jumps pass over anything.
func legalStep(p *Player, target core.Pos) bool {
	dx := core.Abs(target.X - p.Pos.X)
	dy := core.Abs(target.Y - p.Pos.Y)
	switch {
	case dx+dy == 1:
		return true
	case dx == 1 && dy == 1:
		return p.HasEffect(EffectTorTrail)
	}
	vpn, ok := p.Effect(EffectVPN)
	if !ok || vpn.Magnitude <= 0 {
		return false
	}
	return dx == vpn.Magnitude || dy == vpn.Magnitude
}

// RequestMove moves the hider to (x, y) and resolves the tile it lands on.
func (e *Engine) RequestMove(x, y int) Outcome {
	target := core.P(x, y)
	if r := ValidateMove(&e.state, target); r != ReasonNone {
		return rejected(r)
	}
	e.state.Player.Pos = target
	e.bus.Publish(PlayerMoved{Pos: target})
	e.resolveTile()
	e.checkWin()
	e.updateDetection()
	e.publishGrid()
	return accepted()
}

// MoveBy is RequestMove relative to the hider's position.
func (e *Engine) MoveBy(dx, dy int) Outcome {
	p := e.state.Player.Pos.Add(dx, dy)
	return e.RequestMove(p.X, p.Y)
}

// resolveTile applies the tile under the hider. Relocation by a teleport or
// portal does not trigger the destination tile.
func (e *Engine) resolveTile() {
	st := &e.state
	tiles := &st.Level.Tiles
	pos := st.Player.Pos

	if tiles.DataNodes.Has(pos) {
		tiles.DataNodes.Remove(pos)
		st.Player.Coins += e.cfg.Tiles.DataNodeCoins
		e.bus.Publish(TileEffect{Kind: TileDataNode, Pos: pos, To: pos})
		e.logf("Data node harvested: +%d coins", e.cfg.Tiles.DataNodeCoins)
		return
	}

	if tp, ok := tiles.TeleportAt(pos); ok {
		if dest, ok := tiles.Partner(tp); ok {
			e.relocate(TileTeleport, pos, dest)
			e.logf("Teleported to %s", dest)
		}
		return
	}

	if i := tiles.PortalIndex(pos); i >= 0 {
		tiles.Portals = append(tiles.Portals[:i], tiles.Portals[i+1:]...)
		dest, ok := Place(e.rng, st.Level.Size, e.cfg.Tiles.PlacementAttempts,
			NotOn(pos, st.Level.Goal),
			func(p core.Pos) bool { return !tiles.Special(p) && st.SeekerAt(p) < 0 },
		)
		if !ok {
			e.logf("Portal collapsed")
			return
		}
		e.relocate(TilePortal, pos, dest)
		e.logf("Portal dropped you at %s", dest)
	}
}

func (e *Engine) relocate(kind TileKind, from, to core.Pos) {
	e.state.Player.Pos = to
	e.bus.Publish(TileEffect{Kind: kind, Pos: from, To: to})
	e.bus.Publish(PlayerMoved{Pos: to})
}
