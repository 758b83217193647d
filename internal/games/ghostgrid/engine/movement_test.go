package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

func addEffect(e *Engine, kind EffectKind, magnitude int) {
	e.state.Player.Effects = append(e.state.Player.Effects, Effect{ID: 1000 + uint64(kind), Kind: kind, Magnitude: magnitude})
}

func TestRequestMove(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(e *Engine)
		target core.Pos
		want   Reason
	}{
		{"orthogonal step", nil, core.P(2, 1), ReasonNone},
		{"out of bounds", func(e *Engine) { e.state.Player.Pos = core.P(0, 2) }, core.P(-1, 2), ReasonOutOfBounds},
		{"firewall", func(e *Engine) { e.state.Level.Tiles.Firewalls.Put(core.P(3, 2)) }, core.P(3, 2), ReasonFirewall},
		{"diagonal without tor trail", nil, core.P(3, 3), ReasonIllegalMove},
		{"diagonal with tor trail", func(e *Engine) { addEffect(e, EffectTorTrail, 0) }, core.P(3, 3), ReasonNone},
		{"two cells without vpn", nil, core.P(4, 2), ReasonIllegalMove},
		{"vpn jump", func(e *Engine) { addEffect(e, EffectVPN, 2) }, core.P(4, 2), ReasonNone},
		{"vpn jump over firewall", func(e *Engine) {
			addEffect(e, EffectVPN, 2)
			e.state.Level.Tiles.Firewalls.Put(core.P(2, 3))
		}, core.P(2, 4), ReasonNone},
		{"vpn wrong distance", func(e *Engine) { addEffect(e, EffectVPN, 2) }, core.P(5, 2), ReasonIllegalMove},
		{"vpn diagonal", func(e *Engine) { addEffect(e, EffectVPN, 2) }, core.P(4, 4), ReasonNone},
		{"vpn knight offset", func(e *Engine) { addEffect(e, EffectVPN, 2) }, core.P(4, 3), ReasonNone},
		{"vpn off-axis offset", func(e *Engine) { addEffect(e, EffectVPN, 2) }, core.P(3, 0), ReasonNone},
		{"vpn neither axis matches", func(e *Engine) { addEffect(e, EffectVPN, 2) }, core.P(5, 5), ReasonIllegalMove},
		{"stay in place", nil, core.P(2, 2), ReasonIllegalMove},
		{"onto seeker", func(e *Engine) {
			e.state.Seekers = []Seeker{{Pos: core.P(2, 1)}}
		}, core.P(2, 1), ReasonOccupied},
		{"cloaked onto seeker", func(e *Engine) {
			e.state.Seekers = []Seeker{{Pos: core.P(2, 1)}}
			addEffect(e, EffectCloaking, 0)
		}, core.P(2, 1), ReasonNone},
		{"paused", func(e *Engine) { e.state.Phase = PhasePaused }, core.P(2, 1), ReasonPaused},
		{"level transition", func(e *Engine) { e.state.Phase = PhaseLevelComplete }, core.P(2, 1), ReasonLevelTransition},
		{"menu", func(e *Engine) { e.state.Phase = PhaseMenu }, core.P(2, 1), ReasonInactive},
		{"wrong role", func(e *Engine) { e.state.Role = RoleSeeker }, core.P(2, 1), ReasonWrongRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newRunningEngine(t, testConfig())
			e.state.Player.Pos = core.P(2, 2)
			if tt.setup != nil {
				tt.setup(e)
			}
			before := e.state.Player.Pos

			out := e.RequestMove(tt.target.X, tt.target.Y)
			if out.Reason != tt.want || out.Accepted != (tt.want == ReasonNone) {
				t.Fatalf("RequestMove(%v) = %+v, expected reason %v", tt.target, out, tt.want)
			}
			wantPos := before
			if out.Accepted {
				wantPos = tt.target
			}
			if e.state.Player.Pos != wantPos {
				t.Errorf("player at %v, expected %v", e.state.Player.Pos, wantPos)
			}
		})
	}
}

func TestDataNodePickup(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	node := core.P(1, 0)
	e.state.Level.Tiles.DataNodes.Put(node)
	coins := e.state.Player.Coins
	rec := record(e.Bus())

	e.MoveBy(1, 0)

	if got, want := e.state.Player.Coins, coins+e.cfg.Tiles.DataNodeCoins; got != want {
		t.Errorf("coins = %d, expected %d", got, want)
	}
	if e.state.Level.Tiles.DataNodes.Has(node) {
		t.Error("data node should be consumed")
	}
	if ev, ok := lastOf[TileEffect](rec); !ok || ev.Kind != TileDataNode {
		t.Errorf("TileEffect = %+v, expected a data node effect", ev)
	}
}

func TestTeleportRelocates(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	e.state.Level.Tiles.Teleports = []Teleport{{Pos: core.P(1, 0), Pair: 0}, {Pos: core.P(4, 3), Pair: 0}}

	if out := e.MoveBy(1, 0); !out.Accepted {
		t.Fatalf("MoveBy() = %v", out.Reason)
	}
	if want := core.P(4, 3); e.state.Player.Pos != want {
		t.Errorf("player at %v, expected %v", e.state.Player.Pos, want)
	}

	// stepping back onto the far pad sends the hider home again
	e.MoveBy(0, 1)
	e.MoveBy(0, -1)
	if want := core.P(1, 0); e.state.Player.Pos != want {
		t.Errorf("player at %v, expected %v", e.state.Player.Pos, want)
	}
}

func TestPortalRelocatesOnce(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	portal := core.P(1, 0)
	e.state.Level.Tiles.Portals = []Portal{{Pos: portal, ExpiresAt: time.Hour}}

	e.MoveBy(1, 0)

	pos := e.state.Player.Pos
	if pos == portal {
		t.Error("portal did not relocate the hider")
	}
	if pos == e.state.Level.Goal || e.state.Level.Tiles.Special(pos) {
		t.Errorf("portal dropped the hider on %v", pos)
	}
	if len(e.state.Level.Tiles.Portals) != 0 {
		t.Errorf("portal should be consumed, %d left", len(e.state.Level.Tiles.Portals))
	}
}

func TestWinFiresOnceAndAdvances(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	e.state.Seekers = []Seeker{{Pos: core.P(0, 5)}, {Pos: core.P(2, 5)}}
	rec := record(e.Bus())

	for range 5 {
		if out := e.MoveBy(1, 0); !out.Accepted {
			t.Fatalf("MoveBy(1,0) = %v", out.Reason)
		}
	}
	for range 5 {
		if out := e.MoveBy(0, 1); !out.Accepted {
			t.Fatalf("MoveBy(0,1) = %v", out.Reason)
		}
	}

	if n := countOf[Win](rec); n != 1 {
		t.Fatalf("got %d Win events, expected 1", n)
	}
	win, _ := lastOf[Win](rec)
	if win.CoinsEarned != 10 || win.NewLevel != 2 {
		t.Errorf("Win = %+v, expected 10 coins and level 2", win)
	}
	if e.state.Player.Score != 10 {
		t.Errorf("score = %d, expected 10", e.state.Player.Score)
	}
	if e.Phase() != PhaseLevelComplete {
		t.Errorf("phase = %v, expected level complete", e.Phase())
	}
	if out := e.MoveBy(-1, 0); out.Reason != ReasonLevelTransition {
		t.Errorf("move during transition = %v, expected %v", out.Reason, ReasonLevelTransition)
	}

	e.Advance(time.Second)

	if e.Phase() != PhaseRunning {
		t.Errorf("phase = %v, expected running", e.Phase())
	}
	if e.state.Level.Number != 2 || e.state.Player.Pos != Origin {
		t.Errorf("level %d at %v, expected level 2 at origin", e.state.Level.Number, e.state.Player.Pos)
	}
	if n := countOf[Win](rec); n != 1 {
		t.Errorf("got %d Win events after reset, expected 1", n)
	}
	if n := countOf[LevelStarted](rec); n != 1 {
		t.Errorf("got %d LevelStarted events, expected 1", n)
	}
}
