package engine

import (
	"testing"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
)

// scriptedRand replays fixed values and returns zero once exhausted.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func testConfig() config.GhostGridConfig {
	cfg := config.DefaultGhostGridConfig()
	cfg.Portals.Enabled = false
	return cfg
}

func withTool(cfg *config.GhostGridConfig, id string, fn func(*config.ToolConfig)) {
	for i := range cfg.Tools {
		if cfg.Tools[i].ID == id {
			fn(&cfg.Tools[i])
		}
	}
}

// newRunningEngine starts a game and swaps in an open 6x6 grid with the
// goal in the far corner and no seekers.
func newRunningEngine(t *testing.T, cfg config.GhostGridConfig) *Engine {
	t.Helper()
	e := New(cfg, 1)
	if out := e.StartNewGame(RoleHider); !out.Accepted {
		t.Fatalf("StartNewGame() = %v, expected accepted", out.Reason)
	}
	e.state.Level = Level{Number: 1, Size: 6, Goal: core.P(5, 5), Tiles: NewTiles()}
	e.state.Seekers = nil
	e.state.Player.Pos = Origin
	e.params = AIParams{OptimalChance: 1, AvoidSpecial: true}
	return e
}

func openState(size int, player core.Pos, seekers ...core.Pos) *GameState {
	st := newGameState()
	st.Phase = PhaseRunning
	st.Level = Level{Number: 1, Size: size, Goal: core.P(size-1, size-1), Tiles: NewTiles()}
	st.Player.Pos = player
	for _, p := range seekers {
		st.Seekers = append(st.Seekers, Seeker{Pos: p, Name: "Test"})
	}
	return &st
}

type recorder struct {
	events []Event
}

func record(b *Bus) *recorder {
	r := &recorder{}
	b.Subscribe(func(e Event) { r.events = append(r.events, e) })
	return r
}

func countOf[T Event](r *recorder) int {
	n := 0
	for _, e := range r.events {
		if _, ok := e.(T); ok {
			n++
		}
	}
	return n
}

func lastOf[T Event](r *recorder) (T, bool) {
	var zero T
	for i := len(r.events) - 1; i >= 0; i-- {
		if ev, ok := r.events[i].(T); ok {
			return ev, true
		}
	}
	return zero, false
}
