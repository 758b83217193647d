package ghostgrid

import (
	"strings"
	"testing"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
	"github.com/vovakirdan/ghostgrid/internal/games/ghostgrid/engine"
	"github.com/vovakirdan/ghostgrid/internal/registry"
)

func newGame(t *testing.T, ruleset string) *Game {
	t.Helper()
	g := New(ruleset)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	return g
}

func step(g *Game, actions ...core.Action) core.StepResult {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return g.Step(in)
}

func TestRulesetsRegistered(t *testing.T) {
	for _, id := range config.Rulesets() {
		if !registry.Exists(id) {
			t.Errorf("ruleset %q not registered", id)
			continue
		}
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error = %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, expected %q", g.ID(), id)
		}
	}
}

func TestResetStartsRun(t *testing.T) {
	g := newGame(t, config.RulesetDarknet)
	st := g.State()
	if st.Level != 1 || st.Lives != 3 || st.GameOver || st.Paused {
		t.Errorf("State() = %+v, expected a fresh level 1 run", st)
	}
	if g.Engine().Phase() != engine.PhaseRunning {
		t.Errorf("phase = %v, expected running", g.Engine().Phase())
	}
}

func TestPauseToggles(t *testing.T) {
	g := newGame(t, config.RulesetDarknet)

	if res := step(g, core.ActionPause); !res.State.Paused {
		t.Error("first pause did not pause")
	}
	now := g.Engine().Now()
	step(g)
	if g.Engine().Now() != now {
		t.Error("game time moved while paused")
	}
	if res := step(g, core.ActionPause); res.State.Paused {
		t.Error("second pause did not resume")
	}
}

func TestSlotsActivateOrBuy(t *testing.T) {
	g := newGame(t, config.RulesetDarknet)

	step(g, core.ActionShop)
	if !g.ShopOpen() {
		t.Fatal("shop did not open")
	}
	step(g, core.ActionSlot3)
	if g.status != engine.ReasonInsufficientFunds.String() {
		t.Errorf("status = %q, expected %q", g.status, engine.ReasonInsufficientFunds)
	}

	step(g, core.ActionShop, core.ActionSlot1)
	if !g.Engine().Snapshot().HasEffect(engine.EffectCloaking) {
		t.Error("slot 1 did not activate cloaking")
	}
	if g.status != "" {
		t.Errorf("status = %q after an accepted intent", g.status)
	}
}

func TestJumpNeedsVPN(t *testing.T) {
	g := newGame(t, config.RulesetDarknet)
	before := g.Engine().Snapshot().Player

	step(g, core.ActionJumpRight)

	if g.Engine().Snapshot().Player != before {
		t.Error("jump moved the hider without a VPN")
	}
	if g.status == "" {
		t.Error("expected a status explaining the rejected jump")
	}
}

func TestHardPresetStartsLater(t *testing.T) {
	SetDifficultyPreset("hard")
	t.Cleanup(func() { SetDifficultyPreset("") })

	st := newGame(t, config.RulesetDarknet).State()
	if st.Level != 5 || st.Lives != 2 {
		t.Errorf("State() = %+v, expected level 5 with 2 lives", st)
	}
}

func TestSetDifficultyOverridesPackagePreset(t *testing.T) {
	SetDifficultyPreset("hard")
	t.Cleanup(func() { SetDifficultyPreset("") })

	g := New(config.RulesetDarknet)
	if err := g.SetDifficulty("easy"); err != nil {
		t.Fatalf("SetDifficulty() error = %v", err)
	}
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7})

	base, _ := config.Load(config.RulesetDarknet, "")
	want := base.Player.Lives + 2
	if st := g.State(); st.Level != 1 || st.Lives != want {
		t.Errorf("State() = %+v, expected level 1 with %d lives", st, want)
	}

	if err := g.SetDifficulty("brutal"); err == nil {
		t.Error("SetDifficulty(brutal) expected an error")
	}
}

func TestRender(t *testing.T) {
	g := newGame(t, config.RulesetDarknet)
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"GHOSTGRID", "@", "TOOLS", "Cloaking"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}

	step(g, core.ActionShop)
	g.Render(screen)
	if !strings.Contains(screen.String(), "SHOP") {
		t.Error("shop panel not drawn")
	}

	small := core.NewScreen(30, 10)
	g.Render(small)
	if !strings.Contains(small.String(), "Window too small") {
		t.Error("small screen warning not drawn")
	}
}
