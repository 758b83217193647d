package engine

import (
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
)

func TestCloakingCannotStack(t *testing.T) {
	e := newRunningEngine(t, testConfig())

	if out := e.ActivateAbility(config.ToolCloaking); !out.Accepted {
		t.Fatalf("first activation = %v", out.Reason)
	}
	if out := e.ActivateAbility(config.ToolCloaking); out.Reason != ReasonAlreadyActive {
		t.Errorf("second activation = %v, expected %v", out.Reason, ReasonAlreadyActive)
	}
	if n := len(e.state.Player.Effects); n != 1 {
		t.Errorf("%d effects, expected 1", n)
	}
}

func TestReactivationLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		tool string
		kind EffectKind
	}{
		{config.ToolCloaking, EffectCloaking},
		{config.ToolTorTrail, EffectTorTrail},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			e := newRunningEngine(t, testConfig())
			rec := record(e.Bus())
			e.state.Player.Coins = 100
			if tt.tool == config.ToolTorTrail {
				e.PurchaseTool(tt.tool)
				e.PurchaseTool(tt.tool)
			}
			if out := e.ActivateAbility(tt.tool); !out.Accepted {
				t.Fatalf("first activation = %v", out.Reason)
			}

			inventory := slices.Clone(e.state.Player.Inventory)
			cooldowns := maps.Clone(e.state.Cooldowns)
			coins := e.state.Player.Coins

			if out := e.ActivateAbility(tt.tool); out.Reason != ReasonAlreadyActive {
				t.Fatalf("second activation = %v, expected %v", out.Reason, ReasonAlreadyActive)
			}
			if !slices.Equal(e.state.Player.Inventory, inventory) {
				t.Errorf("inventory = %v, expected %v", e.state.Player.Inventory, inventory)
			}
			if !maps.Equal(e.state.Cooldowns, cooldowns) {
				t.Errorf("cooldowns = %v, expected %v", e.state.Cooldowns, cooldowns)
			}
			if e.state.Player.Coins != coins {
				t.Errorf("coins = %d, expected %d", e.state.Player.Coins, coins)
			}
			if n := len(e.state.Player.Effects); n != 1 {
				t.Errorf("%d effects, expected 1", n)
			}
			if n := countOf[EffectStarted](rec); n != 1 {
				t.Errorf("got %d EffectStarted events, expected 1", n)
			}
		})
	}
}

func TestTimedEffectMagnitudeIsDuration(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	e.ActivateAbility(config.ToolCloaking)

	eff, ok := e.state.Player.Effect(EffectCloaking)
	if !ok {
		t.Fatal("cloak not active")
	}
	if eff.Magnitude != 8 {
		t.Errorf("Magnitude = %d, expected 8", eff.Magnitude)
	}
}

func TestPurchaseBlockedByCooldown(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	e.state.Player.Coins = 100
	e.PurchaseTool(config.ToolTorTrail)
	if out := e.ActivateAbility(config.ToolTorTrail); !out.Accepted {
		t.Fatalf("activation = %v", out.Reason)
	}

	e.Advance(10 * time.Second)
	if out := e.PurchaseTool(config.ToolTorTrail); out.Reason != ReasonCooldown {
		t.Errorf("purchase during cooldown = %v, expected %v", out.Reason, ReasonCooldown)
	}
	if e.state.Player.Coins != 80 || len(e.state.Player.Inventory) != 0 {
		t.Errorf("coins = %d inventory = %v, expected 80 and empty", e.state.Player.Coins, e.state.Player.Inventory)
	}

	e.Advance(26 * time.Second)
	if out := e.PurchaseTool(config.ToolTorTrail); !out.Accepted {
		t.Errorf("purchase after cooldown = %v, expected accepted", out.Reason)
	}
}

func TestEffectExpires(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	rec := record(e.Bus())
	e.ActivateAbility(config.ToolCloaking)

	e.Advance(7 * time.Second)
	if !e.state.Player.HasEffect(EffectCloaking) {
		t.Fatal("cloak expired early")
	}
	e.Advance(time.Second)
	if e.state.Player.HasEffect(EffectCloaking) {
		t.Error("cloak still active after 8s")
	}
	if n := countOf[EffectEnded](rec); n != 1 {
		t.Errorf("got %d EffectEnded events, expected 1", n)
	}
}

func TestPauseFreezesEffects(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	e.ActivateAbility(config.ToolCloaking)

	if out := e.Pause(); !out.Accepted {
		t.Fatalf("Pause() = %v", out.Reason)
	}
	e.Advance(time.Minute)
	if !e.state.Player.HasEffect(EffectCloaking) {
		t.Fatal("cloak expired while paused")
	}
	if out := e.ActivateAbility(config.ToolDecoy); out.Reason != ReasonPaused {
		t.Errorf("activation while paused = %v, expected %v", out.Reason, ReasonPaused)
	}

	e.Resume()
	e.Advance(8 * time.Second)
	if e.state.Player.HasEffect(EffectCloaking) {
		t.Error("cloak still active 8s after resume")
	}
}

func TestCooldown(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	rec := record(e.Bus())
	e.ActivateAbility(config.ToolCloaking)

	e.Advance(10 * time.Second)
	if out := e.ActivateAbility(config.ToolCloaking); out.Reason != ReasonCooldown {
		t.Errorf("activation during cooldown = %v, expected %v", out.Reason, ReasonCooldown)
	}

	e.Advance(15 * time.Second)
	if ev, ok := lastOf[CooldownReady](rec); !ok || ev.Tool != config.ToolCloaking {
		t.Errorf("CooldownReady = %+v, expected cloaking", ev)
	}
	if out := e.ActivateAbility(config.ToolCloaking); !out.Accepted {
		t.Errorf("activation after cooldown = %v", out.Reason)
	}
}

func TestStaleExpiryIsIgnored(t *testing.T) {
	cfg := testConfig()
	withTool(&cfg, config.ToolCloaking, func(tc *config.ToolConfig) { tc.CooldownSeconds = 0 })
	e := newRunningEngine(t, cfg)

	e.ActivateAbility(config.ToolCloaking)
	old := e.state.Player.Effects[0].ID
	e.resetLevel()
	if e.state.Player.HasEffect(EffectCloaking) {
		t.Fatal("level reset should purge effects")
	}

	if out := e.ActivateAbility(config.ToolCloaking); !out.Accepted {
		t.Fatalf("reactivation = %v", out.Reason)
	}
	if e.expireEffect(old) {
		t.Error("expireEffect(stale) = true, expected false")
	}
	if !e.state.Player.HasEffect(EffectCloaking) {
		t.Error("stale expiry removed the new cloak")
	}
}

func TestChargesAndPurchases(t *testing.T) {
	e := newRunningEngine(t, testConfig())

	if out := e.ActivateAbility(config.ToolTorTrail); out.Reason != ReasonNotOwned {
		t.Errorf("unowned activation = %v, expected %v", out.Reason, ReasonNotOwned)
	}
	if out := e.PurchaseTool(config.ToolTorTrail); out.Reason != ReasonInsufficientFunds {
		t.Errorf("broke purchase = %v, expected %v", out.Reason, ReasonInsufficientFunds)
	}
	if out := e.PurchaseTool(config.ToolCloaking); out.Reason != ReasonNotForSale {
		t.Errorf("purchase of owned tool = %v, expected %v", out.Reason, ReasonNotForSale)
	}

	e.state.Player.Coins = 100
	if out := e.PurchaseTool(config.ToolTorTrail); !out.Accepted {
		t.Fatalf("purchase = %v", out.Reason)
	}
	if e.state.Player.Coins != 80 {
		t.Errorf("coins = %d, expected 80", e.state.Player.Coins)
	}
	if out := e.ActivateAbility(config.ToolTorTrail); !out.Accepted {
		t.Fatalf("activation with charge = %v", out.Reason)
	}
	if len(e.state.Player.Inventory) != 0 {
		t.Errorf("inventory = %v, expected empty", e.state.Player.Inventory)
	}
	if !e.state.Player.HasEffect(EffectTorTrail) {
		t.Error("tor trail not active")
	}
}

func TestUpgradeTool(t *testing.T) {
	e := newRunningEngine(t, testConfig())

	if out := e.UpgradeTool(config.ToolCloaking); out.Reason != ReasonInsufficientFunds {
		t.Errorf("broke upgrade = %v, expected %v", out.Reason, ReasonInsufficientFunds)
	}
	if e.state.LevelOf(config.ToolCloaking) != 1 || e.state.Player.Coins != 0 {
		t.Fatal("failed upgrade mutated state")
	}

	e.state.Player.Coins = 15
	if out := e.UpgradeTool(config.ToolCloaking); !out.Accepted {
		t.Fatalf("upgrade = %v", out.Reason)
	}
	if e.state.Player.Coins != 0 || e.state.LevelOf(config.ToolCloaking) != 2 {
		t.Errorf("coins %d level %d, expected 0 and 2", e.state.Player.Coins, e.state.LevelOf(config.ToolCloaking))
	}

	e.ActivateAbility(config.ToolCloaking)
	eff, _ := e.state.Player.Effect(EffectCloaking)
	if got := eff.ExpiresAt - e.Now(); got != 10*time.Second {
		t.Errorf("upgraded cloak lasts %v, expected 10s", got)
	}
}

func TestToolScaling(t *testing.T) {
	decoy, _ := config.DefaultGhostGridConfig().Tool(config.ToolDecoy)
	vpn, _ := config.DefaultGhostGridConfig().Tool(config.ToolVPN)
	tests := []struct {
		name     string
		tc       config.ToolConfig
		level    int
		duration time.Duration
		count    int
	}{
		{"decoy 1", decoy, 1, 12 * time.Second, 1},
		{"decoy 2", decoy, 2, 14 * time.Second, 2},
		{"decoy 5", decoy, 5, 20 * time.Second, 3},
		{"vpn 1", vpn, 1, 6 * time.Second, 2},
		{"vpn 3", vpn, 3, 10 * time.Second, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.tc, tt.level); got != tt.duration {
				t.Errorf("Duration() = %v, expected %v", got, tt.duration)
			}
			if got := Magnitude(tt.tc, tt.level); got != tt.count {
				t.Errorf("Magnitude() = %d, expected %d", got, tt.count)
			}
		})
	}
}

func TestDecoyLifecycle(t *testing.T) {
	e := newRunningEngine(t, testConfig())

	if out := e.ActivateAbility(config.ToolDecoy); !out.Accepted {
		t.Fatalf("decoy = %v", out.Reason)
	}
	if len(e.state.Decoys) != 1 || !e.state.Confused {
		t.Fatalf("decoys %v confused %v, expected one decoy and confusion", e.state.Decoys, e.state.Confused)
	}
	d := e.state.Decoys[0]
	if d == e.state.Player.Pos || d == e.state.Level.Goal {
		t.Errorf("decoy on reserved cell %v", d)
	}

	e.Advance(12 * time.Second)
	if len(e.state.Decoys) != 0 || e.state.Confused {
		t.Errorf("decoys %v confused %v after expiry", e.state.Decoys, e.state.Confused)
	}
}

func TestCCCleanerScattersSeekers(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	e.state.Seekers = []Seeker{{Pos: core.P(1, 0)}, {Pos: core.P(0, 1)}}
	e.state.Player.Inventory = []string{config.ToolCCCleaner}

	if out := e.ActivateAbility(config.ToolCCCleaner); !out.Accepted {
		t.Fatalf("cc cleaner = %v", out.Reason)
	}
	if len(e.state.Seekers) != 2 {
		t.Fatalf("%d seekers after scatter, expected 2", len(e.state.Seekers))
	}
	for _, s := range e.state.Seekers {
		if s.Pos.Dist(e.state.Player.Pos) < e.cfg.Seekers.MinSpawnDistance {
			t.Errorf("seeker at %v still close to the hider", s.Pos)
		}
	}
}

func TestUSBRevealsGoal(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	e.state.Player.Inventory = []string{config.ToolUSB}
	rec := record(e.Bus())

	e.ActivateAbility(config.ToolUSB)

	ev, ok := lastOf[GoalRevealed](rec)
	if !ok {
		t.Fatal("no GoalRevealed event")
	}
	if ev.Pos != e.state.Level.Goal || ev.Duration != 3*time.Second {
		t.Errorf("GoalRevealed = %+v, expected goal %v for 3s", ev, e.state.Level.Goal)
	}
}

func TestUnknownTool(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	if out := e.ActivateAbility("laser"); out.Reason != ReasonUnknownTool {
		t.Errorf("ActivateAbility(laser) = %v, expected %v", out.Reason, ReasonUnknownTool)
	}
}

func TestExtraLife(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	e.state.Player.Coins = 30
	lives := e.state.Player.Lives

	if out := e.PurchaseTool(ItemExtraLife); !out.Accepted {
		t.Fatalf("extra life = %v", out.Reason)
	}
	if e.state.Player.Lives != lives+1 || e.state.Player.Coins != 0 {
		t.Errorf("lives %d coins %d, expected %d and 0", e.state.Player.Lives, e.state.Player.Coins, lives+1)
	}
}

func TestRevive(t *testing.T) {
	e := newRunningEngine(t, testConfig())
	if out := e.Revive(); out.Reason != ReasonNotGameOver {
		t.Errorf("Revive() while running = %v, expected %v", out.Reason, ReasonNotGameOver)
	}

	e.state.Player.Lives = 1
	e.loseLife("Hotjar")
	if e.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, expected game over", e.Phase())
	}
	level := e.state.Level.Number

	if out := e.Revive(); out.Reason != ReasonInsufficientFunds {
		t.Errorf("broke Revive() = %v, expected %v", out.Reason, ReasonInsufficientFunds)
	}
	e.state.Player.Coins = 30
	if out := e.Revive(); !out.Accepted {
		t.Fatalf("Revive() = %v", out.Reason)
	}
	if e.Phase() != PhaseRunning || e.state.Player.Lives != 1 || e.state.Level.Number != level {
		t.Errorf("phase %v lives %d level %d, expected running, 1, %d", e.Phase(), e.state.Player.Lives, e.state.Level.Number, level)
	}
}

func TestMarketOncePerLevel(t *testing.T) {
	e := newRunningEngine(t, testConfig())

	if out := e.OpenMarket(); !out.Accepted {
		t.Fatalf("OpenMarket() = %v", out.Reason)
	}
	if len(e.state.Player.Inventory) != 1 || !slices.Contains(e.cfg.Shop.MarketPool, e.state.Player.Inventory[0]) {
		t.Errorf("inventory = %v, expected one market item", e.state.Player.Inventory)
	}
	if out := e.OpenMarket(); out.Reason != ReasonMarketUsed {
		t.Errorf("second OpenMarket() = %v, expected %v", out.Reason, ReasonMarketUsed)
	}

	e.AdvanceLevelNow()
	if out := e.OpenMarket(); !out.Accepted {
		t.Errorf("OpenMarket() on next level = %v", out.Reason)
	}
}
