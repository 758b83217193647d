package engine

import (
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
)

// ItemExtraLife is the shop entry that buys a life instead of a tool.
const ItemExtraLife = "extra_life"

var timedTools = map[string]EffectKind{
	config.ToolCloaking: EffectCloaking,
	config.ToolDecoy:    EffectDecoy,
	config.ToolTorTrail: EffectTorTrail,
	config.ToolVPN:      EffectVPN,
}

// Duration returns a timed tool's effect length at an upgrade level.
func Duration(tc config.ToolConfig, level int) time.Duration {
	return seconds(tc.DurationSeconds + tc.DurationStep*float64(max(level, 1)-1))
}

// Magnitude returns a tool's decoy count or jump distance at an upgrade level.
func Magnitude(tc config.ToolConfig, level int) int {
	return tc.Count + max(level, 1)/2
}

// ActivateAbility uses a tool. Permanently owned tools are free; otherwise
// the oldest bought charge is consumed.
func (e *Engine) ActivateAbility(tool string) Outcome {
	st := &e.state
	if r := phaseReason(st.Phase); r != ReasonNone {
		return rejected(r)
	}
	tc, ok := e.cfg.Tool(tool)
	if !ok {
		return rejected(ReasonUnknownTool)
	}
	kind, timed := timedTools[tool]
	if timed && st.Player.HasEffect(kind) {
		return rejected(ReasonAlreadyActive)
	}
	if e.onCooldown(tool) {
		return rejected(ReasonCooldown)
	}
	if !st.Player.Owned.Has(tool) {
		i := st.Player.chargeIndex(tool)
		if i < 0 {
			return rejected(ReasonNotOwned)
		}
		st.Player.Inventory = append(st.Player.Inventory[:i], st.Player.Inventory[i+1:]...)
	}

	level := st.LevelOf(tool)
	switch tool {
	case config.ToolDecoy:
		n := Magnitude(tc, level)
		e.spawnDecoys(n)
		e.startEffect(kind, Duration(tc, level), n)
	case config.ToolVPN:
		e.startEffect(kind, Duration(tc, level), Magnitude(tc, level))
	case config.ToolCloaking, config.ToolTorTrail:
		d := Duration(tc, level)
		e.startEffect(kind, d, int(d/time.Second))
	case config.ToolCCCleaner:
		e.placeSeekers()
		e.logf("%s scattered the trackers", tc.Name)
	case config.ToolUSB:
		d := seconds(float64(e.cfg.Rewards.RevealGoalSec))
		e.bus.Publish(GoalRevealed{Pos: st.Level.Goal, Duration: d})
		e.logf("%s: exit at %s", tc.Name, st.Level.Goal)
	}
	e.startCooldown(tool, tc.CooldownSeconds)
	e.logger.Debug("ability", "tool", tool, "level", level)
	e.updateDetection()
	e.publishGrid()
	return accepted()
}

func (e *Engine) startEffect(kind EffectKind, d time.Duration, magnitude int) {
	e.effectSeq++
	id := e.effectSeq
	eff := Effect{ID: id, Kind: kind, ExpiresAt: e.clock.Now() + d, Magnitude: magnitude}
	eff.timer = e.clock.After(d, func() { e.expireEffect(id) })
	e.state.Player.Effects = append(e.state.Player.Effects, eff)
	e.bus.Publish(EffectStarted{Kind: kind, Duration: d, Magnitude: magnitude})
	e.logf("%s active for %ds", kind, int(d/time.Second))
}

// expireEffect ends the effect with the given ID. Stale IDs are ignored, so
// a late timer can never remove a newer activation.
func (e *Engine) expireEffect(id uint64) bool {
	p := &e.state.Player
	for i, eff := range p.Effects {
		if eff.ID != id {
			continue
		}
		p.Effects = append(p.Effects[:i], p.Effects[i+1:]...)
		e.clock.Cancel(eff.timer)
		if eff.Kind == EffectDecoy {
			e.clearDecoys()
		}
		e.bus.Publish(EffectEnded{Kind: eff.Kind})
		e.logf("%s expired", eff.Kind)
		e.updateDetection()
		e.publishGrid()
		return true
	}
	return false
}

// purgeEffects drops every effect without events.
func (e *Engine) purgeEffects() {
	for _, eff := range e.state.Player.Effects {
		e.clock.Cancel(eff.timer)
	}
	e.state.Player.Effects = nil
	e.clearDecoys()
}

func (e *Engine) clearDecoys() {
	e.state.Decoys = nil
	e.state.Confused = false
}

func (e *Engine) spawnDecoys(n int) {
	st := &e.state
	used := mapset.New[core.Pos]()
	for _, d := range st.Decoys {
		used.Put(d)
	}
	for range n {
		p, ok := Place(e.rng, st.Level.Size, e.cfg.Tiles.PlacementAttempts,
			NotOn(st.Player.Pos, st.Level.Goal),
			NotIn(used),
			func(p core.Pos) bool { return !st.Level.Tiles.Special(p) && st.SeekerAt(p) < 0 },
		)
		if !ok {
			continue
		}
		used.Put(p)
		st.Decoys = append(st.Decoys, p)
	}
	st.Confused = true
}

func (e *Engine) onCooldown(tool string) bool {
	ready, ok := e.state.Cooldowns[tool]
	return ok && e.clock.Now() < ready
}

func (e *Engine) startCooldown(tool string, secs float64) {
	if secs <= 0 {
		delete(e.state.Cooldowns, tool)
		return
	}
	d := seconds(secs)
	ready := e.clock.Now() + d
	e.state.Cooldowns[tool] = ready
	e.clock.After(d, func() {
		if e.state.Cooldowns[tool] != ready {
			return
		}
		delete(e.state.Cooldowns, tool)
		e.bus.Publish(CooldownReady{Tool: tool})
	})
}

// UpgradeTool raises a tool's level if the hider can afford it.
func (e *Engine) UpgradeTool(tool string) Outcome {
	st := &e.state
	if r := e.shopReason(); r != ReasonNone {
		return rejected(r)
	}
	tc, ok := e.cfg.Tool(tool)
	if !ok {
		return rejected(ReasonUnknownTool)
	}
	level := st.LevelOf(tool)
	cost := tc.UpgradeCost(level)
	if st.Player.Coins < cost {
		return rejected(ReasonInsufficientFunds)
	}
	st.Player.Coins -= cost
	st.ToolLevel[tool] = level + 1
	e.logf("%s upgraded to level %d (-%d coins)", tc.Name, level+1, cost)
	e.publishGrid()
	return accepted()
}

// PurchaseTool buys one charge of a shop tool, or an extra life. A tool
// cooling down cannot be bought again until it is ready.
func (e *Engine) PurchaseTool(id string) Outcome {
	st := &e.state
	if r := e.shopReason(); r != ReasonNone {
		return rejected(r)
	}
	if id == ItemExtraLife {
		return e.BuyExtraLife()
	}
	tc, ok := e.cfg.Tool(id)
	if !ok {
		return rejected(ReasonUnknownTool)
	}
	if !tc.InShop {
		return rejected(ReasonNotForSale)
	}
	if e.onCooldown(id) {
		return rejected(ReasonCooldown)
	}
	if st.Player.Coins < tc.BaseCost {
		return rejected(ReasonInsufficientFunds)
	}
	st.Player.Coins -= tc.BaseCost
	st.Player.Inventory = append(st.Player.Inventory, id)
	e.logf("Bought %s (-%d coins)", tc.Name, tc.BaseCost)
	e.publishGrid()
	return accepted()
}

// BuyExtraLife adds a life during play.
func (e *Engine) BuyExtraLife() Outcome {
	st := &e.state
	if r := e.shopReason(); r != ReasonNone {
		return rejected(r)
	}
	cost := e.cfg.Shop.ExtraLifeCost
	if st.Player.Coins < cost {
		return rejected(ReasonInsufficientFunds)
	}
	st.Player.Coins -= cost
	st.Player.Lives++
	e.logf("Extra life (-%d coins)", cost)
	e.publishGrid()
	return accepted()
}

// Revive spends coins to replay the level the game ended on.
func (e *Engine) Revive() Outcome {
	st := &e.state
	if st.Phase != PhaseGameOver {
		return rejected(ReasonNotGameOver)
	}
	cost := e.cfg.Shop.ReviveCost
	if st.Player.Coins < cost {
		return rejected(ReasonInsufficientFunds)
	}
	st.Player.Coins -= cost
	st.Player.Lives = 1
	clear(st.Cooldowns)
	e.logf("Revived (-%d coins)", cost)
	e.resetLevel()
	return accepted()
}

// OpenMarket grants one random tool charge, once per level.
func (e *Engine) OpenMarket() Outcome {
	st := &e.state
	if r := phaseReason(st.Phase); r != ReasonNone {
		return rejected(r)
	}
	pool := e.cfg.Shop.MarketPool
	if !e.cfg.Shop.MarketEnabled || len(pool) == 0 {
		return rejected(ReasonNotForSale)
	}
	if st.Market {
		return rejected(ReasonMarketUsed)
	}
	st.Market = true
	id := pool[e.rng.Intn(len(pool))]
	st.Player.Inventory = append(st.Player.Inventory, id)
	name := id
	if tc, ok := e.cfg.Tool(id); ok {
		name = tc.Name
	}
	e.logf("Darknet market drop: %s", name)
	e.publishGrid()
	return accepted()
}

// shopReason allows shopping in any phase of an active game.
func (e *Engine) shopReason() Reason {
	switch e.state.Phase {
	case PhaseMenu, PhaseGameOver:
		return ReasonInactive
	}
	return ReasonNone
}
