// Package ghostgrid adapts the simulation engine to the platform's Game
// interface: it loads the ruleset config, turns input actions into engine
// intents, advances game time once per platform tick and draws the grid.
package ghostgrid

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
	"github.com/vovakirdan/ghostgrid/internal/games/ghostgrid/engine"
	"github.com/vovakirdan/ghostgrid/internal/registry"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetLogger routes engine debug output and config warnings to l.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// SlotTools is the tool bound to each number key, in order.
var SlotTools = []string{
	config.ToolCloaking,
	config.ToolDecoy,
	config.ToolTorTrail,
	config.ToolVPN,
	config.ToolCCCleaner,
	config.ToolUSB,
}

var titles = map[string]string{
	config.RulesetDarknet: "Ghostgrid: Darknet",
	config.RulesetClassic: "Ghostgrid: Classic",
}

func init() {
	for _, id := range []string{config.RulesetDarknet, config.RulesetClassic} {
		registry.Register(id, func() registry.Game { return New(id) })
	}
}

// Game runs one ghostgrid ruleset.
type Game struct {
	ruleset string
	cfg     config.GhostGridConfig
	eng     *engine.Engine
	runtime core.RuntimeConfig
	dt      time.Duration

	preset config.DifficultyPreset // overrides the CLI preset when set

	shopOpen bool
	status   string        // last rejection, cleared by the next accepted intent
	reveal   time.Duration // remaining goal highlight
	caught   string        // last catch, shown until the next move
}

// New creates a game for the given ruleset.
func New(ruleset string) *Game {
	return &Game{ruleset: ruleset}
}

// ID returns the ruleset identifier.
func (g *Game) ID() string {
	return g.ruleset
}

// Title returns the display name for this ruleset.
func (g *Game) Title() string {
	if t, ok := titles[g.ruleset]; ok {
		return t
	}
	return "Ghostgrid: " + g.ruleset
}

// SetDifficulty picks the preset for this game only. Used by menus so
// concurrent SSH sessions don't share the package-level preset.
func (g *Game) SetDifficulty(preset string) error {
	p, err := config.ParsePreset(preset)
	if err != nil {
		return err
	}
	g.preset = p
	return nil
}

// Reset loads the config and starts a new run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	preset := g.preset
	if preset == "" {
		preset = difficultyPreset
	}
	g.cfg = loadConfig(g.ruleset, preset)
	g.dt = time.Second / time.Duration(max(runtime.TickRate, 1))

	g.eng = engine.New(g.cfg, runtime.Seed, engine.WithLogger(logger))
	bus := g.eng.Bus()
	engine.On(bus, func(ev engine.GoalRevealed) { g.reveal = ev.Duration })
	engine.On(bus, func(engine.LevelStarted) { g.reveal = 0 })
	engine.On(bus, func(ev engine.Caught) { g.caught = ev.Enemy + " via " + ev.Method })
	engine.On(bus, func(engine.PlayerMoved) { g.caught = "" })

	g.shopOpen = false
	g.status = ""
	g.eng.StartNewGame(engine.RoleHider)
}

func loadConfig(ruleset string, preset config.DifficultyPreset) config.GhostGridConfig {
	cfg, err := config.Load(ruleset, configPath)
	if err != nil {
		logger.Warn("falling back to built-in config", "ruleset", ruleset, "err", err)
		cfg = config.DefaultFor(ruleset)
	}
	if preset != "" {
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}

// Engine exposes the running engine.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// ShopOpen reports whether number keys buy instead of activate.
func (g *Game) ShopOpen() bool {
	return g.shopOpen
}

// Step applies the frame's actions in order, then advances game time.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	for _, a := range in.Actions {
		g.apply(a)
	}
	switch g.eng.Phase() {
	case engine.PhaseRunning, engine.PhaseLevelComplete:
		g.eng.Advance(g.dt)
		g.reveal = max(g.reveal-g.dt, 0)
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) apply(a core.Action) {
	switch a {
	case core.ActionPause:
		g.note(g.eng.TogglePause())
		return
	case core.ActionShop:
		g.shopOpen = !g.shopOpen
		return
	case core.ActionRestart:
		g.shopOpen = false
		g.note(g.eng.StartNewGame(engine.RoleHider))
		return
	case core.ActionRevive:
		g.note(g.eng.Revive())
		return
	case core.ActionSkipLevel:
		g.note(g.eng.AdvanceLevelNow())
		return
	case core.ActionMarket:
		g.note(g.eng.OpenMarket())
		return
	case core.ActionBuyLife:
		g.note(g.eng.PurchaseTool(engine.ItemExtraLife))
		return
	}

	if slot := a.Slot(); slot >= 0 && slot < len(SlotTools) {
		tool := SlotTools[slot]
		upgrade := a >= core.ActionUpgrade1 && a <= core.ActionUpgrade6
		switch {
		case upgrade && g.shopOpen:
			g.note(g.eng.UpgradeTool(tool))
		case upgrade:
			// shifted digits only mean something inside the shop
		case g.shopOpen:
			g.note(g.eng.PurchaseTool(tool))
		default:
			g.note(g.eng.ActivateAbility(tool))
		}
		return
	}

	dx, dy, ok := a.Direction()
	if !ok {
		return
	}
	if a.IsJump() {
		n := g.eng.JumpDistance()
		if n == 0 {
			g.status = "jump needs an active VPN"
			return
		}
		dx, dy = dx*n, dy*n
	}
	g.note(g.eng.MoveBy(dx, dy))
}

func (g *Game) note(out engine.Outcome) {
	if out.Accepted {
		g.status = ""
		return
	}
	g.status = out.Reason.String()
}

// State returns the summary the platform needs.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	s := g.eng.Snapshot()
	return core.GameState{
		Score:    s.Score,
		Level:    s.Level,
		Coins:    s.Coins,
		Lives:    s.Lives,
		GameOver: s.Phase == engine.PhaseGameOver,
		Paused:   s.Phase == engine.PhasePaused,
	}
}
