package engine

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
)

// Origin is where the hider starts every level and respawns.
var Origin = core.P(0, 0)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes debug output to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRand replaces the seeded generator.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// Engine runs one ghostgrid session.
type Engine struct {
	cfg    config.GhostGridConfig
	rng    Rand
	clock  *Scheduler
	bus    *Bus
	logger *log.Logger
	state  GameState

	tickTimer  TimerID
	resetTimer TimerID
	effectSeq  uint64
	ticks      uint64

	interval    time.Duration
	params      AIParams
	detectRange int
	seekerCount int
}

// New creates an engine sitting in the menu phase.
func New(cfg config.GhostGridConfig, seed int64, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		clock:  NewScheduler(),
		bus:    &Bus{},
		logger: log.New(io.Discard),
		state:  newGameState(),
	}
	for _, opt := range opts {
		opt(e)
	}

	// Tick consumers run before any external subscriber, in this order.
	On(e.bus, func(TickCompleted) { e.checkCaught() })
	On(e.bus, func(TickCompleted) { e.refreshPortals() })
	On(e.bus, func(TickCompleted) {
		e.updateDetection()
		e.publishGrid()
	})
	return e
}

// Bus returns the event bus for subscribers.
func (e *Engine) Bus() *Bus { return e.bus }

// Config returns the ruleset the engine was built with.
func (e *Engine) Config() config.GhostGridConfig { return e.cfg }

// Phase returns the session state.
func (e *Engine) Phase() Phase { return e.state.Phase }

// Now returns the current game time.
func (e *Engine) Now() time.Duration { return e.clock.Now() }

// JumpDistance returns the active VPN jump length, or 0.
func (e *Engine) JumpDistance() int {
	if vpn, ok := e.state.Player.Effect(EffectVPN); ok {
		return vpn.Magnitude
	}
	return 0
}

// Advance moves game time forward. Time is frozen outside the running and
// level-complete phases, so effects and cooldowns do not expire while paused.
func (e *Engine) Advance(dt time.Duration) {
	switch e.state.Phase {
	case PhaseRunning, PhaseLevelComplete:
		e.clock.Advance(dt)
	}
}

// StartNewGame resets score, coins, lives and tools and starts the first
// level. Only the hider role is playable.
func (e *Engine) StartNewGame(role Role) Outcome {
	if role != RoleHider {
		return rejected(ReasonUnsupportedRole)
	}
	e.stopTimers()
	e.state = newGameState()
	st := &e.state
	st.Role = role
	st.Player.Lives = e.cfg.Player.Lives
	st.Player.Coins = e.cfg.Player.StartCoins
	for _, t := range e.cfg.Tools {
		st.ToolLevel[t.ID] = 1
		if t.Owned {
			st.Player.Owned.Put(t.ID)
		}
	}
	st.Level.Number = max(e.cfg.Difficulty.StartLevel, 1)
	e.logger.Debug("new game", "level", st.Level.Number, "lives", st.Player.Lives)
	e.resetLevel()
	return accepted()
}

// Pause freezes the session.
func (e *Engine) Pause() Outcome {
	if r := phaseReason(e.state.Phase); r != ReasonNone {
		return rejected(r)
	}
	e.cancelTick()
	e.setPhase(PhasePaused)
	e.logf("Paused")
	return accepted()
}

// Resume continues a paused session.
func (e *Engine) Resume() Outcome {
	if e.state.Phase != PhasePaused {
		return rejected(ReasonInactive)
	}
	e.setPhase(PhaseRunning)
	e.startTick()
	e.logf("Resumed")
	return accepted()
}

// TogglePause pauses a running session or resumes a paused one.
func (e *Engine) TogglePause() Outcome {
	if e.state.Phase == PhasePaused {
		return e.Resume()
	}
	return e.Pause()
}

// ReturnToMenu abandons the session and cancels every timer.
func (e *Engine) ReturnToMenu() {
	e.stopTimers()
	e.purgeEffects()
	e.setPhase(PhaseMenu)
}

// AdvanceLevelNow skips to the next level immediately.
func (e *Engine) AdvanceLevelNow() Outcome {
	switch e.state.Phase {
	case PhaseRunning, PhasePaused:
		e.state.Level.Number++
	case PhaseLevelComplete:
		// the win already counted the level
	default:
		return rejected(ReasonInactive)
	}
	e.resetLevel()
	return accepted()
}

// resetLevel regenerates the current level number and restarts the AI.
func (e *Engine) resetLevel() {
	st := &e.state
	e.cancelTick()
	e.cancelReset()
	e.purgeEffects()

	st.Player.Pos = Origin
	st.Level = GenerateLevel(e.rng, e.cfg, st.Level.Number, Origin)
	scale := e.cfg.ScalingLevel(st.Level.Number)
	e.seekerCount = e.cfg.Seekers.Count.At(scale)
	e.interval = time.Duration(e.cfg.Seekers.IntervalMS.At(scale)) * time.Millisecond
	e.params = ParamsFor(e.cfg.Seekers, scale)
	e.detectRange = e.cfg.Seekers.DetectionRange.At(scale)
	e.placeSeekers()
	st.Market = false

	e.setPhase(PhaseRunning)
	e.startTick()
	e.bus.Publish(LevelStarted{
		Level:    st.Level.Number,
		Size:     st.Level.Size,
		Seekers:  len(st.Seekers),
		Interval: e.interval,
	})
	e.logger.Debug("level started",
		"level", st.Level.Number,
		"size", st.Level.Size,
		"seekers", len(st.Seekers),
		"firewalls", st.Level.Tiles.Firewalls.Size(),
		"teleports", len(st.Level.Tiles.Teleports),
	)
	e.logf("Level %d: %dx%d grid, %d trackers", st.Level.Number, st.Level.Size, st.Level.Size, len(st.Seekers))
	e.updateDetection()
	e.publishGrid()
}

func (e *Engine) placeSeekers() {
	st := &e.state
	st.Seekers = PlaceSeekers(e.rng, st.Level, st.Player.Pos, e.seekerCount,
		e.cfg.Seekers.MinSpawnDistance, e.cfg.Tiles.PlacementAttempts)
}

func (e *Engine) startTick() {
	e.cancelTick()
	e.tickTimer = e.clock.Every(e.interval, e.aiTick)
}

func (e *Engine) cancelTick() {
	if e.tickTimer != 0 {
		e.clock.Cancel(e.tickTimer)
		e.tickTimer = 0
	}
}

func (e *Engine) cancelReset() {
	if e.resetTimer != 0 {
		e.clock.Cancel(e.resetTimer)
		e.resetTimer = 0
	}
}

func (e *Engine) stopTimers() {
	e.clock.CancelAll()
	e.tickTimer, e.resetTimer = 0, 0
}

func (e *Engine) aiTick() {
	if e.state.Phase != PhaseRunning {
		return
	}
	AdvanceSeekers(&e.state, e.rng, e.params)
	e.ticks++
	e.bus.Publish(TickCompleted{Tick: e.ticks})
}

// checkCaught resolves seekers sharing the hider's cell. The goal is a safe
// cell.
func (e *Engine) checkCaught() {
	st := &e.state
	if st.Phase != PhaseRunning || st.Player.Pos == st.Level.Goal {
		return
	}
	for _, s := range st.Seekers {
		if s.Pos != st.Player.Pos {
			continue
		}
		if st.Player.HasEffect(EffectCloaking) && e.rng.Float64() >= e.cfg.Seekers.CloakCatchChance {
			e.bus.Publish(Evaded{Enemy: s.Name})
			e.logf("Cloak held against %s", s.Name)
			continue
		}
		e.loseLife(s.Name)
		return
	}
}

func (e *Engine) loseLife(enemy string) {
	st := &e.state
	st.Player.Lives--
	method := detectionMethods[e.rng.Intn(len(detectionMethods))]
	e.bus.Publish(Caught{Enemy: enemy, Method: method, LivesRemaining: st.Player.Lives})
	e.logf("Caught by %s via %s", enemy, method)
	e.logger.Debug("caught", "enemy", enemy, "lives", st.Player.Lives)
	if st.Player.Lives <= 0 {
		e.endGame()
		return
	}
	st.Player.Pos = Origin
	e.placeSeekers()
	e.bus.Publish(PlayerMoved{Pos: Origin})
}

func (e *Engine) endGame() {
	st := &e.state
	e.stopTimers()
	e.purgeEffects()
	e.setPhase(PhaseGameOver)
	e.bus.Publish(GameOver{Score: st.Player.Score, Level: st.Level.Number})
	e.logf("Game over at level %d, score %d", st.Level.Number, st.Player.Score)
}

// checkWin pays out once when the hider stands on the goal, then schedules
// the next level.
func (e *Engine) checkWin() {
	st := &e.state
	if st.Phase != PhaseRunning || st.Player.Pos != st.Level.Goal {
		return
	}
	coins := e.cfg.Rewards.WinCoins(st.Level.Number)
	st.Player.Coins += coins
	st.Player.Score += e.cfg.Rewards.WinScore
	st.Level.Number++
	e.cancelTick()
	e.setPhase(PhaseLevelComplete)
	e.bus.Publish(Win{CoinsEarned: coins, NewLevel: st.Level.Number})
	e.logf("Goal reached: +%d coins", coins)

	delay := time.Duration(e.cfg.Rewards.WinDelayMS) * time.Millisecond
	e.resetTimer = e.clock.After(delay, func() {
		e.resetTimer = 0
		e.resetLevel()
	})
}

// refreshPortals prunes expired portals, then gives each seeker a chance to
// open a new one on a free neighbouring cell.
func (e *Engine) refreshPortals() {
	st := &e.state
	pc := e.cfg.Portals
	if !pc.Enabled || st.Phase != PhaseRunning {
		return
	}
	now := e.clock.Now()
	tiles := &st.Level.Tiles
	kept := tiles.Portals[:0]
	for _, p := range tiles.Portals {
		if p.ExpiresAt > now {
			kept = append(kept, p)
		}
	}
	tiles.Portals = kept

	ttl := seconds(pc.TTLSeconds)
	for _, s := range st.Seekers {
		if e.rng.Float64() >= pc.SpawnChance {
			continue
		}
		var free []core.Pos
		for _, n := range s.Pos.Neighbors4(st.Level.Size) {
			if n == st.Level.Goal || n == st.Player.Pos || tiles.Special(n) || st.SeekerAt(n) >= 0 {
				continue
			}
			free = append(free, n)
		}
		if len(free) == 0 {
			continue
		}
		p := free[e.rng.Intn(len(free))]
		tiles.Portals = append(tiles.Portals, Portal{Pos: p, ExpiresAt: now + ttl})
	}
}

func (e *Engine) updateDetection() {
	v := DetectionRisk(&e.state, e.detectRange)
	if v != e.state.Detection {
		e.state.Detection = v
		e.bus.Publish(DetectionChanged{Value: v})
	}
}

func (e *Engine) setPhase(p Phase) {
	if e.state.Phase == p {
		return
	}
	e.state.Phase = p
	e.bus.Publish(PhaseChanged{Phase: p})
}

func (e *Engine) publishGrid() {
	e.bus.Publish(GridChanged{Snapshot: e.Snapshot()})
}

func (e *Engine) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	e.state.Log.Add(line)
	e.bus.Publish(LogMessage{Text: line})
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
