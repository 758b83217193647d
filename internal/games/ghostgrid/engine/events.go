package engine

import (
	"time"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

// Event is anything published on the Bus.
type Event interface {
	event()
}

// GridChanged carries a fresh snapshot after any visible change.
type GridChanged struct{ Snapshot Snapshot }

// PlayerMoved is published whenever the hider lands on a new cell.
type PlayerMoved struct{ Pos core.Pos }

// TileEffect reports a triggered tile. To is the destination for
// teleports and portals.
type TileEffect struct {
	Kind TileKind
	Pos  core.Pos
	To   core.Pos
}

// Win is published once per level when the goal is reached.
type Win struct {
	CoinsEarned int
	NewLevel    int
}

// Caught is published when a seeker takes a life.
type Caught struct {
	Enemy          string
	Method         string
	LivesRemaining int
}

// Evaded is published when cloaking saves the hider from a catch.
type Evaded struct{ Enemy string }

// GameOver is published when the last life is lost.
type GameOver struct {
	Score int
	Level int
}

// LogMessage mirrors every line added to the action log.
type LogMessage struct{ Text string }

// LevelStarted is published after a level has been generated.
type LevelStarted struct {
	Level    int
	Size     int
	Seekers  int
	Interval time.Duration
}

// TickCompleted is published after every seeker has moved.
type TickCompleted struct{ Tick uint64 }

// EffectStarted and EffectEnded bracket a timed ability.
type EffectStarted struct {
	Kind      EffectKind
	Duration  time.Duration
	Magnitude int
}

type EffectEnded struct{ Kind EffectKind }

// CooldownReady is published when a tool may be used again.
type CooldownReady struct{ Tool string }

// GoalRevealed asks the renderer to highlight the goal for Duration.
type GoalRevealed struct {
	Pos      core.Pos
	Duration time.Duration
}

// DetectionChanged carries the new detection meter value (0-100).
type DetectionChanged struct{ Value int }

// PhaseChanged is published on every session state transition.
type PhaseChanged struct{ Phase Phase }

func (GridChanged) event()      {}
func (PlayerMoved) event()      {}
func (TileEffect) event()       {}
func (Win) event()              {}
func (Caught) event()           {}
func (Evaded) event()           {}
func (GameOver) event()         {}
func (LogMessage) event()       {}
func (LevelStarted) event()     {}
func (TickCompleted) event()    {}
func (EffectStarted) event()    {}
func (EffectEnded) event()      {}
func (CooldownReady) event()    {}
func (GoalRevealed) event()     {}
func (DetectionChanged) event() {}
func (PhaseChanged) event()     {}

// Handler receives published events.
type Handler func(Event)

// Bus delivers events synchronously to handlers in subscription order.
// A handler may publish; nested events are delivered before Publish returns.
type Bus struct {
	handlers []Handler
}

// Subscribe adds h after all existing handlers.
func (b *Bus) Subscribe(h Handler) {
	b.handlers = append(b.handlers, h)
}

// Publish delivers e to every handler subscribed before the call.
func (b *Bus) Publish(e Event) {
	for _, h := range b.handlers {
		h(e)
	}
}

// On subscribes fn to events of type T only.
func On[T Event](b *Bus, fn func(T)) {
	b.Subscribe(func(e Event) {
		if ev, ok := e.(T); ok {
			fn(ev)
		}
	})
}
