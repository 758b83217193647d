// Package registry maps ruleset IDs to game factories. Rulesets register
// themselves in init() so the CLI, menu and SSH server can list and create
// them without importing each one.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

// Game is what the platform drives: it owns an engine, turns actions into
// intents and draws itself into a screen buffer.
type Game interface {
	// ID returns the ruleset identifier (e.g. "darknet"). Used for CLI
	// arguments and run history.
	ID() string

	// Title returns a human-readable name for menus.
	Title() string

	// Reset starts a fresh run using the screen size and seed from cfg.
	Reset(cfg core.RuntimeConfig)

	// Step applies one frame of input and advances game time by one
	// platform tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the pre-cleared screen.
	Render(dst *core.Screen)

	// State returns the current summary (score, level, game over, paused).
	State() core.GameState
}

// GameInfo contains metadata about a registered ruleset.
type GameInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new game instance.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory to the registry.
// Panics if the ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: ruleset %q already registered", id))
	}

	factories[id] = f

	// The title comes from a throwaway instance, so factories must stay cheap.
	g := f()
	titles[id] = g.Title()
}

// List returns all registered rulesets sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a game for the given ruleset.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown ruleset %q", id)
	}
	return f(), nil
}

// Exists checks if a ruleset is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
