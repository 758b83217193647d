package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ghostgrid/internal/core"
	"github.com/vovakirdan/ghostgrid/internal/registry"
	"github.com/vovakirdan/ghostgrid/internal/storage"
)

// Model is the Bubble Tea model for one ghostgrid run. It feeds key
// actions into the game once per tick and records the run when it ends.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	logger     *log.Logger
	keys       *KeyMapper
	inputFrame core.InputFrame
	gameState  core.GameState
	startedAt  time.Time

	standalone bool // back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	runSaved   bool // whether the current run has been recorded
}

// NewModel creates a model for the given game. player names the run
// owner in history ("" means local).
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		player:     player,
		logger:     log.New(io.Discard),
		keys:       NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		startedAt:  time.Now(),
	}
}

// WithLogger returns a copy of m that reports storage failures to l.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.logger = l
	}
	return m
}

// Init starts the game and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The board is laid out on every render, so a resize never resets the run.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.IsScreenshot(msg) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.finishRun(storage.EndQuit)
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionBack:
		if !m.gameState.GameOver && !m.gameState.Paused {
			return m, nil
		}
		m.finishRun(storage.EndQuit)
		m.backToMenu = true
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case core.ActionRestart:
		if !m.gameState.GameOver && !m.gameState.Paused {
			return m, nil
		}
		m.finishRun(storage.EndQuit)
	}

	m.inputFrame.Set(action)
	return m, nil
}

// handleTick runs one simulation step with the buffered input.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	result := m.game.Step(m.inputFrame)
	m.inputFrame.Clear()
	m.gameState = result.State

	switch {
	case m.gameState.GameOver && !m.runSaved:
		m.finishRun(storage.EndTraced)
	case !m.gameState.GameOver && m.runSaved:
		// revived or restarted: a fresh run starts now
		m.runSaved = false
		m.startedAt = time.Now()
	}

	return m, tickCmd(m.config.TickRate)
}

// finishRun records the current run once. Quitting a run that never
// scored is not worth a row.
func (m *Model) finishRun(reason string) {
	if m.runSaved {
		return
	}
	if reason == storage.EndQuit && m.gameState.Score == 0 {
		return
	}
	m.runSaved = true
	if m.store == nil {
		return
	}

	run, err := m.store.SaveRun(storage.Run{
		Ruleset:   m.game.ID(),
		Player:    m.player,
		Score:     m.gameState.Score,
		Level:     m.gameState.Level,
		Coins:     m.gameState.Coins,
		EndReason: reason,
		Duration:  time.Since(m.startedAt),
	})
	if err != nil {
		m.logger.Warn("could not save run", "ruleset", m.game.ID(), "err", err)
		return
	}
	m.logger.Info("run saved", "run", run.RunID, "player", run.Player, "score", run.Score, "level", run.Level, "end", reason)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.screen.Clear()
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".ghostgrid", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	name := fmt.Sprintf("%s_%s.txt", m.game.ID(), time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the last summary reported by the game.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// RunSaved reports whether the current run has been recorded.
func (m Model) RunSaved() bool {
	return m.runSaved
}

// Run plays one game in its own Bubble Tea program. Back and quit both
// end the program.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(game, store, cfg, "").WithLogger(logger)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
