package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
	"github.com/vovakirdan/ghostgrid/internal/registry"
	"github.com/vovakirdan/ghostgrid/internal/storage"
)

// Difficulties is the order the menu cycles presets in.
var Difficulties = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
	config.DifficultyFixed,
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuItem represents a selectable ruleset in the menu.
type MenuItem struct {
	Ruleset   string
	Title     string
	HighScore int
}

// MenuModel is the Bubble Tea model for the ruleset picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	difficulty     int // index into Difficulties
	width          int
	height         int
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	help           help.Model
	quitting       bool
	selected       *MenuItem // Set when user selects a ruleset
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. preset picks the initially
// highlighted difficulty; unknown names fall back to normal.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, preset string) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{Ruleset: g.ID, Title: g.Title}
		if store != nil {
			if hs, err := store.HighScore(g.ID); err == nil {
				item.HighScore = hs
			}
		}
		items = append(items, item)
	}

	difficulty := 1
	if p, err := config.ParsePreset(preset); err == nil {
		for i, d := range Difficulties {
			if d == p {
				difficulty = i
			}
		}
	}

	return MenuModel{
		items:      items,
		difficulty: difficulty,
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if m.difficulty > 0 {
			m.difficulty--
		}

	case MenuActionRight:
		if m.difficulty < len(Difficulties)-1 {
			m.difficulty++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("G H O S T G R I D"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(menuDimStyle.Render("reach the exit node before the trace does"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		line := item.Title
		if item.HighScore > 0 {
			line = fmt.Sprintf("%s  (best %d)", line, item.HighScore)
		}
		if i == m.cursor {
			cursor = "> "
			line = menuCursorStyle.Render(line)
		}
		b.WriteString(centerText(cursor+line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.difficultyLine(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.help.View(m.keyMapper.menu), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m MenuModel) difficultyLine() string {
	parts := make([]string, len(Difficulties))
	for i, d := range Difficulties {
		if i == m.difficulty {
			parts[i] = menuCursorStyle.Render("[" + string(d) + "]")
		} else {
			parts[i] = menuDimStyle.Render(" " + string(d) + " ")
		}
	}
	return "difficulty: " + strings.Join(parts, " ")
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Difficulty returns the highlighted preset.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return Difficulties[m.difficulty]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width. Styled text is measured
// without its escape codes.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Ruleset         string
	Difficulty      config.DifficultyPreset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// result summarises the finished menu.
func (m MenuModel) result() MenuResult {
	r := MenuResult{Config: m.config, Difficulty: m.Difficulty()}
	switch {
	case m.openScoreboard:
		r.WantsScoreboard = true
	case m.quitting || m.selected == nil:
		r.Quit = true
	default:
		r.Ruleset = m.selected.Ruleset
	}
	return r
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, preset string) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg, preset),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.result(), nil
}
