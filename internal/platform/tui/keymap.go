package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

// GameKeyMap holds the in-game key bindings.
type GameKeyMap struct {
	Up, Down, Left, Right                key.Binding
	UpLeft, UpRight, DownLeft, DownRight key.Binding
	JumpUp, JumpDown, JumpLeft, JumpRight key.Binding

	Slots    [6]key.Binding
	Upgrades [6]key.Binding

	Shop       key.Binding
	BuyLife    key.Binding
	Market     key.Binding
	Revive     key.Binding
	Skip       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Back       key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// DefaultGameKeyMap returns the default in-game bindings.
func DefaultGameKeyMap() GameKeyMap {
	km := GameKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s", "down")),
		Left:  key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a", "left")),
		Right: key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),

		UpLeft:    key.NewBinding(key.WithKeys("home", "y"), key.WithHelp("y", "up-left")),
		UpRight:   key.NewBinding(key.WithKeys("pgup", "u"), key.WithHelp("u", "up-right")),
		DownLeft:  key.NewBinding(key.WithKeys("end", "n"), key.WithHelp("n", "down-left")),
		DownRight: key.NewBinding(key.WithKeys("pgdown", "m"), key.WithHelp("m", "down-right")),

		JumpUp:    key.NewBinding(key.WithKeys("shift+up", "W"), key.WithHelp("S-↑", "jump up")),
		JumpDown:  key.NewBinding(key.WithKeys("shift+down", "S"), key.WithHelp("S-↓", "jump down")),
		JumpLeft:  key.NewBinding(key.WithKeys("shift+left", "A"), key.WithHelp("S-←", "jump left")),
		JumpRight: key.NewBinding(key.WithKeys("shift+right", "D"), key.WithHelp("S-→", "jump right")),

		Shop:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "shop")),
		BuyLife:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "buy life")),
		Market:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "black market")),
		Revive:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "revive")),
		Skip:       key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("C-n", "skip level")),
		Pause:      key.NewBinding(key.WithKeys("p", "esc"), key.WithHelp("p", "pause")),
		Restart:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Back:       key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "menu")),
		Screenshot: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "screenshot")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	digits := "123456"
	shifted := "!@#$%^"
	for i := range km.Slots {
		km.Slots[i] = key.NewBinding(key.WithKeys(digits[i:i+1]), key.WithHelp(digits[i:i+1], "tool"))
		km.Upgrades[i] = key.NewBinding(key.WithKeys(shifted[i:i+1]), key.WithHelp(shifted[i:i+1], "upgrade"))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Shop, k.Pause, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.UpLeft, k.UpRight, k.DownLeft, k.DownRight},
		{k.JumpUp, k.JumpDown, k.JumpLeft, k.JumpRight},
		{k.Shop, k.BuyLife, k.Market, k.Revive},
		{k.Pause, k.Restart, k.Back, k.Quit},
	}
}

type binding struct {
	key    key.Binding
	action core.Action
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys  GameKeyMap
	table []binding
	menu  MenuKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	k := DefaultGameKeyMap()
	// Shifted arrows are listed before plain ones so "shift+up" is never
	// read as a single step.
	table := []binding{
		{k.JumpUp, core.ActionJumpUp},
		{k.JumpDown, core.ActionJumpDown},
		{k.JumpLeft, core.ActionJumpLeft},
		{k.JumpRight, core.ActionJumpRight},
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.Left, core.ActionLeft},
		{k.Right, core.ActionRight},
		{k.UpLeft, core.ActionUpLeft},
		{k.UpRight, core.ActionUpRight},
		{k.DownLeft, core.ActionDownLeft},
		{k.DownRight, core.ActionDownRight},
		{k.Shop, core.ActionShop},
		{k.BuyLife, core.ActionBuyLife},
		{k.Market, core.ActionMarket},
		{k.Revive, core.ActionRevive},
		{k.Skip, core.ActionSkipLevel},
		{k.Pause, core.ActionPause},
		{k.Restart, core.ActionRestart},
		{k.Back, core.ActionBack},
	}
	for i := range k.Slots {
		table = append(table,
			binding{k.Slots[i], core.ActionSlot1 + core.Action(i)},
			binding{k.Upgrades[i], core.ActionUpgrade1 + core.Action(i)},
		)
	}
	return &KeyMapper{keys: k, table: table, menu: DefaultMenuKeyMap()}
}

// Keys returns the in-game bindings, e.g. for a help view.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	if key.Matches(msg, km.keys.Quit) {
		return core.ActionQuit, true
	}
	for _, b := range km.table {
		if key.Matches(msg, b.key) {
			return b.action, false
		}
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Set(action)
	}
	return isQuit
}

// IsScreenshot reports whether msg asks for a screen dump.
func (km *KeyMapper) IsScreenshot(msg tea.KeyMsg) bool {
	return key.Matches(msg, km.keys.Screenshot)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionScoreboard
	MenuActionBack
	MenuActionQuit
)

// MenuKeyMap holds the menu bindings.
type MenuKeyMap struct {
	Up, Down, Left, Right key.Binding
	Select                key.Binding
	Scoreboard            key.Binding
	Back                  key.Binding
	Quit                  key.Binding
}

// DefaultMenuKeyMap returns the default menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:         key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/j", "down")),
		Left:       key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/h", "easier")),
		Right:      key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/l", "harder")),
		Select:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "play")),
		Scoreboard: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scores")),
		Back:       key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.Scoreboard, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Left, k.Right}, {k.Select, k.Scoreboard, k.Back, k.Quit}}
}

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch {
	case key.Matches(msg, km.menu.Quit):
		return MenuActionQuit
	case key.Matches(msg, km.menu.Up):
		return MenuActionUp
	case key.Matches(msg, km.menu.Down):
		return MenuActionDown
	case key.Matches(msg, km.menu.Left):
		return MenuActionLeft
	case key.Matches(msg, km.menu.Right):
		return MenuActionRight
	case key.Matches(msg, km.menu.Select):
		return MenuActionSelect
	case key.Matches(msg, km.menu.Scoreboard):
		return MenuActionScoreboard
	case key.Matches(msg, km.menu.Back):
		return MenuActionBack
	}
	return MenuActionNone
}
