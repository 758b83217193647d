package core

// Action represents a semantic input, abstracted from physical key presses.
// The platform maps keys to actions and the game maps actions to engine intents.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionUpLeft
	ActionUpRight
	ActionDownLeft
	ActionDownRight
	ActionJumpUp
	ActionJumpDown
	ActionJumpLeft
	ActionJumpRight
	ActionSlot1 // tool slots: activate, or buy while the shop is open
	ActionSlot2
	ActionSlot3
	ActionSlot4
	ActionSlot5
	ActionSlot6
	ActionUpgrade1 // shifted tool slots: upgrade while the shop is open
	ActionUpgrade2
	ActionUpgrade3
	ActionUpgrade4
	ActionUpgrade5
	ActionUpgrade6
	ActionShop
	ActionBuyLife
	ActionMarket
	ActionRevive
	ActionSkipLevel
	ActionConfirm
	ActionBack
	ActionRestart
	ActionQuit
	ActionPause
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionUp:        "Up",
	ActionDown:      "Down",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionUpLeft:    "UpLeft",
	ActionUpRight:   "UpRight",
	ActionDownLeft:  "DownLeft",
	ActionDownRight: "DownRight",
	ActionJumpUp:    "JumpUp",
	ActionJumpDown:  "JumpDown",
	ActionJumpLeft:  "JumpLeft",
	ActionJumpRight: "JumpRight",
	ActionSlot1:     "Slot1",
	ActionSlot2:     "Slot2",
	ActionSlot3:     "Slot3",
	ActionSlot4:     "Slot4",
	ActionSlot5:     "Slot5",
	ActionSlot6:     "Slot6",
	ActionUpgrade1:  "Upgrade1",
	ActionUpgrade2:  "Upgrade2",
	ActionUpgrade3:  "Upgrade3",
	ActionUpgrade4:  "Upgrade4",
	ActionUpgrade5:  "Upgrade5",
	ActionUpgrade6:  "Upgrade6",
	ActionShop:      "Shop",
	ActionBuyLife:   "BuyLife",
	ActionMarket:    "Market",
	ActionRevive:    "Revive",
	ActionSkipLevel: "SkipLevel",
	ActionConfirm:   "Confirm",
	ActionBack:      "Back",
	ActionRestart:   "Restart",
	ActionQuit:      "Quit",
	ActionPause:     "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// Direction returns the grid offset for movement and jump actions.
// The second result is false for actions that do not move the player.
func (a Action) Direction() (dx, dy int, ok bool) {
	switch a {
	case ActionUp, ActionJumpUp:
		return 0, -1, true
	case ActionDown, ActionJumpDown:
		return 0, 1, true
	case ActionLeft, ActionJumpLeft:
		return -1, 0, true
	case ActionRight, ActionJumpRight:
		return 1, 0, true
	case ActionUpLeft:
		return -1, -1, true
	case ActionUpRight:
		return 1, -1, true
	case ActionDownLeft:
		return -1, 1, true
	case ActionDownRight:
		return 1, 1, true
	}
	return 0, 0, false
}

// IsJump reports whether the action is a long-range jump.
func (a Action) IsJump() bool {
	return a >= ActionJumpUp && a <= ActionJumpRight
}

// Slot returns the 0-based tool slot for slot and upgrade actions, or -1.
func (a Action) Slot() int {
	switch {
	case a >= ActionSlot1 && a <= ActionSlot6:
		return int(a - ActionSlot1)
	case a >= ActionUpgrade1 && a <= ActionUpgrade6:
		return int(a - ActionUpgrade1)
	}
	return -1
}

// InputFrame holds the actions triggered during one simulation tick.
// Actions keep the order they arrived in so two moves in the same frame
// resolve deterministically.
type InputFrame struct {
	Actions []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set records an action for this frame.
func (f *InputFrame) Set(a Action) {
	if a == ActionNone {
		return
	}
	f.Actions = append(f.Actions, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	for _, x := range f.Actions {
		if x == a {
			return true
		}
	}
	return false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	f.Actions = f.Actions[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	return InputFrame{Actions: append([]Action(nil), f.Actions...)}
}
