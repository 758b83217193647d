// Package tui runs ghostgrid in the terminal with Bubble Tea: it maps keys
// to actions, drives the game at a fixed tick rate, renders the screen
// buffer and hosts the menu, run history and SSH sessions.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a command that sends the next TickMsg after one frame.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(max(tickRate, 1))
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
