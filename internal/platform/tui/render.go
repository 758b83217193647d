package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ghostgrid/internal/core"
)

// colorStyles maps core.Color to lipgloss styles, built from the palette.
var colorStyles = func() map[core.Color]lipgloss.Style {
	m := make(map[core.Color]lipgloss.Style)
	for _, c := range core.Colors() {
		s := lipgloss.NewStyle()
		if code := c.ANSI(); code != "" {
			s = s.Foreground(lipgloss.Color(code))
		}
		m[c] = s
	}
	// the hider and seekers must stay readable on busy boards
	m[core.ColorBrightWhite] = m[core.ColorBrightWhite].Bold(true)
	m[core.ColorBrightRed] = m[core.ColorBrightRed].Bold(true)
	return m
}()

func styleFor(c core.Color) lipgloss.Style {
	if s, ok := colorStyles[c]; ok {
		return s
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Runs of cells sharing a color are styled together to keep escape
// sequences down.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}
