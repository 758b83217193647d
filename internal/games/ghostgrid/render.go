package ghostgrid

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vovakirdan/ghostgrid/internal/config"
	"github.com/vovakirdan/ghostgrid/internal/core"
	"github.com/vovakirdan/ghostgrid/internal/games/ghostgrid/engine"
)

// Layout constants
const (
	cellW      = 3
	boardX     = 1
	boardY     = 3
	panelGap   = 3
	meterWidth = 20
	minScreenW = 64
	minScreenH = 20
)

// Glyphs
const (
	GlyphEmpty    = '·'
	GlyphFirewall = '█'
	GlyphDataNode = '$'
	GlyphPortal   = 'O'
	GlyphGoal     = '◎'
	GlyphRevealed = '★'
	GlyphDecoy    = 'd'
	GlyphSeeker   = 'S'
	GlyphPlayer   = '@'
)

const upgradeKeys = "!@#$%^"

// Render draws the current state into dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.eng == nil {
		return
	}
	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawCentered(dst.Height()/2-1, "Window too small", core.ColorYellow)
		dst.DrawCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH), core.ColorGray)
		return
	}

	s := g.eng.Snapshot()
	g.renderHUD(dst, s)
	board := g.renderBoard(dst, s)
	panelX := board.Right() + panelGap
	if g.shopOpen {
		g.renderShop(dst, s, panelX)
	} else {
		g.renderTools(dst, s, panelX)
	}
	g.renderLog(dst, s, board.Bottom()+1)
	g.renderOverlay(dst, s, board)
	dst.DrawText(1, dst.Height()-1, g.helpLine(s), core.ColorDim)
}

func (g *Game) renderHUD(dst *core.Screen, s engine.Snapshot) {
	dst.DrawText(1, 0, "GHOSTGRID", core.ColorBrightGreen)
	dst.DrawText(11, 0, g.ruleset, core.ColorGray)

	stats := fmt.Sprintf("Level %d  Lives %d  Coins %d  Score %d", s.Level, s.Lives, s.Coins, s.Score)
	dst.DrawText(dst.Width()-len(stats)-1, 0, stats, core.ColorWhite)

	filled := s.Detection * meterWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
	dst.DrawText(1, 1, "Trace ", core.ColorGray)
	dst.DrawText(7, 1, bar, detectionColor(s.Detection))
	dst.DrawText(8+meterWidth, 1, fmt.Sprintf("%3d%%", s.Detection), detectionColor(s.Detection))
}

func detectionColor(v int) core.Color {
	switch {
	case v >= 67:
		return core.ColorBrightRed
	case v >= 34:
		return core.ColorYellow
	}
	return core.ColorGreen
}

func (g *Game) renderBoard(dst *core.Screen, s engine.Snapshot) core.Rect {
	rect := core.NewRect(boardX, boardY, s.Size*cellW+2, s.Size+2)
	dst.DrawBox(rect, core.ColorGray)
	for y := range s.Size {
		for x := range s.Size {
			r, c := g.glyph(s, core.P(x, y))
			dst.SetCell(rect.X+1+x*cellW+cellW/2, rect.Y+1+y, r, c)
		}
	}
	return rect
}

func (g *Game) glyph(s engine.Snapshot, p core.Pos) (rune, core.Color) {
	switch {
	case p == s.Player:
		if s.HasEffect(engine.EffectCloaking) {
			return GlyphPlayer, core.ColorGray
		}
		return GlyphPlayer, core.ColorBrightWhite
	case slices.Contains(s.Seekers, p):
		return GlyphSeeker, core.ColorBrightRed
	case slices.Contains(s.Decoys, p):
		return GlyphDecoy, core.ColorYellow
	}

	switch s.TileAt(p) {
	case engine.TileGoal:
		if g.reveal > 0 {
			return GlyphRevealed, core.ColorBrightYellow
		}
		return GlyphGoal, core.ColorBrightGreen
	case engine.TileFirewall:
		return GlyphFirewall, core.ColorRed
	case engine.TileDataNode:
		return GlyphDataNode, core.ColorBrightYellow
	case engine.TileTeleport:
		for _, t := range s.Teleports {
			if t.Pos == p {
				return rune('A' + t.Pair%26), core.ColorBrightMagenta
			}
		}
	case engine.TilePortal:
		return GlyphPortal, core.ColorBrightCyan
	}
	return GlyphEmpty, core.ColorDim
}

func (g *Game) renderTools(dst *core.Screen, s engine.Snapshot, x int) {
	dst.DrawText(x, boardY, "TOOLS", core.ColorBrightCyan)
	for i, id := range SlotTools {
		tc, ok := g.cfg.Tool(id)
		if !ok {
			continue
		}
		state, c := toolState(s, id)
		line := fmt.Sprintf("%d %-12s L%-2d", i+1, tc.Name, s.ToolLevels[id])
		dst.DrawText(x, boardY+1+i, line, core.ColorWhite)
		dst.DrawText(x+len(line)+1, boardY+1+i, state, c)
	}

	y := boardY + len(SlotTools) + 2
	for _, eff := range s.Effects {
		text := fmt.Sprintf("%s %s", eff.Kind, seconds(eff.Remaining))
		if eff.Kind == engine.EffectVPN {
			text += fmt.Sprintf(" (jump %d)", eff.Magnitude)
		}
		dst.DrawText(x, y, text, core.ColorBrightGreen)
		y++
	}
}

func toolState(s engine.Snapshot, id string) (string, core.Color) {
	if kind, ok := effectFor[id]; ok && s.HasEffect(kind) {
		return "active", core.ColorBrightGreen
	}
	if cd, ok := s.Cooldowns[id]; ok {
		return "cd " + seconds(cd), core.ColorYellow
	}
	if slices.Contains(s.Owned, id) {
		return "ready", core.ColorGreen
	}
	if n := countOf(s.Inventory, id); n > 0 {
		return fmt.Sprintf("x%d", n), core.ColorGreen
	}
	return "--", core.ColorDim
}

var effectFor = map[string]engine.EffectKind{
	config.ToolCloaking: engine.EffectCloaking,
	config.ToolDecoy:    engine.EffectDecoy,
	config.ToolTorTrail: engine.EffectTorTrail,
	config.ToolVPN:      engine.EffectVPN,
}

func (g *Game) renderShop(dst *core.Screen, s engine.Snapshot, x int) {
	dst.DrawText(x, boardY, "SHOP", core.ColorBrightYellow)
	dst.DrawText(x+6, boardY, "[tab] close", core.ColorDim)
	for i, id := range SlotTools {
		tc, ok := g.cfg.Tool(id)
		if !ok {
			continue
		}
		buy := "  -"
		if tc.InShop {
			buy = fmt.Sprintf("%3d", tc.BaseCost)
		}
		up := tc.UpgradeCost(s.ToolLevels[id])
		line := fmt.Sprintf("%d %-12s buy %s  %c up %d", i+1, tc.Name, buy, upgradeKeys[i], up)
		c := core.ColorWhite
		if up > s.Coins && (!tc.InShop || tc.BaseCost > s.Coins) {
			c = core.ColorDim
		}
		dst.DrawText(x, boardY+1+i, line, c)
	}

	y := boardY + len(SlotTools) + 2
	shop := g.cfg.Shop
	dst.DrawText(x, y, fmt.Sprintf("l Extra life     %3d", shop.ExtraLifeCost), core.ColorWhite)
	if shop.MarketEnabled {
		market := "x Market drop    free"
		c := core.ColorWhite
		if s.MarketUsed {
			market = "x Market drop    used"
			c = core.ColorDim
		}
		dst.DrawText(x, y+1, market, c)
	}
	if len(s.Inventory) > 0 {
		dst.DrawText(x, y+3, "Charges: "+strings.Join(s.Inventory, ", "), core.ColorGray)
	}
}

func (g *Game) renderLog(dst *core.Screen, s engine.Snapshot, y int) {
	for i, line := range s.Log {
		c := core.ColorWhite
		if i > 0 {
			c = core.ColorGray
		}
		dst.DrawText(boardX, y+i, "> "+line, c)
	}
	if g.status != "" {
		dst.DrawText(boardX, y+2, "! "+g.status, core.ColorYellow)
	}
}

func (g *Game) renderOverlay(dst *core.Screen, s engine.Snapshot, board core.Rect) {
	var lines []string
	c := core.ColorBrightWhite
	switch s.Phase {
	case engine.PhasePaused:
		lines = []string{"PAUSED"}
	case engine.PhaseLevelComplete:
		lines = []string{"ACCESS GRANTED", fmt.Sprintf("next: level %d", s.Level)}
		c = core.ColorBrightGreen
	case engine.PhaseGameOver:
		lines = []string{"TRACED", fmt.Sprintf("score %d", s.Score)}
		if g.caught != "" {
			lines = append(lines, g.caught)
		}
		c = core.ColorBrightRed
	default:
		return
	}
	mid := board.Y + board.H/2 - len(lines)/2
	for i, line := range lines {
		x := board.X + (board.W-len([]rune(line)))/2
		dst.DrawText(max(x, board.X), mid+i, line, c)
	}
}

func (g *Game) helpLine(s engine.Snapshot) string {
	switch {
	case s.Phase == engine.PhaseGameOver:
		return fmt.Sprintf("r restart  v revive (%d)  b menu  q quit", g.cfg.Shop.ReviveCost)
	case g.shopOpen:
		return "1-6 buy  shift+1-6 upgrade  l life  x market  tab close"
	}
	return "arrows move  1-6 tools  tab shop  p pause  b menu  q quit"
}

func countOf(items []string, id string) int {
	n := 0
	for _, it := range items {
		if it == id {
			n++
		}
	}
	return n
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%ds", int((d+time.Second-1)/time.Second))
}
