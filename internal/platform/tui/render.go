package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/protocol"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Glyphs drawn on the arena map.
const (
	headGlyph = '@'
	foodGlyph = '*'
)

const emptyArenaLabel = "no players"

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// ArenaSize is the simulation field size in arena units.
type ArenaSize struct {
	Width, Height float64
}

// project maps an arena point onto the interior of a w x h box drawn at the origin.
// Points outside the arena are clamped to the border cells.
func (a ArenaSize) project(p core.Vec2, w, h int) (int, int) {
	innerW, innerH := w-2, h-2
	x := 1 + int(p.X/a.Width*float64(innerW))
	y := 1 + int(p.Y/a.Height*float64(innerH))
	return core.Clamp(x, 1, innerW), core.Clamp(y, 1, innerH)
}

// DrawArena draws a bordered, downscaled view of the arena onto dst.
// Food is drawn first so a head on top of it stays visible.
func DrawArena(dst *core.Screen, arena ArenaSize, state protocol.StateUpdate) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()
	if w < 3 || h < 3 || arena.Width <= 0 || arena.Height <= 0 {
		return
	}
	dst.DrawBox(0, 0, w, h)

	fx, fy := arena.project(core.V(state.Food.X, state.Food.Y), w, h)
	dst.SetColored(fx, fy, foodGlyph, core.ColorYellow)

	for _, p := range state.Players {
		x, y := arena.project(core.V(p.Head.X, p.Head.Y), w, h)
		dst.SetColored(x, y, headGlyph, core.ColorByName(p.Color))
	}

	if len(state.Players) == 0 && len(emptyArenaLabel) <= w-2 {
		dst.DrawText((w-len(emptyArenaLabel))/2, h/2, emptyArenaLabel)
	}
}
