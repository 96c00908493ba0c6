// Package render draws a board as character glyphs.
// It reads boards only through sim.View and never mutates them.
package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-slide/internal/core"
	"github.com/vovakirdan/tui-slide/internal/sim"
)

// CellSize is the width and height of one board cell in characters.
const CellSize = 5

// Glyph border runes per texture.
const (
	RuneImpassable = '█'
	RuneBasic      = '▒'
	RuneGoal       = '▚'
)

// Size returns the character dimensions of a drawn board.
func Size(v sim.View) (w, h int) {
	bw, bh := v.Dimensions()
	return bw * CellSize, bh * CellSize
}

// Draw renders every cell of v into dst with its top-left corner at
// (originX, originY). Air cells are left untouched.
func Draw(dst *core.Screen, v sim.View, originX, originY int) {
	w, h := v.Dimensions()
	for y := range h {
		for x := range w {
			area := core.NewRect(originX+x*CellSize, originY+y*CellSize, CellSize, CellSize)
			drawCell(dst, v.Cell(sim.C(x, y)), area)
		}
	}
}

func drawCell(dst *core.Screen, cell sim.CellView, area core.Rect) {
	tex := cell.Texture()
	var (
		edge  rune
		color core.Color
	)
	switch tex.Kind {
	case sim.TextureImpassable:
		edge, color = RuneImpassable, core.ColorGray
	case sim.TextureBasic:
		edge, color = RuneBasic, core.ColorWhite
	case sim.TextureGoal:
		edge, color = RuneGoal, core.ColorYellow
	default:
		return
	}

	agents := cell.Agents()
	if tex.Kind == sim.TextureGoal && len(agents) == tex.Goal {
		color = core.ColorGreen
	}
	dst.DrawFrame(area, edge, color)
	dst.DrawRect(area.Inset(1), ' ', core.ColorDefault)

	// Agents 0 and 1 share the top interior row, 2 and 3 the bottom one.
	for _, a := range agents {
		var x, y int
		switch a {
		case 0:
			x, y = area.X+1, area.Y+1
		case 1:
			x, y = area.X+3, area.Y+1
		case 2:
			x, y = area.X+1, area.Y+3
		case 3:
			x, y = area.X+3, area.Y+3
		default:
			// Higher ids have no slot; mark their presence in the centre.
			dst.SetColored(area.X+2, area.Y+3, '+', core.ColorBrightYellow)
			continue
		}
		dst.SetColored(x, y, rune('0'+a), core.AgentColor(int(a)))
	}

	if tex.Kind == sim.TextureGoal {
		label := fmt.Sprintf("%d/%d", tex.Goal, len(agents))
		if len(label) > CellSize-2 {
			label = fmt.Sprintf("%d", tex.Goal-len(agents))
		}
		dst.DrawTextColored(area.X+1, area.Y+2, label, color)
	}
}

// Highlight recolors the digit of the given agent, typically the one
// currently selected by the player.
func Highlight(dst *core.Screen, v sim.View, agent sim.AgentID, originX, originY int) {
	c, ok := v.AgentPosition(agent).Coord()
	if !ok || agent > 3 {
		return
	}
	x := originX + c.X*CellSize + 1 + 2*(int(agent)%2)
	y := originY + c.Y*CellSize + 1 + 2*(int(agent)/2)
	dst.SetColored(x, y, dst.Get(x, y), core.ColorBrightYellow)
}

// Text renders the board to plain text, one line per character row.
func Text(v sim.View) string {
	w, h := Size(v)
	screen := core.NewScreen(w, h)
	Draw(screen, v, 0, 0)
	return screen.String()
}

// Status summarises the board state in one line, e.g.
// "running | agents 2/2 | BlocksSatisfied 0 (exactly 1)".
func Status(v sim.View) string {
	parts := []string{
		v.State().String(),
		fmt.Sprintf("agents %d/%d", v.AliveAgents(), v.NumAgents()),
	}
	progress := v.ProgressMap()
	goals := v.Goals()
	for _, stat := range slices.Sorted(maps.Keys(goals)) {
		parts = append(parts, fmt.Sprintf("%s %d (%s)", stat, progress[stat], goals[stat]))
	}
	return strings.Join(parts, " | ")
}
