package main

import (
	"math"

	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
	"github.com/dd0wney/cluso-roadsim/pkg/simulation"
)

// Canvas glyphs
const (
	glyphEmpty  = ' '
	glyphEdge   = '·'
	glyphNode   = 'o'
	glyphTarget = 'O'
	glyphCar    = '@'
)

// grid maps canvas coordinates onto terminal cells
type grid struct {
	cols, rows    int
	width, height float64
	cells         [][]rune
}

func newGrid(cols, rows int, width, height float64) *grid {
	cells := make([][]rune, rows)
	for r := range cells {
		cells[r] = make([]rune, cols)
		for c := range cells[r] {
			cells[r][c] = glyphEmpty
		}
	}
	return &grid{cols: cols, rows: rows, width: width, height: height, cells: cells}
}

func (g *grid) cell(p geometry.Position) (int, int) {
	col := int(math.Round(p.X / g.width * float64(g.cols-1)))
	row := int(math.Round(p.Y / g.height * float64(g.rows-1)))
	return clamp(col, 0, g.cols-1), clamp(row, 0, g.rows-1)
}

func (g *grid) set(p geometry.Position, glyph rune) {
	c, r := g.cell(p)
	g.cells[r][c] = glyph
}

// line marks the cells between a and b without overwriting other glyphs
func (g *grid) line(a, b geometry.Position) {
	c0, r0 := g.cell(a)
	c1, r1 := g.cell(b)
	steps := max(abs(c1-c0), abs(r1-r0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		c := c0 + int(math.Round(t*float64(c1-c0)))
		r := r0 + int(math.Round(t*float64(r1-r0)))
		if g.cells[r][c] == glyphEmpty {
			g.cells[r][c] = glyphEdge
		}
	}
}

func (g *grid) lines() []string {
	out := make([]string, g.rows)
	for r, row := range g.cells {
		out[r] = string(row)
	}
	return out
}

// renderCanvas draws the graph, the target node and the car into a
// cols x rows character grid
func renderCanvas(snap simulation.Snapshot, cfg simulation.Config, cols, rows int) []string {
	if cols < 2 || rows < 2 {
		return nil
	}
	g := newGrid(cols, rows, cfg.CanvasWidth, cfg.CanvasHeight)

	positions := make(map[int64]geometry.Position, len(snap.Nodes))
	for _, n := range snap.Nodes {
		positions[int64(n.ID)] = n.Position
	}
	for _, n := range snap.Nodes {
		g.set(n.Position, glyphNode)
	}
	for _, e := range snap.Edges {
		g.line(positions[int64(e.From)], positions[int64(e.To)])
	}
	if snap.HasTarget && snap.Target != snap.CurrentNode {
		if p, ok := positions[int64(snap.Target)]; ok {
			g.set(p, glyphTarget)
		}
	}
	g.set(snap.Position, glyphCar)

	return g.lines()
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
