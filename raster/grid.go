// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package raster

import (
	"fmt"
	"image"
	"io"
	"unicode/utf8"
)

// CoverageThreshold is the minimum coverage a [Grid.SetPixel] call
// needs to mark a cell. Anti-aliased input is reduced to a binary
// on/off cell at this cut-off.
const CoverageThreshold = 0.3

// HPos is the horizontal anchor of a text label relative to its
// position.
type HPos uint8

const (
	Left HPos = iota
	HCenter
	Right
)

// VPos is the vertical anchor of a text label relative to its position.
type VPos uint8

const (
	Top VPos = iota
	VCenter
	Bottom
)

// Anchor says which point of a text label's bounding box sits at the
// position passed to [Grid.DrawText].
type Anchor struct {
	H HPos
	V VPos
}

// Flusher is implemented by sinks that buffer output (for example
// *bufio.Writer). Present flushes such sinks after each frame.
type Flusher interface {
	Flush() error
}

// Grid is a fixed-size character canvas. The zero value is not usable;
// construct with [NewGrid].
type Grid struct {
	cells  []Cell
	width  int
	height int
	sink   io.Writer

	// frame is reused across Present calls.
	frame []byte
}

// NewGrid returns an empty width×height grid that presents to sink.
// Panics if either dimension is not positive.
func NewGrid(width, height int, sink io.Writer) *Grid {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("raster: invalid grid size %dx%d", width, height))
	}
	return &Grid{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
		sink:   sink,
	}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// Cell returns the current contents of the cell at (x, y).
func (g *Grid) Cell(x, y int) Cell {
	return g.cells[g.index(x, y)]
}

// index converts a coordinate into an offset into cells. Out-of-grid
// coordinates panic: the caller mapped a point wrong and the frame
// would be garbage anyway.
func (g *Grid) index(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("raster: cell (%d, %d) outside %dx%d grid", x, y, g.width, g.height))
	}
	return y*g.width + x
}

func (g *Grid) write(x, y int, cell Cell) {
	i := g.index(x, y)
	g.cells[i] = g.cells[i].Merge(cell)
}

// SetPixel marks the cell at p as a dot when coverage exceeds
// [CoverageThreshold]. Lower coverage is ignored entirely, including
// the bounds check.
func (g *Grid) SetPixel(p image.Point, coverage float64) {
	if coverage <= CoverageThreshold {
		return
	}
	g.write(p.X, p.Y, Cell{State: Dot})
}

// DrawLine strokes a segment from one cell to another. Horizontal and
// vertical segments are drawn with '-' and '|' over the half-open span
// [from, to): the far endpoint is not written. Any other segment goes
// through the anti-aliased rasterizer, which reports coverage to
// SetPixel.
func (g *Grid) DrawLine(from, to image.Point) {
	switch {
	case from.X == to.X:
		y0, y1 := min(from.Y, to.Y), max(from.Y, to.Y)
		for y := y0; y < y1; y++ {
			g.write(from.X, y, Cell{State: VLine})
		}
	case from.Y == to.Y:
		x0, x1 := min(from.X, to.X), max(from.X, to.X)
		for x := x0; x < x1; x++ {
			g.write(x, from.Y, Cell{State: HLine})
		}
	default:
		rasterizeLine(from, to, g.SetPixel)
	}
}

// DrawText writes text as one cell per rune, left to right. Every
// glyph is one cell wide and the label is one cell tall; the anchor
// shifts the origin accordingly. A shifted origin left of or above the
// grid is clamped to 0, and glyphs past the right edge are dropped.
func (g *Grid) DrawText(text string, anchor Anchor, pos image.Point) {
	width := utf8.RuneCountInString(text)
	const height = 1

	dx := 0
	switch anchor.H {
	case HCenter:
		dx = -width / 2
	case Right:
		dx = -width
	}
	dy := 0
	switch anchor.V {
	case VCenter:
		dy = -height / 2
	case Bottom:
		dy = -height
	}

	x := max(pos.X+dx, 0)
	y := max(pos.Y+dy, 0)
	for _, glyph := range text {
		if x >= g.width {
			return
		}
		g.write(x, y, Cell{State: Text, Glyph: glyph})
		x++
	}
}

// DrawCircle marks a single cell with a circle glyph: '@' when filled,
// 'O' otherwise. Circles dominate every other mark.
func (g *Grid) DrawCircle(center image.Point, filled bool) {
	state := OpenCircle
	if filled {
		state = FilledCircle
	}
	g.write(center.X, center.Y, Cell{State: state})
}

// Present writes the grid to the sink as height lines of width
// characters, flushes the sink if it is a [Flusher], and clears the
// grid for the next frame. The grid is cleared even when the write
// fails.
func (g *Grid) Present() error {
	defer g.Clear()

	frame := g.frame[:0]
	for row := 0; row < g.height; row++ {
		for _, cell := range g.cells[row*g.width : (row+1)*g.width] {
			frame = utf8.AppendRune(frame, cell.Rune())
		}
		frame = append(frame, '\n')
	}
	g.frame = frame

	if _, err := g.sink.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	if flusher, ok := g.sink.(Flusher); ok {
		if err := flusher.Flush(); err != nil {
			return fmt.Errorf("flushing frame: %w", err)
		}
	}
	return nil
}

// Clear resets every cell to empty without producing output.
func (g *Grid) Clear() {
	clear(g.cells)
}
