// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package raster

// State is the kind of mark held by one grid cell.
type State uint8

const (
	Empty State = iota
	HLine
	VLine
	Cross
	Dot
	Text
	FilledCircle
	OpenCircle
)

// String returns the state name, used in test failure messages.
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case HLine:
		return "hline"
	case VLine:
		return "vline"
	case Cross:
		return "cross"
	case Dot:
		return "dot"
	case Text:
		return "text"
	case FilledCircle:
		return "filled-circle"
	case OpenCircle:
		return "open-circle"
	default:
		return "unknown"
	}
}

// Cell is one character position in a [Grid]. Glyph is only meaningful
// when State is Text.
type Cell struct {
	State State
	Glyph rune
}

func (c Cell) isCircle() bool {
	return c.State == FilledCircle || c.State == OpenCircle
}

// Rune returns the character printed for the cell.
func (c Cell) Rune() rune {
	switch c.State {
	case HLine:
		return '-'
	case VLine:
		return '|'
	case Cross:
		return '+'
	case Dot:
		return '.'
	case Text:
		return c.Glyph
	case FilledCircle:
		return '@'
	case OpenCircle:
		return 'O'
	default:
		return ' '
	}
}

// Merge returns the state of a cell currently holding c after next is
// written to it. The rules are checked in order:
//
//   - hline + vline (either order) becomes a cross
//   - writing a circle always yields that circle
//   - an existing circle is kept
//   - writing a dot yields a dot
//   - an existing dot is kept
//   - otherwise the new write replaces the old one
func (c Cell) Merge(next Cell) Cell {
	switch {
	case c.State == HLine && next.State == VLine,
		c.State == VLine && next.State == HLine:
		return Cell{State: Cross}
	case next.isCircle():
		return next
	case c.isCircle():
		return c
	case next.State == Dot:
		return next
	case c.State == Dot:
		return c
	default:
		return next
	}
}
