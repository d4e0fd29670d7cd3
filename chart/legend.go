// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/termplot/history"
	"github.com/bureau-foundation/termplot/raster"
)

// legendSpacing is the gap between legend entries.
const legendSpacing = 2

// legendRenderer lays out legend lines. It pins the Ascii profile so
// the legend stays monochrome whatever the terminal supports.
type legendRenderer struct {
	entry lipgloss.Style
	last  lipgloss.Style
}

func newLegendRenderer(w io.Writer) *legendRenderer {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	return &legendRenderer{
		entry: renderer.NewStyle().PaddingRight(legendSpacing),
		last:  renderer.NewStyle(),
	}
}

// legendEntry describes one series: its id, last value, and retained
// sample count.
func legendEntry(s history.Series) string {
	if len(s.Points) == 0 {
		return fmt.Sprintf("#%d - n=0", s.ID)
	}
	last := s.Points[len(s.Points)-1].Y
	return fmt.Sprintf("#%d %s n=%d", s.ID, formatValue(last), len(s.Points))
}

// line renders every entry on one line no wider than width.
func (r *legendRenderer) line(width int, series []history.Series) string {
	cells := make([]string, len(series))
	for i, s := range series {
		style := r.entry
		if i == len(series)-1 {
			style = r.last
		}
		cells[i] = style.Render(legendEntry(s))
	}
	return ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Top, cells...), width, "")
}

func (c *Composer) writeLegend(width int, series []history.Series) error {
	if c.legend == nil {
		c.legend = newLegendRenderer(c.Terminal)
	}
	if _, err := io.WriteString(c.Terminal, c.legend.line(width, series)+"\n"); err != nil {
		return fmt.Errorf("writing legend: %w", err)
	}
	if flusher, ok := c.Terminal.(raster.Flusher); ok {
		if err := flusher.Flush(); err != nil {
			return fmt.Errorf("flushing legend: %w", err)
		}
	}
	return nil
}
