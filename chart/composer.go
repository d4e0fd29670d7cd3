// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/termplot/history"
	"github.com/bureau-foundation/termplot/raster"
)

// ErrGridTooSmall is returned by [Composer.Draw] when the canvas cannot
// hold the margins, the labels, and a plot area of at least 2x2 cells.
var ErrGridTooSmall = errors.New("chart: grid too small for axes and plot")

// Canvas is the drawing surface a frame is composed onto. *raster.Grid
// implements it.
type Canvas interface {
	Size() (width, height int)
	SetPixel(p image.Point, coverage float64)
	DrawLine(from, to image.Point)
	DrawText(text string, anchor raster.Anchor, pos image.Point)
	DrawCircle(center image.Point, filled bool)
	Present() error
}

// Range is the fixed y domain of the chart.
type Range struct {
	Min, Max float64
}

// Validate reports whether the range is a usable axis.
func (r Range) Validate() error {
	if math.IsNaN(r.Min) || math.IsInf(r.Min, 0) || math.IsNaN(r.Max) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("axis range [%v, %v] must be finite", r.Min, r.Max)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("axis min %v must be below max %v", r.Min, r.Max)
	}
	return nil
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return r.Min + (r.Max-r.Min)/2
}

// Composer draws frames. The zero value is not usable: Range must be
// valid and Window positive.
type Composer struct {
	// Range is the y domain.
	Range Range

	// Window is the length of the x domain; the plot spans offsets
	// [-Window, 0].
	Window float64

	// Caption is drawn centered on the top margin row when non-empty.
	Caption string

	// Legend enables a one-line series legend written to Terminal
	// after each frame.
	Legend bool

	// Terminal receives the clear-screen and cursor-home sequences
	// before each frame, and the legend after it. Nil disables both.
	Terminal io.Writer

	legend *legendRenderer
}

// layout holds the resolved positions for one canvas size. Plot bounds
// are inclusive.
type layout struct {
	width, height int

	axisX, axisY int

	left, right int
	top, bottom int
}

func (l layout) plotWidth() int  { return l.right - l.left + 1 }
func (l layout) plotHeight() int { return l.bottom - l.top + 1 }

const (
	margin = 1
	// labelGap separates the y labels from the y axis.
	labelGap = 1
	// minPlot is the smallest plot area, in cells, along either axis.
	minPlot = 2
)

func newLayout(width, height, labelWidth int) (layout, error) {
	l := layout{width: width, height: height}
	l.axisX = margin + labelWidth + labelGap
	l.left = l.axisX + 1
	l.right = width - 1 - margin

	// Bottom up: margin row, x label row, x axis row.
	l.axisY = height - 1 - margin - 1
	l.top = margin
	l.bottom = l.axisY - 1

	if l.plotWidth() < minPlot || l.plotHeight() < minPlot {
		return layout{}, fmt.Errorf("%w: %dx%d", ErrGridTooSmall, width, height)
	}
	return l, nil
}

// column maps an x offset in [-window, 0] to a plot column.
func (l layout) column(x, window float64) int {
	fraction := (x + window) / window
	col := l.left + int(math.Round(fraction*float64(l.plotWidth()-1)))
	return min(max(col, l.left), l.right)
}

// row maps a value in r to a plot row, larger values higher up.
func (l layout) row(y float64, r Range) int {
	fraction := (y - r.Min) / (r.Max - r.Min)
	row := l.bottom - int(math.Round(fraction*float64(l.plotHeight()-1)))
	return min(max(row, l.top), l.bottom)
}

// formatValue is the label spelling of an axis or legend value.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// CheckSize reports whether a width×height canvas fits the layout,
// returning ErrGridTooSmall when Draw would fail on it.
func (c *Composer) CheckSize(width, height int) error {
	_, _, labelWidth := c.yAxis()
	_, err := newLayout(width, height, labelWidth)
	return err
}

// yAxis returns the y tick values, their labels, and the widest label.
func (c *Composer) yAxis() (ticks []float64, labels []string, width int) {
	ticks = []float64{c.Range.Min, c.Range.Mid(), c.Range.Max}
	labels = make([]string, len(ticks))
	for i, value := range ticks {
		labels[i] = formatValue(value)
		width = max(width, utf8.RuneCountInString(labels[i]))
	}
	return ticks, labels, width
}

// Draw composes one frame of series onto canvas and presents it.
// series must already be in draw order. A canvas too small for the
// layout returns ErrGridTooSmall before anything is drawn or written.
func (c *Composer) Draw(canvas Canvas, series []history.Series) error {
	yTicks, yLabels, labelWidth := c.yAxis()
	width, height := canvas.Size()
	l, err := newLayout(width, height, labelWidth)
	if err != nil {
		return err
	}

	if c.Terminal != nil {
		if _, err := io.WriteString(c.Terminal, ansi.EraseEntireScreen+ansi.CursorHomePosition); err != nil {
			return fmt.Errorf("clearing terminal: %w", err)
		}
	}

	c.drawAxes(canvas, l, yTicks, yLabels)
	for _, s := range series {
		c.drawSeries(canvas, l, s)
	}
	if c.Caption != "" {
		canvas.DrawText(c.Caption, raster.Anchor{H: raster.HCenter, V: raster.Top}, image.Pt(width/2, 0))
	}

	if err := canvas.Present(); err != nil {
		return err
	}

	if c.Legend && c.Terminal != nil {
		return c.writeLegend(width, series)
	}
	return nil
}

func (c *Composer) drawAxes(canvas Canvas, l layout, yTicks []float64, yLabels []string) {
	// The y axis runs through the x axis row so the corner merges into
	// a cross.
	canvas.DrawLine(image.Pt(l.axisX, l.top), image.Pt(l.axisX, l.axisY+1))
	canvas.DrawLine(image.Pt(l.axisX, l.axisY), image.Pt(l.right+1, l.axisY))

	for i, value := range yTicks {
		row := l.row(value, c.Range)
		canvas.DrawLine(image.Pt(l.axisX, row), image.Pt(l.axisX+1, row))
		canvas.DrawText(yLabels[i], raster.Anchor{H: raster.Right, V: raster.VCenter}, image.Pt(l.axisX-labelGap, row))
	}

	for _, offset := range []float64{-c.Window, -c.Window / 2, 0} {
		col := l.column(offset, c.Window)
		canvas.DrawLine(image.Pt(col, l.axisY), image.Pt(col, l.axisY+1))
		label := "0"
		if offset != 0 {
			label = formatValue(offset)
		}
		canvas.DrawText(label, raster.Anchor{H: raster.HCenter, V: raster.Top}, image.Pt(col, l.axisY+1))
	}
}

func (c *Composer) drawSeries(canvas Canvas, l layout, s history.Series) {
	if len(s.Points) == 0 {
		return
	}

	var previous image.Point
	for i, point := range s.Points {
		current := image.Pt(l.column(point.X, c.Window), l.row(point.Y, c.Range))
		if i > 0 {
			canvas.DrawLine(previous, current)
		}
		previous = current
	}
	canvas.SetPixel(previous, 1)

	for _, point := range s.Points {
		switch {
		case point.Y > c.Range.Max:
			canvas.DrawCircle(image.Pt(l.column(point.X, c.Window), l.top), true)
		case point.Y < c.Range.Min:
			canvas.DrawCircle(image.Pt(l.column(point.X, c.Window), l.bottom), false)
		}
	}
}
