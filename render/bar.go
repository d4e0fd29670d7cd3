// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/bureau-foundation/termplot/chart"
	"github.com/bureau-foundation/termplot/history"
	"github.com/bureau-foundation/termplot/raster"
)

// DefaultBarCapacity is the default bar length in cells.
const DefaultBarCapacity = 100

const (
	barFilled = "="
	barEmpty  = "."
	barMarker = "X"
)

// BarWidth returns the number of filled cells for x on a bar of
// capacity cells spanning [low, high]: floor((x-low)/(high-low) *
// capacity), or 0 when that is negative. Values above high yield more
// than capacity; [Bar.Format] renders those with a marker instead.
func BarWidth(x, low, high float64, capacity int) int {
	width := math.Floor((x - low) / (high - low) * float64(capacity))
	if width < 0 {
		return 0
	}
	return int(width)
}

// Bar renders each sample as one line of text. All handles share one
// Bar, and lines from concurrent producers never interleave.
type Bar struct {
	rng      chart.Range
	capacity int

	mu     sync.Mutex
	sink   io.Writer
	nextID history.SeriesID
}

// NewBar returns a bar renderer writing to sink. capacity must be at
// least 1.
func NewBar(sink io.Writer, rng chart.Range, capacity int) *Bar {
	if capacity < 1 {
		panic(fmt.Sprintf("render: bar capacity must be positive, got %d", capacity))
	}
	return &Bar{rng: rng, capacity: capacity, sink: sink, nextID: 1}
}

// Format returns the line for value without its newline: the bar, a
// space, and the value's shortest decimal spelling. Values below the
// range show a marker at the left end, values above it a marker at
// the right end.
func (b *Bar) Format(value float64) string {
	var bar string
	switch {
	case value < b.rng.Min:
		bar = barMarker + strings.Repeat(barEmpty, b.capacity-1)
	case value > b.rng.Max:
		bar = strings.Repeat(barFilled, b.capacity-1) + barMarker
	default:
		filled := min(BarWidth(value, b.rng.Min, b.rng.Max, b.capacity), b.capacity)
		bar = strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, b.capacity-filled)
	}
	return bar + " " + strconv.FormatFloat(value, 'f', -1, 64)
}

func (b *Bar) spawn() history.SeriesID {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	return id
}

func (b *Bar) write(value float64) error {
	line := b.Format(value) + "\n"

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.sink, line); err != nil {
		return fmt.Errorf("writing bar: %w", err)
	}
	if flusher, ok := b.sink.(raster.Flusher); ok {
		if err := flusher.Flush(); err != nil {
			return fmt.Errorf("flushing bar: %w", err)
		}
	}
	return nil
}
