// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"golang.org/x/term"

	"github.com/bureau-foundation/termplot/lib/config"
)

// Grid size used when the output is not a terminal and the
// configuration leaves a dimension at zero.
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// gridSize resolves the configured grid size. A zero dimension takes
// the size of the terminal on fd, less one row for a legend, or the
// fallback when fd is not a terminal.
func gridSize(cfg *config.Config, fd int) (width, height int) {
	width, height = cfg.Chart.Width, cfg.Chart.Height
	if width > 0 && height > 0 {
		return width, height
	}

	columns, rows, err := term.GetSize(fd)
	if err != nil || columns <= 0 || rows <= 0 {
		columns, rows = fallbackWidth, fallbackHeight
	}
	// The cursor stays on the line after the last row.
	rows--
	if cfg.Chart.Legend {
		rows--
	}

	if width <= 0 {
		width = columns
	}
	if height <= 0 {
		height = max(rows, 1)
	}
	return width, height
}
