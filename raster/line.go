// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package raster

import (
	"image"
	"math"
)

// rasterizeLine walks a sloped segment one cell at a time along its
// major axis and reports, for each step, the two cells straddling the
// ideal line with coverage proportional to their distance from it
// (Wu's algorithm without endpoint gamma). Both endpoints are included.
//
// The minor coordinate is recomputed from the start point at every
// step rather than accumulated, so the last step lands exactly on the
// far endpoint.
func rasterizeLine(from, to image.Point, plot func(image.Point, float64)) {
	steep := abs(to.Y-from.Y) > abs(to.X-from.X)
	if steep {
		from = image.Pt(from.Y, from.X)
		to = image.Pt(to.Y, to.X)
	}
	if from.X > to.X {
		from, to = to, from
	}

	put := func(major, minor int, coverage float64) {
		if steep {
			plot(image.Pt(minor, major), coverage)
		} else {
			plot(image.Pt(major, minor), coverage)
		}
	}

	gradient := float64(to.Y-from.Y) / float64(to.X-from.X)
	for x := from.X; x <= to.X; x++ {
		y := float64(from.Y) + gradient*float64(x-from.X)
		base := math.Floor(y)
		fraction := y - base
		put(x, int(base), 1-fraction)
		if fraction > 0 {
			put(x, int(base)+1, fraction)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
