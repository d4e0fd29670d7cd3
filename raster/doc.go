// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package raster is a character-cell drawing backend. A [Grid] holds a
// fixed width×height array of cells and exposes the primitives a chart
// needs: [Grid.SetPixel], [Grid.DrawLine], [Grid.DrawText],
// [Grid.DrawCircle], and [Grid.Present].
//
// Writes never overwrite a cell outright. Each write is merged with the
// cell's current state (see [Cell.Merge]) so that overlapping strokes
// produce stable glyphs: a horizontal and a vertical line crossing make
// a '+', a dot survives any later non-circle write, and circles survive
// everything.
//
// The grid trusts its caller. A coordinate outside the grid is a
// programming error and panics; nothing in this package clips
// coordinates except [Grid.DrawText], which clamps its anchor-adjusted
// origin to the grid's top-left corner and drops glyphs that run past
// the right edge.
//
// A Grid is not safe for concurrent use. It is meant to be owned by a
// single goroutine (the render worker).
package raster
