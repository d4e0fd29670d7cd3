// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package chart lays out a line chart of series snapshots onto a
// character [Canvas].
//
// A frame is a pure function of the axis range, the x window, the
// canvas size, and the snapshot: [Composer.Draw] writes the terminal
// clear sequences, draws axes, tick labels, and one polyline per
// series in draw order, then presents the canvas. The x domain is
// [-window, 0] (offsets from now) and the y domain is the fixed
// [Range]; values never auto-scale. Samples outside the range are
// clamped to the plot edge and marked with a circle: filled ('@')
// above the range, open ('O') below it.
//
// Layout, from the outside in: a one-cell margin on every side, the
// caption (if any) on the top margin row, a column of right-aligned y
// labels, the y axis, the plot area, the x axis, and a row of x
// labels under it. Axes cross at the lower-left corner and every tick
// is drawn as a cross on its axis.
package chart
