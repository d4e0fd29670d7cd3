// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns samples from many producers into frames.
//
// The chart variant is built around a [Worker]: one goroutine that
// owns the history store, the chart composer, and the canvas. Every
// producer talks to it through a single unbounded mailbox, so posting
// a sample never blocks and no chart state is shared between
// goroutines. The worker applies messages in arrival order and redraws
// after a sample only when the frame deadline has passed, so a burst
// of samples inside one frame interval produces one frame.
//
// Producers do not use the worker directly. A [Plotter] is built once
// at startup for one [Kind]:
//
//   - KindChart: [Plotter.Spawn] registers a new series with the
//     worker and waits for its id; [Handle.Update] posts a sample.
//   - KindBar: [Plotter.Spawn] returns immediately; [Handle.Update]
//     writes one bar line to the shared output under a lock.
//
// Series are never deregistered. A series whose producer disconnects
// keeps its history until it is evicted by the store's policy.
package render
