// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package history keeps the recent samples of every plotted series.
//
// A [Store] maps a [SeriesID] to a bounded, insertion-ordered
// [History]. Each Store has one eviction [Policy]:
//
//   - Count: a series keeps at most Capacity samples; appending to a
//     full series drops the oldest.
//   - Age: a series keeps samples no older than MaxAge; eviction is a
//     prefix scan from the oldest sample that stops at the first one
//     young enough to stay.
//
// Eviction runs after every append. [Store.Settle] runs age eviction
// across all series so that a series whose producer went quiet still
// ages out.
//
// Snapshots report x as an offset from "now", always <= 0. In count
// mode the newest sample is at 0 and every older sample is one unit
// further left, so a sample's x moves one unit left with every append
// to its series. The offsets are derived from per-series ordinals when
// the snapshot is taken; stored samples are never rewritten. In age
// mode x is the sample's age in seconds, negated.
//
// A Store is not safe for concurrent use; the render worker owns it.
package history
