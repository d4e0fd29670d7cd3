// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package history

import "testing"

func TestRingPushPopOrder(t *testing.T) {
	t.Parallel()
	var r ring

	for i := range 5 {
		r.push(record{ordinal: uint64(i)})
	}
	r.popFront()
	r.popFront()

	if r.len() != 3 {
		t.Fatalf("len: got %d, want 3", r.len())
	}
	for i := range r.len() {
		if got := r.at(i).ordinal; got != uint64(i+2) {
			t.Errorf("at(%d): got ordinal %d, want %d", i, got, i+2)
		}
	}
}

func TestRingGrowPreservesWrappedOrder(t *testing.T) {
	t.Parallel()
	var r ring

	// Fill the initial array, pop a few so head moves, then push past
	// the end so the live range wraps before the ring has to grow.
	for i := range minRingCapacity {
		r.push(record{ordinal: uint64(i)})
	}
	for range 4 {
		r.popFront()
	}
	for i := minRingCapacity; i < 3*minRingCapacity; i++ {
		r.push(record{ordinal: uint64(i)})
	}

	want := 3*minRingCapacity - 4
	if r.len() != want {
		t.Fatalf("len: got %d, want %d", r.len(), want)
	}
	if r.front().ordinal != 4 {
		t.Errorf("front: got ordinal %d, want 4", r.front().ordinal)
	}
	for i := range r.len() {
		if got := r.at(i).ordinal; got != uint64(i+4) {
			t.Fatalf("at(%d): got ordinal %d, want %d", i, got, i+4)
		}
	}
}
