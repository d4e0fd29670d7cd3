// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package history

import "time"

// record is one stored sample. ordinal is the sample's position in its
// series' append order, starting at 0.
type record struct {
	ordinal uint64
	at      time.Time
	value   float64
}

// minRingCapacity is the backing array size allocated on first push.
const minRingCapacity = 16

// ring is a growable circular queue of records. It pushes at the back
// and pops at the front in O(1); when full it doubles, copying the
// live records to the start of the new array in order.
type ring struct {
	records []record
	// head is the index of the oldest record.
	head int
	// size is the number of live records, starting at head and wrapping.
	size int
}

func (r *ring) len() int { return r.size }

func (r *ring) push(rec record) {
	if r.size == len(r.records) {
		r.grow()
	}
	r.records[(r.head+r.size)%len(r.records)] = rec
	r.size++
}

// front returns the oldest record. Must not be called on an empty ring.
func (r *ring) front() record {
	return r.records[r.head]
}

// popFront drops the oldest record. Must not be called on an empty ring.
func (r *ring) popFront() {
	r.records[r.head] = record{}
	r.head = (r.head + 1) % len(r.records)
	r.size--
}

// at returns the i-th oldest record, 0 <= i < len.
func (r *ring) at(i int) record {
	return r.records[(r.head+i)%len(r.records)]
}

func (r *ring) grow() {
	capacity := max(2*len(r.records), minRingCapacity)
	records := make([]record, capacity)
	for i := range r.size {
		records[i] = r.at(i)
	}
	r.records = records
	r.head = 0
}
