// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"sync"

	"github.com/bureau-foundation/termplot/history"
)

// message is one request to the worker: a sample, a spawn, or a status
// query.
type message interface {
	isMessage()
}

type sampleMessage struct {
	series history.SeriesID
	value  float64
}

// spawnMessage asks for a new series id. reply has capacity 1 so the
// worker never blocks on a requester that gave up.
type spawnMessage struct {
	reply chan history.SeriesID
}

type statusMessage struct {
	reply chan Stats
}

func (sampleMessage) isMessage() {}
func (spawnMessage) isMessage()  {}
func (statusMessage) isMessage() {}

// mailbox is an unbounded multi-producer, single-consumer queue.
// Producers append under the lock and poke a one-slot wake channel;
// the consumer swaps the whole pending slice out in one step.
type mailbox struct {
	mu      sync.Mutex
	pending []message
	closed  bool

	wake chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{wake: make(chan struct{}, 1)}
}

// post enqueues msg. Returns false if the mailbox is closed.
func (m *mailbox) post(msg message) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	m.pending = append(m.pending, msg)
	m.mu.Unlock()

	m.notify()
	return true
}

// close stops accepting messages. Messages already posted are still
// returned by take.
func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.notify()
}

func (m *mailbox) notify() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// take removes and returns every pending message, and whether the
// mailbox has been closed.
func (m *mailbox) take() ([]message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := m.pending
	m.pending = nil
	return batch, m.closed
}

// ready is signalled after any post or close that happened since the
// last receive.
func (m *mailbox) ready() <-chan struct{} {
	return m.wake
}
