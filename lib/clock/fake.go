// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"slices"
	"sync"
	"time"
)

// Fake returns a FakeClock reading initial until advanced.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{now: initial}
	fake.changed = sync.NewCond(&fake.mu)
	return fake
}

// FakeClock is a Clock that moves only when Advance is called. It is
// safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	// changed is broadcast whenever a ticker registers.
	changed *sync.Cond
}

type fakeTicker struct {
	next     time.Time
	interval time.Duration
	channel  chan time.Time
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NewTicker returns a ticker that fires once per interval crossed by
// Advance.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ticker := &fakeTicker{next: c.now.Add(d), interval: d, channel: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, ticker)
	c.changed.Broadcast()

	return &Ticker{
		C:    ticker.channel,
		stop: func() { c.remove(ticker) },
	}
}

func (c *FakeClock) remove(ticker *fakeTicker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickers = slices.DeleteFunc(c.tickers, func(t *fakeTicker) bool { return t == ticker })
}

// Advance moves the clock forward by d and fires every ticker whose
// next tick is reached, earliest first. A ticker fires once per
// interval crossed; sends never block, so ticks beyond the channel's
// one slot are dropped.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	target := c.now
	c.mu.Unlock()

	for {
		due := c.collectDue(target)
		if len(due) == 0 {
			return
		}
		for _, channel := range due {
			select {
			case channel <- target:
			default:
			}
		}
	}
}

// collectDue reschedules every ticker due at or before target and
// returns their channels, earliest tick first.
func (c *FakeClock) collectDue(target time.Time) []chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	var due []*fakeTicker
	for _, ticker := range c.tickers {
		if !ticker.next.After(target) {
			due = append(due, ticker)
		}
	}
	slices.SortStableFunc(due, func(a, b *fakeTicker) int {
		return a.next.Compare(b.next)
	})

	channels := make([]chan time.Time, len(due))
	for i, ticker := range due {
		ticker.next = ticker.next.Add(ticker.interval)
		channels[i] = ticker.channel
	}
	return channels
}

// WaitForTimers blocks until at least n tickers are running.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.tickers) < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of running tickers.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}
