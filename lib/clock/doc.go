// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets time-dependent code run against a fake clock in
// tests.
//
// Code that reads the time or waits on it takes a [Clock] instead of
// calling the time package: [Real] in production, [Fake] in tests. The
// render worker's frame throttle, age eviction, and the ingest stats
// ticker all read time through a Clock.
//
// A [FakeClock] stands still until [FakeClock.Advance]. A goroutine
// that calls NewTicker registers a running ticker; tests call
// [FakeClock.WaitForTimers] before advancing so the registration is
// not raced:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go server.Run(ctx) // creates a ticker
//	fake.WaitForTimers(1)
//	fake.Advance(time.Minute)
package clock
