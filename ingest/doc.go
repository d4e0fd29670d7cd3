// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest accepts TCP producers and turns their lines into
// samples.
//
// Each accepted connection becomes one series: the [Server] spawns a
// handle from its [render.Plotter], then reads newline-delimited
// numbers with a [LineDecoder] and hands every finite value to the
// handle. A line that does not parse is counted and dropped; the
// connection stays up. A line longer than the configured maximum is a
// framing error that ends only that connection.
//
// In concurrent mode every connection gets its own goroutine. In
// sequential mode connections are served one at a time on the accept
// loop, and later producers wait in the listen backlog.
//
// Cancelling the context passed to [Server.Serve] closes the listener
// and every open connection, then waits for the connection handlers
// to return.
package ingest
