// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package status serves a running termplot's counters on a socket.
//
// A status socket is a Unix socket ("unix:/run/termplot.sock") or a
// TCP address ("127.0.0.1:9998"). It speaks no request: every
// accepted connection receives exactly one CBOR-encoded [Report] and
// is closed. [Fetch] is the matching client.
package status
