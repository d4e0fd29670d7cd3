// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by termplot's tests.
//
// [RequireReceive] and [RequireClosed] wrap a channel wait in a
// wall-clock timeout so a broken test fails instead of hanging. They
// are the only place tests use real timeouts; everything else runs on
// a fake clock.
//
// [SocketDir] returns a short directory under /tmp for Unix sockets,
// whose paths are limited to 108 bytes.
//
// Helpers call t.Fatalf on failure.
package testutil
