// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports how a termplot binary was built.
//
// Release builds inject [Version], [GitCommit], [GitDirty], and
// [BuildTime] with -ldflags -X:
//
//	go build -ldflags "-X github.com/bureau-foundation/termplot/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/termplot
//
// A plain "go build" leaves them unset; [Current] then falls back to
// the VCS stamp the Go toolchain embeds in the binary.
package version
