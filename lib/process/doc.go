// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process holds the exit path of termplot's main function,
// used where the structured logger may not exist yet.
package process
