// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

type statusError int

func (e statusError) Error() string   { return "categorized" }
func (e statusError) StatusCode() int { return int(e) }

func TestReport(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	if code := report(&stderr, errors.New("listener failed")); code != 1 {
		t.Errorf("plain error: code %d, want 1", code)
	}
	if got := stderr.String(); got != "error: listener failed\n" {
		t.Errorf("plain error output: got %q", got)
	}

	stderr.Reset()
	wrapped := fmt.Errorf("serve: %w", statusError(3))
	if code := report(&stderr, wrapped); code != 3 {
		t.Errorf("wrapped status error: code %d, want 3", code)
	}
	if got := stderr.String(); got != "error: serve: categorized\n" {
		t.Errorf("wrapped status error output: got %q", got)
	}

	stderr.Reset()
	if code := report(&stderr, statusError(2)); code != 2 {
		t.Errorf("status error: code %d, want 2", code)
	}
	if got := stderr.String(); got != "error: categorized\n" {
		t.Errorf("status error output: got %q", got)
	}
}
