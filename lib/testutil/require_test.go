// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"
)

// recorder captures Fatalf instead of failing the enclosing test.
type recorder struct {
	failure string
}

func (r *recorder) Helper() {}

func (r *recorder) Fatalf(format string, args ...any) {
	r.failure = fmt.Sprintf(format, args...)
	panic(r)
}

func capture(fn func(t TB)) (failure string) {
	r := &recorder{}
	defer func() {
		if recovered := recover(); recovered != nil && recovered != r {
			panic(recovered)
		}
		failure = r.failure
	}()
	fn(r)
	return ""
}

func TestRequireReceive(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive: got %d, want 7", got)
	}
}

func TestRequireReceiveClosedChannelFails(t *testing.T) {
	t.Parallel()

	ch := make(chan int)
	close(ch)
	failure := capture(func(tb TB) { RequireReceive(tb, ch, time.Second, "reading %s", "ids") })
	if failure != "channel closed without sending a value: reading ids" {
		t.Errorf("failure: got %q", failure)
	}
}

func TestRequireClosedTimesOut(t *testing.T) {
	t.Parallel()

	failure := capture(func(tb TB) { RequireClosed(tb, make(chan struct{}), time.Millisecond) })
	if failure != "timed out after 1ms waiting for channel close: (no message)" {
		t.Errorf("failure: got %q", failure)
	}
}

func TestSocketDir(t *testing.T) {
	t.Parallel()

	directory := SocketDir(t)
	info, err := os.Stat(directory)
	if err != nil || !info.IsDir() {
		t.Fatalf("SocketDir %q: stat = (%v, %v)", directory, info, err)
	}
}
