// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowMovesOnlyOnAdvance(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)

	if got := fake.Now(); !got.Equal(epoch) {
		t.Fatalf("Now: got %v, want %v", got, epoch)
	}
	fake.Advance(90 * time.Second)
	if got := fake.Now(); !got.Equal(epoch.Add(90 * time.Second)) {
		t.Errorf("Now after Advance: got %v", got)
	}
}

func TestFakeTicker(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	for i := 1; i <= 3; i++ {
		fake.Advance(time.Second)
		select {
		case got := <-ticker.C:
			if want := epoch.Add(time.Duration(i) * time.Second); !got.Equal(want) {
				t.Errorf("tick %d: got %v, want %v", i, got, want)
			}
		default:
			t.Fatalf("tick %d not delivered", i)
		}
	}
}

func TestFakeTickerDropsUnreadTicks(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	fake.Advance(5 * time.Second)

	<-ticker.C
	select {
	case <-ticker.C:
		t.Fatal("more than one tick buffered")
	default:
	}
}

func TestFakeTickerStop(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	stopped := fake.NewTicker(time.Second)
	running := fake.NewTicker(time.Second)
	defer running.Stop()

	stopped.Stop()
	if got := fake.PendingCount(); got != 1 {
		t.Fatalf("PendingCount after Stop: got %d, want 1", got)
	}

	for i := 1; i <= 3; i++ {
		fake.Advance(time.Second)
		select {
		case <-stopped.C:
			t.Fatalf("stopped ticker fired on advance %d", i)
		default:
		}
		select {
		case <-running.C:
		default:
			t.Fatalf("running ticker missed advance %d", i)
		}
	}
}

func TestFakeTickersFireInOrder(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)
	slow := fake.NewTicker(3 * time.Second)
	defer slow.Stop()
	fast := fake.NewTicker(time.Second)
	defer fast.Stop()

	fake.Advance(2 * time.Second)
	select {
	case <-slow.C:
		t.Fatal("slow ticker fired early")
	default:
	}
	<-fast.C

	fake.Advance(time.Second)
	<-fast.C
	<-slow.C
}

func TestFakeTickerPanicsOnNonPositive(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("NewTicker(0) did not panic")
		}
	}()
	Fake(epoch).NewTicker(0)
}

func TestFakeWaitForTimers(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)

	fired := make(chan struct{})
	go func() {
		ticker := fake.NewTicker(time.Minute)
		defer ticker.Stop()
		<-ticker.C
		close(fired)
	}()

	fake.WaitForTimers(1)
	fake.Advance(time.Minute)
	<-fired
}

func TestFakeConcurrentUse(t *testing.T) {
	t.Parallel()
	fake := Fake(epoch)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				fake.Now()
				fake.NewTicker(time.Hour).Stop()
			}
		}()
	}
	for range 100 {
		fake.Advance(time.Millisecond)
	}
	wg.Wait()

	if got := fake.PendingCount(); got != 0 {
		t.Errorf("PendingCount after every ticker stopped: got %d, want 0", got)
	}
}

func TestImplementations(t *testing.T) {
	t.Parallel()
	var _ Clock = Real()
	var _ Clock = Fake(epoch)
}
