// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func values(series Series) []float64 {
	var out []float64
	for _, point := range series.Points {
		out = append(out, point.Y)
	}
	return out
}

func offsets(series Series) []float64 {
	var out []float64
	for _, point := range series.Points {
		out = append(out, point.X)
	}
	return out
}

func TestCountModeRetainsLatestCapacity(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{1, 2, 7, 100} {
		store := NewStore(Count(capacity))
		random := rand.New(rand.NewPCG(uint64(capacity), 1))
		count := random.IntN(4*capacity) + 1

		var appended []float64
		for i := range count {
			value := random.Float64()
			appended = append(appended, value)
			store.Append(1, value, epoch.Add(time.Duration(i)*time.Second))

			if store.Len(1) > capacity {
				t.Fatalf("capacity %d: Len = %d after %d appends", capacity, store.Len(1), i+1)
			}
		}

		want := appended[max(0, len(appended)-capacity):]
		got := values(store.Snapshot(epoch)[0])
		if !slices.Equal(got, want) {
			t.Errorf("capacity %d: retained %v, want %v", capacity, got, want)
		}
	}
}

func TestCountModeOffsetsDecayPerAppend(t *testing.T) {
	t.Parallel()
	store := NewStore(Count(3))

	store.Append(1, 10, epoch)
	if got := offsets(store.Snapshot(epoch)[0]); !slices.Equal(got, []float64{0}) {
		t.Fatalf("after one append: offsets %v, want [0]", got)
	}

	store.Append(1, 20, epoch)
	store.Append(1, 30, epoch)
	if got := offsets(store.Snapshot(epoch)[0]); !slices.Equal(got, []float64{-2, -1, 0}) {
		t.Fatalf("after three appends: offsets %v, want [-2 -1 0]", got)
	}

	// The fourth append evicts 10 and every survivor moves one unit left.
	store.Append(1, 40, epoch)
	snapshot := store.Snapshot(epoch)[0]
	if got := offsets(snapshot); !slices.Equal(got, []float64{-2, -1, 0}) {
		t.Errorf("after eviction: offsets %v, want [-2 -1 0]", got)
	}
	if got := values(snapshot); !slices.Equal(got, []float64{20, 30, 40}) {
		t.Errorf("after eviction: values %v, want [20 30 40]", got)
	}
}

func TestCountModeOffsetsArePerSeries(t *testing.T) {
	t.Parallel()
	store := NewStore(Count(10))

	store.Append(1, 1, epoch)
	store.Append(2, 2, epoch)
	store.Append(1, 1, epoch)

	snapshot := store.Snapshot(epoch)
	if got := offsets(snapshot[0]); !slices.Equal(got, []float64{-1, 0}) {
		t.Errorf("series 1 offsets: got %v, want [-1 0]", got)
	}
	if got := offsets(snapshot[1]); !slices.Equal(got, []float64{0}) {
		t.Errorf("series 2 offsets: got %v, want [0]", got)
	}
}

func TestAgeModeEvictsOnAppend(t *testing.T) {
	t.Parallel()
	store := NewStore(Age(10 * time.Second))

	for i := range 30 {
		at := epoch.Add(time.Duration(i) * time.Second)
		store.Append(1, float64(i), at)

		for _, point := range store.Snapshot(at)[0].Points {
			if -point.X > 10 {
				t.Fatalf("at t=%ds: retained sample %v aged %vs", i, point.Y, -point.X)
			}
		}
	}

	// Samples at t=19..29 are within 10s of t=29; t=19 is exactly 10s
	// old and stays.
	if got := store.Len(1); got != 11 {
		t.Errorf("Len: got %d, want 11", got)
	}
}

func TestAgeModeOffsetsAreSeconds(t *testing.T) {
	t.Parallel()
	store := NewStore(Age(time.Minute))

	store.Append(1, 5, epoch)
	store.Append(1, 6, epoch.Add(1500*time.Millisecond))

	got := offsets(store.Snapshot(epoch.Add(3 * time.Second))[0])
	if !slices.Equal(got, []float64{-3, -1.5}) {
		t.Errorf("offsets: got %v, want [-3 -1.5]", got)
	}
}

func TestSettleAgesOutSilentSeries(t *testing.T) {
	t.Parallel()
	store := NewStore(Age(5 * time.Second))

	store.Append(1, 1, epoch)
	store.Append(1, 2, epoch.Add(2*time.Second))
	store.Append(2, 3, epoch.Add(4*time.Second))

	store.Settle(epoch.Add(8 * time.Second))

	if got := store.Len(1); got != 0 {
		t.Errorf("series 1 Len after settle: got %d, want 0", got)
	}
	if got := store.Len(2); got != 1 {
		t.Errorf("series 2 Len after settle: got %d, want 1", got)
	}

	// A settled-empty series stays registered and snapshots with no points.
	snapshot := store.Snapshot(epoch.Add(8 * time.Second))
	if len(snapshot) != 2 || snapshot[0].ID != 1 || len(snapshot[0].Points) != 0 {
		t.Errorf("snapshot after settle: got %+v", snapshot)
	}
}

func TestSettleIsNoopInCountMode(t *testing.T) {
	t.Parallel()
	store := NewStore(Count(4))

	store.Append(1, 1, epoch)
	store.Settle(epoch.Add(24 * time.Hour))

	if got := store.Len(1); got != 1 {
		t.Errorf("Len after settle: got %d, want 1", got)
	}
}

func TestAgeEvictionStopsAtFirstYoungSample(t *testing.T) {
	t.Parallel()
	store := NewStore(Age(5 * time.Second))

	// A young sample ahead of an old one shields it: eviction is a
	// prefix scan, not a filter.
	store.Append(1, 1, epoch.Add(10*time.Second))
	store.Append(1, 2, epoch)
	store.Settle(epoch.Add(12 * time.Second))

	if got := store.Len(1); got != 2 {
		t.Errorf("Len: got %d, want 2", got)
	}
}

func TestDrawOrderIsAscendingID(t *testing.T) {
	t.Parallel()
	store := NewStore(Count(4))

	for _, id := range []SeriesID{3, 1, 2, 3, 1} {
		store.Append(id, float64(id), epoch)
	}

	want := []SeriesID{1, 2, 3}
	if got := store.IDs(); !slices.Equal(got, want) {
		t.Errorf("IDs: got %v, want %v", got, want)
	}
	var snapshotIDs []SeriesID
	for _, series := range store.Snapshot(epoch) {
		snapshotIDs = append(snapshotIDs, series.ID)
	}
	if !slices.Equal(snapshotIDs, want) {
		t.Errorf("Snapshot order: got %v, want %v", snapshotIDs, want)
	}
}

func TestUnknownSeries(t *testing.T) {
	t.Parallel()
	store := NewStore(Count(4))

	if got := store.Len(9); got != 0 {
		t.Errorf("Len(unknown): got %d, want 0", got)
	}
	if len(store.IDs()) != 0 {
		t.Error("IDs of empty store: want none")
	}
	if len(store.Snapshot(epoch)) != 0 {
		t.Error("Snapshot of empty store: want no series")
	}
}

func TestPolicyValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		policy  Policy
		wantErr string
	}{
		{name: "count", policy: Count(100)},
		{name: "age", policy: Age(time.Second)},
		{name: "zero capacity", policy: Count(0), wantErr: "capacity must be positive"},
		{name: "negative age", policy: Age(-time.Second), wantErr: "max age must be positive"},
		{name: "no mode", policy: Policy{Mode: Mode(7)}, wantErr: "no mode"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := test.policy.Validate()
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("Validate: got %v, want error containing %q", err, test.wantErr)
			}
		})
	}
}

func TestPolicyWindow(t *testing.T) {
	t.Parallel()

	if got := Count(100).Window(); got != 100 {
		t.Errorf("Count(100).Window: got %v, want 100", got)
	}
	if got := Age(90 * time.Second).Window(); got != 90 {
		t.Errorf("Age(90s).Window: got %v, want 90", got)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []Mode{CountMode, AgeMode} {
		parsed, err := ParseMode(mode.String())
		if err != nil || parsed != mode {
			t.Errorf("ParseMode(%q): got (%v, %v)", mode.String(), parsed, err)
		}
	}
	if _, err := ParseMode("fifo"); err == nil {
		t.Error("ParseMode(fifo): want error")
	}
}
