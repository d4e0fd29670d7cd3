// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// SeriesID identifies one plotted series. IDs are allocated by the
// render worker starting at 1 and are never reused.
type SeriesID uint64

// Mode selects the eviction rule of a [Policy].
type Mode uint8

const (
	// CountMode bounds each series to Policy.Capacity samples.
	CountMode Mode = iota
	// AgeMode bounds each series to samples younger than Policy.MaxAge.
	AgeMode
)

// String returns the configuration spelling of the mode.
func (m Mode) String() string {
	switch m {
	case CountMode:
		return "count"
	case AgeMode:
		return "age"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode parses the configuration spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "count":
		return CountMode, nil
	case "age":
		return AgeMode, nil
	default:
		return 0, fmt.Errorf("unknown history mode %q (want count or age)", s)
	}
}

// Policy is the eviction rule shared by every series in a [Store].
type Policy struct {
	Mode Mode

	// Capacity is the per-series sample limit in CountMode.
	Capacity int

	// MaxAge is the retention window in AgeMode.
	MaxAge time.Duration
}

// Count returns a policy keeping the latest capacity samples.
func Count(capacity int) Policy {
	return Policy{Mode: CountMode, Capacity: capacity}
}

// Age returns a policy keeping samples no older than maxAge.
func Age(maxAge time.Duration) Policy {
	return Policy{Mode: AgeMode, MaxAge: maxAge}
}

// Validate reports whether the policy can bound a history.
func (p Policy) Validate() error {
	switch p.Mode {
	case CountMode:
		if p.Capacity <= 0 {
			return fmt.Errorf("history capacity must be positive, got %d", p.Capacity)
		}
	case AgeMode:
		if p.MaxAge <= 0 {
			return fmt.Errorf("history max age must be positive, got %s", p.MaxAge)
		}
	default:
		return errors.New("history policy has no mode")
	}
	return nil
}

// Window returns the length of the x domain a snapshot spans: the
// capacity in samples for CountMode, the max age in seconds for
// AgeMode. Snapshot offsets fall within [-Window, 0].
func (p Policy) Window() float64 {
	if p.Mode == AgeMode {
		return p.MaxAge.Seconds()
	}
	return float64(p.Capacity)
}

// Point is one snapshot sample: X is the offset from now (<= 0), Y the
// value.
type Point struct {
	X, Y float64
}

// Series is the snapshot of one history, oldest point first.
type Series struct {
	ID     SeriesID
	Points []Point
}

// History is the bounded record of one series.
type History struct {
	samples ring
	// appended counts every sample ever appended, evicted or not. It is
	// the next sample's ordinal.
	appended uint64
}

// Len returns the number of retained samples.
func (h *History) Len() int {
	return h.samples.len()
}

func (h *History) append(value float64, at time.Time, policy Policy) {
	h.samples.push(record{ordinal: h.appended, at: at, value: value})
	h.appended++

	switch policy.Mode {
	case CountMode:
		for h.samples.len() > policy.Capacity {
			h.samples.popFront()
		}
	case AgeMode:
		h.evictOlder(at, policy.MaxAge)
	}
}

// evictOlder drops leading samples older than maxAge at now. Samples
// arrive in time order, so the scan stops at the first survivor.
func (h *History) evictOlder(now time.Time, maxAge time.Duration) {
	for h.samples.len() > 0 && now.Sub(h.samples.front().at) > maxAge {
		h.samples.popFront()
	}
}

func (h *History) points(now time.Time, mode Mode) []Point {
	points := make([]Point, h.samples.len())
	newest := float64(h.appended - 1)
	for i := range points {
		rec := h.samples.at(i)
		x := float64(rec.ordinal) - newest
		if mode == AgeMode {
			x = -now.Sub(rec.at).Seconds()
		}
		points[i] = Point{X: x, Y: rec.value}
	}
	return points
}

// Store is the registry of all series histories.
type Store struct {
	policy  Policy
	series  map[SeriesID]*History
	ordered []SeriesID
}

// NewStore returns an empty store. Panics if the policy is invalid;
// callers validate configuration before building the render pipeline.
func NewStore(policy Policy) *Store {
	if err := policy.Validate(); err != nil {
		panic("history: " + err.Error())
	}
	return &Store{
		policy: policy,
		series: make(map[SeriesID]*History),
	}
}

// Policy returns the store's eviction policy.
func (s *Store) Policy() Policy {
	return s.policy
}

// Window returns the x domain length of the store's policy.
func (s *Store) Window() float64 {
	return s.policy.Window()
}

// Append records value for series id at time at, creating the series
// on its first sample, and runs eviction on that series.
func (s *Store) Append(id SeriesID, value float64, at time.Time) {
	history, ok := s.series[id]
	if !ok {
		history = &History{}
		s.series[id] = history
		position, _ := slices.BinarySearch(s.ordered, id)
		s.ordered = slices.Insert(s.ordered, position, id)
	}
	history.append(value, at, s.policy)
}

// Settle runs age eviction at now across every series. A no-op in
// CountMode, where nothing expires without a new append.
func (s *Store) Settle(now time.Time) {
	if s.policy.Mode != AgeMode {
		return
	}
	for _, history := range s.series {
		history.evictOlder(now, s.policy.MaxAge)
	}
}

// Len returns the number of retained samples for id.
func (s *Store) Len(id SeriesID) int {
	if history, ok := s.series[id]; ok {
		return history.Len()
	}
	return 0
}

// IDs returns every known series in draw order. Draw order is
// registration order, which is ascending id order.
func (s *Store) IDs() []SeriesID {
	return slices.Clone(s.ordered)
}

// Snapshot returns every series in draw order with offsets computed at
// now. Series with no retained samples are included with no points.
func (s *Store) Snapshot(now time.Time) []Series {
	snapshot := make([]Series, 0, len(s.ordered))
	for _, id := range s.ordered {
		snapshot = append(snapshot, Series{
			ID:     id,
			Points: s.series[id].points(now, s.policy.Mode),
		})
	}
	return snapshot
}
