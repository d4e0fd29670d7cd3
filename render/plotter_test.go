// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bureau-foundation/termplot/chart"
	"github.com/bureau-foundation/termplot/history"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{KindChart, KindBar} {
		parsed, err := ParseKind(kind.String())
		if err != nil || parsed != kind {
			t.Errorf("ParseKind(%q): got (%v, %v)", kind.String(), parsed, err)
		}
	}
	if _, err := ParseKind("pie"); err == nil {
		t.Error("ParseKind(pie): want error")
	}
}

func TestChartPlotterHandles(t *testing.T) {
	t.Parallel()
	h := startWorker(t, history.Count(10), 12, 8)
	plotter := NewChartPlotter(h.worker)

	if plotter.Kind() != KindChart {
		t.Fatalf("Kind: got %v, want chart", plotter.Kind())
	}
	first, err := plotter.Spawn(context.Background())
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	second, err := plotter.Spawn(context.Background())
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if first.ID() != 1 || second.ID() != 2 {
		t.Fatalf("ids: got %d and %d, want 1 and 2", first.ID(), second.ID())
	}

	first.Update(3)
	second.Update(4)
	second.Update(5)
	if err := h.stop(t); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.store.Len(1) != 1 || h.store.Len(2) != 2 {
		t.Errorf("Len: got %d and %d, want 1 and 2", h.store.Len(1), h.store.Len(2))
	}

	if err := first.Update(6); !errors.Is(err, ErrWorkerStopped) {
		t.Errorf("Update after stop: got %v, want ErrWorkerStopped", err)
	}
	if _, err := plotter.Spawn(context.Background()); !errors.Is(err, ErrWorkerStopped) {
		t.Errorf("Spawn after stop: got %v, want ErrWorkerStopped", err)
	}
}

func TestBarPlotterIDs(t *testing.T) {
	t.Parallel()
	plotter := NewBarPlotter(NewBar(&bytes.Buffer{}, chart.Range{Min: 0, Max: 1}, 1))

	if plotter.Kind() != KindBar {
		t.Fatalf("Kind: got %v, want bar", plotter.Kind())
	}
	for want := history.SeriesID(1); want <= 3; want++ {
		handle, err := plotter.Spawn(context.Background())
		if err != nil {
			t.Fatalf("Spawn: %v", err)
		}
		if handle.ID() != want {
			t.Errorf("ID: got %d, want %d", handle.ID(), want)
		}
	}
}
