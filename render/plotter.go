// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/termplot/history"
)

// Kind selects the renderer variant.
type Kind uint8

const (
	// KindChart draws every series on one live chart.
	KindChart Kind = iota
	// KindBar prints one bar line per sample.
	KindBar
)

// String returns the configuration spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindChart:
		return "chart"
	case KindBar:
		return "bar"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind parses the configuration spelling of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "chart":
		return KindChart, nil
	case "bar":
		return KindBar, nil
	default:
		return 0, fmt.Errorf("unknown renderer %q (want chart or bar)", s)
	}
}

// Plotter hands out one [Handle] per producer.
type Plotter struct {
	kind   Kind
	worker *Worker
	bar    *Bar
}

// NewChartPlotter returns a plotter whose handles feed worker. The
// caller runs the worker.
func NewChartPlotter(worker *Worker) *Plotter {
	return &Plotter{kind: KindChart, worker: worker}
}

// NewBarPlotter returns a plotter whose handles print through bar.
func NewBarPlotter(bar *Bar) *Plotter {
	return &Plotter{kind: KindBar, bar: bar}
}

// Kind returns the plotter's variant.
func (p *Plotter) Kind() Kind {
	return p.kind
}

// Spawn creates the handle for one new producer. For KindChart it
// blocks until the worker has assigned a series id.
func (p *Plotter) Spawn(ctx context.Context) (*Handle, error) {
	switch p.kind {
	case KindChart:
		id, err := p.worker.Spawn(ctx)
		if err != nil {
			return nil, err
		}
		return &Handle{kind: KindChart, id: id, worker: p.worker}, nil
	case KindBar:
		return &Handle{kind: KindBar, id: p.bar.spawn(), bar: p.bar}, nil
	default:
		return nil, fmt.Errorf("render: unknown plotter kind %v", p.kind)
	}
}

// Handle is one producer's connection to the renderer.
type Handle struct {
	kind   Kind
	id     history.SeriesID
	worker *Worker
	bar    *Bar
}

// ID returns the handle's series id.
func (h *Handle) ID() history.SeriesID {
	return h.id
}

// Update submits one sample. For KindChart it only enqueues and
// returns ErrWorkerStopped once the worker is closed; for KindBar it
// writes the line before returning.
func (h *Handle) Update(value float64) error {
	switch h.kind {
	case KindChart:
		return h.worker.Post(h.id, value)
	case KindBar:
		return h.bar.write(value)
	default:
		return fmt.Errorf("render: unknown handle kind %v", h.kind)
	}
}
