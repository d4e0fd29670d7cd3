// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/bureau-foundation/termplot/chart"
	"github.com/bureau-foundation/termplot/history"
	"github.com/bureau-foundation/termplot/ingest"
	"github.com/bureau-foundation/termplot/lib/clock"
	"github.com/bureau-foundation/termplot/lib/config"
	"github.com/bureau-foundation/termplot/lib/version"
	"github.com/bureau-foundation/termplot/raster"
	"github.com/bureau-foundation/termplot/render"
	"github.com/bureau-foundation/termplot/status"
)

// daemonConfig holds everything newDaemon assembles from. Config must
// already be validated.
type daemonConfig struct {
	Config *config.Config

	// Width and Height are the resolved grid size.
	Width  int
	Height int

	// Output receives frames or bar lines.
	Output io.Writer

	Clock  clock.Clock
	Logger *slog.Logger
}

// daemon is one running termplot server: the ingest listener, the
// render worker for the chart renderer, and the optional status
// socket.
type daemon struct {
	kind   render.Kind
	ingest *ingest.Server
	worker *render.Worker
	status *status.Server

	clock     clock.Clock
	logger    *slog.Logger
	startedAt time.Time
}

// newDaemon builds the renderer and binds both listeners. Nothing runs
// until run is called.
func newDaemon(dc daemonConfig) (*daemon, error) {
	cfg := dc.Config
	kind, err := cfg.Kind()
	if err != nil {
		return nil, err
	}

	d := &daemon{
		kind:      kind,
		clock:     dc.Clock,
		logger:    dc.Logger,
		startedAt: dc.Clock.Now(),
	}

	var plotter *render.Plotter
	switch kind {
	case render.KindChart:
		policy, err := cfg.Policy()
		if err != nil {
			return nil, err
		}
		store := history.NewStore(policy)
		composer := &chart.Composer{
			Range:    cfg.Range(),
			Window:   store.Window(),
			Caption:  cfg.Chart.Caption,
			Legend:   cfg.Chart.Legend,
			Terminal: dc.Output,
		}
		if err := composer.CheckSize(dc.Width, dc.Height); err != nil {
			return nil, err
		}
		d.worker, err = render.NewWorker(render.Config{
			Store:         store,
			Composer:      composer,
			Canvas:        raster.NewGrid(dc.Width, dc.Height, dc.Output),
			FrameInterval: cfg.Render.FrameInterval.Duration,
			Clock:         dc.Clock,
			Logger:        dc.Logger.With("component", "render"),
		})
		if err != nil {
			return nil, err
		}
		plotter = render.NewChartPlotter(d.worker)
	case render.KindBar:
		plotter = render.NewBarPlotter(render.NewBar(dc.Output, cfg.Range(), cfg.Chart.BarCapacity))
	default:
		return nil, fmt.Errorf("unsupported renderer %v", kind)
	}

	d.ingest, err = ingest.Listen(ingest.Config{
		Address:       cfg.Listen.Address,
		MaxLineLength: cfg.Listen.MaxLineLength,
		Concurrent:    cfg.Listen.Concurrent,
		Plotter:       plotter,
		StatsInterval: cfg.Listen.StatsInterval.Duration,
		Clock:         dc.Clock,
		Logger:        dc.Logger.With("component", "ingest"),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Status.Address != "" {
		d.status, err = status.Listen(cfg.Status.Address, d.report, dc.Logger.With("component", "status"))
		if err != nil {
			d.ingest.Close()
			return nil, err
		}
	}
	return d, nil
}

// run serves until ctx is cancelled or a component fails. The ingest
// server stops first so no sample arrives after the worker's mailbox
// closes.
func (d *daemon) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerDone := make(chan error, 1)
	if d.worker != nil {
		go func() {
			err := d.worker.Run(ctx)
			if err != nil {
				cancel()
			}
			workerDone <- err
		}()
	} else {
		workerDone <- nil
	}

	statusDone := make(chan error, 1)
	if d.status != nil {
		go func() {
			err := d.status.Serve(ctx)
			if err != nil {
				cancel()
			}
			statusDone <- err
		}()
	} else {
		statusDone <- nil
	}

	d.logger.Info("termplot serving",
		"version", version.Short(),
		"renderer", d.kind.String(),
		"listen", d.ingest.Address(),
	)

	ingestErr := d.ingest.Serve(ctx)
	cancel()
	if d.worker != nil {
		d.worker.Close()
	}
	workerErr := <-workerDone
	statusErr := <-statusDone

	stats := d.ingest.Stats()
	d.logger.Info("termplot stopped",
		"accepted", stats.Accepted,
		"samples", stats.Samples,
		"dropped_lines", stats.DroppedLines,
	)

	return errors.Join(ingestErr, workerErr, statusErr)
}

// report builds the status document from live counters.
func (d *daemon) report(ctx context.Context) (status.Report, error) {
	report := status.Report{
		Version:       version.Short(),
		Renderer:      d.kind.String(),
		Listen:        d.ingest.Address(),
		UptimeSeconds: d.clock.Now().Sub(d.startedAt).Seconds(),
		Ingest:        status.FromIngest(d.ingest.Stats()),
	}
	if d.worker != nil {
		stats, err := d.worker.Status(ctx)
		if err != nil {
			return status.Report{}, fmt.Errorf("querying render worker: %w", err)
		}
		report.Render = status.FromRender(stats)
	}
	return report, nil
}
