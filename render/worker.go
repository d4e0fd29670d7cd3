// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/termplot/chart"
	"github.com/bureau-foundation/termplot/history"
	"github.com/bureau-foundation/termplot/lib/clock"
)

// DefaultFrameInterval is the minimum time between two frames.
const DefaultFrameInterval = 40 * time.Millisecond

// ErrWorkerStopped is returned by requests to a worker that has closed
// its mailbox or exited.
var ErrWorkerStopped = errors.New("render: worker stopped")

// Stats is a snapshot of the worker's counters.
type Stats struct {
	// Series is the number of registered series.
	Series int

	// Samples is the number of samples applied to the store.
	Samples uint64

	// Frames is the number of frames presented.
	Frames uint64

	// SkippedFrames counts samples that arrived inside the frame
	// interval and did not trigger a redraw.
	SkippedFrames uint64

	// LastFrame is when the last frame was presented; zero before the
	// first one.
	LastFrame time.Time
}

// Config holds the parameters for creating a [Worker]. All fields
// except FrameInterval are required.
type Config struct {
	// Store receives every sample. Its policy decides what each frame
	// shows.
	Store *history.Store

	// Composer lays out each frame.
	Composer *chart.Composer

	// Canvas is drawn on and presented by the composer.
	Canvas chart.Canvas

	// FrameInterval is the minimum time between frames. Zero selects
	// DefaultFrameInterval.
	FrameInterval time.Duration

	// Clock provides time for the frame throttle and age eviction.
	// Production callers pass clock.Real(); tests pass clock.Fake().
	Clock clock.Clock

	Logger *slog.Logger
}

// Worker owns all chart state. Create one with [NewWorker], start
// [Worker.Run] in a goroutine, and stop it by closing the mailbox
// ([Worker.Close]) or cancelling Run's context.
type Worker struct {
	mailbox *mailbox

	store         *history.Store
	composer      *chart.Composer
	canvas        chart.Canvas
	frameInterval time.Duration
	clock         clock.Clock
	logger        *slog.Logger

	// Fields below are owned by the Run goroutine.
	nextSeries   history.SeriesID
	nextDeadline time.Time
	stats        Stats

	done chan struct{}
}

// NewWorker validates config and returns a worker ready to Run.
func NewWorker(config Config) (*Worker, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("render worker: Store is required")
	}
	if config.Composer == nil {
		return nil, fmt.Errorf("render worker: Composer is required")
	}
	if config.Canvas == nil {
		return nil, fmt.Errorf("render worker: Canvas is required")
	}
	if config.Clock == nil {
		return nil, fmt.Errorf("render worker: Clock is required")
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("render worker: Logger is required")
	}
	if config.FrameInterval < 0 {
		return nil, fmt.Errorf("render worker: FrameInterval must not be negative, got %s", config.FrameInterval)
	}

	frameInterval := config.FrameInterval
	if frameInterval == 0 {
		frameInterval = DefaultFrameInterval
	}
	return &Worker{
		mailbox:       newMailbox(),
		store:         config.Store,
		composer:      config.Composer,
		canvas:        config.Canvas,
		frameInterval: frameInterval,
		clock:         config.Clock,
		logger:        config.Logger,
		nextSeries:    1,
		done:          make(chan struct{}),
	}, nil
}

// Run applies mailbox messages until the mailbox is closed and drained
// or ctx is cancelled. Neither ending draws a final frame. Returns a
// non-nil error only when presenting a frame fails.
//
// Must be called exactly once per worker.
func (w *Worker) Run(ctx context.Context) error {
	defer close(w.done)

	for {
		batch, closed := w.mailbox.take()
		for _, msg := range batch {
			if err := w.apply(msg); err != nil {
				return err
			}
		}
		if closed {
			w.logger.Debug("render worker stopping", "frames", w.stats.Frames, "samples", w.stats.Samples)
			return nil
		}

		select {
		case <-w.mailbox.ready():
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Worker) apply(msg message) error {
	switch msg := msg.(type) {
	case sampleMessage:
		now := w.clock.Now()
		w.store.Append(msg.series, msg.value, now)
		w.stats.Samples++
		return w.maybeDraw(now)

	case spawnMessage:
		id := w.nextSeries
		w.nextSeries++
		w.stats.Series++
		w.logger.Debug("series registered", "series", id)
		msg.reply <- id

	case statusMessage:
		msg.reply <- w.stats
	}
	return nil
}

// maybeDraw presents a frame if the deadline has passed, and pushes
// the deadline one interval past now.
func (w *Worker) maybeDraw(now time.Time) error {
	if now.Before(w.nextDeadline) {
		w.stats.SkippedFrames++
		return nil
	}

	w.store.Settle(now)
	if err := w.composer.Draw(w.canvas, w.store.Snapshot(now)); err != nil {
		return fmt.Errorf("drawing frame: %w", err)
	}
	w.stats.Frames++
	w.stats.LastFrame = now
	w.nextDeadline = now.Add(w.frameInterval)
	return nil
}

// Post enqueues a sample for series. It never blocks. Returns
// ErrWorkerStopped after Close.
func (w *Worker) Post(series history.SeriesID, value float64) error {
	if !w.mailbox.post(sampleMessage{series: series, value: value}) {
		return ErrWorkerStopped
	}
	return nil
}

// Spawn registers a new series and returns its id. Ids start at 1 and
// are never reused.
func (w *Worker) Spawn(ctx context.Context) (history.SeriesID, error) {
	reply := make(chan history.SeriesID, 1)
	if !w.mailbox.post(spawnMessage{reply: reply}) {
		return 0, ErrWorkerStopped
	}
	select {
	case id := <-reply:
		return id, nil
	case <-w.done:
		// The reply may have been sent just before Run returned.
		select {
		case id := <-reply:
			return id, nil
		default:
			return 0, ErrWorkerStopped
		}
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Status returns the worker's counters as of the moment the request
// reaches the front of the mailbox.
func (w *Worker) Status(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if !w.mailbox.post(statusMessage{reply: reply}) {
		return Stats{}, ErrWorkerStopped
	}
	select {
	case stats := <-reply:
		return stats, nil
	case <-w.done:
		select {
		case stats := <-reply:
			return stats, nil
		default:
			return Stats{}, ErrWorkerStopped
		}
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Close stops the mailbox accepting messages. Run applies what was
// already posted and then returns.
func (w *Worker) Close() {
	w.mailbox.close()
}

// Done is closed after Run has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}
