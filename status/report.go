// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"time"

	"github.com/bureau-foundation/termplot/ingest"
	"github.com/bureau-foundation/termplot/render"
)

// Report is the status document.
type Report struct {
	// Version is the build version of the serving process.
	Version string `cbor:"version"`

	// Renderer is "chart" or "bar".
	Renderer string `cbor:"renderer"`

	// Listen is the ingest address.
	Listen string `cbor:"listen"`

	// UptimeSeconds is the time since the process started serving.
	UptimeSeconds float64 `cbor:"uptime_seconds"`

	Ingest IngestReport `cbor:"ingest"`

	// Render is absent for the bar renderer, which keeps no state.
	Render *RenderReport `cbor:"render,omitempty"`
}

// IngestReport carries the ingest server's counters.
type IngestReport struct {
	Accepted      uint64 `cbor:"accepted"`
	Active        int64  `cbor:"active"`
	Lines         uint64 `cbor:"lines"`
	Samples       uint64 `cbor:"samples"`
	DroppedLines  uint64 `cbor:"dropped_lines"`
	FramingErrors uint64 `cbor:"framing_errors"`
}

// RenderReport carries the render worker's counters.
type RenderReport struct {
	Series        int       `cbor:"series"`
	Samples       uint64    `cbor:"samples"`
	Frames        uint64    `cbor:"frames"`
	SkippedFrames uint64    `cbor:"skipped_frames"`
	LastFrame     time.Time `cbor:"last_frame"`
}

// FromIngest converts ingest counters.
func FromIngest(stats ingest.Stats) IngestReport {
	return IngestReport{
		Accepted:      stats.Accepted,
		Active:        stats.Active,
		Lines:         stats.Lines,
		Samples:       stats.Samples,
		DroppedLines:  stats.DroppedLines,
		FramingErrors: stats.FramingErrors,
	}
}

// FromRender converts render worker counters.
func FromRender(stats render.Stats) *RenderReport {
	return &RenderReport{
		Series:        stats.Series,
		Samples:       stats.Samples,
		Frames:        stats.Frames,
		SkippedFrames: stats.SkippedFrames,
		LastFrame:     stats.LastFrame,
	}
}
