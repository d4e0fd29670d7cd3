// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/termplot/cmd/termplot/cli"
	"github.com/bureau-foundation/termplot/status"
)

// statusResult is the --json form of a status report.
type statusResult struct {
	Version       string        `json:"version"`
	Renderer      string        `json:"renderer"`
	Listen        string        `json:"listen"`
	UptimeSeconds float64       `json:"uptime_seconds"`
	Ingest        ingestResult  `json:"ingest"`
	Render        *renderResult `json:"render,omitempty"`
}

type ingestResult struct {
	Accepted      uint64 `json:"accepted"`
	Active        int64  `json:"active"`
	Lines         uint64 `json:"lines"`
	Samples       uint64 `json:"samples"`
	DroppedLines  uint64 `json:"dropped_lines"`
	FramingErrors uint64 `json:"framing_errors"`
}

type renderResult struct {
	Series        int        `json:"series"`
	Samples       uint64     `json:"samples"`
	Frames        uint64     `json:"frames"`
	SkippedFrames uint64     `json:"skipped_frames"`
	LastFrame     *time.Time `json:"last_frame,omitempty"`
}

func newStatusResult(report status.Report) statusResult {
	result := statusResult{
		Version:       report.Version,
		Renderer:      report.Renderer,
		Listen:        report.Listen,
		UptimeSeconds: report.UptimeSeconds,
		Ingest:        ingestResult(report.Ingest),
	}
	if render := report.Render; render != nil {
		result.Render = &renderResult{
			Series:        render.Series,
			Samples:       render.Samples,
			Frames:        render.Frames,
			SkippedFrames: render.SkippedFrames,
		}
		if !render.LastFrame.IsZero() {
			lastFrame := render.LastFrame
			result.Render.LastFrame = &lastFrame
		}
	}
	return result
}

type statusParams struct {
	cli.JSONOutput
	Address string        `flag:"address,a" desc:"status socket of the running server, unix:/path or host:port (default from the configuration file)"`
	Config  string        `flag:"config,c" desc:"configuration file to read the status address from (default $TERMPLOT_CONFIG)"`
	Timeout time.Duration `flag:"timeout" desc:"how long to wait for the report" default:"5s"`
	Watch   time.Duration `flag:"watch,w" desc:"refresh a full-screen view at this interval instead of printing once"`
}

func statusCommand() *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Show a running server's ingest and render counters",
		Description: `Connect to the status socket of a running "termplot serve" and print
its counters: connections, lines, dropped lines, framing errors, and
for the chart renderer the series count and frame statistics.

With --watch, the report refreshes in a full-screen view until "q" is
pressed; "r" refreshes immediately.

Exits with code 3 when no server answers.`,
		Usage: "termplot status [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("status", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Query the socket named in the configuration file",
				Command:     "termplot status --config termplot.yaml",
			},
			{
				Description: "Watch the counters, refreshing every second",
				Command:     "termplot status --address unix:/tmp/termplot.sock --watch 1s",
			},
			{
				Description: "JSON output for scripting",
				Command:     "termplot status --address 127.0.0.1:9998 --json",
			},
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("status takes no arguments, got %q", args)
			}

			address := params.Address
			if address == "" {
				cfg, err := loadConfig(params.Config)
				if err != nil {
					return err
				}
				address = cfg.Status.Address
			}
			if address == "" {
				return cli.Validation("no status address: pass --address or set status.address in the configuration file")
			}
			if _, _, err := status.ParseAddress(address); err != nil {
				return cli.Validation("%w", err)
			}

			if params.Watch < 0 {
				return cli.Validation("--watch must not be negative, got %s", params.Watch)
			}
			if params.Watch > 0 {
				if params.OutputJSON {
					return cli.Validation("--watch and --json cannot be combined")
				}
				return runWatch(ctx, address, params.Watch, params.Timeout)
			}

			ctx, cancel := context.WithTimeout(ctx, params.Timeout)
			defer cancel()
			report, err := status.Fetch(ctx, address)
			if err != nil {
				return cli.Transient("termplot is not answering on %s: %w", address, err)
			}

			result := newStatusResult(report)
			if done, err := params.EmitJSON(result); done {
				return err
			}
			return writeStatus(os.Stdout, result)
		},
	}
}

// writeStatus prints the human-readable form of a report.
func writeStatus(w io.Writer, result statusResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "version:\t%s\n", result.Version)
	fmt.Fprintf(tw, "renderer:\t%s\n", result.Renderer)
	fmt.Fprintf(tw, "listen:\t%s\n", result.Listen)
	fmt.Fprintf(tw, "uptime:\t%s\n", time.Duration(result.UptimeSeconds*float64(time.Second)).Round(time.Second))
	fmt.Fprintf(tw, "connections:\t%d active, %d accepted\n", result.Ingest.Active, result.Ingest.Accepted)
	fmt.Fprintf(tw, "lines:\t%d (%d samples, %d dropped)\n", result.Ingest.Lines, result.Ingest.Samples, result.Ingest.DroppedLines)
	fmt.Fprintf(tw, "framing errors:\t%d\n", result.Ingest.FramingErrors)
	if render := result.Render; render != nil {
		fmt.Fprintf(tw, "series:\t%d\n", render.Series)
		fmt.Fprintf(tw, "frames:\t%d drawn, %d skipped\n", render.Frames, render.SkippedFrames)
		if render.LastFrame != nil {
			fmt.Fprintf(tw, "last frame:\t%s\n", render.LastFrame.Format(time.RFC3339))
		}
	}
	return tw.Flush()
}
