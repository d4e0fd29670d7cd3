// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/termplot/chart"
	"github.com/bureau-foundation/termplot/cmd/termplot/cli"
	"github.com/bureau-foundation/termplot/lib/clock"
	"github.com/bureau-foundation/termplot/lib/config"
)

// serveParams mirrors the configuration file. A flag overrides the file
// only when it is given on the command line.
type serveParams struct {
	ConfigPath string `flag:"config,c" desc:"configuration file (default $TERMPLOT_CONFIG)"`

	Listen        string        `flag:"listen,l" desc:"ingest TCP address"`
	MaxLineLength int           `flag:"max-line-length" desc:"longest accepted line in bytes"`
	Concurrent    bool          `flag:"concurrent" desc:"serve producers in parallel instead of one at a time"`
	StatsInterval time.Duration `flag:"stats-interval" desc:"period of the ingest stats log line; 0 disables it"`

	Renderer    string  `flag:"renderer,r" desc:"chart or bar"`
	Min         float64 `flag:"min" desc:"bottom of the y axis"`
	Max         float64 `flag:"max" desc:"top of the y axis"`
	Width       int     `flag:"width" desc:"grid width in cells; 0 uses the terminal width"`
	Height      int     `flag:"height" desc:"grid height in cells; 0 uses the terminal height"`
	Caption     string  `flag:"caption" desc:"text above the plot"`
	Legend      bool    `flag:"legend" desc:"print a series legend under each frame"`
	BarCapacity int     `flag:"bar-capacity" desc:"bar length in cells for the bar renderer"`

	HistoryMode string        `flag:"history-mode" desc:"count or age"`
	Capacity    int           `flag:"capacity" desc:"samples kept per series in count mode"`
	MaxAge      time.Duration `flag:"max-age" desc:"retention window in age mode"`

	FrameInterval time.Duration `flag:"frame-interval" desc:"minimum time between frames"`

	Status   string     `flag:"status" desc:"status socket, unix:/path or host:port"`
	LogLevel slog.Level `flag:"log-level" desc:"debug, info, warn, or error"`
}

// apply copies every flag given on the command line into cfg.
func (p *serveParams) apply(flagSet *pflag.FlagSet, cfg *config.Config) {
	overrides := map[string]func(){
		"listen":          func() { cfg.Listen.Address = p.Listen },
		"max-line-length": func() { cfg.Listen.MaxLineLength = p.MaxLineLength },
		"concurrent":      func() { cfg.Listen.Concurrent = p.Concurrent },
		"stats-interval":  func() { cfg.Listen.StatsInterval.Duration = p.StatsInterval },
		"renderer":        func() { cfg.Chart.Renderer = p.Renderer },
		"min":             func() { cfg.Chart.Min = p.Min },
		"max":             func() { cfg.Chart.Max = p.Max },
		"width":           func() { cfg.Chart.Width = p.Width },
		"height":          func() { cfg.Chart.Height = p.Height },
		"caption":         func() { cfg.Chart.Caption = p.Caption },
		"legend":          func() { cfg.Chart.Legend = p.Legend },
		"bar-capacity":    func() { cfg.Chart.BarCapacity = p.BarCapacity },
		"history-mode":    func() { cfg.History.Mode = p.HistoryMode },
		"capacity":        func() { cfg.History.Capacity = p.Capacity },
		"max-age":         func() { cfg.History.MaxAge.Duration = p.MaxAge },
		"frame-interval":  func() { cfg.Render.FrameInterval.Duration = p.FrameInterval },
		"status":          func() { cfg.Status.Address = p.Status },
		"log-level":       func() { cfg.Log.Level = p.LogLevel.String() },
	}
	flagSet.Visit(func(f *pflag.Flag) {
		if override, ok := overrides[f.Name]; ok {
			override()
		}
	})
}

func serveCommand() *cli.Command {
	var params serveParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "serve",
		Summary: "Accept numeric streams over TCP and draw them",
		Description: `Listen for TCP producers and draw every stream on stdout.

Each connection becomes a series with its own id. Every line is parsed
as a number; lines that do not parse are dropped and counted. The chart
renderer plots each series as a polyline over a fixed y range; the bar
renderer prints one bar line per sample.

Logs go to stderr. The process runs until interrupted.`,
		Usage: "termplot serve [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("serve", &params)
			return flagSet
		},
		Examples: []cli.Example{
			{
				Description: "Chart the last 200 samples of each producer on 0..1",
				Command:     "termplot serve --min 0 --max 1 --capacity 200",
			},
			{
				Description: "Chart the last 30 seconds from many producers at once",
				Command:     "termplot serve --concurrent --history-mode age --max-age 30s --legend",
			},
			{
				Description: "Draw bars and expose counters on a Unix socket",
				Command:     "termplot serve --renderer bar --status unix:/tmp/termplot.sock",
			},
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("serve takes no arguments, got %q", args)
			}

			cfg, err := config.Load(params.ConfigPath)
			if err != nil {
				return cli.Validation("%w", err)
			}
			params.apply(flagSet, cfg)
			if err := cfg.Validate(); err != nil {
				return cli.Validation("invalid configuration:\n%w", err)
			}
			level, _ := cfg.LogLevel()
			logger := cli.NewCommandLogger(level).With("command", "serve")

			width, height := gridSize(cfg, int(os.Stdout.Fd()))
			output := bufio.NewWriter(os.Stdout)

			d, err := newDaemon(daemonConfig{
				Config: cfg,
				Width:  width,
				Height: height,
				Output: output,
				Clock:  clock.Real(),
				Logger: logger,
			})
			if errors.Is(err, chart.ErrGridTooSmall) {
				return cli.Validation("%w (set chart.width and chart.height, or enlarge the terminal)", err)
			}
			if err != nil {
				return err
			}
			return d.run(ctx)
		},
	}
}
