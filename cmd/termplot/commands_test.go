// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/termplot/cmd/termplot/cli"
	"github.com/bureau-foundation/termplot/history"
	"github.com/bureau-foundation/termplot/lib/config"
	"github.com/bureau-foundation/termplot/render"
	"github.com/bureau-foundation/termplot/status"
)

func TestRootCommands(t *testing.T) {
	t.Parallel()

	var names []string
	for _, command := range root().Subcommands {
		names = append(names, command.Name)
	}
	if got := strings.Join(names, " "); got != "serve status config version" {
		t.Errorf("subcommands: got %q", got)
	}
}

func TestServeFlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	var params serveParams
	flagSet := cli.FlagsFromParams("serve", &params)
	err := flagSet.Parse([]string{
		"--renderer", "bar",
		"--max", "10",
		"--concurrent",
		"--history-mode", "age",
		"--max-age", "30s",
		"--log-level", "debug",
		"--status", "127.0.0.1:0",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := config.Default()
	params.apply(flagSet, cfg)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if kind, _ := cfg.Kind(); kind != render.KindBar {
		t.Errorf("renderer: got %v", kind)
	}
	if cfg.Chart.Max != 10 || cfg.Chart.Min != 0 {
		t.Errorf("range: got %+v", cfg.Range())
	}
	if !cfg.Listen.Concurrent {
		t.Error("concurrent not applied")
	}
	if policy, _ := cfg.Policy(); policy != history.Age(30*time.Second) {
		t.Errorf("policy: got %+v", policy)
	}
	if level, _ := cfg.LogLevel(); level != slog.LevelDebug {
		t.Errorf("log level: got %v", level)
	}
	if cfg.Status.Address != "127.0.0.1:0" {
		t.Errorf("status: got %q", cfg.Status.Address)
	}

	// Flags left unset keep the configured values, even where the flag's
	// zero value differs.
	defaults := config.Default()
	if cfg.Chart.Height != defaults.Chart.Height || cfg.Listen.Address != defaults.Listen.Address ||
		cfg.Render.FrameInterval != defaults.Render.FrameInterval {
		t.Errorf("unset flags changed the configuration: %+v", cfg)
	}
}

func TestGridSize(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Chart.Width, cfg.Chart.Height = 60, 20
	if width, height := gridSize(cfg, -1); width != 60 || height != 20 {
		t.Errorf("explicit size: got %dx%d", width, height)
	}

	cfg.Chart.Width, cfg.Chart.Height = 0, 0
	if width, height := gridSize(cfg, -1); width != fallbackWidth || height != fallbackHeight-1 {
		t.Errorf("fallback size: got %dx%d", width, height)
	}

	cfg.Chart.Legend = true
	cfg.Chart.Width = 50
	if width, height := gridSize(cfg, -1); width != 50 || height != fallbackHeight-2 {
		t.Errorf("fallback size with legend: got %dx%d", width, height)
	}
}

func TestWriteStatus(t *testing.T) {
	t.Parallel()

	lastFrame := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	result := newStatusResult(status.Report{
		Version:       "0.1.0",
		Renderer:      "chart",
		Listen:        "127.0.0.1:9999",
		UptimeSeconds: 90.4,
		Ingest:        status.IngestReport{Accepted: 3, Active: 1, Lines: 10, Samples: 9, DroppedLines: 1},
		Render:        &status.RenderReport{Series: 3, Samples: 9, Frames: 4, SkippedFrames: 5, LastFrame: lastFrame},
	})

	var output bytes.Buffer
	if err := writeStatus(&output, result); err != nil {
		t.Fatalf("writeStatus: %v", err)
	}
	for _, want := range []string{
		"renderer:        chart",
		"uptime:          1m30s",
		"connections:     1 active, 3 accepted",
		"lines:           10 (9 samples, 1 dropped)",
		"framing errors:  0",
		"frames:          4 drawn, 5 skipped",
		"last frame:      2026-03-04T05:06:07Z",
	} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("output missing %q:\n%s", want, output.String())
		}
	}

	result = newStatusResult(status.Report{Renderer: "bar"})
	output.Reset()
	writeStatus(&output, result)
	if strings.Contains(output.String(), "frames:") {
		t.Errorf("bar report printed render stats:\n%s", output.String())
	}
}

func TestStatusCommandErrors(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")

	err := root().Execute(context.Background(), []string{"status"})
	var toolError *cli.ToolError
	if !errors.As(err, &toolError) || toolError.Category != cli.CategoryValidation {
		t.Errorf("no address: got %v, want validation error", err)
	}

	err = root().Execute(context.Background(), []string{"status", "--address", "unix:" + t.TempDir() + "/absent.sock"})
	if !errors.As(err, &toolError) || toolError.Category != cli.CategoryTransient || toolError.StatusCode() != 3 {
		t.Errorf("unreachable: got %v, want transient error with exit code 3", err)
	}
	if !strings.Contains(err.Error(), "absent.sock") {
		t.Errorf("unreachable error does not name the address: %v", err)
	}
}
