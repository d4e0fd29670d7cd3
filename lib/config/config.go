// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/termplot/chart"
	"github.com/bureau-foundation/termplot/history"
	"github.com/bureau-foundation/termplot/ingest"
	"github.com/bureau-foundation/termplot/render"
	"github.com/bureau-foundation/termplot/status"
)

// EnvironmentVariable names the config file when --config is not given.
const EnvironmentVariable = "TERMPLOT_CONFIG"

// Config is the complete termplot configuration.
type Config struct {
	Listen  ListenConfig  `yaml:"listen"`
	Chart   ChartConfig   `yaml:"chart"`
	History HistoryConfig `yaml:"history"`
	Render  RenderConfig  `yaml:"render"`
	Status  StatusConfig  `yaml:"status"`
	Log     LogConfig     `yaml:"log"`
}

// ListenConfig configures the ingest listener.
type ListenConfig struct {
	// Address is the TCP listen address.
	Address string `yaml:"address"`

	// MaxLineLength bounds each input line in bytes.
	MaxLineLength int `yaml:"max_line_length"`

	// Concurrent serves producers in parallel; otherwise one at a time.
	Concurrent bool `yaml:"concurrent"`

	// StatsInterval is the period of the ingest stats log line; zero
	// disables it.
	StatsInterval Duration `yaml:"stats_interval"`
}

// ChartConfig configures what is drawn.
type ChartConfig struct {
	// Renderer is "chart" or "bar".
	Renderer string `yaml:"renderer"`

	// Min and Max are the fixed y range.
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`

	// Width and Height are the grid size in cells. Zero takes the
	// terminal's size.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Caption is printed above the plot.
	Caption string `yaml:"caption"`

	// Legend prints a series legend under each frame.
	Legend bool `yaml:"legend"`

	// BarCapacity is the bar length in cells for the bar renderer.
	BarCapacity int `yaml:"bar_capacity"`
}

// HistoryConfig configures per-series retention.
type HistoryConfig struct {
	// Mode is "count" or "age".
	Mode string `yaml:"mode"`

	// Capacity is the per-series sample limit in count mode.
	Capacity int `yaml:"capacity"`

	// MaxAge is the retention window in age mode.
	MaxAge Duration `yaml:"max_age"`
}

// RenderConfig configures the render worker.
type RenderConfig struct {
	// FrameInterval is the minimum time between frames.
	FrameInterval Duration `yaml:"frame_interval"`
}

// StatusConfig configures the status socket.
type StatusConfig struct {
	// Address is "unix:/path" or "host:port"; empty disables the socket.
	Address string `yaml:"address"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`
}

// Duration is a time.Duration written in YAML as a duration string.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string such as "40ms".
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("line %d: duration must be a string like \"40ms\"", node.Line)
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML writes the duration string.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Listen: ListenConfig{
			Address:       ingest.DefaultAddress,
			MaxLineLength: ingest.DefaultMaxLineLength,
			StatsInterval: Duration{time.Minute},
		},
		Chart: ChartConfig{
			Renderer:    render.KindChart.String(),
			Min:         0,
			Max:         100,
			Height:      30,
			BarCapacity: render.DefaultBarCapacity,
		},
		History: HistoryConfig{
			Mode:     history.CountMode.String(),
			Capacity: 100,
			MaxAge:   Duration{time.Minute},
		},
		Render: RenderConfig{
			FrameInterval: Duration{render.DefaultFrameInterval},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load returns the configuration from path, from the file named by
// TERMPLOT_CONFIG when path is empty, or the defaults when neither is
// set.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes the file at path over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and expands variables. An empty
// document yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg.Status.Address = expandVars(cfg.Status.Address)
	return cfg, nil
}

// Marshal returns the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default} with the environment
// value, or the default when the variable is unset or empty.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Range returns the chart's y range.
func (c *Config) Range() chart.Range {
	return chart.Range{Min: c.Chart.Min, Max: c.Chart.Max}
}

// Kind returns the renderer variant.
func (c *Config) Kind() (render.Kind, error) {
	return render.ParseKind(c.Chart.Renderer)
}

// Policy returns the history eviction policy.
func (c *Config) Policy() (history.Policy, error) {
	mode, err := history.ParseMode(c.History.Mode)
	if err != nil {
		return history.Policy{}, err
	}
	if mode == history.AgeMode {
		return history.Age(c.History.MaxAge.Duration), nil
	}
	return history.Count(c.History.Capacity), nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Listen.Address == "" {
		errs = append(errs, errors.New("listen.address is required"))
	}
	if c.Listen.MaxLineLength <= 0 {
		errs = append(errs, fmt.Errorf("listen.max_line_length must be positive, got %d", c.Listen.MaxLineLength))
	}
	if c.Listen.StatsInterval.Duration < 0 {
		errs = append(errs, fmt.Errorf("listen.stats_interval must not be negative, got %s", c.Listen.StatsInterval))
	}

	kind, err := c.Kind()
	if err != nil {
		errs = append(errs, fmt.Errorf("chart.renderer: %w", err))
	}
	if err := c.Range().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("chart: %w", err))
	}
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		errs = append(errs, fmt.Errorf("chart size %dx%d must not be negative", c.Chart.Width, c.Chart.Height))
	}
	if kind == render.KindBar && c.Chart.BarCapacity <= 0 {
		errs = append(errs, fmt.Errorf("chart.bar_capacity must be positive, got %d", c.Chart.BarCapacity))
	}

	if policy, err := c.Policy(); err != nil {
		errs = append(errs, fmt.Errorf("history.mode: %w", err))
	} else if err := policy.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Render.FrameInterval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("render.frame_interval must be positive, got %s", c.Render.FrameInterval))
	}

	if c.Status.Address != "" {
		if _, _, err := status.ParseAddress(c.Status.Address); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
