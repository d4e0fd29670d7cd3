// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/termplot/cmd/termplot/cli"
	"github.com/bureau-foundation/termplot/lib/config"
	"github.com/bureau-foundation/termplot/lib/version"
)

// root builds the termplot command tree.
func root() *cli.Command {
	return &cli.Command{
		Name: "termplot",
		Description: `termplot: live terminal charts from numbers streamed over TCP.

Every connection to the ingest address becomes one series; each line
it sends is one sample.`,
		Subcommands: []*cli.Command{
			serveCommand(),
			statusCommand(),
			configCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Plot a stream on the default address",
				Command:     "termplot serve",
			},
			{
				Description: "Feed it from a shell",
				Command:     "while true; do echo $((RANDOM % 100)); sleep 0.1; done | nc 127.0.0.1 9999",
			},
			{
				Description: "Check a running server",
				Command:     "termplot status --address unix:/run/user/1000/termplot.sock",
			},
		},
	}
}

type versionParams struct {
	cli.JSONOutput
}

func versionCommand() *cli.Command {
	var params versionParams
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(context.Context, []string, *slog.Logger) error {
			if done, err := params.EmitJSON(version.Current()); done {
				return err
			}
			fmt.Printf("termplot %s\n", version.Full())
			return nil
		},
	}
}

type configParams struct {
	ConfigPath string `flag:"config,c" desc:"configuration file (default $TERMPLOT_CONFIG)"`
}

func configCommand() *cli.Command {
	var params configParams
	return &cli.Command{
		Name:    "config",
		Summary: "Print the effective configuration",
		Description: `Load the configuration file, apply defaults, validate it, and print
the result as YAML. With no file, prints the defaults, which is a
starting point for writing one.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("config", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Write a config file with every default spelled out",
				Command:     "termplot config > termplot.yaml",
			},
		},
		Run: func(context.Context, []string, *slog.Logger) error {
			cfg, err := loadConfig(params.ConfigPath)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return cli.Internal("encoding configuration: %w", err)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

// loadConfig loads and validates the configuration. Problems with the
// file are the user's to fix.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration:\n%w", err)
	}
	return cfg, nil
}
