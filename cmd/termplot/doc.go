// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Termplot draws numbers streamed over TCP as a live chart in the
// terminal.
//
// Each TCP connection to the ingest address is one series: every line
// it sends is parsed as a number and plotted. "termplot serve" runs the
// listener and draws on stdout; "termplot status" reads the counters of
// a running server from its status socket.
//
// Usage:
//
//	termplot serve [--config termplot.yaml] [flags]
//	termplot status --address unix:/run/termplot.sock [--json]
//	termplot config [--config termplot.yaml]
//	termplot version
//
// Configuration comes from a YAML file named by --config or
// TERMPLOT_CONFIG; flags given on the command line override it.
package main
