// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads termplot's YAML configuration.
//
// The file is named by the --config flag or, failing that, the
// TERMPLOT_CONFIG environment variable. With neither set, [Default]
// is the whole configuration. A file only needs the keys it changes:
// it is decoded over the defaults, and unknown keys are an error so a
// misspelled key is not silently ignored.
//
// Durations are written as Go duration strings ("40ms", "2m").
// ${VAR} and ${VAR:-default} are expanded in the status address.
//
//	listen:
//	  address: 0.0.0.0:9999
//	  concurrent: true
//	chart:
//	  min: -1
//	  max: 1
//	history:
//	  mode: age
//	  max_age: 2m
//	status:
//	  address: unix:${XDG_RUNTIME_DIR:-/tmp}/termplot.sock
//
// Command-line flags that were set explicitly override the file.
package config
