// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// StatusCoder is implemented by errors that should be printed but exit
// with a code other than 1.
type StatusCoder interface {
	StatusCode() int
}

// Fatal prints err on stderr and exits with its StatusCoder code, or 1.
func Fatal(err error) {
	os.Exit(report(os.Stderr, err))
}

// report writes err to w and returns the process exit code.
func report(w io.Writer, err error) int {
	fmt.Fprintf(w, "error: %v\n", err)
	var statusCoder StatusCoder
	if errors.As(err, &statusCoder) {
		return statusCoder.StatusCode()
	}
	return 1
}
