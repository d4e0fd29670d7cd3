// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"
)

func decodeAll(input string, maxLength int) ([]string, error) {
	decoder := NewLineDecoder(strings.NewReader(input), maxLength)
	var lines []string
	for {
		line, err := decoder.Next()
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

func TestLineDecoder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		maxLength int
		want      []string
		wantErr   error
	}{
		{name: "lines", input: "1\n2.5\n", maxLength: 16, want: []string{"1", "2.5"}, wantErr: io.EOF},
		{name: "crlf", input: "1\r\n2\r\n", maxLength: 16, want: []string{"1", "2"}, wantErr: io.EOF},
		{name: "final partial line", input: "1\n2", maxLength: 16, want: []string{"1", "2"}, wantErr: io.EOF},
		{name: "final partial crlf", input: "7\r", maxLength: 16, want: []string{"7"}, wantErr: io.EOF},
		{name: "empty lines", input: "\n\n3\n", maxLength: 16, want: []string{"", "", "3"}, wantErr: io.EOF},
		{name: "empty input", input: "", maxLength: 16, want: nil, wantErr: io.EOF},
		{name: "exactly max", input: "1234\n", maxLength: 4, want: []string{"1234"}, wantErr: io.EOF},
		{name: "exactly max with crlf", input: "1234\r\n", maxLength: 4, want: []string{"1234"}, wantErr: io.EOF},
		{name: "one over max", input: "1\n12345\n6\n", maxLength: 4, want: []string{"1"}, wantErr: ErrLineTooLong},
		{name: "unterminated over max", input: "12345", maxLength: 4, want: nil, wantErr: ErrLineTooLong},
		{name: "longer than buffer", input: strings.Repeat("9", 5000) + "\n1\n", maxLength: 1024, want: nil, wantErr: ErrLineTooLong},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			lines, err := decodeAll(test.input, test.maxLength)
			if !slices.Equal(lines, test.want) {
				t.Errorf("lines: got %q, want %q", lines, test.want)
			}
			if !errors.Is(err, test.wantErr) {
				t.Errorf("error: got %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestLineDecoderErrorIsSticky(t *testing.T) {
	t.Parallel()
	decoder := NewLineDecoder(strings.NewReader("123456789\n1\n"), 4)

	for range 3 {
		if _, err := decoder.Next(); !errors.Is(err, ErrLineTooLong) {
			t.Fatalf("Next: got %v, want ErrLineTooLong", err)
		}
	}
}
