// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxLineLength is the longest accepted line in bytes, not
// counting the line terminator.
const DefaultMaxLineLength = 1024

// ErrLineTooLong is returned by [LineDecoder.Next] when a line exceeds
// the decoder's maximum length. The decoder is unusable afterwards.
var ErrLineTooLong = errors.New("ingest: line too long")

// LineDecoder splits a byte stream into lines of bounded length. Lines
// end with "\n" or "\r\n"; the terminator is not part of the line. A
// final line without a terminator is still returned before io.EOF.
type LineDecoder struct {
	reader    *bufio.Reader
	maxLength int
	err       error
}

// NewLineDecoder returns a decoder reading from r. maxLength must be
// positive.
func NewLineDecoder(r io.Reader, maxLength int) *LineDecoder {
	if maxLength <= 0 {
		panic(fmt.Sprintf("ingest: max line length must be positive, got %d", maxLength))
	}
	// Room for the longest line plus "\r\n", so a full buffer always
	// means an over-long line.
	return &LineDecoder{
		reader:    bufio.NewReaderSize(r, maxLength+2),
		maxLength: maxLength,
	}
}

// Next returns the next line. At the end of the stream it returns
// io.EOF. After any error, every later call returns the same error.
func (d *LineDecoder) Next() (string, error) {
	if d.err != nil {
		return "", d.err
	}

	data, err := d.reader.ReadSlice('\n')
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		d.err = fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, d.maxLength)
		return "", d.err
	case err == io.EOF && len(data) > 0:
		// Final unterminated line; io.EOF comes on the next call.
	case err != nil:
		d.err = err
		return "", err
	}

	line := bytes.TrimSuffix(data, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) > d.maxLength {
		d.err = fmt.Errorf("%w: %d bytes, limit %d", ErrLineTooLong, len(line), d.maxLength)
		return "", d.err
	}
	return string(line), nil
}
