// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bureau-foundation/termplot/lib/codec"
)

const (
	// writeTimeout bounds writing one report.
	writeTimeout = 10 * time.Second

	// reportTimeout bounds collecting one report from its source.
	reportTimeout = 5 * time.Second

	unixPrefix = "unix:"
)

// ParseAddress splits a status address into a network and an address
// for net.Listen and net.Dial.
func ParseAddress(address string) (network, path string, err error) {
	if rest, ok := strings.CutPrefix(address, unixPrefix); ok {
		if rest == "" {
			return "", "", fmt.Errorf("status address %q has an empty socket path", address)
		}
		return "unix", rest, nil
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		return "", "", fmt.Errorf("status address %q is neither unix:/path nor host:port: %w", address, err)
	}
	return "tcp", address, nil
}

// Source builds the report for one connection.
type Source func(ctx context.Context) (Report, error)

// Server answers every connection with one report.
type Server struct {
	listener net.Listener
	network  string
	source   Source
	logger   *slog.Logger

	connections sync.WaitGroup
}

// Listen binds address. A stale Unix socket file at the path is
// removed first.
func Listen(address string, source Source, logger *slog.Logger) (*Server, error) {
	if source == nil {
		return nil, fmt.Errorf("status server: source is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("status server: logger is required")
	}
	network, path, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}
	if network == "unix" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("removing stale socket %s: %w", path, err)
		}
	}

	listener, err := net.Listen(network, path)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", address, err)
	}
	return &Server{listener: listener, network: network, source: source, logger: logger}, nil
}

// Address returns the bound address in the form Fetch accepts.
func (s *Server) Address() string {
	if s.network == "unix" {
		return unixPrefix + s.listener.Addr().String()
	}
	return s.listener.Addr().String()
}

// Serve answers connections until ctx is cancelled or Close is called,
// then waits for in-flight answers. A Unix socket file is removed when
// the listener closes.
func (s *Server) Serve(ctx context.Context) error {
	serveDone := make(chan struct{})
	defer close(serveDone)
	go func() {
		select {
		case <-ctx.Done():
			s.listener.Close()
		case <-serveDone:
		}
	}()

	s.logger.Info("status socket listening", "address", s.Address())

	defer s.connections.Wait()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.listener.Close()
			return fmt.Errorf("accepting status connection: %w", err)
		}

		s.connections.Add(1)
		go func() {
			defer s.connections.Done()
			s.answer(ctx, conn)
		}()
	}
}

// Close stops accepting connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) answer(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reportContext, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()
	report, err := s.source(reportContext)
	if err != nil {
		s.logger.Warn("building status report failed", "error", err)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(report); err != nil {
		s.logger.Debug("writing status report failed", "error", err)
	}
}

// Fetch connects to a status socket and reads its report.
func Fetch(ctx context.Context, address string) (Report, error) {
	network, path, err := ParseAddress(address)
	if err != nil {
		return Report{}, err
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, network, path)
	if err != nil {
		return Report{}, fmt.Errorf("connecting to status socket: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	}

	var report Report
	if err := codec.NewDecoder(conn).Decode(&report); err != nil {
		return Report{}, fmt.Errorf("reading status report: %w", err)
	}
	return report, nil
}
