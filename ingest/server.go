// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/termplot/lib/clock"
	"github.com/bureau-foundation/termplot/lib/netutil"
	"github.com/bureau-foundation/termplot/render"
)

// DefaultAddress is the default listen address.
const DefaultAddress = "127.0.0.1:9999"

// Config holds the parameters for [Listen]. Plotter, Clock, and Logger
// are required.
type Config struct {
	// Address is the TCP listen address. Empty selects DefaultAddress;
	// ":0" picks a free port.
	Address string

	// MaxLineLength bounds each line in bytes. Zero selects
	// DefaultMaxLineLength.
	MaxLineLength int

	// Concurrent serves every connection on its own goroutine. When
	// false, connections are served one at a time.
	Concurrent bool

	// Plotter spawns one handle per accepted connection.
	Plotter *render.Plotter

	// StatsInterval is the period of the "ingest stats" log line. Zero
	// disables it.
	StatsInterval time.Duration

	Clock  clock.Clock
	Logger *slog.Logger
}

// Stats is a snapshot of the server's counters.
type Stats struct {
	// Accepted counts connections accepted since start.
	Accepted uint64
	// Active is the number of connections currently being served.
	Active int64
	// Lines counts complete lines read.
	Lines uint64
	// Samples counts values handed to the plotter.
	Samples uint64
	// DroppedLines counts lines that did not parse as a finite number.
	DroppedLines uint64
	// FramingErrors counts connections closed for an over-long line.
	FramingErrors uint64
}

// Server is a TCP listener feeding a plotter.
type Server struct {
	listener      net.Listener
	plotter       *render.Plotter
	maxLineLength int
	concurrent    bool
	statsInterval time.Duration
	clock         clock.Clock
	logger        *slog.Logger

	accepted      atomic.Uint64
	active        atomic.Int64
	lines         atomic.Uint64
	samples       atomic.Uint64
	droppedLines  atomic.Uint64
	framingErrors atomic.Uint64

	mu          sync.Mutex
	connections map[net.Conn]struct{}
	closing     bool
	handlers    sync.WaitGroup
}

// Listen validates config and binds the listener.
func Listen(config Config) (*Server, error) {
	if config.Plotter == nil {
		return nil, fmt.Errorf("ingest server: Plotter is required")
	}
	if config.Clock == nil {
		return nil, fmt.Errorf("ingest server: Clock is required")
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("ingest server: Logger is required")
	}
	if config.MaxLineLength < 0 {
		return nil, fmt.Errorf("ingest server: MaxLineLength must not be negative, got %d", config.MaxLineLength)
	}
	if config.StatsInterval < 0 {
		return nil, fmt.Errorf("ingest server: StatsInterval must not be negative, got %s", config.StatsInterval)
	}

	address := config.Address
	if address == "" {
		address = DefaultAddress
	}
	maxLineLength := config.MaxLineLength
	if maxLineLength == 0 {
		maxLineLength = DefaultMaxLineLength
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", address, err)
	}
	return &Server{
		listener:      listener,
		plotter:       config.Plotter,
		maxLineLength: maxLineLength,
		concurrent:    config.Concurrent,
		statsInterval: config.StatsInterval,
		clock:         config.Clock,
		logger:        config.Logger,
		connections:   make(map[net.Conn]struct{}),
	}, nil
}

// Address returns the bound address in "host:port" form.
func (s *Server) Address() string {
	return s.listener.Addr().String()
}

// Stats returns the current counters.
func (s *Server) Stats() Stats {
	return Stats{
		Accepted:      s.accepted.Load(),
		Active:        s.active.Load(),
		Lines:         s.lines.Load(),
		Samples:       s.samples.Load(),
		DroppedLines:  s.droppedLines.Load(),
		FramingErrors: s.framingErrors.Load(),
	}
}

// Serve accepts connections until ctx is cancelled or Close is called.
// Before returning it closes every open connection and waits for
// their handlers. Returns nil on a requested shutdown.
//
// Must be called at most once.
func (s *Server) Serve(ctx context.Context) error {
	serveDone := make(chan struct{})
	defer close(serveDone)

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-serveDone:
		}
	}()
	if s.statsInterval > 0 {
		go s.logStats(s.statsInterval, serveDone)
	}

	s.logger.Info("ingest listening",
		"address", s.Address(),
		"concurrent", s.concurrent,
		"max_line_length", s.maxLineLength,
	)

	err := s.acceptLoop(ctx)
	s.Close()
	s.handlers.Wait()
	return err
}

func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting connection: %w", err)
		}
		if !s.track(conn) {
			conn.Close()
			return nil
		}
		s.accepted.Add(1)

		if !s.concurrent {
			s.serveConnection(ctx, conn)
			continue
		}
		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			s.serveConnection(ctx, conn)
		}()
	}
}

// track registers conn so Close can reach it. Returns false once the
// server is closing.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.connections[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.connections, conn)
	s.mu.Unlock()
	conn.Close()
}

// Close stops the listener and closes every open connection. Serve
// returns once their handlers finish. Safe to call more than once.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	connections := make([]net.Conn, 0, len(s.connections))
	for conn := range s.connections {
		connections = append(connections, conn)
	}
	s.mu.Unlock()

	err := s.listener.Close()
	for _, conn := range connections {
		conn.Close()
	}
	return err
}

// serveConnection feeds one connection's samples into a fresh series
// until the producer disconnects, sends an over-long line, or the
// server shuts down.
func (s *Server) serveConnection(ctx context.Context, conn net.Conn) {
	defer s.untrack(conn)
	s.active.Add(1)
	defer s.active.Add(-1)

	remote := conn.RemoteAddr().String()
	handle, err := s.plotter.Spawn(ctx)
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, render.ErrWorkerStopped) {
			s.logger.Error("spawning series failed", "remote", remote, "error", err)
		}
		return
	}
	series := handle.ID()
	s.logger.Info("connection accepted", "remote", remote, "series", series)

	var samples uint64
	defer func() {
		s.logger.Info("connection closed", "remote", remote, "series", series, "samples", samples)
	}()

	decoder := NewLineDecoder(conn, s.maxLineLength)
	for {
		line, err := decoder.Next()
		if err != nil {
			switch {
			case errors.Is(err, ErrLineTooLong):
				s.framingErrors.Add(1)
				s.logger.Warn("closing connection after framing error", "remote", remote, "series", series, "error", err)
			case ctx.Err() != nil || netutil.IsExpectedCloseError(err):
			default:
				s.logger.Warn("reading from connection failed", "remote", remote, "series", series, "error", err)
			}
			return
		}
		s.lines.Add(1)

		value, err := ParseSample(line)
		if err != nil {
			s.droppedLines.Add(1)
			s.logger.Debug("dropping malformed line", "series", series, "line", line, "error", err)
			continue
		}
		if err := handle.Update(value); err != nil {
			if !errors.Is(err, render.ErrWorkerStopped) {
				s.logger.Error("updating series failed", "series", series, "error", err)
			}
			return
		}
		s.samples.Add(1)
		samples++
	}
}

// logStats logs the counters every interval until done is closed.
func (s *Server) logStats(interval time.Duration, done <-chan struct{}) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := s.Stats()
			s.logger.Info("ingest stats",
				"accepted", stats.Accepted,
				"active", stats.Active,
				"lines", stats.Lines,
				"samples", stats.Samples,
				"dropped_lines", stats.DroppedLines,
				"framing_errors", stats.FramingErrors,
			)
		case <-done:
			return
		}
	}
}
