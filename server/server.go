// Package server exposes search, enzyme detail, corpus statistics and the
// substrate catalog over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/plaszyme/am"
	"github.com/teranos/plaszyme/enzyme"
	"github.com/teranos/plaszyme/errors"
	"github.com/teranos/plaszyme/export"
	"github.com/teranos/plaszyme/logger"
	"github.com/teranos/plaszyme/search"
	"github.com/teranos/plaszyme/substrate"
	"github.com/teranos/plaszyme/sym"
)

const (
	// ShutdownTimeout bounds how long in-flight requests may run after shutdown starts
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout guards against slow clients holding connections open
	ReadHeaderTimeout = 10 * time.Second

	// MaxRequestBodyBytes caps a search request body
	MaxRequestBodyBytes = 1 << 20
)

// EnzymeLookup fetches a single reference enzyme.
type EnzymeLookup interface {
	Get(ctx context.Context, id string) (*enzyme.Record, error)
}

// StatsProvider summarizes the corpus.
type StatsProvider interface {
	Stats(ctx context.Context) (*enzyme.Stats, error)
}

// Options wires a Server. Engine and Enzymes are required; a nil Stats,
// Records or Catalog makes the matching endpoint answer 503.
type Options struct {
	Engine  *search.Engine
	Enzymes EnzymeLookup
	Stats   StatsProvider
	Catalog *substrate.Cache

	// Records feeds per-dataset counts; Datasets defaults to export.Builtin.
	Records  export.RecordSource
	Datasets []export.Dataset

	Config am.ServerConfig

	// Timeout is the per-request deadline; zero disables it.
	Timeout time.Duration

	Logger *zap.SugaredLogger
}

// Server is the plaszyme HTTP API.
type Server struct {
	engine  *search.Engine
	enzymes EnzymeLookup
	stats   StatsProvider
	catalog *substrate.Cache

	records  export.RecordSource
	datasets []export.Dataset

	cfg     am.ServerConfig
	timeout time.Duration
	limiter *clientLimiter
	logger  *zap.SugaredLogger

	handler http.Handler

	mu   sync.Mutex
	addr net.Addr
}

// New creates a server from opts.
func New(opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, errors.New("server requires a search engine")
	}
	if opts.Enzymes == nil {
		return nil, errors.New("server requires an enzyme lookup")
	}
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("server")
	}

	datasets := opts.Datasets
	if len(datasets) == 0 {
		datasets = export.Builtin()
	}

	s := &Server{
		engine:   opts.Engine,
		enzymes:  opts.Enzymes,
		stats:    opts.Stats,
		catalog:  opts.Catalog,
		records:  opts.Records,
		datasets: datasets,
		cfg:      opts.Config,
		timeout:  opts.Timeout,
		limiter:  newClientLimiter(opts.Config.RequestsPerMinute),
		logger:   log,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound listen address once ListenAndServe is running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ListenAndServe binds the configured port, falling back to a nearby free
// one, and serves until ctx is cancelled. In-flight requests get
// ShutdownTimeout to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	port := s.cfg.Port
	if port == 0 {
		port = am.DefaultServerPort
	}
	actualPort, err := findAvailablePort(port)
	if err != nil {
		return errors.Wrap(err, "failed to find available port")
	}
	if actualPort != port {
		s.logger.Infow("Port in use, using alternative",
			"requested_port", port,
			"actual_port", actualPort,
		)
	}

	ln, err := net.Listen("tcp", net.JoinHostPort("", strconv.Itoa(actualPort)))
	if err != nil {
		return errors.Wrapf(err, "failed to listen on port %d", actualPort)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Infow(sym.Server+" Server ready", logger.FieldAddress, ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "server stopped unexpectedly")
	case <-ctx.Done():
	}

	s.logger.Infow("Initiating server shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("Graceful shutdown timed out, forcing close",
			"timeout", ShutdownTimeout,
			logger.FieldError, err,
		)
		_ = srv.Close()
		return errors.Wrap(err, "shutdown")
	}
	s.logger.Infow("Server stopped")
	return nil
}
