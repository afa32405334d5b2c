package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/roach88/eventlog/internal/clock"
	"github.com/roach88/eventlog/internal/status"
	"github.com/roach88/eventlog/internal/store"
)

// Greeting is returned by the home route.
const Greeting = "Bonjour tout le monde !"

// DefaultListLimit bounds /consultation when Options.ListLimit is unset.
const DefaultListLimit = 50

// EventStore is the storage the handlers need.
type EventStore interface {
	EnsureSchema(ctx context.Context) error
	Append(ctx context.Context, ts, message string) (store.Event, error)
	Recent(ctx context.Context, limit int) ([]store.Event, error)
	Count(ctx context.Context) (int64, error)
}

// Options configures a Server.
type Options struct {
	Store     EventStore
	Prober    *status.Prober
	ListLimit int

	// Clock stamps new events. Defaults to clock.System.
	Clock clock.Clock
	// IDs generates request ids. Defaults to UUIDv7Generator.
	IDs IDGenerator
	// Logger defaults to discard.
	Logger *slog.Logger
}

// Server is the HTTP front of the event log.
type Server struct {
	store     EventStore
	prober    *status.Prober
	listLimit int
	clock     clock.Clock
	logger    *slog.Logger
	handler   http.Handler
}

// New builds a server and its route table.
func New(opts Options) *Server {
	s := &Server{
		store:     opts.Store,
		prober:    opts.Prober,
		listLimit: opts.ListLimit,
		clock:     opts.Clock,
		logger:    opts.Logger,
	}
	if s.listLimit <= 0 {
		s.listLimit = DefaultListLimit
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.prober == nil {
		s.prober = &status.Prober{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /add", s.handleAdd)
	mux.HandleFunc("GET /consultation", s.handleConsultation)
	mux.HandleFunc("GET /count", s.handleCount)
	mux.HandleFunc("GET /status", s.handleStatus)

	s.handler = recoverPanics(s.logger, withRequestID(ids, accessLog(s.logger, mux)))
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()

	s.logger.Info("http server listening", "addr", l.Addr().String())

	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(cctx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
