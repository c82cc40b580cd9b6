// Package server is the object-storage proxy the player talks to. It lists
// playable items under a prefix, streams single objects and serves the
// scripture index and texts.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// Defaults for Options.
const (
	DefaultAddr      = ":8787"
	DefaultListDir   = "praise/附录/"
	DefaultListLimit = 1000
	shutdownTimeout  = 5 * time.Second
)

// Options configures the server.
type Options struct {
	Addr      string
	ListDir   string
	ListLimit int
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.ListDir == "" {
		o.ListDir = DefaultListDir
	}
	if o.ListLimit <= 0 {
		o.ListLimit = DefaultListLimit
	}
	return o
}

// Server serves the /api routes from an ObjectStore.
type Server struct {
	logger  *slog.Logger
	store   ports.ObjectStore
	opts    Options
	handler http.Handler
}

// New creates a server over store.
func New(logger *slog.Logger, store ports.ObjectStore, opts Options) *Server {
	s := &Server{
		logger: logger,
		store:  store,
		opts:   opts.withDefaults(),
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	// Keys arrive percent-encoded, including their slashes.
	router := mux.NewRouter().UseEncodedPath()

	router.HandleFunc("/api/list", s.handleList).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/api/bible/books", s.handleBooks).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/api/bible/file/{name:.+}", s.handleBibleFile).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/api/file/{key:.+}", s.handleFile).Methods(http.MethodGet, http.MethodHead)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "Not Found")
	})

	// CORS wraps the router so preflights and 404s carry the headers too.
	return cors(requestID(s.logger, router))
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", s.opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	s.logger.Info("server stopped")
	return nil
}
