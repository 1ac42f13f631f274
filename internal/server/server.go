// Package server exposes the visualizer over HTTP.
//
// Documents are imported with POST /api/documents and then driven by
// interaction events, either one per request (POST .../events) or over a
// WebSocket (GET .../ws) that pushes the re-rendered SVG after every
// change. Each document lives in a session whose mutex serializes the
// edit, layout and render steps, and is snapshotted to a [store.Store] so
// it survives restarts.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/visualizeme/pkg/pipeline"
	"github.com/matzehuels/visualizeme/pkg/store"
	"github.com/matzehuels/visualizeme/pkg/view"
)

const (
	// DefaultMaxBody bounds request bodies.
	DefaultMaxBody = 8 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Runner   *pipeline.Runner
	Store    store.Store
	Options  pipeline.Options // layout, theme and zoom defaults for new documents
	Debounce time.Duration    // search debounce on WebSocket connections
	MaxBody  int64
	Logger   *log.Logger

	// Origins lists extra browser origins, such as "https://docs.example.com",
	// allowed to open WebSocket connections. Same-host origins are always
	// allowed.
	Origins []string
}

// Server holds live document sessions.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	opts     pipeline.Options
	debounce time.Duration
	maxBody  int64
	logger   *log.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	origins  []string

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a Server. Nil fields get an uncached runner, a memory
// store and a discarding logger.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = view.DefaultDebounce
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = DefaultMaxBody
	}
	cfg.Options.Logger = cfg.Logger
	cfg.Options.SetDefaults()

	s := &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		opts:     cfg.Options,
		debounce: cfg.Debounce,
		maxBody:  cfg.MaxBody,
		logger:   cfg.Logger,
		sessions: make(map[string]*session),
		origins:  cfg.Origins,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/capabilities", s.handleCapabilities)
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", s.handleList)
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Get("/svg", s.handleSVG)
				r.Get("/render", s.handleRender)
				r.Get("/export", s.handleExport)
				r.Post("/events", s.handleEvent)
				r.Get("/ws", s.handleSocket)
			})
		})
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.closeSessions()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases the store and the runner's cache.
func (s *Server) Close() error {
	s.closeSessions()
	return errors.Join(s.store.Close(), s.runner.Close())
}
