// Package server serves built lists and HTML previews over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wikilist/pkg/aggregate"
	"github.com/matzehuels/wikilist/pkg/buildinfo"
	"github.com/matzehuels/wikilist/pkg/catalog"
	"github.com/matzehuels/wikilist/pkg/pipeline"
	"github.com/matzehuels/wikilist/pkg/render/html"
	"github.com/matzehuels/wikilist/pkg/saves"
)

// maxBodyBytes bounds POST /render payloads.
const maxBodyBytes = 4 << 20

// Options wires the server to the rest of the application.
type Options struct {
	Catalog *catalog.Catalog
	Runner  *pipeline.Runner

	// Wiki returns the wiki client to build fetched lists with. refresh asks
	// for a client that bypasses cached API answers.
	Wiki func(refresh bool) aggregate.Wiki

	// Saves is optional; the /saves routes answer 404 without it.
	Saves saves.Store

	// Build holds the base pipeline options of every request.
	Build pipeline.Options

	Previewer *html.Previewer
	Logger    *log.Logger

	// BuildTimeout bounds a single list build. Defaults to 2 minutes.
	BuildTimeout time.Duration
}

// Server is the preview HTTP server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	opts       Options
	logger     *log.Logger
	addr       string
}

// New creates a server listening on addr once started.
func New(addr string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Builtin()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Previewer == nil {
		opts.Previewer = html.NewPreviewer(html.PreviewOptions{WikiURL: opts.Build.WikiURL})
	}
	if opts.BuildTimeout == 0 {
		opts.BuildTimeout = 2 * time.Minute
	}

	s := &Server{
		router: chi.NewRouter(),
		opts:   opts,
		logger: opts.Logger,
		addr:   addr,
	}
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.routes()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      opts.BuildTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeText(w, http.StatusOK, "text/plain; charset=utf-8", "ok\n")
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Route("/lists", func(r chi.Router) {
		r.Get("/", s.listLists)
		r.Get("/{name}", s.getList)
		r.Get("/{name}/preview", s.previewList)
	})
	r.Route("/saves", func(r chi.Router) {
		r.Get("/", s.listSaves)
		r.Get("/{id}", s.getSave)
		r.Get("/{id}/preview", s.previewSave)
	})
	r.Post("/render", s.render)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.addr }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting preview server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down preview server")
	return s.httpServer.Shutdown(ctx)
}

// logging logs one line per request.
func logging(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Info("request completed",
					"request_id", chimiddleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).Round(time.Millisecond),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
