// Package httpapi exposes the translation pipeline over HTTP: uploads, the
// document library, job control, live status, and export downloads.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tajreba/doc-translator/internal/backend"
	"github.com/tajreba/doc-translator/internal/history"
	"github.com/tajreba/doc-translator/internal/jobs"
	"github.com/tajreba/doc-translator/internal/library"
)

const defaultMaxUploadBytes = 16 << 20

type historyReader interface {
	Recent(ctx context.Context, limit int) ([]history.Record, error)
}

type Server struct {
	controller *jobs.Controller
	scanner    *library.Scanner
	translator backend.Translator
	history    historyReader

	corsOrigins          []string
	maxUploadBytes       int64
	defaultRTL           bool
	defaultFilterThought bool

	router chi.Router
	server *http.Server
}

type Option func(*Server)

// WithCORS sets the allowed cross-origin request origins.
func WithCORS(origins []string) Option {
	return func(s *Server) { s.corsOrigins = origins }
}

// WithHistory exposes finished jobs from the given store.
func WithHistory(h historyReader) Option {
	return func(s *Server) { s.history = h }
}

// WithMaxUploadBytes caps the accepted upload size.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) { s.maxUploadBytes = n }
}

// WithJobDefaults sets the start-request defaults for direction and
// reasoning-output filtering.
func WithJobDefaults(rtl, filterThoughts bool) Option {
	return func(s *Server) {
		s.defaultRTL = rtl
		s.defaultFilterThought = filterThoughts
	}
}

func NewServer(controller *jobs.Controller, scanner *library.Scanner, translator backend.Translator, opts ...Option) *Server {
	s := &Server{
		controller:           controller,
		scanner:              scanner,
		translator:           translator,
		corsOrigins:          []string{"*"},
		maxUploadBytes:       defaultMaxUploadBytes,
		defaultRTL:           true,
		defaultFilterThought: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/library/documents", s.handleListDocuments)
		r.Get("/models", s.handleListModels)
		r.Post("/start", s.handleStart)
		r.Post("/pause", s.handlePause)
		r.Post("/stop", s.handleStop)
		r.Get("/status", s.handleStatus)
		r.Get("/status/stream", s.handleStatusStream)
		r.Get("/export", s.handleExport)
		r.Get("/history", s.handleHistory)
	})
	return r
}
