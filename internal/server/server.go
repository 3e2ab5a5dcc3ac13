// Package server provides the browser front-end for pdfchat.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/pdfchat/internal/app"
	"github.com/hyperjump/pdfchat/internal/config"
	"github.com/hyperjump/pdfchat/internal/toast"
	"go.uber.org/zap"
)

// maxUploadMemory is the part of a multipart upload kept in memory; the rest
// spills to temporary files.
const maxUploadMemory = 32 << 20

// Server serves the page and turns form posts into handler calls.
type Server struct {
	app    *app.App
	toasts *toast.Hub
	config *config.Config
	logger *zap.Logger
	page   *template.Template
	watch  *watchState
	server *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(a *app.App, toasts *toast.Hub, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		app:    a,
		toasts: toasts,
		config: cfg,
		logger: logger,
		page:   page,
	}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Queries wait for the model; leave room beyond the backend timeout so
	// the handler can still render the failure.
	r.Use(middleware.Timeout(s.config.Backend.Timeout + 30*time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	r.Get("/api/state", s.handleState)
	r.Get("/health", s.handleHealth)
	r.Get("/pdfs/{source}", s.handleView)

	r.Post("/upload", s.handleUpload)
	r.Post("/documents/refresh", s.handleRefresh)
	r.Post("/documents/delete", s.handleDelete)
	r.Post("/history/clear", s.handleClearHistory)
	r.Post("/db/clear", s.handleClearDB)
	r.Post("/ask/ai", s.handleAskAI)
	r.Post("/ask/pdf", s.handleAskPDF)
	r.Post("/ask/copy", s.handleCopyAsk)

	r.Get("/api/watch/directories", s.handleWatchList)
	r.Post("/api/watch/directories", s.handleWatchAdd)
	r.Delete("/api/watch/directories", s.handleWatchRemove)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server",
		zap.String("addr", addr),
		zap.String("backend", s.config.Backend.BaseURL))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
