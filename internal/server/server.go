// Package server exposes the scraping engine over HTTP: a JSON API plus a
// minimal HTML view of scraped catalogs.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gallerycat/gallerycat/internal/store"
	"github.com/gallerycat/gallerycat/pkg/models"
)

// Runner produces catalogs for (term, index) requests.
type Runner interface {
	Run(ctx context.Context, term string, index int, progress func(page int)) (*models.ScrapeResult, error)
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	addr       string
	runner     Runner
	store      *store.FileStore
	router     http.Handler
	httpServer *http.Server
	startTime  time.Time
}

// NewServer wires the scraping engine and cache store into an HTTP server
// listening on addr.
func NewServer(addr string, runner Runner, st *store.FileStore) *Server {
	s := &Server{
		addr:      addr,
		runner:    runner,
		store:     st,
		startTime: time.Now(),
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // live scrapes can take a while
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
