package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/api/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/galleries/{term}/{index}", s.handleGallery)
		r.Get("/cache", s.handleCacheList)
		r.Delete("/cache/{term}", s.handleCacheDelete)
	})

	r.Get("/galleries/{term}/{index}", s.handleGalleryHTML)

	return r
}
