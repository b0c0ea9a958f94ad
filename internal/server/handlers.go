package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/gallerycat/gallerycat/internal/gallery"
	"github.com/gallerycat/gallerycat/internal/scrape"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	term, index, ok := s.galleryParams(w, r)
	if !ok {
		return
	}

	result, err := s.runner.Run(r.Context(), term, index, nil)
	if err != nil {
		s.respondWithScrapeError(w, err)
		return
	}
	s.respondWithJSON(w, http.StatusOK, result)
}

func (s *Server) handleCacheList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list cache records")
		s.respondWithError(w, http.StatusInternalServerError, "could not list cache records")
		return
	}
	s.respondWithJSON(w, http.StatusOK, records)
}

func (s *Server) handleCacheDelete(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	if err := s.store.Delete(term); err != nil {
		log.Error().Str("term", term).Err(err).Msg("Failed to delete cache records")
		s.respondWithError(w, http.StatusInternalServerError, "could not delete cache records")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]string{"deleted": term})
}

func (s *Server) galleryParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	term := chi.URLParam(r, "term")
	indexParam := chi.URLParam(r, "index")

	index, err := strconv.Atoi(indexParam)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "gallery index must be a number")
		return "", 0, false
	}
	if term == "" {
		s.respondWithError(w, http.StatusBadRequest, "search term cannot be empty")
		return "", 0, false
	}
	return term, index, true
}

func (s *Server) respondWithScrapeError(w http.ResponseWriter, err error) {
	var idxErr *gallery.InvalidIndexError
	if errors.As(err, &idxErr) {
		s.respondWithError(w, http.StatusBadRequest, idxErr.Error())
		return
	}

	var exhausted *scrape.ExhaustedError
	if errors.As(err, &exhausted) {
		payload := map[string]interface{}{
			"error":       exhausted.Error(),
			"attempts":    exhausted.Attempts,
			"from_cache":  exhausted.FromCache,
			"search_url":  exhausted.SearchURL,
			"gallery_url": exhausted.GalleryURL,
		}
		s.respondWithJSON(w, http.StatusNotFound, payload)
		return
	}

	if errors.Is(err, gallery.ErrNoResults) {
		s.respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	log.Error().Err(err).Msg("Scrape request failed")
	s.respondWithError(w, http.StatusInternalServerError, "scrape failed")
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
