// Package server exposes the search engine as a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/uberswe/LoopiaBrandFinder/internal/search"
	"github.com/uberswe/LoopiaBrandFinder/pkg/domain"
)

const maxBodyBytes = 1 << 20

// Searcher is the part of search.Engine the API needs
type Searcher interface {
	Run(ctx context.Context, req domain.Request) (*domain.RunResult, error)
	Generate(req domain.Request) ([]domain.ScoredCandidate, error)
}

type handlers struct {
	engine Searcher
}

// New returns the API router.
func New(engine Searcher) http.Handler {
	h := &handlers{engine: engine}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Get("/healthz", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", h.search)
		r.Post("/generate", h.generate)
	})
	return r
}

// NewServer wraps the API router in an http.Server listening on addr.
func NewServer(addr string, engine Searcher) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      New(engine),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	res, err := h.engine.Run(r.Context(), req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type generateResponse struct {
	Candidates []domain.ScoredCandidate `json:"candidates"`
}

func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	cands, err := h.engine.Generate(req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if cands == nil {
		cands = []domain.ScoredCandidate{}
	}
	writeJSON(w, http.StatusOK, generateResponse{Candidates: cands})
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (domain.Request, bool) {
	var req domain.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return req, false
	}
	return req, true
}

func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, search.ErrCanceled):
		writeError(w, r, http.StatusServiceUnavailable, "canceled", err.Error())
	default:
		log.Error().
			Err(err).
			Str("operation", "api").
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("Search failed")
		writeError(w, r, http.StatusInternalServerError, "search_failed", "search failed")
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error:     code,
		Message:   message,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// requestLogger logs one line per request through zerolog
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Info().
			Str("operation", "api").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("Request handled")
	})
}
