package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thegenyia/tiktok-trends-lite/internal/config"
	"github.com/thegenyia/tiktok-trends-lite/internal/fetcher"
	"github.com/thegenyia/tiktok-trends-lite/internal/search"
	"github.com/thegenyia/tiktok-trends-lite/pkg/types"
)

// SearchEngine is the part of the search orchestrator the HTTP layer needs.
type SearchEngine interface {
	Search(ctx context.Context, req search.Request) (types.SearchResponse, error)
}

// Server exposes the HTTP API for the search service.
type Server struct {
	engine      SearchEngine
	corsOrigins map[string]struct{}
	logger      *slog.Logger
	mux         *http.ServeMux
}

// NewServer wires handlers onto an HTTP mux.
func NewServer(engine SearchEngine, cfg config.ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	origins := make(map[string]struct{}, len(cfg.CORSOrigins))
	for _, origin := range cfg.CORSOrigins {
		origins[origin] = struct{}{}
	}
	s := &Server{
		engine:      engine,
		corsOrigins: origins,
		logger:      logger,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP satisfies the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.applyCORS(w, r) {
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/openapi.yaml", s.handleOpenAPI)
	s.mux.HandleFunc("/docs", s.handleDocs)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "tiktok-trends-lite")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "GET /search?q=<query>&max=<1..100, default 50>&country=<code, default BR>")
	fmt.Fprintln(w, "GET /docs for the interactive API reference")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	params := r.URL.Query()
	req := search.Request{
		Query:   params.Get("q"),
		Max:     parseMax(params.Get("max")),
		Country: params.Get("country"),
	}

	resp, err := s.engine.Search(r.Context(), req)
	if err != nil {
		s.writeSearchError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeSearchError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, search.ErrEmptyQuery) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing required query parameter q"})
		return
	}

	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) {
		s.logger.Error("upstream fetch failed", "url", fetchErr.URL, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "failed to fetch search results",
			Details: fetchErr.Error(),
		})
		return
	}

	s.logger.Error("search failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "search failed",
		Details: err.Error(),
	})
}

// parseMax maps absent or non-numeric values to zero, which the engine
// replaces with its configured default.
func parseMax(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

// applyCORS writes CORS headers for allowed origins and short-circuits
// preflight requests. Reports whether the request was fully handled.
func (s *Server) applyCORS(w http.ResponseWriter, r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.corsOrigins) == 0 {
		return false
	}
	_, allowAll := s.corsOrigins["*"]
	if _, ok := s.corsOrigins[origin]; !ok && !allowAll {
		return false
	}

	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Vary", "Origin")
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
