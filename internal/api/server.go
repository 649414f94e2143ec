// Package api exposes the event catalog over a minimal JSON REST
// surface.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"loreline/internal/health"
	"loreline/internal/schema"
	"loreline/internal/store"
)

// Server is the HTTP API server. It is stateless between requests; all
// durable state lives in the store it is handed at construction.
type Server struct {
	store   *store.Store
	valid   *schema.Validator
	log     *slog.Logger
	checker *health.Checker
	mux     *http.ServeMux
}

// New creates a new Server over the given store.
func New(st *store.Store, logger *slog.Logger) (*Server, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("build event validator: %w", err)
	}

	checker := health.NewChecker()
	checker.Register("database", health.DatabaseCheck(st.Ping))
	checker.SetReady(true)

	s := &Server{
		store:   st,
		valid:   validator,
		log:     logger,
		checker: checker,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/events", s.handleEventList)
	s.mux.HandleFunc("POST /api/events", s.handleEventCreate)
	s.mux.HandleFunc("GET /api/events/{id}", s.handleEventGet)

	s.mux.Handle("GET /healthz", s.checker.LivenessHandler())
	s.mux.Handle("GET /readyz", s.checker.ReadinessHandler())
	s.mux.Handle("GET /health", s.checker.HealthHandler())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
