// Package api exposes the NID extraction engine over a multipart HTTP
// boundary with token auth, rate limiting and upload validation.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/common"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/nid"
)

// Server is the HTTP API server for the NID extractor.
type Server struct {
	router  chi.Router
	engine  Extractor
	limiter Limiter
	log     *slog.Logger
	cfg     *common.Config
}

// Extractor is the engine seam the handlers call into.
type Extractor interface {
	Extract(ctx context.Context, input any) nid.Result
}

// NewServer creates and configures the HTTP server.
func NewServer(engine Extractor, limiter Limiter, log *slog.Logger, cfg *common.Config) *Server {
	s := &Server{
		engine:  engine,
		limiter: limiter,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(RequestLogger(s.log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "Endpoint not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.Get("/", s.handleIndex)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.Auth.HeaderName, s.cfg.Auth.Token, s.log))
		r.Use(RateLimitMiddleware(s.limiter, s.cfg.Auth.HeaderName, s.log))

		r.Post("/process_image", s.handleProcessImage)
	})

	s.router = r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "NID Extractor API is running."})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
