package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"legalrag/config"
	"legalrag/internal/domain"
)

// Pipeline is what the HTTP surface needs from the answering pipeline.
type Pipeline interface {
	Answer(ctx context.Context, question string) (string, error)
	Stats(ctx context.Context) (domain.CollectionStats, error)
}

// Server exposes the QA pipeline over HTTP.
type Server struct {
	pipeline Pipeline
	cors     bool
	srv      *http.Server
}

func New(cfg config.ServerConfig, pipeline Pipeline) *Server {
	s := &Server{
		pipeline: pipeline,
		cors:     cfg.CORS,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask-legal-question", s.handleAsk)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/health", s.handleHealth)

	var h http.Handler = mux
	if s.cors {
		h = corsMiddleware(h)
	}
	return h
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// corsMiddleware mirrors the permissive CORS policy of the original frontend
// integration.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
