// Package httpapi exposes the auth engine over HTTP. Response shapes and
// status codes are part of the public contract: errors are {"error": msg}
// with retryAfter seconds added on 429s.
package httpapi

import (
	"log/slog"
	"net/http"

	"secureapp/server/auth"
)

type Server struct {
	engine *auth.Engine
	logger *slog.Logger
	mux    *http.ServeMux
}

func NewServer(engine *auth.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = clientIPMiddleware(h)
	h = loggingMiddleware(s.logger, h)
	h = recoverMiddleware(s.logger, h)
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.mux.HandleFunc("POST /api/send-code", s.handleSendCode)
	s.mux.HandleFunc("POST /api/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/me", s.handleMe)
	s.mux.HandleFunc("POST /api/delete-account", s.handleDeleteAccount)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
