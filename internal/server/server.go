// Package server is the HTTP boundary: routing, session auth, and the JSON
// contract. All domain decisions live below it in lifecycle, artifact and
// stats.
package server

import (
	"net/http"

	"driver-portal/internal/artifact"
	"driver-portal/internal/auth"
	"driver-portal/internal/common/config"
	"driver-portal/internal/common/logger"
	"driver-portal/internal/lifecycle"
	"driver-portal/internal/store"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	cfg       *config.Config
	logger    logger.Logger
	lifecycle *lifecycle.Service
	receipts  *artifact.Storage
	records   store.Store
	sessions  *auth.SessionStore
	creds     auth.Credentials
	router    *mux.Router
}

func New(
	cfg *config.Config,
	log logger.Logger,
	svc *lifecycle.Service,
	receipts *artifact.Storage,
	records store.Store,
	sessions *auth.SessionStore,
) *Server {
	s := &Server{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
		lifecycle: svc,
		receipts:  receipts,
		records:   records,
		sessions:  sessions,
		creds: auth.Credentials{
			User: cfg.Auth.AdminUser,
			Pass: cfg.Auth.AdminPass,
		},
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/api/applications", s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/api/applications", s.requireSession(s.handleList)).Methods(http.MethodGet)
	r.HandleFunc("/api/applications/{id}", s.requireSession(s.handleGet)).Methods(http.MethodGet)
	r.HandleFunc("/api/applications/{id}/status", s.requireSession(s.handleStatusChange)).Methods(http.MethodPost)
	r.HandleFunc("/api/applications/{id}/pdf", s.requireSession(s.handleReceipt)).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.requireSession(s.handleStats)).Methods(http.MethodGet)

	r.HandleFunc("/admin/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/admin/logout", s.handleLogout).Methods(http.MethodPost)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

// Handler exposes the configured router for the http.Server and for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
