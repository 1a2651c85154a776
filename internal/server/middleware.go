package server

import (
	"net/http"
	"strconv"
	"time"

	apperrors "driver-portal/internal/common/errors"
	"driver-portal/internal/common/metrics"

	"github.com/gorilla/mux"
)

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument logs every request and records its duration against the route
// template, so path parameters don't explode the label space.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		elapsed := time.Since(start)
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(elapsed.Seconds())

		s.logger.Info("http request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"durationMs": elapsed.Milliseconds(),
		})
	})
}

// requireSession gates reviewer operations behind a valid session token. The
// token travels in the session cookie; a Bearer header is accepted as well
// for scripted access.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.sessionToken(r)
		user, ok := s.sessions.Validate(r.Context(), token)
		if !ok {
			writeError(w, s.logger, apperrors.NewUnauthorizedError("missing or expired session"))
			return
		}

		s.logger.Debug("session accepted", map[string]interface{}{
			"user": user,
			"path": r.URL.Path,
		})
		next(w, r)
	}
}

func (s *Server) sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(s.cfg.Auth.SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	const bearerPrefix = "Bearer "
	if auth := r.Header.Get("Authorization"); len(auth) > len(bearerPrefix) && auth[:len(bearerPrefix)] == bearerPrefix {
		return auth[len(bearerPrefix):]
	}
	return ""
}
