package server

import (
	"fmt"
	"net/http"
	"time"

	apperrors "driver-portal/internal/common/errors"
	"driver-portal/internal/models"
	"driver-portal/internal/stats"

	"github.com/gorilla/mux"
)

// maxSubmissionBytes caps intake payloads, matching the 2mb body limit the
// public form has always been served with.
const maxSubmissionBytes = 2 << 20

// handleSubmit is the one unauthenticated data endpoint: applicants post
// their form payload here. A durable record with a failed receipt still
// returns 201; the receipt is regenerable on demand.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)

	var fields map[string]interface{}
	if err := decodeJSON(r.Body, &fields); err != nil {
		writeError(w, s.logger, badRequest("request body must be a JSON object"))
		return
	}

	result, err := s.lifecycle.Submit(r.Context(), fields)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	body := map[string]interface{}{
		"ok": true,
		"id": result.Application.ID,
	}
	if result.ReceiptErr != nil {
		body["receiptPending"] = true
	} else {
		body["pdfUrl"] = receiptURL(result.Application.ID)
	}
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	apps, err := s.lifecycle.List(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	app, err := s.lifecycle.Get(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// statusChangeRequest accepts both the action form and the legacy shape the
// old admin UI posts, {"status": "approved"}.
type statusChangeRequest struct {
	Action string `json:"action"`
	Status string `json:"status"`
}

func (s *Server) handleStatusChange(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req statusChangeRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, s.logger, badRequest("request body must be a JSON object"))
		return
	}

	action := models.Action(req.Action)
	if req.Action == "" {
		if req.Status == "" {
			writeError(w, s.logger, badRequest("either action or status is required"))
			return
		}
		var ok bool
		action, ok = models.ActionForTargetStatus(models.Status(req.Status))
		if !ok {
			writeError(w, s.logger, badRequest(fmt.Sprintf("unknown target status %q", req.Status)))
			return
		}
	}

	app, err := s.lifecycle.ChangeStatus(r.Context(), id, action)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// handleReceipt serves the PDF receipt, regenerating it first if the file
// has gone missing since submission.
func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	path, err := s.receipts.Ensure(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+".pdf"))
	http.ServeFile(w, r, path)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	apps, err := s.records.LoadAll(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats.Summarize(apps, time.Now()))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, s.logger, badRequest("request body must be a JSON object"))
		return
	}

	if !s.creds.Check(req.Username, req.Password) {
		writeError(w, s.logger, apperrors.NewUnauthorizedError("invalid credentials"))
		return
	}

	token, err := s.sessions.Create(r.Context(), req.Username)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	ttl := time.Duration(s.cfg.Auth.SessionTTLHrs) * time.Hour
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := s.sessionToken(r); token != "" {
		if err := s.sessions.Destroy(r.Context(), token); err != nil {
			s.logger.Warn("session destroy failed", map[string]interface{}{"error": err.Error()})
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func receiptURL(id string) string {
	return "/api/applications/" + id + "/pdf"
}

// badRequest wraps a malformed-request message in the standard taxonomy so
// writeError can render it like every other client error.
func badRequest(msg string) error {
	return &apperrors.StandardError{
		Code:      apperrors.ErrCodeValidationFailed,
		Message:   msg,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
