package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "driver-portal/internal/common/errors"
	"driver-portal/internal/common/logger"
)

type errorBody struct {
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	MissingFields []string `json:"missingFields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError surfaces client-fixable errors verbatim and hides everything
// else behind a generic message; internal detail goes to the log only.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	stdErr, ok := apperrors.AsStandard(err)
	if !ok {
		log.Error("unclassified error", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": errorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
		})
		return
	}

	status := apperrors.HTTPStatus(stdErr.Code)
	if !apperrors.IsClientError(stdErr.Code) {
		log.Error("request failed", map[string]interface{}{
			"code":    string(stdErr.Code),
			"message": stdErr.Message,
			"details": stdErr.Details,
		})
		writeJSON(w, status, map[string]interface{}{
			"error": errorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
		})
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"error": errorBody{
			Code:          string(stdErr.Code),
			Message:       stdErr.Message,
			MissingFields: stdErr.MissingFields,
		},
	})
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
