package web

// errors.go provides unified error responses. The technical error is logged
// server-side with the request ID; the client receives a JSON envelope with
// the status derived from the error type: ParseError means bad input (400),
// ErrNotFound means an unknown resource (404), everything else is internal
// (500).

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stocksync/stocksync/internal/core"
	"github.com/stocksync/stocksync/internal/logging"
)

// ErrorResponse is the JSON structure for API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondError maps an error to a status code, logs it, and writes the JSON
// response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	label := "internal error"

	var pe *core.ParseError
	switch {
	case errors.As(err, &pe):
		status = http.StatusBadRequest
		label = "invalid input"
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		label = "not found"
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err,
	)

	details := ""
	if status != http.StatusInternalServerError {
		// Internal details stay out of client responses.
		details = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: label, Details: details})
}

// respondJSON writes a JSON success response.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
