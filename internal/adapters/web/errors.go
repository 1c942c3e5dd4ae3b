package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"garage-manager/internal/app"
	"garage-manager/internal/core"
	"garage-manager/internal/store"
)

type errorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	RequestID string            `json:"request_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorResponse(w, r, errorResponse{Error: message, Code: code}, status)
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, resp errorResponse, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp.RequestID = requestIDFromContext(r.Context())
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeCreated writes a JSON response with status 201.
func writeCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError maps an application error to its HTTP status and code.
// Anything unrecognised is logged and reported as a 500 without details.
func (h *Handler) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		writeErrorResponse(w, r, errorResponse{Error: "validation failed", Code: "VALIDATION_FAILED", Fields: verr.Fields}, http.StatusUnprocessableEntity)
	case errors.Is(err, app.ErrValidation):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, r, err.Error(), "INVALID_AMOUNT", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrNoOutstandingBalance):
		writeError(w, r, err.Error(), "NO_OUTSTANDING_BALANCE", http.StatusConflict)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, r, err.Error(), "DUPLICATE", http.StatusConflict)
	case errors.Is(err, store.ErrInvalidReference):
		writeError(w, r, err.Error(), "INVALID_REFERENCE", http.StatusUnprocessableEntity)
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, r, "invalid username or password", "UNAUTHORIZED", http.StatusUnauthorized)
	default:
		h.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", requestIDFromContext(r.Context())),
			slog.Any("error", err),
		)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// logStreamError records a failure that happened after the response status
// was already sent.
func (h *Handler) logStreamError(r *http.Request, err error) {
	h.logger.Error("response stream failed",
		slog.String("path", r.URL.Path),
		slog.String("request_id", requestIDFromContext(r.Context())),
		slog.Any("error", err),
	)
}
