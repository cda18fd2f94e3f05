package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/vocablog/internal/domain"
	"github.com/pkordes/vocablog/internal/quiz"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client has gone away; nothing left to report to.
	json.NewEncoder(w).Encode(v)
}

// requestBody writes a 422 for a bad request rejected before reaching the
// service layer (e.g. missing or malformed body, unparsable parameter).
func requestBody(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}})
}

// writeError maps a service error to its HTTP status:
// ErrNotFound 404, ErrValidation 422, ErrReadOnly and quiz.ErrState 409.
// Anything else is logged and answered with an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status int
		detail ErrorDetail
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, detail = http.StatusNotFound, ErrorDetail{Code: "not_found", Message: unwrapMessage(err, domain.ErrNotFound)}
	case errors.Is(err, domain.ErrValidation):
		status, detail = http.StatusUnprocessableEntity, ErrorDetail{Code: "validation_error", Message: unwrapMessage(err, domain.ErrValidation)}
	case errors.Is(err, domain.ErrReadOnly):
		status, detail = http.StatusConflict, ErrorDetail{Code: "read_only", Message: "the vocabulary store is read-only"}
	case errors.Is(err, quiz.ErrState):
		status, detail = http.StatusConflict, ErrorDetail{Code: "invalid_state", Message: unwrapMessage(err, quiz.ErrState)}
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		status, detail = http.StatusInternalServerError, ErrorDetail{Code: "internal_error", Message: "internal server error"}
	}
	writeJSON(w, status, ErrorResponse{Error: detail})
}

// unwrapMessage extracts the human-readable part after the sentinel from a
// wrapped error.
// e.g. "service.QuizService.Start: validation error: nothing selected" → "nothing selected"
func unwrapMessage(err, sentinel error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
// It writes the error response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: ErrorDetail{
			Code:    "payload_too_large",
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		}})
		return false
	}
	requestBody(w, "invalid request body: "+err.Error())
	return false
}
