package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/unisism/transport-api/internal/domain"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status. Encoding failures are logged
// but not surfaced — headers are already written by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// serviceError maps a service-layer error to its HTTP representation.
// Unrecognized errors become an opaque 500; the detail stays in the log.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", unwrapMessage(err))
	case errors.Is(err, domain.ErrInsufficientCapacity):
		// Distinct from validation_error so the caller can offer the
		// waitlist or cost-assistance track instead of treating it as a bug.
		writeError(w, http.StatusBadRequest, "insufficient_capacity", unwrapMessage(err))
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage strips the "pkg.Type.Method: " wrapping prefixes from a
// service error, leaving the human-readable tail for the response body.
// e.g. "service.AdmissionService.Approve: candidacy is Approved: invalid state"
// -> "candidacy is Approved: invalid state".
func unwrapMessage(err error) string {
	msg := err.Error()
	for {
		idx := strings.Index(msg, ": ")
		if idx < 0 {
			return msg
		}
		head := msg[:idx]
		// Wrapping prefixes look like Go identifiers joined by dots
		// ("repo.TripRepo.GetByID"); anything with a space is real text.
		if strings.ContainsAny(head, " \t") || !strings.Contains(head, ".") {
			return msg
		}
		msg = msg[idx+2:]
	}
}
