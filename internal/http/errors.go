package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"wallet/internal/amqp"
	"wallet/internal/core"
	"wallet/internal/log"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeNotFound         = "not_found"
	CodeUnprocessable    = "unprocessable_entity"
	CodeRateLimited      = "rate_limited"
	CodeUnavailable      = "service_unavailable"
	CodeInternal         = "internal_error"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

var (
	errMissingUser     = errors.New("missing or invalid X-User-ID header")
	errExportsDisabled = errors.New("report exports are not configured")
)

// paramError is a missing or malformed request parameter.
type paramError struct {
	param  string
	reason string
}

func (e *paramError) Error() string {
	return e.param + ": " + e.reason
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message, detail string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message, Detail: detail})
}

// handleError maps err to a status and error body. Only unexpected errors are
// logged at error level; client errors are already visible in the access log.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var pe *paramError
	switch {
	case errors.As(err, &pe):
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request parameter", pe.Error())
	case errors.Is(err, errMissingUser):
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, err.Error(), "")
	case errors.Is(err, core.ErrInvalidGranularity),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidYear),
		errors.Is(err, amqp.ErrUnknownReport):
		writeError(w, http.StatusUnprocessableEntity, CodeUnprocessable, "invalid report parameters", err.Error())
	case errors.Is(err, errExportsDisabled), errors.Is(err, amqp.ErrCircuitOpen):
		writeError(w, http.StatusServiceUnavailable, CodeUnavailable, err.Error(), "")
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldError, err, log.FieldPath, r.URL.Path, log.FieldMethod, r.Method)
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal server error", "")
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed", "")
}
