package web

// errors.go turns errors into HTTP responses.
//
// The status code comes from statusFor, which matches sentinel errors from
// core, auth and sources. The body comes from core.MapError, so clients see
// a friendly message and a support code while the technical error is only
// logged, tagged with the request ID.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/tablekeeper/internal/auth"
	"github.com/JonMunkholm/tablekeeper/internal/core"
	"github.com/JonMunkholm/tablekeeper/internal/logging"
	"github.com/JonMunkholm/tablekeeper/internal/sources"
	"github.com/JonMunkholm/tablekeeper/internal/web/templates"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, sources.ErrSheetAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound),
		errors.Is(err, sources.ErrSheetNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrInvalidInput),
		errors.Is(err, core.ErrIndexOutOfRange),
		errors.Is(err, core.ErrEmptyData),
		errors.Is(err, auth.ErrUserExists),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidRegistration),
		errors.Is(err, sources.ErrUnsupportedFile),
		errors.Is(err, sources.ErrMalformedFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports),
		errors.Is(err, sources.ErrSheetsDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status chosen by statusFor.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondErrorStatus(w, r, err, statusFor(err))
}

// respondErrorStatus logs err and writes a user-facing error response:
// an HTML fragment for HTMX requests, JSON otherwise.
func respondErrorStatus(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
			slog.Warn("render error alert", "error", err)
		}
		return
	}

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// writeJSON encodes v as the response body with the given status.
// Encoding errors are logged since the header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json encode error", "error", err)
	}
}
