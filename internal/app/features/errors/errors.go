// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// Error codes returned to API callers. These mirror the workflow error
// taxonomy: every failure is scoped to the single call and surfaced
// directly, with no local retry.
const (
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodePermissionDenied = "permission_denied"
	CodeValidation       = "validation_error"
	CodeDuplicateTitle   = "duplicate_title"
	CodeConflict         = "conflict"
	CodeForbidden        = "forbidden"
	CodeQuotaExceeded    = "quota_exceeded"
	CodeRateLimited      = "rate_limited"
	CodeServerError      = "server_error"
)

// payload is the JSON error body.
type payload struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`  // set for validation_error
	Reason  string `json:"reason,omitempty"` // set for conflict/forbidden
}

func write(w http.ResponseWriter, status int, p payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(p)
}

// WriteUnauthorized responds 401 for requests with no signed-in user.
func WriteUnauthorized(w http.ResponseWriter) {
	write(w, http.StatusUnauthorized, payload{Error: CodeUnauthorized, Message: "Please sign in to continue."})
}

// WriteNotFound responds 404 for a missing idea, project, or user.
func WriteNotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Not found."
	}
	write(w, http.StatusNotFound, payload{Error: CodeNotFound, Message: msg})
}

// WritePermissionDenied responds 403 for a non-creator attempting a
// creator-only action.
func WritePermissionDenied(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "You do not have permission to perform this action."
	}
	write(w, http.StatusForbidden, payload{Error: CodePermissionDenied, Message: msg})
}

// WriteValidation responds 400 naming the offending field.
func WriteValidation(w http.ResponseWriter, field, msg string) {
	write(w, http.StatusBadRequest, payload{Error: CodeValidation, Message: msg, Field: field})
}

// WriteDuplicateTitle responds 409 when a project title is already taken.
func WriteDuplicateTitle(w http.ResponseWriter, title string) {
	write(w, http.StatusConflict, payload{
		Error:   CodeDuplicateTitle,
		Message: "A project titled " + strconv.Quote(title) + " already exists.",
	})
}

// WriteConflict responds 409 with a machine-readable reason
// (e.g. "role_taken").
func WriteConflict(w http.ResponseWriter, reason, msg string) {
	write(w, http.StatusConflict, payload{Error: CodeConflict, Message: msg, Reason: reason})
}

// WriteForbidden responds 403 for actions disallowed by state
// (e.g. joining an archived project, reason "archived").
func WriteForbidden(w http.ResponseWriter, reason, msg string) {
	write(w, http.StatusForbidden, payload{Error: CodeForbidden, Message: msg, Reason: reason})
}

// WriteQuotaExceeded responds 429 when the daily idea quota is spent.
func WriteQuotaExceeded(w http.ResponseWriter, msg string) {
	write(w, http.StatusTooManyRequests, payload{Error: CodeQuotaExceeded, Message: msg})
}

// WriteRateLimited responds 429 for rate-limited write endpoints.
func WriteRateLimited(w http.ResponseWriter) {
	write(w, http.StatusTooManyRequests, payload{Error: CodeRateLimited, Message: "Too many requests. Try again shortly."})
}

// WriteBadRequest responds 400 for malformed request bodies.
func WriteBadRequest(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Bad request."
	}
	write(w, http.StatusBadRequest, payload{Error: CodeValidation, Message: msg})
}

// ErrorLogger logs server-side failures and writes a generic 500 so
// internal details never reach the caller.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger backed by the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs the error with request context and responds 500
// with the user-facing message.
func (l *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	l.log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	if userMsg == "" {
		userMsg = "An internal error occurred."
	}
	write(w, http.StatusInternalServerError, payload{Error: CodeServerError, Message: userMsg})
}
