package web

// errors.go turns errors into responses.
//
// The technical error is logged with the request id; the client gets the
// coded user message from core.MapError (or the session messages below) as
// JSON for API routes and as plain text otherwise.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sheetfilter/internal/core"
	"github.com/JonMunkholm/sheetfilter/internal/logging"
)

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// ErrBadRequest means the request body could not be decoded.
var ErrBadRequest = errors.New("malformed request body")

var webMessages = []struct {
	kind error
	msg  core.UserMessage
}{
	{ErrBadRequest, core.UserMessage{
		Message: "The request could not be read",
		Action:  "Send a JSON body with the documented fields",
		Code:    "REQ002",
	}},
	{ErrSessionNotFound, core.UserMessage{
		Message: "Session not found or expired",
		Action:  "Reload the page to start a new session",
		Code:    "SES001",
	}},
	{ErrSessionBusy, core.UserMessage{
		Message: "Another operation is running in this session",
		Action:  "Wait for it to finish and retry",
		Code:    "SES002",
	}},
	{ErrTooManySessions, core.UserMessage{
		Message: "Too many open sessions",
		Action:  "Retry later",
		Code:    "SES003",
	}},
}

// userMessage maps err to the message shown to clients. Web errors are
// checked before the core catalog.
func userMessage(err error) core.UserMessage {
	for _, sm := range webMessages {
		if errors.Is(err, sm.kind) {
			return sm.msg
		}
	}
	return core.MapError(err)
}

// statusFor picks the HTTP status of err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSessionBusy), errors.Is(err, core.ErrWritePermission):
		return http.StatusConflict
	case errors.Is(err, ErrTooManySessions), errors.Is(err, core.ErrTooManyRuns):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, core.ErrMissingInput),
		errors.Is(err, core.ErrHeaderNotLocated):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileNotFound),
		errors.Is(err, core.ErrUnreadableWorkbook),
		errors.Is(err, core.ErrNoHeaders),
		errors.Is(err, core.ErrFilterColumnNotFound),
		errors.Is(err, core.ErrNoRequiredColumns):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes its user message with the status from statusFor.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := userMessage(err)

	logging.FromContext(r.Context()).Warn("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	if wantsJSON(r) {
		writeJSONStatus(w, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
		return
	}
	http.Error(w, msg.Message+" ("+msg.Code+")", status)
}

// wantsJSON reports whether the client expects a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
