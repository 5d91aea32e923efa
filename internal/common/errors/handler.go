// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Client-facing messages. Details stay in the logs.
const (
	MessageServerError     = "Server error"
	MessageTooManyRequests = "Too many requests"
)

// ErrorHandler turns stage errors into logged, generic HTTP responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleHTTPError logs err with its classification and writes the JSON error body.
func (h *ErrorHandler) HandleHTTPError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(r, stdErr, status)

	message := MessageServerError
	if status == http.StatusTooManyRequests {
		message = MessageTooManyRequests
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        status,
	}
	if r != nil {
		fields["method"] = r.Method
		fields["path"] = r.URL.Path
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	h.logger.Error("request failed", fields)
}
