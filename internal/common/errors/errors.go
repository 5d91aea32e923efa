// Package errors provides the standardized error type shared by the audit stages.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeThrottled      ErrorCode = "THROTTLED"

	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMSynthesisFailed ErrorCode = "LLM_SYNTHESIS_FAILED"
	ErrCodeLLMEmptyResponse   ErrorCode = "LLM_EMPTY_RESPONSE"

	ErrCodeReportRenderFailed ErrorCode = "REPORT_RENDER_FAILED"

	ErrCodeDeliveryFailed           ErrorCode = "DELIVERY_FAILED"
	ErrCodeDeliveryInvalidRecipient ErrorCode = "DELIVERY_INVALID_RECIPIENT"
	ErrCodeAlertPublishFailed       ErrorCode = "ALERT_PUBLISH_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeConfigInvalid   ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a metadata key and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	e := newError(ErrCodeInvalidRequest, "Invalid submission request", nil, false)
	e.Details = details
	return e
}

// NewThrottledError reports a client over its submission allowance.
func NewThrottledError(details string) *StandardError {
	e := newError(ErrCodeThrottled, "Too many requests", nil, true)
	e.Details = details
	return e
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError(cause error) *StandardError {
	return newError(ErrCodeLLMTimeout, "LLM synthesis timeout", cause, true)
}

// NewLLMSynthesisFailedError creates a retryable LLM provider error.
func NewLLMSynthesisFailedError(cause error) *StandardError {
	return newError(ErrCodeLLMSynthesisFailed, "LLM synthesis API error", cause, true)
}

// NewLLMEmptyResponseError reports a provider that answered without text.
func NewLLMEmptyResponseError(provider string) *StandardError {
	e := newError(ErrCodeLLMEmptyResponse, "LLM returned an empty diagnosis", nil, true)
	e.Details = fmt.Sprintf("provider: %s", provider)
	return e
}

// NewReportRenderFailedError creates a report rendering error.
func NewReportRenderFailedError(renderer string, cause error) *StandardError {
	return newError(ErrCodeReportRenderFailed, "Report rendering failed", cause, true).
		WithMetadata("renderer", renderer)
}

// NewDeliveryFailedError creates a retryable delivery error.
func NewDeliveryFailedError(transport string, cause error) *StandardError {
	return newError(ErrCodeDeliveryFailed, "Report delivery failed", cause, true).
		WithMetadata("transport", transport)
}

// NewInvalidRecipientError creates a non-retryable recipient error.
func NewInvalidRecipientError(cause error) *StandardError {
	return newError(ErrCodeDeliveryInvalidRecipient, "Invalid recipient address", cause, false)
}

// NewAlertPublishFailedError wraps a sales alert publish failure.
func NewAlertPublishFailedError(cause error) *StandardError {
	return newError(ErrCodeAlertPublishFailed, "Sales alert publish failed", cause, true)
}

// NewConfigInvalidError wraps a configuration validation failure.
func NewConfigInvalidError(cause error) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration", cause, false)
}

func NewExternalServiceError(service string, cause error) *StandardError {
	return newError(ErrCodeExternalService, fmt.Sprintf("External service '%s' error", service), cause, true)
}

func NewTimeoutError(service string, cause error) *StandardError {
	return newError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), cause, true)
}

// Normalize returns err as a StandardError, wrapping foreign errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 3. Classification
// ==========================

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeLLMSynthesisFailed,
		ErrCodeDeliveryFailed,
		ErrCodeExternalService:
		return 3

	case ErrCodeLLMTimeout,
		ErrCodeLLMEmptyResponse,
		ErrCodeReportRenderFailed,
		ErrCodeTimeout:
		return 1

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "LLM"):
		return "AI"
	case strings.HasPrefix(codeStr, "REPORT"):
		return "REPORT"
	case strings.HasPrefix(codeStr, "DELIVERY") || strings.HasPrefix(codeStr, "ALERT"):
		return "DELIVERY"
	case strings.Contains(codeStr, "INVALID") || code == ErrCodeThrottled:
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps a code to the status returned to API clients. Everything
// except throttling surfaces as a generic server error.
func HTTPStatus(code ErrorCode) int {
	if code == ErrCodeThrottled {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
