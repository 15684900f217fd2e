package tg

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors - use with errors.Is()
var (
	// Wire errors
	ErrConnectFailed = errors.New("tglite: unable to connect to telegram server")
	ErrNoJSON        = errors.New("tglite: connection closed before a complete JSON object")

	// API errors
	ErrUnauthorized    = errors.New("tglite: unauthorized (invalid token)")
	ErrForbidden       = errors.New("tglite: forbidden")
	ErrNotFound        = errors.New("tglite: not found")
	ErrTooManyRequests = errors.New("tglite: too many requests")
	ErrBotBlocked      = errors.New("tglite: bot blocked by user")
	ErrChatNotFound    = errors.New("tglite: chat not found")
	ErrCallbackExpired = errors.New("tglite: callback query expired")

	// Client errors
	ErrCircuitOpen = errors.New("tglite: circuit breaker open")
	ErrMaxRetries  = errors.New("tglite: max retries exceeded")

	// Validation errors
	ErrInvalidToken  = errors.New("tglite: invalid bot token")
	ErrEmptyText     = errors.New("tglite: message text is empty")
	ErrTextTooLong   = errors.New("tglite: text too long")
	ErrEmptyQueryID  = errors.New("tglite: callback query id is empty")
	ErrInvalidConfig = errors.New("tglite: invalid configuration")
)

// APIError is a reply with "ok": false.
// Use errors.As() to extract details, errors.Is() to match sentinels.
type APIError struct {
	Method      string
	Code        int
	Description string
	cause       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tglite: %s failed: %s (code=%d)", e.Method, e.Description, e.Code)
}

// Unwrap returns the detected sentinel, if any.
func (e *APIError) Unwrap() error { return e.cause }

// IsRetryable reports whether the same request may succeed later.
func (e *APIError) IsRetryable() bool {
	return e.Code == 429 || (e.Code >= 500 && e.Code <= 504)
}

// NewAPIError creates an APIError with sentinel detection.
func NewAPIError(method string, code int, description string) *APIError {
	return &APIError{
		Method:      method,
		Code:        code,
		Description: description,
		cause:       DetectSentinel(code, description),
	}
}

// DetectSentinel maps Telegram error codes and descriptions to sentinel errors.
// Descriptions win over status codes since they are more specific.
func DetectSentinel(code int, desc string) error {
	descLower := strings.ToLower(desc)
	switch {
	case strings.Contains(descLower, "bot was blocked"):
		return ErrBotBlocked
	case strings.Contains(descLower, "chat not found"):
		return ErrChatNotFound
	case strings.Contains(descLower, "query is too old"):
		return ErrCallbackExpired
	}

	switch code {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 429:
		return ErrTooManyRequests
	}
	return nil
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tglite: config: %s - %s", e.Key, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// NewConfigError creates a new ConfigError.
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}
