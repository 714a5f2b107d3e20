// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies failures the way they propagate to callers: a
// configuration error is fatal for the request, an upstream or parse error
// triggers the fallback path, a partial error is isolated per item.
type ErrorType string

const (
	ErrorTypeConfig   ErrorType = "config_error"
	ErrorTypeUpstream ErrorType = "upstream_error"
	ErrorTypeParse    ErrorType = "parse_error"
	ErrorTypePartial  ErrorType = "partial_error"
)

// AppError carries a user-presentable message and a technical cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Detail returns the technical detail string for error payloads: the wrapped
// cause when present, the message otherwise.
func (e *AppError) Detail() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewAppError creates a new AppError.
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
	}
}

// NewConfigError reports missing or unusable configuration (credentials,
// document ID).
func NewConfigError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeConfig, message, originalError)
}

// NewUpstreamError reports a failed fetch from a Google endpoint.
func NewUpstreamError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeUpstream, message, originalError)
}

// NewParseError reports a malformed upstream payload.
func NewParseError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeParse, message, originalError)
}

// NewPartialError reports a failure scoped to a single item (one inline
// image, one category) that must not affect siblings.
func NewPartialError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypePartial, message, originalError)
}

// Detail extracts the technical detail string of any error for error
// payloads, unwrapping AppError when possible.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Detail()
	}
	return err.Error()
}

func isType(err error, t ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == t
	}
	return false
}

// IsConfigError checks whether err is a configuration error.
func IsConfigError(err error) bool { return isType(err, ErrorTypeConfig) }

// IsUpstreamError checks whether err is an upstream fetch error.
func IsUpstreamError(err error) bool { return isType(err, ErrorTypeUpstream) }

// IsParseError checks whether err is a parse error.
func IsParseError(err error) bool { return isType(err, ErrorTypeParse) }

// IsPartialError checks whether err is an isolated per-item error.
func IsPartialError(err error) bool { return isType(err, ErrorTypePartial) }

// WrapError wraps an existing error, preserving the type of an AppError cause.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError,
		}
	}

	return NewAppError(errType, message, err)
}
