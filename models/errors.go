package models

import (
	"errors"
	"fmt"
)

// Error codes for the closed extraction failure set.
const (
	ErrCodeInvalidSourceURL      = "INVALID_SOURCE_URL"
	ErrCodeAlreadyImported       = "ALREADY_IMPORTED"
	ErrCodeStrategyExhausted     = "STRATEGY_EXHAUSTED"
	ErrCodeAutomationUnavailable = "AUTOMATION_UNAVAILABLE"
	ErrCodePermissionDenied      = "PERMISSION_DENIED"

	// Internal codes used between the driver and the orchestrator; they are
	// converted to "try next strategy" and never reach the caller directly.
	ErrCodeTimeout    = "EXTRACT_TIMEOUT"
	ErrCodeNavigation = "NAVIGATION_FAILED"
	ErrCodeEvaluation = "EVALUATION_FAILED"
)

// ExtractError is the typed error returned by the extraction engine.
// It implements the error interface and supports wrapping via Unwrap.
type ExtractError struct {
	Code    string
	Message string
	Err     error // wrapped original error

	// Warnings carries accumulated diagnostics for STRATEGY_EXHAUSTED so
	// the caller can log what each strategy reported before giving up.
	Warnings []string
}

func (e *ExtractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(code, message string, err error) *ExtractError {
	return &ExtractError{Code: code, Message: message, Err: err}
}

// CodeOf returns the extraction error code, or "" when err is not an
// ExtractError.
func CodeOf(err error) string {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// IsAlreadyImported reports whether err is the duplicate-import error.
func IsAlreadyImported(err error) bool {
	return CodeOf(err) == ErrCodeAlreadyImported
}

// IsAutomationUnavailable reports whether err means the browser runtime
// could not be launched in this environment.
func IsAutomationUnavailable(err error) bool {
	return CodeOf(err) == ErrCodeAutomationUnavailable
}
