// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for all CLI commands in sage.
//
// Every command handler returns errors instead of printing and
// swallowing them; main converts the error into an exit code here.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/sage-tui/internal/tutor"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates network or connectivity error
	ExitNetworkError = 5
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   string // Value that was provided
	Reason  string // Why validation failed
	Example string // Example of valid value (optional)
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NewValidationError creates a new validation error.
func NewValidationError(field, value, reason string) error {
	return &ValidationError{
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{
		Field:   argName,
		Reason:  "required argument missing",
		Example: usage,
	}
}

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ExitUsageError
	}

	// Typed tutor client errors map directly
	switch {
	case tutor.IsNoBaseURL(err):
		return ExitConfigError
	case tutor.IsTimeout(err):
		return ExitTimeoutError
	case tutor.IsUnreachable(err):
		return ExitNetworkError
	}

	// Fall back to message content for wrapped errors
	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "config") ||
		strings.Contains(errMsg, "configuration") {
		return ExitConfigError
	}

	if strings.Contains(errMsg, "timed out") ||
		strings.Contains(errMsg, "deadline exceeded") {
		return ExitTimeoutError
	}

	if strings.Contains(errMsg, "connection") ||
		strings.Contains(errMsg, "unreachable") ||
		strings.Contains(errMsg, "dial") {
		return ExitNetworkError
	}

	return ExitGeneralError
}
