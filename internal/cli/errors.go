// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for icewarden commands.
//
// Handlers always return errors; main displays them once and maps them to
// an exit code.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/icewarden/internal/config"
	"github.com/jeranaias/icewarden/internal/model"
	"github.com/jeranaias/icewarden/internal/remediate"
	"github.com/jeranaias/icewarden/internal/secret"
	"github.com/jeranaias/icewarden/internal/warehouse"
)

// =============================================================================
// EXIT CODES - Specific codes for different error categories
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
	// ExitAuthError indicates authentication or authorization failure
	ExitAuthError = 4
	// ExitNetworkError indicates the warehouse could not be reached
	ExitNetworkError = 5
	// ExitDataError indicates a record the warehouse returned could not be decoded
	ExitDataError = 6
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
	// ExitRemediationFailed indicates a batch finished with failed items
	ExitRemediationFailed = 9
	// ExitInterrupted indicates the run was cancelled by a signal
	ExitInterrupted = 130
)

// =============================================================================
// ERROR TYPES FOR STRUCTURED ERROR HANDLING
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "sessions")
	Action  string // Action being performed (e.g., "kill")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

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

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string // Type of resource (e.g., "session", "user")
	ID       string // Identifier that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// RemediationFailedError reports a batch that completed with failed items.
type RemediationFailedError struct {
	Action  string
	Summary remediate.Summary
}

func (e *RemediationFailedError) Error() string {
	return fmt.Sprintf("%s: %d of %d failed", e.Action, e.Summary.Failed(), e.total())
}

func (e *RemediationFailedError) total() int {
	n := 0
	for _, c := range e.Summary {
		n += c
	}
	return n
}

// reportedError has already been shown to the user; only its exit code
// remains to be applied.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{
		Command: command,
		Action:  action,
		Reason:  reason,
		Err:     err,
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

// ErrInvalidFormat creates an error for invalid format.
func ErrInvalidFormat(field, value, expected string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Reason:  "invalid format",
		Example: expected,
	}
}

// ErrUnsupportedFormat creates an error for unsupported formats.
func ErrUnsupportedFormat(format string, supportedFormats []string) error {
	return &ValidationError{
		Field:   "format",
		Value:   format,
		Reason:  "unsupported format",
		Example: fmt.Sprintf("supported formats: %s", strings.Join(supportedFormats, ", ")),
	}
}

// ErrUnknownSubcommand creates an error for an unrecognised subcommand.
func ErrUnknownSubcommand(command, sub string, valid []string) error {
	return &ValidationError{
		Field:   command + " subcommand",
		Value:   sub,
		Reason:  "unknown subcommand",
		Example: fmt.Sprintf("icewarden %s %s", command, strings.Join(valid, "|")),
	}
}

// ErrUnknownFlags creates an error naming flags a command does not accept.
func ErrUnknownFlags(command string, flags []string) error {
	return &ValidationError{
		Field:   "flag",
		Value:   "--" + strings.Join(flags, ", --"),
		Reason:  "not accepted by " + command,
		Example: "icewarden help",
	}
}

// =============================================================================
// ERROR DISPLAY HELPERS
// =============================================================================

// DisplayError writes an error in a consistent format. In JSON mode a JSON
// envelope goes to stdout; otherwise the message goes to stderr.
func DisplayError(err error, command string, jsonMode bool) {
	var reported *reportedError
	if err == nil || errors.As(err, &reported) {
		return
	}
	if jsonMode {
		_ = NewJSONErrorResponse(command, err).Print()
		return
	}
	writeError(os.Stderr, err)
}

func writeError(w io.Writer, err error) {
	if errors.Is(err, ErrCancelled) {
		fmt.Fprintln(w, DimStyle.Render("Cancelled."))
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), secret.Redact(err.Error()))
}

// ErrorType classifies err for JSON output.
func ErrorType(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		commandErr    *CommandError
		remedErr      *RemediationFailedError
		connErr       *warehouse.ConnectionError
		callErr       *warehouse.CallError
		decodeErr     *model.DecodeError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &notFoundErr):
		return "not_found_error"
	case errors.As(err, &remedErr):
		return "remediation_failed"
	case errors.As(err, &connErr):
		return "connection_error"
	case errors.As(err, &callErr):
		return "call_error"
	case errors.As(err, &decodeErr):
		return "decode_error"
	case config.IsValidationError(err):
		return "config_error"
	case errors.As(err, &commandErr):
		return "command_error"
	default:
		return "generic_error"
	}
}

// GetExitCode determines the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		validationErr *ValidationError
		ttyErr        *TTYRequiredError
		notFoundErr   *NotFoundError
		remedErr      *RemediationFailedError
		connErr       *warehouse.ConnectionError
		decodeErr     *model.DecodeError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, ErrCancelled):
		return ExitInterrupted
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.As(err, &validationErr), errors.As(err, &ttyErr):
		return ExitUsageError
	case config.IsValidationError(err):
		return ExitConfigError
	case errors.As(err, &notFoundErr):
		return ExitNotFoundError
	case errors.As(err, &remedErr):
		return ExitRemediationFailed
	case errors.As(err, &decodeErr):
		return ExitDataError
	case errors.As(err, &connErr):
		if isAuthFailure(connErr) {
			return ExitAuthError
		}
		return ExitNetworkError
	}
	return ExitGeneralError
}

// isAuthFailure recognises rejected credentials in a login failure.
func isAuthFailure(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "incorrect username or password") ||
		strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "mfa")
}
