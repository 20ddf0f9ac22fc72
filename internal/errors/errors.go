// Package errors provides consistent error types for Timeledger.
// It defines the failure taxonomy shared by the computation, sync and
// backup subsystems: typed conditions the UI can surface as notifications,
// never panics crossing a subsystem boundary.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common conditions.
var (
	ErrComputation     = errors.New("background computation failed")
	ErrSyncUnavailable = errors.New("cross-instance sync unavailable")
	ErrStorageQuota    = errors.New("storage quota exceeded")
	ErrBackupNotFound  = errors.New("backup not found")
	ErrImportFormat    = errors.New("malformed import document")
	ErrEntryNotFound   = errors.New("entry not found")
	ErrEndBeforeStart  = errors.New("end time must be after start time")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidClock    = errors.New("invalid clock time")
	ErrDiskFull        = errors.New("disk full")
	ErrDatabaseCorrupted = errors.New("database corrupted")
	ErrPermissionDenied  = errors.New("permission denied")
)

// UserError represents an error that the user can fix.
// Examples: invalid input, missing required arguments, incorrect format.
type UserError struct {
	Message    string // What happened
	Suggestion string // How to fix it
	Field      string // The field/input that caused the error (optional)
	Value      string // The invalid value (optional)
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Field != "" && e.Value != "" {
		msg = fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return msg
}

// NewUserError creates a new UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewUserErrorWithField creates a new UserError with field context.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Field:      field,
		Value:      value,
		Suggestion: suggestion,
	}
}

// SystemError represents a system-level error that the user cannot directly
// fix. Examples: disk full, storage quota, database corruption.
type SystemError struct {
	Message string // What happened
	Cause   error  // The underlying error
	Op      string // The operation that failed (optional)
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error {
	return e.Cause
}

// NewSystemError creates a new SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
	}
}

// NewSystemErrorWithOp creates a new SystemError with operation context.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{
		Message: message,
		Cause:   cause,
		Op:      op,
	}
}

// ComputationError carries the failure of a dispatched background
// computation together with the computation kind that failed. Callers fall
// back to the last good cached result when they see one.
type ComputationError struct {
	Kind  string
	Cause error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation %q failed: %v", e.Kind, e.Cause)
}

func (e *ComputationError) Unwrap() error {
	return ErrComputation
}

// NewComputationError creates a ComputationError for the given kind.
func NewComputationError(kind string, cause error) *ComputationError {
	return &ComputationError{Kind: kind, Cause: cause}
}

// IsUserError checks if an error is a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError checks if an error is a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// AsUserError extracts a UserError from an error chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// AsSystemError extracts a SystemError from an error chain.
func AsSystemError(err error) (*SystemError, bool) {
	var se *SystemError
	ok := errors.As(err, &se)
	return se, ok
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
