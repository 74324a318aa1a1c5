// Package errors provides centralized error definitions and error handling
// utilities for procview. It defines domain-specific errors for the snapshot
// pipeline, signal delivery and preference persistence, semantic error types,
// and classification helpers.
//
// # Error Types
//
// Domain-specific errors:
//   - SnapshotError: refreshing or reading the process snapshot
//   - SignalError: delivering terminate/kill requests to a process
//   - PrefsError: loading or saving persisted view preferences
//
// Semantic errors:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewSnapshotError("refresh skipped", errors.ErrRefreshInProgress)
//	if errors.IsRetryable(err) {
//	    // skip this cycle; the next tick will try again
//	}
//
//	var sigErr *errors.SignalError
//	if errors.As(err, &sigErr) {
//	    log.Warn("signal failed", "pid", sigErr.PID)
//	}
//
// # Error Classification
//
// The snapshot core never returns fatal errors. Transient conditions (an
// enumeration already in flight, a panicking source) are retryable and are
// resolved by skipping the current refresh cycle.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Snapshot-related sentinel errors
var (
	// ErrRefreshInProgress indicates another enumeration is already running.
	ErrRefreshInProgress = New("refresh already in progress")
	// ErrSourcePanicked indicates the enumeration source panicked mid-refresh.
	ErrSourcePanicked = New("process source panicked")
	// ErrEnumerationFailed indicates the OS process table could not be read.
	ErrEnumerationFailed = New("process enumeration failed")
)

// Process-related sentinel errors
var (
	// ErrProcessNotFound indicates that no process with the pid exists.
	ErrProcessNotFound = New("process not found")
	// ErrSignalFailed indicates the OS rejected a signal request.
	ErrSignalFailed = New("signal delivery failed")
)

// Persistence and output sentinel errors
var (
	// ErrPrefsCorrupted indicates the saved preferences could not be decoded.
	ErrPrefsCorrupted = New("preferences data corrupted")
	// ErrClipboardUnavailable indicates no clipboard sink is attached.
	ErrClipboardUnavailable = New("clipboard unavailable")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// ProcviewError is the base interface for all procview errors.
type ProcviewError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on the next attempt.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// in the status bar.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// formatPrefixed renders "<kind> [k=v, ...]: message: cause".
func formatPrefixed(kind string, parts []string, message string, cause error) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, message, cause)
	}
	return fmt.Sprintf("%s: %s", prefix, message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SnapshotError represents a failed or skipped refresh of the process table.
// Contention and source panics are retryable by construction.
//
// Example:
//
//	err := errors.NewSnapshotError("refresh skipped", errors.ErrRefreshInProgress).WithTrigger("tick")
//	fmt.Println(err) // "snapshot error [trigger=tick]: refresh skipped: refresh already in progress"
type SnapshotError struct {
	baseError
	Trigger string
}

// NewSnapshotError creates a new SnapshotError. Errors caused by
// ErrRefreshInProgress or ErrSourcePanicked are marked retryable.
func NewSnapshotError(message string, cause error) *SnapshotError {
	retryable := errors.Is(cause, ErrRefreshInProgress) || errors.Is(cause, ErrSourcePanicked)
	severity := SeverityError
	if retryable {
		severity = SeverityDebug
	}
	return &SnapshotError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   severity,
			retryable:  retryable,
			userFacing: false,
		},
	}
}

// WithTrigger records what requested the refresh ("tick", "manual", ...).
func (e *SnapshotError) WithTrigger(trigger string) *SnapshotError {
	e.Trigger = trigger
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *SnapshotError) WithRetryable(r bool) *SnapshotError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *SnapshotError) Error() string {
	var parts []string
	if e.Trigger != "" {
		parts = append(parts, fmt.Sprintf("trigger=%s", e.Trigger))
	}
	return formatPrefixed("snapshot error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *SnapshotError) Is(target error) bool {
	if _, ok := target.(*SnapshotError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SignalError represents a terminate or kill request that could not be
// delivered.
//
// Example:
//
//	err := errors.NewSignalError("terminate failed", cause).WithPID(42).WithSignal("SIGTERM")
type SignalError struct {
	baseError
	PID    int32
	Signal string
}

// NewSignalError creates a new SignalError.
func NewSignalError(message string, cause error) *SignalError {
	return &SignalError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithPID adds the target pid to the error context.
func (e *SignalError) WithPID(pid int32) *SignalError {
	e.PID = pid
	return e
}

// WithSignal adds the signal name to the error context.
func (e *SignalError) WithSignal(sig string) *SignalError {
	e.Signal = sig
	return e
}

// Error returns the formatted error message.
func (e *SignalError) Error() string {
	var parts []string
	if e.PID != 0 {
		parts = append(parts, fmt.Sprintf("pid=%d", e.PID))
	}
	if e.Signal != "" {
		parts = append(parts, fmt.Sprintf("signal=%s", e.Signal))
	}
	return formatPrefixed("signal error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *SignalError) Is(target error) bool {
	if _, ok := target.(*SignalError); ok {
		return true
	}
	if errors.Is(target, ErrSignalFailed) {
		return true
	}
	return e.baseError.Is(target)
}

// PrefsError represents a failure to load or save view preferences.
type PrefsError struct {
	baseError
	Path string
}

// NewPrefsError creates a new PrefsError.
func NewPrefsError(message string, cause error) *PrefsError {
	return &PrefsError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: false,
		},
	}
}

// WithPath adds the preferences file path to the error context.
func (e *PrefsError) WithPath(path string) *PrefsError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *PrefsError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	return formatPrefixed("prefs error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *PrefsError) Is(target error) bool {
	if _, ok := target.(*PrefsError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("process", "4242")
//	fmt.Println(err) // "process '4242' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if e.ResourceType == "process" && errors.Is(target, ErrProcessNotFound) {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("unknown sort category").WithField("sort").WithValue("rss")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	return formatPrefixed("validation error", parts, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on the next attempt. The refresher uses this to decide
// between a debug-level "skipped" log and a warning.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pvErr ProcviewError
	if As(err, &pvErr) {
		return pvErr.IsRetryable()
	}

	return Is(err, ErrRefreshInProgress) || Is(err, ErrSourcePanicked)
}

// IsUserFacing returns true if the error message is safe to display to users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var pvErr ProcviewError
	if As(err, &pvErr) {
		return pvErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement ProcviewError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var pvErr ProcviewError
	if As(err, &pvErr) {
		return pvErr.Severity()
	}

	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
