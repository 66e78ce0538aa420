package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an engine error.
type Code string

const (
	// CodeUnknown indicates an unknown error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller passed a bad argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested id or resource was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates a duplicate id or a repeated one-shot action
	CodeAlreadyExists Code = "already_exists"

	// CodeValidation indicates content failed load-time validation
	CodeValidation Code = "validation"

	// CodeInsufficient indicates a resource cost could not be paid (SP, gems, charges)
	CodeInsufficient Code = "insufficient"

	// CodeRestricted indicates a class, race or alignment restriction blocked the action
	CodeRestricted Code = "restricted"

	// CodeInvalidContext indicates the action is not legal in the current game context
	CodeInvalidContext Code = "invalid_context"

	// CodeCannotAct indicates a combatant is prevented from acting by a condition
	CodeCannotAct Code = "cannot_act"

	// CodeInvalidTarget indicates the target is dead, missing or of the wrong kind
	CodeInvalidTarget Code = "invalid_target"

	// CodeVersionMismatch indicates a save or campaign version does not match
	CodeVersionMismatch Code = "version_mismatch"

	// CodeIO indicates a read or write at the persistence boundary failed
	CodeIO Code = "io"

	// CodeInternal indicates an internal engine error
	CodeInternal Code = "internal"
)

// Error is an engine error with a code and optional metadata.
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta contains additional context
	Meta map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	// If it's already our error type, preserve the code
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return &Error{
			Code:    engineErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(engineErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// Helper constructors for common error kinds

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(CodeValidation, message)
}

// Validationf creates a formatted validation error
func Validationf(format string, args ...any) *Error {
	return Newf(CodeValidation, format, args...)
}

// Insufficient creates a resource shortfall error carrying needed/have amounts
func Insufficient(message string, needed, have int) *Error {
	return New(CodeInsufficient, message).
		WithMeta("needed", needed).
		WithMeta("have", have)
}

// Restricted creates a class/race/alignment restriction error
func Restricted(message string) *Error {
	return New(CodeRestricted, message)
}

// Restrictedf creates a formatted restriction error
func Restrictedf(format string, args ...any) *Error {
	return Newf(CodeRestricted, format, args...)
}

// InvalidContext creates a wrong-context error
func InvalidContext(message string) *Error {
	return New(CodeInvalidContext, message)
}

// InvalidContextf creates a formatted wrong-context error
func InvalidContextf(format string, args ...any) *Error {
	return Newf(CodeInvalidContext, format, args...)
}

// CannotAct creates an action-prevented error
func CannotAct(message string) *Error {
	return New(CodeCannotAct, message)
}

// CannotActf creates a formatted action-prevented error
func CannotActf(format string, args ...any) *Error {
	return Newf(CodeCannotAct, format, args...)
}

// InvalidTarget creates an invalid target error
func InvalidTarget(message string) *Error {
	return New(CodeInvalidTarget, message)
}

// InvalidTargetf creates a formatted invalid target error
func InvalidTargetf(format string, args ...any) *Error {
	return Newf(CodeInvalidTarget, format, args...)
}

// VersionMismatch creates a version mismatch error
func VersionMismatch(message string) *Error {
	return New(CodeVersionMismatch, message)
}

// VersionMismatchf creates a formatted version mismatch error
func VersionMismatchf(format string, args ...any) *Error {
	return Newf(CodeVersionMismatch, format, args...)
}

// IO creates a persistence boundary error
func IO(message string) *Error {
	return New(CodeIO, message)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// Error checking functions

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsAlreadyExists checks if the error is an already exists error
func IsAlreadyExists(err error) bool {
	return Is(err, CodeAlreadyExists)
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	return Is(err, CodeValidation)
}

// IsInsufficient checks if the error is a resource shortfall
func IsInsufficient(err error) bool {
	return Is(err, CodeInsufficient)
}

// IsRestricted checks if the error is a restriction error
func IsRestricted(err error) bool {
	return Is(err, CodeRestricted)
}

// IsInvalidContext checks if the error is a wrong-context error
func IsInvalidContext(err error) bool {
	return Is(err, CodeInvalidContext)
}

// IsCannotAct checks if the error is an action-prevented error
func IsCannotAct(err error) bool {
	return Is(err, CodeCannotAct)
}

// IsInvalidTarget checks if the error is an invalid target error
func IsInvalidTarget(err error) bool {
	return Is(err, CodeInvalidTarget)
}

// IsVersionMismatch checks if the error is a version mismatch
func IsVersionMismatch(err error) bool {
	return Is(err, CodeVersionMismatch)
}

// GetCode returns the error code
func GetCode(err error) Code {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Meta
	}
	return nil
}

// copyMeta creates a copy of the metadata map
func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
