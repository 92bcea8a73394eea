package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

// Sentinels for errors.Is checks. Matching is by code, so any Error built
// with the same code compares equal.
var (
	ErrConfigInvalid    = &Error{Code: ErrCodeConfigInvalid}
	ErrChunksDirMissing = &Error{Code: ErrCodeChunksDirMissing}
	ErrLockTimeout      = &Error{Code: ErrCodeLockTimeout}
	ErrSourceMalformed  = &Error{Code: ErrCodeSourceMalformed}
	ErrChunkMalformed   = &Error{Code: ErrCodeChunkMalformed}
)

// Error is the structured error type returned by the chunker and indexer.
type Error struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is derived from the code.
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error.
	Cause error

	// Suggestion is an actionable hint for the operator.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the operator.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates a new Error with the given code and message.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// ConfigError creates a configuration error with an underlying cause.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// Configf creates a configuration error from a format string.
func Configf(format string, args ...any) *Error {
	return New(ErrCodeConfigInvalid, fmt.Sprintf(format, args...), nil)
}

// IOError classifies a filesystem error on path into a not-found,
// permission or generic code depending on the cause.
func IOError(op, path string, cause error) *Error {
	code := ErrCodeWriteFailed
	if op == "read" {
		code = ErrCodeReadFailed
	}
	switch {
	case stderrors.Is(cause, fs.ErrNotExist):
		code = ErrCodeFileNotFound
	case stderrors.Is(cause, fs.ErrPermission):
		code = ErrCodeFilePermission
	}
	return New(code, fmt.Sprintf("%s %s", op, path), cause).WithDetail("path", path)
}

// GetCode extracts the error code from anywhere in the chain.
// Returns empty string if there is no *Error in the chain.
func GetCode(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetCategory extracts the category from anywhere in the chain.
func GetCategory(err error) Category {
	var e *Error
	if stderrors.As(err, &e) {
		if e.Category == "" {
			return categoryFromCode(e.Code)
		}
		return e.Category
	}
	return ""
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch GetCode(err) {
	case ErrCodeChunksDirMissing:
		return ExitChunksMissing
	case ErrCodeLockTimeout:
		return ExitLocked
	}
	if GetCategory(err) == CategoryConfig {
		return ExitConfig
	}
	return ExitFailure
}
