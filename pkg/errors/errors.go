// Package errors provides custom error types for the cursorup system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the cursorup system
var (
	// ErrNoData indicates that no platform resolved any version information
	ErrNoData = errors.New("no version information available")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpToDate indicates that the installed version already matches the newest
	ErrUpToDate = errors.New("already up to date")
)

// FetchError represents a failure to resolve a download link for one platform.
// These are transient per-platform failures and never abort a full run.
type FetchError struct {
	Platform   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch failed for %s (status %d): %s", e.Platform, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch failed for %s: %s", e.Platform, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(platform string, statusCode int, message string, err error) *FetchError {
	return &FetchError{
		Platform:   platform,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// PersistenceError represents a failure to read, write, or parse one of the
// two durable artifacts (the history store or the rendered document).
type PersistenceError struct {
	Operation string // "read", "write", "parse", "backup", "rename"
	Artifact  string // "history", "document"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s persistence failed: %s of %s: %v", e.Artifact, e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("%s persistence failed: %s: %v", e.Artifact, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(operation, artifact, path string, err error) *PersistenceError {
	return &PersistenceError{
		Operation: operation,
		Artifact:  artifact,
		Path:      path,
		Err:       err,
	}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "markdown"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "chmod", "move"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// InstallError represents a failure while placing the downloaded binary or
// its desktop integration files.
type InstallError struct {
	Step    string // "download", "chmod", "move", "desktop-entry", "version-file"
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *InstallError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("install step %s failed for %s: %s", e.Step, e.Path, e.Message)
	}
	return fmt.Sprintf("install step %s failed: %s", e.Step, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *InstallError) Unwrap() error {
	return e.Err
}

// NewInstallError creates a new InstallError
func NewInstallError(step, path string, err error) *InstallError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &InstallError{
		Step:    step,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// Helper functions for error checking

// IsNoData checks if an error indicates that zero platforms resolved
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUpToDate checks if an error indicates the install is current
func IsUpToDate(err error) bool {
	return errors.Is(err, ErrUpToDate)
}

// IsPersistence checks if an error is a persistence error
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapPersistence wraps an error as a PersistenceError
func WrapPersistence(operation, artifact, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewPersistenceError(operation, artifact, path, err)
}
