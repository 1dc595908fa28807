// Package errors provides custom error types for the profilemerge system.
// The types mirror the failure classes of a merge run: source-load failures
// abort the run, identity and shape failures drop a single record, and avatar
// failures only leave the picture empty.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's tree matches target.
var Is = errors.Is

// As finds the first error in err's tree that matches target.
var As = errors.As

// Common sentinel errors for the profilemerge system
var (
	// ErrSourceLoad indicates that a source export could not be loaded
	ErrSourceLoad = errors.New("source load failed")

	// ErrMissingIdentity indicates a record without the key needed to identify a person
	ErrMissingIdentity = errors.New("missing identity")

	// ErrInvalidShape indicates a source value with an unexpected JSON shape
	ErrInvalidShape = errors.New("invalid shape")

	// ErrAspectRatio indicates an avatar that is not close enough to square
	ErrAspectRatio = errors.New("wrong aspect ratio")

	// ErrNoImage indicates that no usable image could be obtained
	ErrNoImage = errors.New("no image available")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// LoadError represents a failure to load one of the source exports.
// It is fatal for the whole run.
type LoadError struct {
	Source string
	Path   string
	Err    error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("loading %s data from %s: %v", e.Source, e.Path, e.Err)
	}
	return fmt.Sprintf("loading %s data: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *LoadError) Is(target error) bool {
	return target == ErrSourceLoad
}

// NewLoadError creates a new LoadError
func NewLoadError(source, path string, err error) *LoadError {
	return &LoadError{Source: source, Path: path, Err: err}
}

// IdentityError represents a record that lacks its identifying field.
type IdentityError struct {
	Source string
	Field  string
	Record string // short description of the offending record
}

// Error implements the error interface
func (e *IdentityError) Error() string {
	if e.Record != "" {
		return fmt.Sprintf("%s record without %s: %s", e.Source, e.Field, e.Record)
	}
	return fmt.Sprintf("%s record without %s", e.Source, e.Field)
}

// Is implements errors.Is support
func (e *IdentityError) Is(target error) bool {
	return target == ErrMissingIdentity
}

// NewIdentityError creates a new IdentityError
func NewIdentityError(source, field, record string) *IdentityError {
	return &IdentityError{Source: source, Field: field, Record: record}
}

// ShapeError represents a source field whose value could not be decoded
// into its profile envelope.
type ShapeError struct {
	Source string
	Field  string
	Err    error
}

// Error implements the error interface
func (e *ShapeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s field %s: %v", e.Source, e.Field, e.Err)
	}
	return fmt.Sprintf("%s record: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ShapeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ShapeError) Is(target error) bool {
	return target == ErrInvalidShape
}

// NewShapeError creates a new ShapeError
func NewShapeError(source, field string, err error) *ShapeError {
	return &ShapeError{Source: source, Field: field, Err: err}
}

// AvatarError represents a failure while normalizing an avatar image.
// It never aborts a profile.
type AvatarError struct {
	Source string // path or URL of the candidate image
	Name   string // rendition file name
	Err    error
}

// Error implements the error interface
func (e *AvatarError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("avatar %s (%s): %v", e.Name, e.Source, e.Err)
	}
	return fmt.Sprintf("avatar %s: %v", e.Name, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *AvatarError) Unwrap() error {
	return e.Err
}

// NewAvatarError creates a new AvatarError
func NewAvatarError(source, name string, err error) *AvatarError {
	return &AvatarError{Source: source, Name: name, Err: err}
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
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
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
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
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "fetch"
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

// HTTPError represents a non-success response from a remote server
type HTTPError struct {
	URL        string
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(url string, status int, message string) *HTTPError {
	return &HTTPError{URL: url, StatusCode: status, Message: message}
}

// Helper functions for error checking

// IsSourceLoad checks if an error aborts the whole run
func IsSourceLoad(err error) bool {
	return errors.Is(err, ErrSourceLoad)
}

// IsRecordFatal checks if an error drops a single record from the output
func IsRecordFatal(err error) bool {
	return errors.Is(err, ErrMissingIdentity) || errors.Is(err, ErrInvalidShape)
}

// IsAvatar checks if an error originated in avatar normalization
func IsAvatar(err error) bool {
	var avatarErr *AvatarError
	return errors.As(err, &avatarErr)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
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

// WrapShape wraps an error as a ShapeError
func WrapShape(source, field string, err error) error {
	if err == nil {
		return nil
	}
	return NewShapeError(source, field, err)
}

// WrapLoad wraps an error as a LoadError
func WrapLoad(source, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewLoadError(source, path, err)
}
