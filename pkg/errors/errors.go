// Package errors provides the error taxonomy for the ingest system.
//
// Row-level errors (MalformedRowError, LookupError, CreationError) are
// recorded into a row's error column and never abort a run. Run-level
// errors (AdapterError, ConfigError, AuthenticationError) propagate to the
// command and terminate the process with a non-zero exit status.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Join are re-exported so callers only need one errors import.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Common sentinel errors for the ingest system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrAPIKeyRequired indicates that an API key is required but not provided
	ErrAPIKeyRequired = errors.New("API key required")

	// ErrAPIKeyInvalid indicates that the provided API key is invalid
	ErrAPIKeyInvalid = errors.New("API key invalid")

	// ErrServiceUnavailable indicates that the remote service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrRowsFailed indicates that a run completed but at least one row failed
	ErrRowsFailed = errors.New("one or more rows failed")
)

// MalformedRowError reports an input row that failed schema validation.
type MalformedRowError struct {
	Line    int
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *MalformedRowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed row: %s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("malformed row: %s", e.Message)
}

// Is implements errors.Is support
func (e *MalformedRowError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewMalformedRowError creates a new MalformedRowError
func NewMalformedRowError(line int, field, value, message string) *MalformedRowError {
	return &MalformedRowError{Line: line, Field: field, Value: value, Message: message}
}

// LookupError reports that the resolver could not complete a lookup.
type LookupError struct {
	Label string
	Curie string
	Err   error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	target := e.Label
	if e.Curie != "" {
		target = fmt.Sprintf("%s (%s)", e.Label, e.Curie)
	}
	return fmt.Sprintf("lookup failed for %s: %v", target, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewLookupError creates a new LookupError
func NewLookupError(label, curie string, err error) *LookupError {
	return &LookupError{Label: label, Curie: curie, Err: err}
}

// CreationError reports that the remote service rejected an entity creation.
// When Owner is set the rejection is a duplicate owned by another submitter.
type CreationError struct {
	Label   string
	Owner   string
	IRI     string
	Message string
	Err     error
}

// Error implements the error interface. The duplicate form is shown verbatim
// in output tables and must not change.
func (e *CreationError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("Label [%s] already added by User [%s] With InterLex ID [%s]", e.Label, e.Owner, e.IRI)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to create %s: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("failed to create %s", e.Label)
}

// Unwrap implements errors.Unwrap
func (e *CreationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CreationError) Is(target error) bool {
	return target == ErrAlreadyExists && e.Owner != ""
}

// NewConflictError creates a CreationError for a label already owned by another user.
func NewConflictError(label, owner, iri string) *CreationError {
	return &CreationError{Label: label, Owner: owner, IRI: iri}
}

// NewCreationError creates a CreationError carrying a service or validation message.
func NewCreationError(label, message string, err error) *CreationError {
	return &CreationError{Label: label, Message: message, Err: err}
}

// AdapterError reports that a table could not be read or written at all.
type AdapterError struct {
	Adapter   string // "csv", "sheet"
	Operation string // "open", "read", "write"
	Target    string // file path or spreadsheet/worksheet
	Completed int    // rows already processed when a write failed
	Err       error
}

// Error implements the error interface
func (e *AdapterError) Error() string {
	if e.Completed > 0 {
		return fmt.Sprintf("%s adapter failed to %s %s after %d rows were processed: %v",
			e.Adapter, e.Operation, e.Target, e.Completed, e.Err)
	}
	return fmt.Sprintf("%s adapter failed to %s %s: %v", e.Adapter, e.Operation, e.Target, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *AdapterError) Unwrap() error {
	return e.Err
}

// NewAdapterError creates a new AdapterError
func NewAdapterError(adapter, operation, target string, err error) *AdapterError {
	return &AdapterError{Adapter: adapter, Operation: operation, Target: target, Err: err}
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
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

// APIError represents an error response from the InterLex API
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return target == ErrAPIKeyInvalid
	case e.StatusCode == 404:
		return target == ErrNotFound
	case e.StatusCode == 409:
		return target == ErrAlreadyExists
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrServiceUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
	}
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
	Format  string // "json", "yaml", "csv"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
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
	Operation string // "read", "write", "create", "open", "close"
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

// AuthenticationError represents an authentication/authorization error
type AuthenticationError struct {
	Service string
	Method  string // "api_key", "service_account", "adc"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.Service, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
// A wrapped key sentinel decides which of the two matches.
func (e *AuthenticationError) Is(target error) bool {
	if errors.Is(e.Err, ErrAPIKeyRequired) || errors.Is(e.Err, ErrAPIKeyInvalid) {
		return false
	}
	return target == ErrAPIKeyRequired || target == ErrAPIKeyInvalid
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(service, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		Service: service,
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// HeaderError reports missing or duplicated table headers.
type HeaderError struct {
	Missing    []string
	Duplicated []string
}

// Error implements the error interface
func (e *HeaderError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing headers ["+strings.Join(e.Missing, ", ")+"]")
	}
	if len(e.Duplicated) > 0 {
		parts = append(parts, "duplicated headers ["+strings.Join(e.Duplicated, ", ")+"]")
	}
	return "invalid header: " + strings.Join(parts, "; ")
}

// Is implements errors.Is support
func (e *HeaderError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAPIKeyError checks if an error is related to API keys
func IsAPIKeyError(err error) bool {
	return errors.Is(err, ErrAPIKeyRequired) || errors.Is(err, ErrAPIKeyInvalid)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsServiceUnavailable checks if an error indicates the remote service is down
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

// IsRowLevel reports whether err belongs to the row-level part of the taxonomy.
func IsRowLevel(err error) bool {
	var (
		malformed *MalformedRowError
		lookup    *LookupError
		creation  *CreationError
	)
	return errors.As(err, &malformed) || errors.As(err, &lookup) || errors.As(err, &creation)
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

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapAdapter wraps an error as an AdapterError
func WrapAdapter(adapter, operation, target string, err error) error {
	if err == nil {
		return nil
	}
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) {
		return err
	}
	return NewAdapterError(adapter, operation, target, err)
}
