// Package errors defines the typed errors locus reports. Every error carries
// a code, an optional source location, context for diagnostics and
// suggestions for the user.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// LocusError is implemented by every error this package creates
type LocusError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode names an error kind. The value is what reports and the HTTP API
// print, so it never changes once released.
type ErrorCode string

const (
	UnknownErrorCode ErrorCode = "UnknownError"

	// outcomes of a single locate call
	SourceUnavailableCode   ErrorCode = "SourceUnavailable"
	DeclarationNotFoundCode ErrorCode = "DeclarationNotFound"
	RangeUnavailableCode    ErrorCode = "RangeUnavailable"

	// malformed inputs
	SyntaxErrorCode      ErrorCode = "SyntaxError"
	DescriptorErrorCode  ErrorCode = "DescriptorError"
	ClassFormatErrorCode ErrorCode = "ClassFormatError"

	// environment
	FileSystemErrorCode    ErrorCode = "FileSystemError"
	ConfigurationErrorCode ErrorCode = "ConfigurationError"
	StoreErrorCode         ErrorCode = "StoreError"
)

func (e ErrorCode) String() string {
	if e == "" {
		return string(UnknownErrorCode)
	}
	return string(e)
}

// SourceLocation points at a file, optionally narrowed to a 1-based line and column
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	if s.File == "" {
		return "unknown location"
	}
	var b strings.Builder
	b.WriteString(s.File)
	if s.Line > 0 {
		fmt.Fprintf(&b, ":%d", s.Line)
		if s.Column > 0 {
			fmt.Fprintf(&b, ":%d", s.Column)
		}
	}
	return b.String()
}

// IsEmpty reports whether the location names no file
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError is embedded by the concrete error types. Its builder methods
// mutate and return the receiver so they can be chained.
type BaseError struct {
	Code        ErrorCode
	Message     string
	Loc         SourceLocation
	Cause       error
	ContextData map[string]interface{}
	Hints       []string
}

func (e *BaseError) Error() string {
	parts := make([]string, 0, 3)
	if !e.Loc.IsEmpty() {
		parts = append(parts, e.Loc.String())
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *BaseError) ErrorCode() ErrorCode     { return e.Code }
func (e *BaseError) Location() SourceLocation { return e.Loc }
func (e *BaseError) Suggestions() []string    { return e.Hints }
func (e *BaseError) Unwrap() error            { return e.Cause }

// Context never returns nil
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return map[string]interface{}{}
	}
	return e.ContextData
}

func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	return e.WithSuggestions(suggestion)
}

func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

func New(code ErrorCode, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{Code: code, Message: message, Cause: cause}
}

func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// CodeOf returns the code of the outermost LocusError in the chain, or
// UnknownErrorCode when there is none.
func CodeOf(err error) ErrorCode {
	var locusErr LocusError
	if stderrors.As(err, &locusErr) && locusErr.ErrorCode() != "" {
		return locusErr.ErrorCode()
	}
	return UnknownErrorCode
}

// HasCode reports whether any LocusError in the chain carries code
func HasCode(err error, code ErrorCode) bool {
	for ; err != nil; err = stderrors.Unwrap(err) {
		if locusErr, ok := err.(LocusError); ok && locusErr.ErrorCode() == code {
			return true
		}
	}
	return false
}

// MultipleErrors collects independent problems, such as every invalid
// configuration field, so they can be reported together.
type MultipleErrors struct {
	Errors []LocusError
}

func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{}
}

func (e *MultipleErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	lines := []string{fmt.Sprintf("%d problems:", len(e.Errors))}
	for i, err := range e.Errors {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}
	return strings.Join(lines, "\n")
}

func (e *MultipleErrors) first() LocusError {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0]
}

// ErrorCode is the first error's code
func (e *MultipleErrors) ErrorCode() ErrorCode {
	if first := e.first(); first != nil {
		return first.ErrorCode()
	}
	return UnknownErrorCode
}

func (e *MultipleErrors) Location() SourceLocation {
	if first := e.first(); first != nil {
		return first.Location()
	}
	return SourceLocation{}
}

// Context merges every error's context, prefixing keys with the error index
func (e *MultipleErrors) Context() map[string]interface{} {
	merged := make(map[string]interface{})
	for i, err := range e.Errors {
		for key, value := range err.Context() {
			merged[fmt.Sprintf("%d.%s", i, key)] = value
		}
	}
	return merged
}

func (e *MultipleErrors) Suggestions() []string {
	var all []string
	for _, err := range e.Errors {
		all = append(all, err.Suggestions()...)
	}
	return all
}

func (e *MultipleErrors) Unwrap() error {
	if first := e.first(); first != nil {
		return first
	}
	return nil
}

func (e *MultipleErrors) Add(err LocusError) {
	e.Errors = append(e.Errors, err)
}

func (e *MultipleErrors) IsEmpty() bool { return len(e.Errors) == 0 }
func (e *MultipleErrors) Count() int    { return len(e.Errors) }

// ErrOrNil returns nil when nothing was collected
func (e *MultipleErrors) ErrOrNil() error {
	if e.IsEmpty() {
		return nil
	}
	return e
}
