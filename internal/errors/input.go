package errors

import "fmt"

// SyntaxError represents a source file that could not be parsed
type SyntaxError struct {
	*BaseError
	Parser string // backend that rejected the input
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, message),
	}
}

// WithParser records which parser backend produced the error
func (e *SyntaxError) WithParser(parser string) *SyntaxError {
	e.Parser = parser
	e.BaseError.WithContext("parser", parser)
	return e
}

// WithLocation adds location information to the error
func (e *SyntaxError) WithLocation(loc SourceLocation) *SyntaxError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithCause adds the underlying parser error
func (e *SyntaxError) WithCause(cause error) *SyntaxError {
	e.BaseError.WithCause(cause)
	return e
}

// DescriptorError represents a signature or type descriptor that could not be decoded
type DescriptorError struct {
	*BaseError
	Input  string
	Offset int
}

// NewDescriptorError creates a descriptor error pointing at offset within input
func NewDescriptorError(input string, offset int, reason string) *DescriptorError {
	err := &DescriptorError{
		BaseError: Newf(DescriptorErrorCode, "malformed signature %q at offset %d: %s", input, offset, reason),
		Input:     input,
		Offset:    offset,
	}
	err.WithContext("input", input)
	return err
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *DescriptorError) WithSuggestion(suggestion string) *DescriptorError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// WithCause adds the underlying parser error
func (e *DescriptorError) WithCause(cause error) *DescriptorError {
	e.BaseError.WithCause(cause)
	return e
}

// ClassFormatError represents a class file that violates the class file format
type ClassFormatError struct {
	*BaseError
	Offset int64
}

// NewClassFormatError creates a class format error at the given byte offset
func NewClassFormatError(offset int64, format string, args ...interface{}) *ClassFormatError {
	return &ClassFormatError{
		BaseError: New(ClassFormatErrorCode, fmt.Sprintf("invalid class file at byte %d: %s", offset, fmt.Sprintf(format, args...))),
		Offset:    offset,
	}
}

// WithLocation records the class file path
func (e *ClassFormatError) WithLocation(loc SourceLocation) *ClassFormatError {
	e.BaseError.WithLocation(loc)
	return e
}
