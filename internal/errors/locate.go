package errors

import "fmt"

// SourceUnavailableError reports that no syntax tree could be produced for
// the declaring type. Cause carries the provider's failure.
type SourceUnavailableError struct {
	*BaseError
	DeclaringType string
}

// NewSourceUnavailableError wraps a tree provider failure
func NewSourceUnavailableError(declaringType string, cause error) *SourceUnavailableError {
	err := &SourceUnavailableError{
		BaseError:     Wrap(SourceUnavailableCode, fmt.Sprintf("source unavailable for %s", declaringType), cause),
		DeclaringType: declaringType,
	}
	err.WithContext("declaring_type", declaringType)
	return err
}

// DeclarationNotFoundError reports that no declaration erases to the signature
type DeclarationNotFoundError struct {
	*BaseError
	DeclaringType  string
	Method         string
	ParameterCount int
}

// NewDeclarationNotFoundError creates a not-found error for the given signature shape
func NewDeclarationNotFoundError(declaringType, method string, parameterCount int) *DeclarationNotFoundError {
	message := fmt.Sprintf("no declaration of %s.%s with %d parameter(s) matches", declaringType, method, parameterCount)
	err := &DeclarationNotFoundError{
		BaseError:      New(DeclarationNotFoundCode, message),
		DeclaringType:  declaringType,
		Method:         method,
		ParameterCount: parameterCount,
	}
	err.WithContext("declaring_type", declaringType).
		WithContext("method", method).
		WithContext("parameter_count", parameterCount)
	return err
}

// WithSuggestion adds a hint, typically a near-miss candidate
func (e *DeclarationNotFoundError) WithSuggestion(suggestion string) *DeclarationNotFoundError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// WithLocation records the file that was searched
func (e *DeclarationNotFoundError) WithLocation(loc SourceLocation) *DeclarationNotFoundError {
	e.BaseError.WithLocation(loc)
	return e
}

// RangeUnavailableError reports a matched declaration without position data.
// This is a tree provider contract violation, distinct from not found.
type RangeUnavailableError struct {
	*BaseError
	DeclaringType string
	Declaration   string
}

// NewRangeUnavailableError creates a range error for a matched declaration
func NewRangeUnavailableError(declaringType, declaration string) *RangeUnavailableError {
	err := &RangeUnavailableError{
		BaseError:     Newf(RangeUnavailableCode, "declaration %s in %s has no source range", declaration, declaringType),
		DeclaringType: declaringType,
		Declaration:   declaration,
	}
	err.WithContext("declaring_type", declaringType).
		WithContext("declaration", declaration)
	return err
}
