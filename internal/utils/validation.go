package utils

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidationError describes one rejected setting. Suggestions are carried
// through to the configuration error shown to the user.
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "invalid value: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field string, value interface{}, format string, args ...interface{}) ValidationError {
	return ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)}
}

// Validator checks a single value
type Validator[T any] func(T) error

// Suggest returns a validator whose failures carry the given suggestions
func (v Validator[T]) Suggest(suggestions ...string) Validator[T] {
	return func(value T) error {
		err := v(value)
		var ve ValidationError
		if errors.As(err, &ve) {
			ve.Suggestions = append(ve.Suggestions, suggestions...)
			return ve
		}
		return err
	}
}

// ValidatorChain runs validators in order and stops at the first failure
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// Validator exposes the chain as a single validator
func (vc *ValidatorChain[T]) Validator() Validator[T] {
	return vc.Validate
}

// Required rejects blank strings
func Required(field string) Validator[string] {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return invalid(field, value, "cannot be empty")
		}
		return nil
	}
}

// FileExtension accepts a dotted extension with at least one character after the dot
func FileExtension(field string) Validator[string] {
	return func(value string) error {
		if !strings.HasPrefix(value, ".") {
			return invalid(field, value, "'%s' must start with '.'", value)
		}
		if len(value) < 2 || strings.ContainsAny(value, `/\ `) {
			return invalid(field, value, "'%s' is not a file extension", value)
		}
		return nil
	}
}

// OneOf accepts only the listed values
func OneOf[T comparable](field string, allowed ...T) Validator[T] {
	return func(value T) error {
		for _, candidate := range allowed {
			if value == candidate {
				return nil
			}
		}
		return invalid(field, value, "'%v' must be one of: %v", value, allowed)
	}
}

// Glob accepts well-formed doublestar patterns
func Glob(field string) Validator[string] {
	return func(value string) error {
		if !doublestar.ValidatePattern(value) {
			return invalid(field, value, "'%s' is not a valid glob pattern", value)
		}
		return nil
	}
}

// ListenAddress accepts host:port pairs such as 127.0.0.1:7878 or :8080
func ListenAddress(field string) Validator[string] {
	return func(value string) error {
		if _, _, err := net.SplitHostPort(value); err != nil {
			return invalid(field, value, "'%s' is not a listen address (%v)", value, err)
		}
		return nil
	}
}

// NonEmpty rejects empty slices
func NonEmpty[T any](field string) Validator[[]T] {
	return func(value []T) error {
		if len(value) == 0 {
			return invalid(field, value, "at least one entry is required")
		}
		return nil
	}
}

// Each applies a validator to every element, naming the failing index
func Each[T any](field string, item Validator[T]) Validator[[]T] {
	return func(value []T) error {
		for i, element := range value {
			err := item(element)
			if err == nil {
				continue
			}
			failure := invalid(fmt.Sprintf("%s[%d]", field, i), element, "%s", err.Error())
			var ve ValidationError
			if errors.As(err, &ve) {
				failure.Message = ve.Message
				failure.Suggestions = ve.Suggestions
			}
			return failure
		}
		return nil
	}
}

// Satisfies wraps a predicate
func Satisfies[T any](field, message string, ok func(T) bool) Validator[T] {
	return func(value T) error {
		if !ok(value) {
			return invalid(field, value, "%s", message)
		}
		return nil
	}
}

// When runs the validator only while enabled reports true
func When[T any](enabled func() bool, validator Validator[T]) Validator[T] {
	return func(value T) error {
		if !enabled() {
			return nil
		}
		return validator(value)
	}
}
