package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		loc      SourceLocation
		expected string
	}{
		{SourceLocation{}, "unknown location"},
		{SourceLocation{File: "Person.java"}, "Person.java"},
		{SourceLocation{File: "Person.java", Line: 35}, "Person.java:35"},
		{SourceLocation{File: "Person.java", Line: 35, Column: 5}, "Person.java:35:5"},
		{SourceLocation{File: "Person.java", Column: 5}, "Person.java"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.loc.String())
		})
	}
}

func TestBaseError_Error(t *testing.T) {
	err := New(FileSystemErrorCode, "source file missing")
	assert.Equal(t, "source file missing", err.Error())

	err.WithLocation(SourceLocation{File: "Person.java", Line: 3}).WithCause(fmt.Errorf("permission denied"))
	assert.Equal(t, "Person.java:3: source file missing: permission denied", err.Error())
	assert.Empty(t, New(UnknownErrorCode, "x").Context())
}

func TestCodeOfAndHasCode(t *testing.T) {
	inner := WrapParseError("Person.java", fmt.Errorf("unexpected token"))
	outer := NewSourceUnavailableError("org.samples.Person", inner)
	wrapped := fmt.Errorf("locate: %w", outer)

	assert.Equal(t, SourceUnavailableCode, CodeOf(wrapped))
	assert.True(t, HasCode(wrapped, SourceUnavailableCode))
	assert.True(t, HasCode(wrapped, SyntaxErrorCode))
	assert.False(t, HasCode(wrapped, DeclarationNotFoundCode))

	assert.Equal(t, UnknownErrorCode, CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, "UnknownError", ErrorCode("").String())
}

func TestLocateErrors(t *testing.T) {
	notFound := NewDeclarationNotFoundError("org.samples.Person", "getAge", 2).
		WithSuggestion("<T> getAge(int, T)")
	assert.Equal(t, DeclarationNotFoundCode, notFound.ErrorCode())
	assert.Equal(t, 2, notFound.Context()["parameter_count"])
	assert.Equal(t, []string{"<T> getAge(int, T)"}, notFound.Suggestions())

	var target *DeclarationNotFoundError
	require.True(t, stderrors.As(fmt.Errorf("wrapped: %w", notFound), &target))
	assert.Equal(t, "getAge", target.Method)

	missingRange := NewRangeUnavailableError("org.samples.Person", "getFirstName()")
	assert.Equal(t, RangeUnavailableCode, CodeOf(missingRange))
	assert.Contains(t, missingRange.Error(), "has no source range")
}

func TestMultipleErrors(t *testing.T) {
	multi := NewMultipleErrors()
	assert.NoError(t, multi.ErrOrNil())
	assert.Equal(t, UnknownErrorCode, multi.ErrorCode())

	multi.Add(ConfigurationError("source.roots", "at least one entry is required").WithSuggestion("add src/main/java"))
	assert.Equal(t, "configuration error in 'source.roots': at least one entry is required", multi.Error())

	multi.Add(ConfigurationError("output.format", "'xml' must be one of: [text json yaml]"))
	require.Error(t, multi.ErrOrNil())
	assert.Equal(t, 2, multi.Count())
	assert.Equal(t, ConfigurationErrorCode, CodeOf(multi))
	assert.Contains(t, multi.Error(), "2 problems:")
	assert.Equal(t, "output.format", multi.Context()["1.field"])
	assert.Equal(t, []string{"add src/main/java"}, multi.Suggestions())
}
