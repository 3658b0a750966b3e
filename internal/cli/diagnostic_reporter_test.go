package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/locus/internal/errors"
)

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporter(&buf, false)

	reporter.ReportWarning("This is a test warning")
	reporter.ReportWarning("This is another warning")

	output := buf.String()
	assert.Contains(t, output, "! This is a test warning")
	assert.Contains(t, output, "! This is another warning")
}

func TestDiagnosticReporter_ReportDeclarationNotFound(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporter(&buf, false)

	err := errors.NewDeclarationNotFoundError("org.samples.Person", "getAge", 1).
		WithSuggestion("getAge(int): parameter 1 is int, signature has long").
		WithLocation(errors.SourceLocation{File: "src/main/java/org/samples/Person.java"})
	reporter.ReportError(err)

	output := buf.String()
	expectedElements := []string{
		"Type: DeclarationNotFound",
		"Message: src/main/java/org/samples/Person.java: no declaration of org.samples.Person.getAge with 1 parameter(s) matches",
		"Location: src/main/java/org/samples/Person.java",
		"Declaring Type: org.samples.Person",
		"Method: getAge",
		"Parameters: 1",
		"1. getAge(int): parameter 1 is int, signature has long",
		"Matching Rules:",
	}
	for _, element := range expectedElements {
		assert.Contains(t, output, element)
	}
	assert.NotContains(t, output, "Error Chain:")
}

func TestDiagnosticReporter_VerboseChain(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporter(&buf, true)

	cause := errors.WrapFileSystemError("read", "Person.java", fmt.Errorf("permission denied"))
	reporter.ReportError(errors.NewSourceUnavailableError("org.samples.Person", cause))

	output := buf.String()
	assert.Contains(t, output, "Type: SourceUnavailable")
	assert.Contains(t, output, "Source Lookup:")
	assert.Contains(t, output, "Error Chain:")
	assert.Contains(t, output, "permission denied")
}

func TestDiagnosticReporter_MultipleErrors(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporter(&buf, false)

	multi := &errors.MultipleErrors{}
	multi.Add(errors.ConfigurationError("source.roots", "at least one root is required"))
	multi.Add(errors.ConfigurationError("output.format", "unknown format 'xml'"))
	reporter.ReportError(multi)

	output := buf.String()
	assert.Contains(t, output, "ERROR: 2 problems")
	assert.Equal(t, 2, strings.Count(output, "Type: ConfigurationError"))
	assert.Contains(t, output, "Field: output.format")
}

func TestDiagnosticReporter_PlainError(t *testing.T) {
	var buf bytes.Buffer
	NewDiagnosticReporter(&buf, false).ReportError(fmt.Errorf("nothing to locate"))

	assert.Equal(t, "\nERROR: nothing to locate\n\n", buf.String())
}

func TestFormatContextKey(t *testing.T) {
	reporter := NewDiagnosticReporter(&bytes.Buffer{}, false)

	tests := []struct {
		key      string
		expected string
	}{
		{"declaring_type", "Declaring Type"},
		{"parameter_count", "Parameters"},
		{"config_type", "Config Type"},
		{"file", "File"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, reporter.formatContextKey(tt.key))
		})
	}
}
