package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystem(level)
	d.SetOutput(&out, &errOut)
	d.SetColors(false)
	d.SetTimestamps(false)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticInfo)

	d.Error("broken %s", "thing")
	d.Warn("careful")
	d.Info("hello")
	d.Verbose("hidden")
	d.Debug("hidden too")

	assert.Equal(t, "[ERROR] broken thing\n[WARN] careful\n", errOut.String())
	assert.Equal(t, "[INFO] hello\n", out.String())
}

func TestDiagnosticSystem_Silent(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticSilent)

	d.Error("nothing")
	d.Info("nothing")
	d.Header("nothing")

	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())
}

func TestDiagnosticSystem_IndentAndSummary(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticDebug)

	d.Header("locating %d signatures", 2)
	d.Indent()
	d.List("Person.getAge(int)")
	d.Debug("cache hit")
	d.Unindent()
	d.Unindent()
	d.Summary("Summary", map[string]interface{}{"located": 2, "failed": 0})

	expected := "locus: locating 2 signatures\n" +
		"  - Person.getAge(int)\n" +
		"  [DEBUG] cache hit\n" +
		"\nSummary\n" +
		"   failed: 0\n" +
		"   located: 2\n"
	assert.Equal(t, expected, out.String())
}

func TestParseDiagnosticLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected DiagnosticLevel
	}{
		{"", DiagnosticInfo},
		{"error", DiagnosticError},
		{"WARN", DiagnosticWarn},
		{"warning", DiagnosticWarn},
		{"verbose", DiagnosticVerbose},
		{" debug ", DiagnosticDebug},
		{"off", DiagnosticSilent},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseDiagnosticLevel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}

	_, err := ParseDiagnosticLevel("chatty")
	assert.Error(t, err)
	assert.Equal(t, "verbose", DiagnosticVerbose.String())
}
