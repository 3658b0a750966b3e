package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/locus/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	out     io.Writer
	verbose bool
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		out:     out,
		verbose: verbose,
	}
}

// ReportWarning prints a one-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	var locusErr errors.LocusError
	if !stderrors.As(err, &locusErr) {
		fmt.Fprintf(r.out, "\nERROR: %s\n\n", err.Error())
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && len(multi.Errors) > 1 {
		fmt.Fprintf(r.out, "\nERROR: %d problems\n", len(multi.Errors))
		for _, e := range multi.Errors {
			r.reportLocusError(e)
		}
		fmt.Fprintf(r.out, "\n")
		return
	}

	r.reportLocusError(locusErr)
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) reportLocusError(err errors.LocusError) {
	r.printErrorHeader(err.ErrorCode())

	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc)
	}

	if ctx := err.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	r.printAdditionalHelp(err.ErrorCode())

	if r.verbose {
		r.printErrorChain(err)
	}
}

func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	title := code.String()
	fmt.Fprintf(r.out, "\nType: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))
}

// printContext prints the important keys first, then the rest sorted
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"declaring_type", "method", "parameter_count", "file"}
	printed := make(map[string]bool)

	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.out, "   %s: %v\n", r.formatContextKey(key), value)
			printed[key] = true
		}
	}

	var rest []string
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", r.formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "declaring_type":
		return "Declaring Type"
	case "parameter_count":
		return "Parameters"
	default:
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.DeclarationNotFoundCode:
		fmt.Fprintf(r.out, "Matching Rules:\n")
		fmt.Fprintf(r.out, "  - Parameter types are compared after erasure (List<String> is List)\n")
		fmt.Fprintf(r.out, "  - Method type parameters erase to Object, not to their bounds\n")
		fmt.Fprintf(r.out, "  - Run 'locus outline <type>' to list the erased declarations\n\n")

	case errors.SourceUnavailableCode:
		fmt.Fprintf(r.out, "Source Lookup:\n")
		fmt.Fprintf(r.out, "  - Files are expected at <root>/<package path>/<TopLevelType>.java\n")
		fmt.Fprintf(r.out, "  - Add source roots with --root or source.roots in locus.yaml\n\n")

	case errors.DescriptorErrorCode:
		fmt.Fprintf(r.out, "Accepted Forms:\n")
		fmt.Fprintf(r.out, "  - org.samples.Person#getAge(int, Object[])\n")
		fmt.Fprintf(r.out, "  - public int org.samples.Person.getAge(int,java.lang.Object[])\n")
		fmt.Fprintf(r.out, "  - org/samples/Person.getAge:(I[Ljava/lang/Object;)I\n\n")

	case errors.ConfigurationErrorCode:
		fmt.Fprintf(r.out, "Configuration:\n")
		fmt.Fprintf(r.out, "  - Check locus.yaml or the file passed with --config\n\n")
	}
}

func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.out, "Error Chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(r.out, "    %d. %s\n", level, err.Error())
		err = stderrors.Unwrap(err)
		level++
	}
	fmt.Fprintf(r.out, "\n")
}
