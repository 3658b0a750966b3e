// Package report renders locate results and outlines as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/toyz/locus/internal/service"
)

// Format is an output encoding
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts text, json or yaml
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return Text, nil
	case Text, JSON, YAML:
		return f, nil
	default:
		return Text, fmt.Errorf("unknown output format '%s'", name)
	}
}

// Writer renders reports to an io.Writer
type Writer struct {
	out    io.Writer
	format Format
}

// NewWriter creates a writer for format
func NewWriter(out io.Writer, format Format) *Writer {
	return &Writer{out: out, format: format}
}

// Line renders one result in approval form:
//
//	Person.getAge(int,Object[]) Lines:35-39
//	Person.getAge(long) DeclarationNotFound
//	Person.Person() Implicit
func Line(r service.Result) string {
	subject := r.Input
	if r.Signature != nil {
		subject = r.Signature.String()
	}
	if r.OK() {
		return fmt.Sprintf("%s Lines:%d-%d", subject, r.Range.Begin.Line, r.Range.End.Line)
	}
	if r.Implicit {
		return subject + " Implicit"
	}
	return subject + " " + r.ErrorKind
}

// Results writes results in the writer's format
func (w *Writer) Results(results []service.Result) error {
	switch w.format {
	case JSON:
		return w.json(results)
	case YAML:
		return w.yaml(results)
	}

	for _, r := range results {
		if _, err := fmt.Fprintln(w.out, Line(r)); err != nil {
			return err
		}
	}
	return nil
}

// Outline writes an outline in the writer's format
func (w *Writer) Outline(o *service.Outline) error {
	switch w.format {
	case JSON:
		return w.json(o)
	case YAML:
		return w.yaml(o)
	}

	fmt.Fprintf(w.out, "%s (%s)\n", o.Type, o.File)
	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	for _, e := range o.Entries {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Range, e.Owner, e.Declaration, e.Erased)
	}
	return tw.Flush()
}

func (w *Writer) json(v interface{}) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (w *Writer) yaml(v interface{}) error {
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Summary counts located and failed results. Implicit members count as neither.
func Summary(results []service.Result) (located, failed int) {
	for _, r := range results {
		switch {
		case r.OK():
			located++
		case r.Failed():
			failed++
		}
	}
	return located, failed
}
