package models

import (
	"fmt"
	"strings"
)

// Position is a 1-based line and column in a source file
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Before reports whether p sorts strictly before other by (line, column)
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// String returns line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceRange spans a full declaration, both ends inclusive
type SourceRange struct {
	Begin Position `json:"begin" yaml:"begin"`
	End   Position `json:"end" yaml:"end"`
}

// Valid reports whether both positions are set and Begin does not follow End
func (r SourceRange) Valid() bool {
	if r.Begin.Line < 1 || r.Begin.Column < 1 || r.End.Line < 1 || r.End.Column < 1 {
		return false
	}
	return !r.End.Before(r.Begin)
}

// Lines returns the number of lines covered by the range
func (r SourceRange) Lines() int {
	return r.End.Line - r.Begin.Line + 1
}

// String returns begin-end in line:column form
func (r SourceRange) String() string {
	return fmt.Sprintf("%s-%s", r.Begin, r.End)
}

// DeclarationKind distinguishes methods from constructors
type DeclarationKind int

const (
	MethodDeclaration DeclarationKind = iota
	ConstructorDeclaration
)

// String returns the string representation of the declaration kind
func (k DeclarationKind) String() string {
	switch k {
	case MethodDeclaration:
		return "method"
	case ConstructorDeclaration:
		return "constructor"
	default:
		return "unknown"
	}
}

// MarshalText lets the kind appear by name in JSON and YAML
func (k DeclarationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name produced by MarshalText
func (k *DeclarationKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "method":
		*k = MethodDeclaration
	case "constructor":
		*k = ConstructorDeclaration
	default:
		return fmt.Errorf("unknown declaration kind %q", text)
	}
	return nil
}

// ParsedParameter is one formal parameter of a parsed declaration
type ParsedParameter struct {
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Type      TypeExpression `json:"type" yaml:"type"`
	IsVarArgs bool           `json:"varargs,omitempty" yaml:"varargs,omitempty"`
}

// String renders the parameter type as written, with ... for varargs
func (p ParsedParameter) String() string {
	if p.IsVarArgs {
		return p.Type.String() + "..."
	}
	return p.Type.String()
}

// ParsedDeclaration is one callable declared in a syntax tree.
// TypeParameters holds only the generic names declared on this declaration.
type ParsedDeclaration struct {
	Name           string            `json:"name" yaml:"name"`
	Kind           DeclarationKind   `json:"kind" yaml:"kind"`
	Owner          string            `json:"owner" yaml:"owner"`
	TypeParameters []string          `json:"type_parameters,omitempty" yaml:"type_parameters,omitempty"`
	Parameters     []ParsedParameter `json:"parameters" yaml:"parameters"`
	Range          *SourceRange      `json:"range,omitempty" yaml:"range,omitempty"`
}

// TypeParameterSet returns the declaration's generic names as a set
func (d *ParsedDeclaration) TypeParameterSet() TypeParameterSet {
	return NewTypeParameterSet(d.TypeParameters...)
}

// Signature renders name(param, ...) as written in source
func (d *ParsedDeclaration) Signature() string {
	params := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		params[i] = p.String()
	}
	prefix := ""
	if len(d.TypeParameters) > 0 {
		prefix = "<" + strings.Join(d.TypeParameters, ", ") + "> "
	}
	return fmt.Sprintf("%s%s(%s)", prefix, d.Name, strings.Join(params, ", "))
}

// TypeParameterSet is the set of generic names in scope for erasure
type TypeParameterSet map[string]struct{}

// NewTypeParameterSet creates a set from the given names
func NewTypeParameterSet(names ...string) TypeParameterSet {
	set := make(TypeParameterSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Contains reports whether name is a member of the set
func (s TypeParameterSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}
