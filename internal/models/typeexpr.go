package models

import "strings"

// TypeKind identifies which variant of TypeExpression is populated
type TypeKind int

const (
	// NamedKind is a simple or qualified type name with optional generic arguments
	NamedKind TypeKind = iota
	// ArrayKind is an element type followed by one or more [] dimensions
	ArrayKind
	// WildcardKind is a ? type argument with an optional bound
	WildcardKind
)

// String returns the string representation of the type kind
func (k TypeKind) String() string {
	switch k {
	case NamedKind:
		return "named"
	case ArrayKind:
		return "array"
	case WildcardKind:
		return "wildcard"
	default:
		return "unknown"
	}
}

// TypeExpression is the tagged union of type shapes written in source.
// Only the fields belonging to Kind are meaningful.
type TypeExpression struct {
	Kind TypeKind `json:"kind" yaml:"kind"`

	// Named
	Identifier string           `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Arguments  []TypeExpression `json:"arguments,omitempty" yaml:"arguments,omitempty"`

	// Array
	Element    *TypeExpression `json:"element,omitempty" yaml:"element,omitempty"`
	Dimensions int             `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`

	// Wildcard
	Bound      *TypeExpression `json:"bound,omitempty" yaml:"bound,omitempty"`
	LowerBound bool            `json:"lower_bound,omitempty" yaml:"lower_bound,omitempty"`
}

// Named creates a named type expression such as int, String or List<T>
func Named(identifier string, arguments ...TypeExpression) TypeExpression {
	return TypeExpression{Kind: NamedKind, Identifier: identifier, Arguments: arguments}
}

// Array creates an array type expression. Nested arrays are flattened so the
// element of the result is never itself an array.
func Array(element TypeExpression, dimensions int) TypeExpression {
	if dimensions <= 0 {
		return element
	}
	for element.Kind == ArrayKind && element.Element != nil {
		dimensions += element.Dimensions
		element = *element.Element
	}
	return TypeExpression{Kind: ArrayKind, Element: &element, Dimensions: dimensions}
}

// Wildcard creates a ? type argument. bound may be nil for an unbounded wildcard.
func Wildcard(bound *TypeExpression, lower bool) TypeExpression {
	return TypeExpression{Kind: WildcardKind, Bound: bound, LowerBound: lower}
}

// IsGeneric reports whether a named type carries generic arguments
func (t TypeExpression) IsGeneric() bool {
	return t.Kind == NamedKind && len(t.Arguments) > 0
}

// String renders the expression the way it would be written in source
func (t TypeExpression) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t TypeExpression) write(b *strings.Builder) {
	switch t.Kind {
	case NamedKind:
		b.WriteString(t.Identifier)
		if len(t.Arguments) > 0 {
			b.WriteByte('<')
			for i, arg := range t.Arguments {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.write(b)
			}
			b.WriteByte('>')
		}
	case ArrayKind:
		if t.Element != nil {
			t.Element.write(b)
		}
		b.WriteString(strings.Repeat("[]", t.Dimensions))
	case WildcardKind:
		b.WriteByte('?')
		if t.Bound != nil {
			if t.LowerBound {
				b.WriteString(" super ")
			} else {
				b.WriteString(" extends ")
			}
			t.Bound.write(b)
		}
	}
}
