// Package erasure decides which source declaration a compiled, erased
// signature was produced from.
package erasure

import (
	"strings"

	"github.com/toyz/locus/internal/models"
)

// TopType is the universal reference type every type parameter erases to
const TopType models.CompiledTypeName = "Object"

// QualifiedTopType is TopType under qualified naming
const QualifiedTopType models.CompiledTypeName = "java.lang.Object"

// Resolver maps an identifier written in source to the spelling used by the
// compiled side. The identity resolver is used for simple naming.
type Resolver func(identifier string) string

// Normalizer erases parsed parameter types into compiled type names
type Normalizer struct {
	TopType models.CompiledTypeName
	Resolve Resolver
}

// DefaultNormalizer compares against simple compiled names such as Object or List
var DefaultNormalizer = Normalizer{TopType: TopType}

// SimpleNormalizer is DefaultNormalizer for source that spells types
// qualified or through an enclosing type: Map.Entry and java.util.List
// compare as Entry and List.
var SimpleNormalizer = Normalizer{TopType: TopType, Resolve: LastSegment}

// LastSegment drops everything up to the last dot of a dotted identifier
func LastSegment(identifier string) string {
	if i := strings.LastIndexByte(identifier, '.'); i >= 0 {
		return identifier[i+1:]
	}
	return identifier
}

// Normalize erases param using the default normalizer
func Normalize(param models.ParsedParameter, typeParameters models.TypeParameterSet) models.CompiledTypeName {
	return DefaultNormalizer.Normalize(param, typeParameters)
}

// Normalize maps a parameter and the declaration's own type parameters to the
// name the compiled signature reports for that position.
//
// Arrays and varargs erase their element and keep one [] per dimension, with
// varargs contributing one more. A declaration type parameter becomes the top
// type whatever its bound. A parameterized type loses its arguments.
// Everything else is returned as written.
func (n Normalizer) Normalize(param models.ParsedParameter, typeParameters models.TypeParameterSet) models.CompiledTypeName {
	expr := param.Type
	dims := 0
	if expr.Kind == models.ArrayKind && expr.Element != nil {
		dims = expr.Dimensions
		expr = *expr.Element
	}
	if param.IsVarArgs {
		dims++
	}

	name := n.erase(expr, typeParameters)
	if dims == 0 {
		return name
	}
	return name + models.CompiledTypeName(strings.Repeat("[]", dims))
}

func (n Normalizer) erase(expr models.TypeExpression, typeParameters models.TypeParameterSet) models.CompiledTypeName {
	switch expr.Kind {
	case models.NamedKind:
		if typeParameters.Contains(expr.Identifier) {
			return n.top()
		}
		if n.Resolve != nil {
			return models.CompiledTypeName(n.Resolve(expr.Identifier))
		}
		return models.CompiledTypeName(expr.Identifier)
	case models.ArrayKind:
		// Unflattened arrays only come from hand-built expressions.
		if expr.Element != nil {
			return n.erase(*expr.Element, typeParameters) + models.CompiledTypeName(strings.Repeat("[]", expr.Dimensions))
		}
	}
	return models.CompiledTypeName(expr.String())
}

func (n Normalizer) top() models.CompiledTypeName {
	if n.TopType == "" {
		return TopType
	}
	return n.TopType
}

// NormalizeAll erases every parameter of decl, in order
func (n Normalizer) NormalizeAll(decl *models.ParsedDeclaration) []models.CompiledTypeName {
	typeParameters := decl.TypeParameterSet()
	names := make([]models.CompiledTypeName, len(decl.Parameters))
	for i, param := range decl.Parameters {
		names[i] = n.Normalize(param, typeParameters)
	}
	return names
}
