package models

import (
	"path"
	"strings"
	"unicode"
)

// CompiledTypeName is a parameter type as reported by the compiled program,
// e.g. int, Object, Object[] or java.util.List. Arrays use one [] per dimension.
type CompiledTypeName string

// String returns the type name
func (n CompiledTypeName) String() string {
	return string(n)
}

// TypeIdentity identifies the compilation unit of a declaring type.
// Name is the binary simple name; nested types use $ (Outer$Inner).
type TypeIdentity struct {
	Package string `json:"package" yaml:"package"`
	Name    string `json:"name" yaml:"name"`
}

// ParseTypeIdentity accepts dotted (org.samples.Person), slashed
// (org/samples/Person), binary (Outer$Inner) and canonical (Outer.Inner)
// spellings. Package segments are the leading lower-case segments.
func ParseTypeIdentity(name string) TypeIdentity {
	name = strings.TrimSpace(strings.ReplaceAll(name, "/", "."))
	if name == "" {
		return TypeIdentity{}
	}

	segments := strings.Split(name, ".")
	split := len(segments) - 1
	for i, segment := range segments {
		if startsUpper(segment) {
			split = i
			break
		}
	}

	return TypeIdentity{
		Package: strings.Join(segments[:split], "."),
		Name:    strings.Join(segments[split:], "$"),
	}
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// TopLevel returns the name of the top-level type, which names the source file
func (t TypeIdentity) TopLevel() string {
	if i := strings.IndexByte(t.Name, '$'); i >= 0 {
		return t.Name[:i]
	}
	return t.Name
}

// IsNested reports whether the identity names a member type
func (t TypeIdentity) IsNested() bool {
	return strings.ContainsRune(t.Name, '$')
}

// NestedPath returns the dotted path of the type inside its file (Outer.Inner)
func (t TypeIdentity) NestedPath() string {
	return strings.ReplaceAll(t.Name, "$", ".")
}

// SimpleName returns the innermost type name
func (t TypeIdentity) SimpleName() string {
	if i := strings.LastIndexByte(t.Name, '$'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// PackagePath returns the package as a slash-separated relative directory
func (t TypeIdentity) PackagePath() string {
	if t.Package == "" {
		return ""
	}
	return strings.ReplaceAll(t.Package, ".", "/")
}

// SourceFile returns the slash-separated relative path of the file that
// declares the type, e.g. org/samples/Person.java
func (t TypeIdentity) SourceFile(extension string) string {
	return path.Join(t.PackagePath(), t.TopLevel()+extension)
}

// String returns the qualified binary name
func (t TypeIdentity) String() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

// CompiledSignature is the erased signature of a callable observed in a
// compiled program. Constructors are named after the declaring type's simple name.
//
// MaybeImplicit marks members the compiler generates without a synthetic flag
// when source omits them: default constructors and the canonical constructor,
// accessors, equals, hashCode and toString of records.
type CompiledSignature struct {
	DeclaringType TypeIdentity       `json:"declaring_type" yaml:"declaring_type"`
	Name          string             `json:"name" yaml:"name"`
	Parameters    []CompiledTypeName `json:"parameters" yaml:"parameters"`
	IsVarArgs     bool               `json:"varargs,omitempty" yaml:"varargs,omitempty"`
	MaybeImplicit bool               `json:"maybe_implicit,omitempty" yaml:"maybe_implicit,omitempty"`
}

// ParameterCount returns the number of parameter positions
func (s CompiledSignature) ParameterCount() int {
	return len(s.Parameters)
}

// IsConstructor reports whether the signature names a constructor
func (s CompiledSignature) IsConstructor() bool {
	return s.Name == s.DeclaringType.SimpleName()
}

// ParameterList renders the parameters comma separated without spaces
func (s CompiledSignature) ParameterList() string {
	params := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = string(p)
	}
	return strings.Join(params, ",")
}

// String renders Type.name(param,...) in the style of a runtime method description
func (s CompiledSignature) String() string {
	return s.DeclaringType.Name + "." + s.Name + "(" + s.ParameterList() + ")"
}
