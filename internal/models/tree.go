package models

// SyntaxTree is the parsed view of one source file. Declarations are kept in
// lexical pre-order, which is the order the locator evaluates candidates in.
type SyntaxTree struct {
	Path         string               `json:"path" yaml:"path"`
	Package      string               `json:"package,omitempty" yaml:"package,omitempty"`
	Imports      []string             `json:"imports,omitempty" yaml:"imports,omitempty"`
	Types        []string             `json:"types,omitempty" yaml:"types,omitempty"`
	Declarations []*ParsedDeclaration `json:"declarations" yaml:"declarations"`
}

// DeclarationsNamed returns the declarations called name, in tree order
func (t *SyntaxTree) DeclarationsNamed(name string) []*ParsedDeclaration {
	var result []*ParsedDeclaration
	for _, decl := range t.Declarations {
		if decl.Name == name {
			result = append(result, decl)
		}
	}
	return result
}

// DeclarationsOwnedBy returns the declarations whose owner is the dotted type path
func (t *SyntaxTree) DeclarationsOwnedBy(owner string) []*ParsedDeclaration {
	var result []*ParsedDeclaration
	for _, decl := range t.Declarations {
		if decl.Owner == owner {
			result = append(result, decl)
		}
	}
	return result
}

// DeclaresType reports whether the tree declares the dotted type path
func (t *SyntaxTree) DeclaresType(path string) bool {
	for _, name := range t.Types {
		if name == path {
			return true
		}
	}
	return false
}

// SourceParser turns source text into a SyntaxTree
type SourceParser interface {
	// Name identifies the backend, e.g. "participle"
	Name() string
	// Parse parses src, using filename for positions and errors
	Parse(filename string, src []byte) (*SyntaxTree, error)
}
