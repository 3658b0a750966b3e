package erasure

import (
	"strings"

	"github.com/toyz/locus/internal/models"
)

var primitiveTypes = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true, "void": true,
}

// ImportResolver qualifies simple identifiers the way the compiler would for
// a compilation unit without a classpath: types declared in the unit first,
// then single-type imports, then java.lang, then the unit's own package.
type ImportResolver struct {
	pkg     string
	local   map[string]string
	imports map[string]string
}

// NewImportResolver builds a resolver from a package name, its import list and
// the dotted paths of the types the unit declares. On-demand (.*) and static
// imports cannot be resolved without a classpath and are ignored.
func NewImportResolver(pkg string, imports []string, localTypes []string) *ImportResolver {
	r := &ImportResolver{
		pkg:     pkg,
		local:   make(map[string]string, len(localTypes)),
		imports: make(map[string]string, len(imports)),
	}
	for _, path := range localTypes {
		simple := path
		if i := strings.LastIndexByte(path, '.'); i >= 0 {
			simple = path[i+1:]
		}
		if _, seen := r.local[simple]; !seen {
			r.local[simple] = path
		}
	}
	for _, imp := range imports {
		if strings.HasSuffix(imp, ".*") || strings.HasPrefix(imp, "static ") {
			continue
		}
		simple := imp
		if i := strings.LastIndexByte(imp, '.'); i >= 0 {
			simple = imp[i+1:]
		}
		r.imports[simple] = imp
	}
	return r
}

// Resolve returns the qualified form of identifier
func (r *ImportResolver) Resolve(identifier string) string {
	if primitiveTypes[identifier] {
		return identifier
	}

	head, rest := identifier, ""
	if i := strings.IndexByte(identifier, '.'); i >= 0 {
		head, rest = identifier[:i], identifier[i:]
	}

	// already qualified: package segments start lower case
	if rest != "" && !startsUpper(head) {
		return identifier
	}
	if path, ok := r.local[head]; ok {
		return r.qualify(path + rest)
	}
	if qualified, ok := r.imports[head]; ok {
		return qualified + rest
	}
	if langTypes[head] {
		return "java.lang." + identifier
	}
	return r.qualify(identifier)
}

func (r *ImportResolver) qualify(name string) string {
	if r.pkg == "" {
		return name
	}
	return r.pkg + "." + name
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// QualifiedNormalizer returns a normalizer producing canonical qualified names
// for declarations in tree
func QualifiedNormalizer(tree *models.SyntaxTree) Normalizer {
	return Normalizer{
		TopType: QualifiedTopType,
		Resolve: NewImportResolver(tree.Package, tree.Imports, tree.Types).Resolve,
	}
}
