package erasure

import (
	"fmt"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

// TreeProvider produces the syntax tree of the compilation unit declaring a type
type TreeProvider interface {
	Tree(id models.TypeIdentity) (*models.SyntaxTree, error)
}

// TreeProviderFunc adapts a function to TreeProvider
type TreeProviderFunc func(id models.TypeIdentity) (*models.SyntaxTree, error)

// Tree calls f(id)
func (f TreeProviderFunc) Tree(id models.TypeIdentity) (*models.SyntaxTree, error) {
	return f(id)
}

// Resolution is a located declaration together with the tree it came from
type Resolution struct {
	Signature   models.CompiledSignature  `json:"signature" yaml:"signature"`
	File        string                    `json:"file" yaml:"file"`
	Declaration *models.ParsedDeclaration `json:"declaration" yaml:"declaration"`
	Range       models.SourceRange        `json:"range" yaml:"range"`
}

// Locator resolves compiled signatures to source ranges. It keeps no state
// between calls; every call asks the provider for the tree again.
type Locator struct {
	provider  TreeProvider
	qualified bool
}

// LocatorOption configures a Locator
type LocatorOption func(*Locator)

// WithQualifiedNames compares against canonical qualified compiled names
// (java.lang.Object, java.util.List) instead of simple ones
func WithQualifiedNames() LocatorOption {
	return func(l *Locator) {
		l.qualified = true
	}
}

// NewLocator creates a locator reading trees from provider
func NewLocator(provider TreeProvider, opts ...LocatorOption) *Locator {
	l := &Locator{provider: provider}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the source range of the declaration sig was compiled from
func (l *Locator) Locate(sig models.CompiledSignature) (models.SourceRange, error) {
	res, err := l.Resolve(sig)
	if err != nil {
		return models.SourceRange{}, err
	}
	return res.Range, nil
}

// Resolve finds the declaration sig was compiled from.
//
// Errors are *errors.SourceUnavailableError when the provider fails,
// *errors.DeclarationNotFoundError when no candidate erases to sig and
// *errors.RangeUnavailableError when the match has no usable range.
func (l *Locator) Resolve(sig models.CompiledSignature) (*Resolution, error) {
	declaringType := sig.DeclaringType.String()

	tree, err := l.provider.Tree(sig.DeclaringType)
	if err != nil {
		if errors.CodeOf(err) == errors.SourceUnavailableCode {
			return nil, err
		}
		return nil, errors.NewSourceUnavailableError(declaringType, err)
	}
	if tree == nil {
		return nil, errors.NewSourceUnavailableError(declaringType, fmt.Errorf("provider returned no tree"))
	}

	candidates := Candidates(tree, sig)
	normalizer := l.normalizerFor(tree)

	decl, ok := normalizer.FirstMatch(sig, candidates)
	if !ok {
		notFound := errors.NewDeclarationNotFoundError(declaringType, sig.Name, sig.ParameterCount()).
			WithLocation(errors.SourceLocation{File: tree.Path})
		for _, candidate := range candidates {
			mismatch := normalizer.Explain(sig, candidate)
			notFound.WithSuggestion(fmt.Sprintf("%s: %s", candidate.Signature(), mismatch))
		}
		return nil, notFound
	}

	if decl.Range == nil || !decl.Range.Valid() {
		return nil, errors.NewRangeUnavailableError(declaringType, decl.Signature())
	}

	return &Resolution{
		Signature:   sig,
		File:        tree.Path,
		Declaration: decl,
		Range:       *decl.Range,
	}, nil
}

func (l *Locator) normalizerFor(tree *models.SyntaxTree) Normalizer {
	return NormalizerFor(tree, l.qualified)
}

// NormalizerFor returns the normalizer a locator uses for tree
func NormalizerFor(tree *models.SyntaxTree, qualified bool) Normalizer {
	if qualified {
		return QualifiedNormalizer(tree)
	}
	return SimpleNormalizer
}

// Candidates returns the declarations of tree named like sig, in tree order.
// Nested declaring types only consider declarations owned by that type;
// top-level declaring types consider the whole compilation unit.
func Candidates(tree *models.SyntaxTree, sig models.CompiledSignature) []*models.ParsedDeclaration {
	owner := ""
	if sig.DeclaringType.IsNested() {
		owner = sig.DeclaringType.NestedPath()
	}

	var candidates []*models.ParsedDeclaration
	for _, decl := range tree.Declarations {
		if decl.Name != sig.Name {
			continue
		}
		if owner != "" && decl.Owner != owner {
			continue
		}
		candidates = append(candidates, decl)
	}
	return candidates
}
