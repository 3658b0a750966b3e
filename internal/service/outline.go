package service

import (
	"os"
	"strings"

	"github.com/toyz/locus/internal/erasure"
	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

// Outline lists the callable declarations of a type with their erasures
type Outline struct {
	Type    string         `json:"type" yaml:"type"`
	File    string         `json:"file" yaml:"file"`
	Package string         `json:"package,omitempty" yaml:"package,omitempty"`
	Entries []OutlineEntry `json:"entries" yaml:"entries"`
}

// OutlineEntry is one declaration of an outline
type OutlineEntry struct {
	Owner       string             `json:"owner" yaml:"owner"`
	Kind        string             `json:"kind" yaml:"kind"`
	Declaration string             `json:"declaration" yaml:"declaration"`
	Erased      string             `json:"erased" yaml:"erased"`
	Range       models.SourceRange `json:"range" yaml:"range"`
}

// Outline describes the type named typeName (dotted, slashed or binary).
// Nested types only list their own declarations.
func (s *Service) Outline(typeName string) (*Outline, error) {
	id := models.ParseTypeIdentity(typeName)
	tree, err := s.provider.Tree(id)
	if err != nil {
		return nil, errors.NewSourceUnavailableError(id.String(), err)
	}

	owner := ""
	if id.IsNested() {
		owner = id.NestedPath()
	}
	return s.outline(id.String(), tree, owner), nil
}

// OutlineFile describes every declaration in a source file
func (s *Service) OutlineFile(path string) (*Outline, error) {
	tree, err := s.provider.ParseFile(path)
	if err != nil {
		return nil, err
	}
	name := path
	if len(tree.Types) > 0 {
		name = tree.Types[0]
		if tree.Package != "" {
			name = tree.Package + "." + name
		}
	}
	return s.outline(name, tree, ""), nil
}

// IsSourceFile reports whether arg names an existing file rather than a type
func (s *Service) IsSourceFile(arg string) bool {
	if !strings.HasSuffix(arg, s.cfg.Source.Extension) {
		return false
	}
	info, err := os.Stat(arg)
	return err == nil && !info.IsDir()
}

func (s *Service) outline(name string, tree *models.SyntaxTree, owner string) *Outline {
	normalizer := erasure.NormalizerFor(tree, s.cfg.Naming.Qualified)
	out := &Outline{
		Type:    name,
		File:    tree.Path,
		Package: tree.Package,
		Entries: make([]OutlineEntry, 0, len(tree.Declarations)),
	}

	for _, decl := range tree.Declarations {
		if owner != "" && decl.Owner != owner {
			continue
		}
		erased := models.CompiledSignature{Name: decl.Name, Parameters: normalizer.NormalizeAll(decl)}
		entry := OutlineEntry{
			Owner:       decl.Owner,
			Kind:        decl.Kind.String(),
			Declaration: decl.Signature(),
			Erased:      erased.Name + "(" + erased.ParameterList() + ")",
		}
		if decl.Range != nil {
			entry.Range = *decl.Range
		}
		out.Entries = append(out.Entries, entry)
	}
	return out
}
