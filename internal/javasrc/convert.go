package javasrc

import (
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/locus/internal/models"
)

// converter flattens a parsed unit into a SyntaxTree, visiting members in
// source order so declarations come out in lexical pre-order.
type converter struct {
	tree *models.SyntaxTree
}

func newConverter(filename string) *converter {
	return &converter{
		tree: &models.SyntaxTree{
			Path:         filename,
			Declarations: make([]*models.ParsedDeclaration, 0),
		},
	}
}

func (c *converter) convert(unit *compilationUnit) *models.SyntaxTree {
	if unit.Package != nil {
		c.tree.Package = strings.Join(unit.Package.Name, ".")
	}
	for _, imp := range unit.Imports {
		name := strings.Join(imp.Name, ".")
		if imp.Static {
			name = "static " + name
		}
		c.tree.Imports = append(c.tree.Imports, name)
	}
	for _, item := range unit.Types {
		if item.Decl != nil {
			c.typeKind(item.Decl.Kind, "")
		}
	}
	return c.tree
}

func (c *converter) typeKind(kind *typeKind, outer string) {
	switch {
	case kind.Class != nil:
		c.classBody(kind.Class.Body, c.enter(outer, kind.Class.Name), nil)
	case kind.Interface != nil:
		c.classBody(kind.Interface.Body, c.enter(outer, kind.Interface.Name), nil)
	case kind.Annotation != nil:
		c.classBody(kind.Annotation.Body, c.enter(outer, kind.Annotation.Name), nil)
	case kind.Record != nil:
		c.classBody(kind.Record.Body, c.enter(outer, kind.Record.Name), kind.Record.Components)
	case kind.Enum != nil:
		owner := c.enter(outer, kind.Enum.Name)
		for _, constant := range kind.Enum.Body.Constants {
			if constant.Body != nil {
				c.classBody(constant.Body, owner+"."+constant.Name, nil)
			}
		}
		c.members(kind.Enum.Body.Members, owner, nil)
	}
}

// enter records a declared type and returns its dotted path
func (c *converter) enter(outer, name string) string {
	path := name
	if outer != "" {
		path = outer + "." + name
	}
	c.tree.Types = append(c.tree.Types, path)
	return path
}

func (c *converter) classBody(body *classBody, owner string, components []*param) {
	c.members(body.Members, owner, components)
}

func (c *converter) members(members []*member, owner string, components []*param) {
	for _, m := range members {
		if m.Decl == nil {
			continue
		}
		kind := m.Decl.Kind
		switch {
		case kind.Type != nil:
			c.typeKind(kind.Type, owner)
		case kind.Method != nil:
			c.add(&models.ParsedDeclaration{
				Name:           kind.Method.Name,
				Kind:           models.MethodDeclaration,
				Owner:          owner,
				TypeParameters: typeParameterNames(kind.Method.TypeParams),
				Parameters:     parameters(kind.Method.Params),
				Range:          tokenRange(m.Decl.Tokens),
			})
		case kind.Constructor != nil:
			c.add(&models.ParsedDeclaration{
				Name:           kind.Constructor.Name,
				Kind:           models.ConstructorDeclaration,
				Owner:          owner,
				TypeParameters: typeParameterNames(kind.Constructor.TypeParams),
				Parameters:     parameters(kind.Constructor.Params),
				Range:          tokenRange(m.Decl.Tokens),
			})
		case kind.Compact != nil:
			// a compact constructor takes the record components implicitly
			c.add(&models.ParsedDeclaration{
				Name:       kind.Compact.Name,
				Kind:       models.ConstructorDeclaration,
				Owner:      owner,
				Parameters: parameters(components),
				Range:      tokenRange(m.Decl.Tokens),
			})
		}
	}
}

func (c *converter) add(decl *models.ParsedDeclaration) {
	c.tree.Declarations = append(c.tree.Declarations, decl)
}

func typeParameterNames(params *typeParams) []string {
	if params == nil {
		return nil
	}
	names := make([]string, len(params.Params))
	for i, p := range params.Params {
		names[i] = p.Name
	}
	return names
}

func parameters(params []*param) []models.ParsedParameter {
	result := make([]models.ParsedParameter, 0, len(params))
	for _, p := range params {
		// receiver parameters (Outer this) are not part of the signature
		if p.Name[len(p.Name)-1] == "this" {
			continue
		}
		result = append(result, models.ParsedParameter{
			Name:      p.Name[len(p.Name)-1],
			Type:      models.Array(typeExpression(p.Type), len(p.Dims)),
			IsVarArgs: p.VarArgs,
		})
	}
	return result
}

func typeExpression(ref *typeRef) models.TypeExpression {
	names := make([]string, len(ref.Segments))
	for i, segment := range ref.Segments {
		names[i] = segment.Name
	}

	named := models.Named(strings.Join(names, "."))
	if last := ref.Segments[len(ref.Segments)-1]; last.Arguments != nil {
		for _, arg := range last.Arguments.Args {
			named.Arguments = append(named.Arguments, typeArgument(arg))
		}
	}
	return models.Array(named, len(ref.Dims))
}

func typeArgument(arg *typeArg) models.TypeExpression {
	if arg.Wildcard == nil {
		return typeExpression(arg.Type)
	}
	if arg.Wildcard.Bound == nil {
		return models.Wildcard(nil, false)
	}
	bound := typeExpression(arg.Wildcard.Bound.Type)
	return models.Wildcard(&bound, arg.Wildcard.Bound.Kind == "super")
}

// tokenRange spans the first through last significant token, both inclusive
func tokenRange(tokens []lexer.Token) *models.SourceRange {
	first, last := -1, -1
	for i, token := range tokens {
		if !significant(token) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return nil
	}

	return &models.SourceRange{
		Begin: models.Position{Line: tokens[first].Pos.Line, Column: tokens[first].Pos.Column},
		End:   lastRune(tokens[last]),
	}
}

// lastRune returns the position of the final character of token
func lastRune(token lexer.Token) models.Position {
	pos := models.Position{Line: token.Pos.Line, Column: token.Pos.Column}
	value := token.Value
	if i := strings.LastIndexByte(value, '\n'); i >= 0 {
		pos.Line += strings.Count(value, "\n")
		pos.Column = 0
		value = value[i+1:]
	} else {
		pos.Column--
	}
	pos.Column += utf8.RuneCountInString(value)
	return pos
}
