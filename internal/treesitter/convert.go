package treesitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/toyz/locus/internal/models"
)

type converter struct {
	src  []byte
	tree *models.SyntaxTree
}

func newConverter(filename string, src []byte) *converter {
	return &converter{
		src: src,
		tree: &models.SyntaxTree{
			Path:         filename,
			Declarations: make([]*models.ParsedDeclaration, 0),
		},
	}
}

func (c *converter) convert(root *sitter.Node) *models.SyntaxTree {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			c.tree.Package = c.packageName(child)
		case "import_declaration":
			c.tree.Imports = append(c.tree.Imports, c.importName(child))
		default:
			c.typeDeclaration(child, "")
		}
	}
	return c.tree
}

func (c *converter) packageName(node *sitter.Node) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
			return compact(child.Content(c.src))
		}
	}
	return ""
}

func (c *converter) importName(node *sitter.Node) string {
	text := strings.TrimSpace(node.Content(c.src))
	text = strings.TrimSuffix(strings.TrimPrefix(text, "import"), ";")
	fields := strings.Fields(text)
	if len(fields) > 1 && fields[0] == "static" {
		return "static " + compact(strings.Join(fields[1:], ""))
	}
	return compact(strings.Join(fields, ""))
}

func (c *converter) typeDeclaration(node *sitter.Node, outer string) {
	switch node.Type() {
	case "class_declaration", "interface_declaration", "annotation_type_declaration":
		owner := c.enter(outer, node)
		c.body(node.ChildByFieldName("body"), owner, nil)
	case "record_declaration":
		owner := c.enter(outer, node)
		c.body(node.ChildByFieldName("body"), owner, node.ChildByFieldName("parameters"))
	case "enum_declaration":
		owner := c.enter(outer, node)
		c.enumBody(node.ChildByFieldName("body"), owner)
	}
}

func (c *converter) enter(outer string, node *sitter.Node) string {
	path := c.text(node.ChildByFieldName("name"))
	if outer != "" {
		path = outer + "." + path
	}
	c.tree.Types = append(c.tree.Types, path)
	return path
}

func (c *converter) enumBody(body *sitter.Node, owner string) {
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "enum_constant":
			if constantBody := child.ChildByFieldName("body"); constantBody != nil {
				c.body(constantBody, owner+"."+c.text(child.ChildByFieldName("name")), nil)
			}
		case "enum_body_declarations":
			c.body(child, owner, nil)
		}
	}
}

// body visits the members of a class, interface, annotation or record body
func (c *converter) body(body *sitter.Node, owner string, components *sitter.Node) {
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_declaration":
			c.add(member, models.MethodDeclaration, owner, member.ChildByFieldName("parameters"))
		case "constructor_declaration":
			c.add(member, models.ConstructorDeclaration, owner, member.ChildByFieldName("parameters"))
		case "compact_constructor_declaration":
			c.add(member, models.ConstructorDeclaration, owner, components)
		case "annotation_type_element_declaration":
			c.add(member, models.MethodDeclaration, owner, nil)
		default:
			c.typeDeclaration(member, owner)
		}
	}
}

func (c *converter) add(node *sitter.Node, kind models.DeclarationKind, owner string, params *sitter.Node) {
	start, end := node.StartPoint(), node.EndPoint()
	c.tree.Declarations = append(c.tree.Declarations, &models.ParsedDeclaration{
		Name:           c.text(node.ChildByFieldName("name")),
		Kind:           kind,
		Owner:          owner,
		TypeParameters: c.typeParameters(node.ChildByFieldName("type_parameters")),
		Parameters:     c.parameters(params),
		Range: &models.SourceRange{
			Begin: models.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
			End:   models.Position{Line: int(end.Row) + 1, Column: int(end.Column)},
		},
	})
}

func (c *converter) typeParameters(node *sitter.Node) []string {
	if node == nil {
		return nil
	}
	var names []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		param := node.NamedChild(i)
		if param.Type() != "type_parameter" {
			continue
		}
		for j := 0; j < int(param.NamedChildCount()); j++ {
			child := param.NamedChild(j)
			if child.Type() == "type_identifier" || child.Type() == "identifier" {
				names = append(names, c.text(child))
				break
			}
		}
	}
	return names
}

func (c *converter) parameters(node *sitter.Node) []models.ParsedParameter {
	params := make([]models.ParsedParameter, 0)
	if node == nil {
		return params
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "formal_parameter":
			params = append(params, models.ParsedParameter{
				Name: c.text(child.ChildByFieldName("name")),
				Type: models.Array(c.typeExpression(child.ChildByFieldName("type")), dimensions(c.text(child.ChildByFieldName("dimensions")))),
			})
		case "spread_parameter":
			params = append(params, c.spreadParameter(child))
		}
	}
	return params
}

// spreadParameter handles Type... name, whose type is an unnamed child
func (c *converter) spreadParameter(node *sitter.Node) models.ParsedParameter {
	param := models.ParsedParameter{IsVarArgs: true}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "modifiers", "annotation", "marker_annotation":
		case "variable_declarator":
			param.Name = c.text(child.ChildByFieldName("name"))
			if dims := child.ChildByFieldName("dimensions"); dims != nil {
				param.Type = models.Array(param.Type, dimensions(c.text(dims)))
			}
		default:
			param.Type = c.typeExpression(child)
		}
	}
	return param
}

func (c *converter) typeExpression(node *sitter.Node) models.TypeExpression {
	if node == nil {
		return models.Named("")
	}
	switch node.Type() {
	case "array_type":
		element := c.typeExpression(node.ChildByFieldName("element"))
		return models.Array(element, dimensions(c.text(node.ChildByFieldName("dimensions"))))
	case "generic_type":
		named := models.Named(c.typeName(node))
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if args := node.NamedChild(i); args.Type() == "type_arguments" {
				named.Arguments = c.typeArguments(args)
			}
		}
		return named
	case "annotated_type":
		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			if child := node.NamedChild(i); !isAnnotation(child) {
				return c.typeExpression(child)
			}
		}
	case "wildcard":
		return c.wildcard(node)
	}
	return models.Named(c.typeName(node))
}

// typeName returns the dotted name of a type, without type arguments
func (c *converter) typeName(node *sitter.Node) string {
	switch node.Type() {
	case "scoped_type_identifier":
		var parts []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); !isAnnotation(child) {
				parts = append(parts, c.typeName(child))
			}
		}
		return strings.Join(parts, ".")
	case "generic_type":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child.Type() != "type_arguments" {
				return c.typeName(child)
			}
		}
	}
	return compact(c.text(node))
}

func (c *converter) typeArguments(node *sitter.Node) []models.TypeExpression {
	var args []models.TypeExpression
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); !isAnnotation(child) {
			args = append(args, c.typeExpression(child))
		}
	}
	return args
}

func (c *converter) wildcard(node *sitter.Node) models.TypeExpression {
	lower := false
	var bound *models.TypeExpression
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch {
		case child.Type() == "super":
			lower = true
		case child.IsNamed() && !isAnnotation(child):
			expr := c.typeExpression(child)
			bound = &expr
		}
	}
	return models.Wildcard(bound, lower)
}

func (c *converter) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Content(c.src)
}

func isAnnotation(node *sitter.Node) bool {
	return node.Type() == "annotation" || node.Type() == "marker_annotation"
}

// dimensions counts the [] pairs in a dimensions node's text
func dimensions(text string) int {
	return strings.Count(text, "[")
}

// compact strips the whitespace tree-sitter keeps inside dotted names
func compact(text string) string {
	return strings.Join(strings.Fields(text), "")
}
