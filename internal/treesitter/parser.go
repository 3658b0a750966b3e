// Package treesitter indexes Java declarations using the tree-sitter Java
// grammar. It produces the same SyntaxTree shape as the participle backend.
package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

// BackendName identifies this parser in configuration
const BackendName = "treesitter"

// Parser is a models.SourceParser backed by tree-sitter. A new tree-sitter
// parser is created per call, so Parser is safe for concurrent use.
type Parser struct{}

// NewParser creates a tree-sitter backed parser
func NewParser() *Parser {
	return &Parser{}
}

// Name returns the backend name
func (p *Parser) Name() string {
	return BackendName
}

// Parse parses src without a deadline
func (p *Parser) Parse(filename string, src []byte) (*models.SyntaxTree, error) {
	return p.ParseContext(context.Background(), filename, src)
}

// ParseContext parses src, honouring cancellation of ctx. Trees containing
// error or missing nodes are rejected.
func (p *Parser) ParseContext(ctx context.Context, filename string, src []byte) (*models.SyntaxTree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.WrapParseError(filename, fmt.Errorf("tree-sitter parse failed: %w", err)).WithParser(BackendName)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, errors.NewSyntaxError("tree-sitter returned no root node").
			WithParser(BackendName).
			WithLocation(errors.SourceLocation{File: filename})
	}
	if root.HasError() {
		return nil, syntaxError(filename, root)
	}

	return newConverter(filename, src).convert(root), nil
}

func syntaxError(filename string, root *sitter.Node) error {
	loc := errors.SourceLocation{File: filename}
	message := "source contains syntax errors"

	if bad := firstError(root); bad != nil {
		start := bad.StartPoint()
		loc.Line = int(start.Row) + 1
		loc.Column = int(start.Column) + 1
		if bad.IsMissing() {
			message = fmt.Sprintf("missing %s", bad.Type())
		} else {
			message = "unexpected input"
		}
	}

	return errors.NewSyntaxError(message).WithParser(BackendName).WithLocation(loc)
}

// firstError returns the first ERROR or MISSING node in document order
func firstError(node *sitter.Node) *sitter.Node {
	if node.IsMissing() || node.Type() == "ERROR" {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
