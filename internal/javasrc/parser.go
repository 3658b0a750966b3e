// Package javasrc parses the declaration skeleton of Java source files with a
// participle grammar.
package javasrc

import (
	stderrors "errors"

	"github.com/alecthomas/participle/v2"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

// BackendName identifies this parser in configuration
const BackendName = "participle"

// Parser is a models.SourceParser backed by participle. It is safe for
// concurrent use.
type Parser struct {
	parser *participle.Parser[compilationUnit]
}

// NewParser builds the Java grammar
func NewParser() *Parser {
	parser := participle.MustBuild[compilationUnit](
		participle.Lexer(javaLexer),
		participle.Elide(elided...),
		participle.UseLookahead(participle.MaxLookahead),
	)

	return &Parser{parser: parser}
}

// Name returns the backend name
func (p *Parser) Name() string {
	return BackendName
}

// Parse parses a compilation unit and indexes its methods and constructors
func (p *Parser) Parse(filename string, src []byte) (*models.SyntaxTree, error) {
	unit, err := p.parser.ParseBytes(filename, src)
	if err != nil {
		return nil, syntaxError(filename, err)
	}

	return newConverter(filename).convert(unit), nil
}

func syntaxError(filename string, err error) error {
	syntaxErr := errors.WrapParseError(filename, err).WithParser(BackendName)

	var perr participle.Error
	if stderrors.As(err, &perr) {
		pos := perr.Position()
		syntaxErr.BaseError.Message = perr.Message()
		syntaxErr.BaseError.Cause = nil
		syntaxErr.WithLocation(errors.SourceLocation{
			File:   filename,
			Line:   pos.Line,
			Column: pos.Column,
		})
	}
	return syntaxErr
}
