package javasrc

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// javaLexer tokenizes Java source text. It only distinguishes what the
// declaration grammar needs; bodies are matched as balanced token runs.
// Generic closers are always lexed as single > so nested arguments close.
var javaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?s:.*?)\*/`},
	{Name: "TextBlock", Pattern: `"""(?s:.*?)"""`},
	{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`},
	{Name: "Char", Pattern: `'(\\.|[^'\\\n])+'`},
	{Name: "AtInterface", Pattern: `@\s*interface\b`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Number", Pattern: `\d[\w.]*|\.\d\w*`},
	{Name: "Ident", Pattern: `non-sealed\b|[\p{L}_$][\p{L}\p{N}_$]*`},
	{Name: "Punct", Pattern: `[{}()\[\];,.@<>?&:=!~+\-*/%^|]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `.`},
})

var elided = []string{"Whitespace", "Comment"}

// significant reports whether a token takes part in a declaration's range
func significant(token lexer.Token) bool {
	return !token.EOF() && token.Type != whitespaceType && token.Type != commentType
}

var (
	whitespaceType = javaLexer.Symbols()["Whitespace"]
	commentType    = javaLexer.Symbols()["Comment"]
)
