package javasrc

import "github.com/alecthomas/participle/v2/lexer"

// The grammar covers the declaration skeleton of a compilation unit. Method
// bodies, initializers and annotation arguments are consumed as balanced
// token runs and never interpreted.

type compilationUnit struct {
	Package *packageDecl  `@@?`
	Imports []*importDecl `@@*`
	Types   []*typeItem   `@@*`
}

type packageDecl struct {
	Annotations []*annotation `@@*`
	Name        []string      `"package" @Ident ( "." @Ident )* ";"`
}

type importDecl struct {
	Static bool     `"import" @"static"?`
	Name   []string `@Ident ( "." @( Ident | "*" ) )* ";"`
}

type typeItem struct {
	Empty bool      `  @";"`
	Decl  *typeDecl `| @@`
}

type typeDecl struct {
	Modifiers []*modifier `@@*`
	Kind      *typeKind   `@@`
}

type typeKind struct {
	Class      *classDecl      `  @@`
	Interface  *interfaceDecl  `| @@`
	Enum       *enumDecl       `| @@`
	Record     *recordDecl     `| @@`
	Annotation *annotationDecl `| @@`
}

type classDecl struct {
	Name       string      `"class" @Ident`
	TypeParams *typeParams `@@?`
	Header     []string    `( @~"{" )*`
	Body       *classBody  `@@`
}

type interfaceDecl struct {
	Name       string      `"interface" @Ident`
	TypeParams *typeParams `@@?`
	Header     []string    `( @~"{" )*`
	Body       *classBody  `@@`
}

type enumDecl struct {
	Name   string    `"enum" @Ident`
	Header []string  `( @~"{" )*`
	Body   *enumBody `@@`
}

type recordDecl struct {
	Name       string      `"record" @Ident`
	TypeParams *typeParams `@@?`
	Components []*param    `"(" ( @@ ( "," @@ )* )? ")"`
	Header     []string    `( @~"{" )*`
	Body       *classBody  `@@`
}

type annotationDecl struct {
	Name   string     `AtInterface @Ident`
	Header []string   `( @~"{" )*`
	Body   *classBody `@@`
}

type classBody struct {
	Members []*member `"{" @@* "}"`
}

type enumBody struct {
	Constants []*enumConstant `"{" ( @@ ( "," @@ )* )? ","?`
	Members   []*member       `( ";" @@* )? "}"`
}

type enumConstant struct {
	Annotations []*annotation `@@*`
	Name        string        `@Ident`
	Arguments   *parenGroup   `@@?`
	Body        *classBody    `@@?`
}

type member struct {
	Empty bool        `  @";"`
	Decl  *memberDecl `| @@`
}

type memberDecl struct {
	Tokens    []lexer.Token
	Modifiers []*modifier `@@*`
	Kind      *memberKind `@@`
}

type memberKind struct {
	Type        *typeKind        `  @@`
	Initializer *block           `| @@`
	Compact     *compactCtor     `| @@`
	Constructor *constructorDecl `| @@`
	Method      *methodDecl      `| @@`
	Field       *fieldDecl       `| @@`
}

type compactCtor struct {
	Name string `@Ident`
	Body *block `@@`
}

type constructorDecl struct {
	TypeParams *typeParams `@@?`
	Name       string      `@Ident`
	Params     []*param    `"(" ( @@ ( "," @@ )* )? ")"`
	Throws     []*typeRef  `( "throws" @@ ( "," @@ )* )?`
	Body       *block      `@@`
}

type methodDecl struct {
	TypeParams *typeParams `@@?`
	Result     *typeRef    `@@`
	Name       string      `@Ident`
	Params     []*param    `"(" ( @@ ( "," @@ )* )? ")"`
	Dims       []string    `( @"[" "]" )*`
	Throws     []*typeRef  `( "throws" @@ ( "," @@ )* )?`
	Default    []string    `( "default" ( @~";" )+ )?`
	Body       *methodBody `@@`
}

type methodBody struct {
	Block    *block `  @@`
	Abstract bool   `| @";"`
}

type fieldDecl struct {
	Type *typeRef     `@@`
	Name string       `@Ident`
	Dims []string     `( @"[" "]" )*`
	Rest []*fieldItem `( ( "=" | "," ) @@* )? ";"`
}

type fieldItem struct {
	Block *block `  @@`
	Token string `| @~( ";" | "{" | "}" )`
}

type block struct {
	Items []*blockItem `"{" @@* "}"`
}

type blockItem struct {
	Block *block `  @@`
	Token string `| @~( "{" | "}" )`
}

type parenGroup struct {
	Items []*parenItem `"(" @@* ")"`
}

type parenItem struct {
	Group *parenGroup `  @@`
	Token string      `| @~( "(" | ")" )`
}

type modifier struct {
	Annotation *annotation `  @@`
	Keyword    string      `| @( "public" | "protected" | "private" | "static" | "abstract" | "final" | "native" | "synchronized" | "transient" | "volatile" | "strictfp" | "default" | "sealed" | "non-sealed" )`
}

type annotation struct {
	Name      []string    `"@" @Ident ( "." @Ident )*`
	Arguments *parenGroup `@@?`
}

type typeParams struct {
	Params []*typeParam `"<" @@ ( "," @@ )* ">"`
}

type typeParam struct {
	Annotations []*annotation `@@*`
	Name        string        `@Ident`
	Bounds      []*typeRef    `( "extends" @@ ( "&" @@ )* )?`
}

type typeRef struct {
	Segments []*typeSegment `@@ ( "." @@ )*`
	Dims     []string       `( @"[" "]" )*`
}

type typeSegment struct {
	Annotations []*annotation `@@*`
	Name        string        `@Ident`
	Arguments   *typeArgs     `@@?`
}

type typeArgs struct {
	Args []*typeArg `"<" ( @@ ( "," @@ )* )? ">"`
}

type typeArg struct {
	Wildcard *wildcard `  @@`
	Type     *typeRef  `| @@`
}

type wildcard struct {
	Annotations []*annotation  `@@*`
	Mark        string         `@"?"`
	Bound       *wildcardBound `@@?`
}

type wildcardBound struct {
	Kind string   `@( "extends" | "super" )`
	Type *typeRef `@@`
}

type param struct {
	Modifiers []*modifier   `@@*`
	Type      *typeRef      `@@`
	Marks     []*annotation `@@*`
	VarArgs   bool          `@Ellipsis?`
	Name      []string      `@Ident ( "." @Ident )*`
	Dims      []string      `( @"[" "]" )*`
}
