package descriptor

import (
	stderrors "errors"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

var signatureLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Init", Pattern: `<init>`},
	{Name: "Ellipsis", Pattern: `\.\.\.`},
	{Name: "Ident", Pattern: `[\p{L}_$][\p{L}\p{N}_$]*`},
	{Name: "Punct", Pattern: `[#().,\[\]]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// signatureText covers three spellings:
//
//	org.samples.Person#getAge(int, java.lang.Object[])
//	public int org.samples.Person.getAge(int,java.lang.Object[]) throws java.io.IOException
//	public org.samples.Person(java.lang.String,int)
type signatureText struct {
	Modifiers []string     `@( "public" | "protected" | "private" | "static" | "final" | "synchronized" | "native" | "abstract" | "strictfp" | "default" )*`
	Head      *typeText    `@@`
	Member    *memberRef   `@@?`
	Params    []*paramText `"(" ( @@ ( "," @@ )* )? ")"`
	Throws    []*typeText  `( "throws" @@ ( "," @@ )* )?`
}

type memberRef struct {
	Hash string    `  "#" @( Init | Ident )`
	Name *typeText `| @@`
}

type typeText struct {
	Pos      lexer.Position
	Segments []string `@Ident ( "." @Ident )*`
	Dims     []string `( @"[" "]" )*`
	VarArgs  bool     `@"..."?`
}

type paramText struct {
	Type *typeText `@@`
	Name string    `@Ident?`
}

func (t *typeText) dotted() string {
	return strings.Join(t.Segments, ".")
}

func (t *typeText) binary() string {
	dims := len(t.Dims)
	if t.VarArgs {
		dims++
	}
	return t.dotted() + strings.Repeat("[]", dims)
}

var signatureParser = participle.MustBuild[signatureText](
	participle.Lexer(signatureLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(participle.MaxLookahead),
)

// ParseSignature reads a compiled signature written as Type#name(params), as
// a runtime method or constructor description, or as a JVM member reference
// (org/samples/Person.getAge:(I[Ljava/lang/Object;)V).
func ParseSignature(text string, naming Naming) (models.CompiledSignature, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.CompiledSignature{}, errors.NewDescriptorError(text, 0, "empty signature")
	}
	if isMemberReference(text) {
		return parseMemberReference(text, naming)
	}
	if i := strings.IndexByte(strings.ReplaceAll(text, "<init>", "      "), '<'); i >= 0 {
		return models.CompiledSignature{}, errors.NewDescriptorError(text, i, "generic arguments are not part of a compiled signature").
			WithSuggestion("write the erased type, e.g. List instead of List<String>")
	}

	parsed, err := signatureParser.ParseString("", text)
	if err != nil {
		return models.CompiledSignature{}, descriptorError(text, err)
	}
	return parsed.compile(text, naming)
}

// MustParseSignature is ParseSignature for fixed inputs; it panics on error
func MustParseSignature(text string, naming Naming) models.CompiledSignature {
	sig, err := ParseSignature(text, naming)
	if err != nil {
		panic(err)
	}
	return sig
}

func (s *signatureText) compile(text string, naming Naming) (models.CompiledSignature, error) {
	var owner, name string

	switch {
	case s.Member == nil:
		owner = s.Head.dotted()
	case s.Member.Hash != "":
		owner = s.Head.dotted()
		name = s.Member.Hash
	default:
		full := s.Member.Name
		if len(full.Dims) > 0 || full.VarArgs || len(full.Segments) < 2 {
			return models.CompiledSignature{}, errors.NewDescriptorError(text, full.Pos.Offset, "expected Type.member after the return type")
		}
		owner = strings.Join(full.Segments[:len(full.Segments)-1], ".")
		name = full.Segments[len(full.Segments)-1]
	}

	if s.Member == nil || s.Member.Hash != "" {
		if len(s.Head.Dims) > 0 || s.Head.VarArgs {
			return models.CompiledSignature{}, errors.NewDescriptorError(text, s.Head.Pos.Offset, "declaring type cannot be an array")
		}
	}

	sig := models.CompiledSignature{
		DeclaringType: models.ParseTypeIdentity(owner),
		Parameters:    make([]models.CompiledTypeName, len(s.Params)),
	}
	sig.Name = memberName(sig.DeclaringType, name)

	for i, p := range s.Params {
		if p.Type.VarArgs && i != len(s.Params)-1 {
			return models.CompiledSignature{}, errors.NewDescriptorError(text, p.Type.Pos.Offset, "only the last parameter can be variadic")
		}
		sig.Parameters[i] = naming.TypeName(p.Type.binary())
	}
	if n := len(s.Params); n > 0 && s.Params[n-1].Type.VarArgs {
		sig.IsVarArgs = true
	}

	return sig, nil
}

// memberName names constructors after the declaring type's simple name
func memberName(owner models.TypeIdentity, name string) string {
	if name == "" || name == "<init>" {
		return owner.SimpleName()
	}
	return name
}

// isMemberReference reports whether text looks like Owner.name:(desc)ret or
// Owner.name(desc)ret, which never contain spaces or commas
func isMemberReference(text string) bool {
	closing := strings.LastIndexByte(text, ')')
	return closing >= 0 && closing < len(text)-1 && !strings.ContainsAny(text, " \t,#")
}

func parseMemberReference(text string, naming Naming) (models.CompiledSignature, error) {
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return models.CompiledSignature{}, errors.NewDescriptorError(text, 0, "missing method descriptor")
	}
	head := strings.TrimSuffix(text[:open], ":")

	dot := strings.LastIndexByte(head, '.')
	if dot <= 0 || dot == len(head)-1 {
		return models.CompiledSignature{}, errors.NewDescriptorError(text, 0, "expected Owner.name before the descriptor")
	}

	sig, err := FromDescriptor(head[:dot], head[dot+1:], text[open:], false, naming)
	if err != nil {
		var descErr *errors.DescriptorError
		if stderrors.As(err, &descErr) {
			return models.CompiledSignature{}, errors.NewDescriptorError(text, open+descErr.Offset, "invalid method descriptor").WithCause(err)
		}
		return models.CompiledSignature{}, err
	}
	return sig, nil
}

// FromDescriptor builds a signature from a class name in internal or dotted
// form, a member name and its JVM method descriptor
func FromDescriptor(owner, name, desc string, isVarArgs bool, naming Naming) (models.CompiledSignature, error) {
	decoded, err := ParseMethodDescriptor(desc)
	if err != nil {
		return models.CompiledSignature{}, err
	}

	declaringType := models.ParseTypeIdentity(owner)
	return models.CompiledSignature{
		DeclaringType: declaringType,
		Name:          memberName(declaringType, name),
		Parameters:    naming.TypeNames(decoded.Parameters),
		IsVarArgs:     isVarArgs,
	}, nil
}

func descriptorError(text string, err error) error {
	var perr participle.Error
	if stderrors.As(err, &perr) {
		return errors.NewDescriptorError(text, perr.Position().Offset, perr.Message()).
			WithSuggestion("expected Type#name(params), a method description or Owner.name:(descriptor)")
	}
	return errors.NewDescriptorError(text, 0, err.Error())
}
