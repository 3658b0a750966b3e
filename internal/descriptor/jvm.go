package descriptor

import (
	"strings"

	"github.com/toyz/locus/internal/errors"
)

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// MethodDescriptor is a decoded JVM method descriptor. Types are binary
// names with [] per array dimension, e.g. java.lang.Object[].
type MethodDescriptor struct {
	Parameters []string
	Return     string
}

// ParseMethodDescriptor decodes a descriptor such as (I[Ljava/lang/Object;)V
func ParseMethodDescriptor(desc string) (*MethodDescriptor, error) {
	s := &scanner{input: desc}

	if !s.consume('(') {
		return nil, s.fail("method descriptor must start with '('")
	}

	result := &MethodDescriptor{Parameters: make([]string, 0)}
	for !s.done() && s.peek() != ')' {
		name, err := s.fieldType()
		if err != nil {
			return nil, err
		}
		result.Parameters = append(result.Parameters, name)
	}
	if !s.consume(')') {
		return nil, s.fail("unterminated parameter list")
	}

	if s.consume('V') {
		result.Return = "void"
	} else {
		name, err := s.fieldType()
		if err != nil {
			return nil, err
		}
		result.Return = name
	}

	if !s.done() {
		return nil, s.fail("unexpected trailing characters")
	}
	return result, nil
}

// ParseFieldDescriptor decodes a single field type such as [[I or Ljava/util/List;
func ParseFieldDescriptor(desc string) (string, error) {
	s := &scanner{input: desc}
	name, err := s.fieldType()
	if err != nil {
		return "", err
	}
	if !s.done() {
		return "", s.fail("unexpected trailing characters")
	}
	return name, nil
}

// scanner walks a descriptor one byte at a time. The grammar is a handful of
// single-character productions, so there is nothing for a parser generator to add.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() byte {
	return s.input[s.pos]
}

func (s *scanner) consume(c byte) bool {
	if !s.done() && s.input[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) fail(reason string) *errors.DescriptorError {
	return errors.NewDescriptorError(s.input, s.pos, reason)
}

func (s *scanner) fieldType() (string, error) {
	dims := 0
	for s.consume('[') {
		dims++
	}
	if dims > 255 {
		return "", s.fail("array type has more than 255 dimensions")
	}
	if s.done() {
		return "", s.fail("missing field type")
	}

	var name string
	c := s.peek()
	switch {
	case baseTypes[c] != "":
		name = baseTypes[c]
		s.pos++
	case c == 'L':
		end := strings.IndexByte(s.input[s.pos:], ';')
		if end < 0 {
			return "", s.fail("unterminated class type")
		}
		internal := s.input[s.pos+1 : s.pos+end]
		if internal == "" || strings.ContainsAny(internal, ".[") {
			return "", s.fail("invalid class name")
		}
		name = strings.ReplaceAll(internal, "/", ".")
		s.pos += end + 1
	default:
		return "", s.fail("unknown type tag '" + string(c) + "'")
	}

	return name + strings.Repeat("[]", dims), nil
}
