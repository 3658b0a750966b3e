package classfile

import (
	"strings"

	"github.com/toyz/locus/internal/descriptor"
	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

// Signatures returns the compiled signature of every method and constructor
// declared in source. Synthetic and bridge methods, static initializers and
// the implicit enum members values and valueOf are skipped. Constructor
// parameters the compiler adds (enum name and ordinal, the enclosing
// instance of an inner class) are removed.
//
// javac does not flag default constructors or generated record members as
// synthetic, so those come back with MaybeImplicit set.
func (c *Class) Signatures(naming descriptor.Naming) ([]models.CompiledSignature, error) {
	var result []models.CompiledSignature

	for _, m := range c.Methods {
		if m.IsSynthetic() || m.Name == "<clinit>" || c.isImplicitEnumMember(m) {
			continue
		}

		decoded, err := descriptor.ParseMethodDescriptor(m.Descriptor)
		if err != nil {
			return nil, errors.NewClassFormatError(0, "method %s has an invalid descriptor: %v", m.Name, err).
				WithLocation(errors.SourceLocation{File: c.Path})
		}

		params := decoded.Parameters
		if m.Name == "<init>" {
			params = c.sourceConstructorParameters(params)
		}

		id := models.ParseTypeIdentity(c.Name)
		name := m.Name
		if name == "<init>" {
			name = id.SimpleName()
		}

		result = append(result, models.CompiledSignature{
			DeclaringType: id,
			Name:          name,
			Parameters:    naming.TypeNames(params),
			IsVarArgs:     m.IsVarArgs(),
			MaybeImplicit: c.mayBeImplicit(m, params),
		})
	}

	return result, nil
}

func (c *Class) sourceConstructorParameters(params []string) []string {
	switch {
	case c.IsEnum() && len(params) >= 2 && params[0] == "java.lang.String" && params[1] == "int":
		return params[2:]
	case c.OuterName != "" && len(params) >= 1 && params[0] == c.OuterName:
		return params[1:]
	}
	return params
}

func (c *Class) mayBeImplicit(m Method, sourceParams []string) bool {
	if m.Name == "<init>" {
		return len(sourceParams) == 0 || c.IsRecord()
	}
	if !c.IsRecord() || m.AccessFlags&AccStatic != 0 {
		return false
	}
	switch m.Name + m.Descriptor {
	case "toString()Ljava/lang/String;", "hashCode()I", "equals(Ljava/lang/Object;)Z":
		return true
	}
	// component accessors take no arguments
	return strings.HasPrefix(m.Descriptor, "()") && !strings.HasSuffix(m.Descriptor, ")V")
}

func (c *Class) isImplicitEnumMember(m Method) bool {
	if !c.IsEnum() || m.AccessFlags&AccStatic == 0 {
		return false
	}
	self := "L" + internalName(c.Name) + ";"
	switch m.Name {
	case "values":
		return m.Descriptor == "()["+self
	case "valueOf":
		return m.Descriptor == "(Ljava/lang/String;)"+self
	}
	return false
}

func internalName(binary string) string {
	return strings.ReplaceAll(binary, ".", "/")
}
