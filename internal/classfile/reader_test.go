package classfile

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/locus/internal/descriptor"
	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/models"
)

// classBuilder assembles minimal class files for tests
type classBuilder struct {
	pool    bytes.Buffer
	count   uint16
	utf8    map[string]uint16
	classes map[string]uint16
	methods bytes.Buffer
	nMethod uint16
	attrs   bytes.Buffer
	nAttr   uint16
}

func newClassBuilder() *classBuilder {
	return &classBuilder{count: 1, utf8: map[string]uint16{}, classes: map[string]uint16{}}
}

func (b *classBuilder) put(v interface{}, buf *bytes.Buffer) {
	_ = binary.Write(buf, binary.BigEndian, v)
}

func (b *classBuilder) utf(s string) uint16 {
	if i, ok := b.utf8[s]; ok {
		return i
	}
	b.put(uint8(tagUtf8), &b.pool)
	b.put(uint16(len(s)), &b.pool)
	b.pool.WriteString(s)
	b.utf8[s] = b.count
	b.count++
	return b.utf8[s]
}

func (b *classBuilder) class(internal string) uint16 {
	if i, ok := b.classes[internal]; ok {
		return i
	}
	name := b.utf(internal)
	b.put(uint8(tagClass), &b.pool)
	b.put(name, &b.pool)
	b.classes[internal] = b.count
	b.count++
	return b.classes[internal]
}

func (b *classBuilder) long(v int64) {
	b.put(uint8(tagLong), &b.pool)
	b.put(v, &b.pool)
	b.count += 2
}

func (b *classBuilder) method(access uint16, name, desc string) *classBuilder {
	b.put(access, &b.methods)
	b.put(b.utf(name), &b.methods)
	b.put(b.utf(desc), &b.methods)
	// one Code-like attribute that must be skipped
	b.put(uint16(1), &b.methods)
	b.put(b.utf("Code"), &b.methods)
	b.put(uint32(3), &b.methods)
	b.methods.Write([]byte{0, 1, 2})
	b.nMethod++
	return b
}

func (b *classBuilder) sourceFile(name string) *classBuilder {
	b.put(b.utf("SourceFile"), &b.attrs)
	b.put(uint32(2), &b.attrs)
	b.put(b.utf(name), &b.attrs)
	b.nAttr++
	return b
}

func (b *classBuilder) innerClass(inner, outer, simple string, access uint16) *classBuilder {
	b.put(b.utf("InnerClasses"), &b.attrs)
	b.put(uint32(2+8), &b.attrs)
	b.put(uint16(1), &b.attrs)
	b.put(b.class(inner), &b.attrs)
	b.put(b.class(outer), &b.attrs)
	b.put(b.utf(simple), &b.attrs)
	b.put(access, &b.attrs)
	b.nAttr++
	return b
}

func (b *classBuilder) build(access uint16, this, super string) []byte {
	thisIndex := b.class(this)
	superIndex := b.class(super)
	fieldName := b.utf("count")
	fieldDesc := b.utf("I")

	var out bytes.Buffer
	b.put(uint32(Magic), &out)
	b.put(uint16(0), &out)
	b.put(uint16(61), &out)
	b.put(b.count, &out)
	out.Write(b.pool.Bytes())
	b.put(access, &out)
	b.put(thisIndex, &out)
	b.put(superIndex, &out)
	b.put(uint16(0), &out) // interfaces
	b.put(uint16(1), &out) // one field with a ConstantValue attribute
	b.put(uint16(AccStatic), &out)
	b.put(fieldName, &out)
	b.put(fieldDesc, &out)
	b.put(uint16(1), &out)
	b.put(b.utf8["Code"], &out)
	b.put(uint32(2), &out)
	b.put(uint16(0), &out)
	b.put(b.nMethod, &out)
	out.Write(b.methods.Bytes())
	b.put(b.nAttr, &out)
	out.Write(b.attrs.Bytes())
	return out.Bytes()
}

func personClass() []byte {
	b := newClassBuilder()
	b.utf("Code")
	b.long(42)
	return b.
		method(0x0001, "<init>", "()V").
		method(0x0001, "<init>", "(Ljava/lang/String;I)V").
		method(0x0001, "getAge", "(I)I").
		method(0x0001, "getAge", "(ILjava/lang/Object;)I").
		method(0x0001, "getAge", "(I[Ljava/lang/Object;)I").
		method(0x0001|AccVarArgs, "collect", "(Ljava/lang/String;[Ljava/lang/Object;)Ljava/util/List;").
		method(AccStatic, "<clinit>", "()V").
		method(0x0002|AccStatic|AccSynthetic, "lambda$collect$0", "(Ljava/lang/Object;)Z").
		method(0x0001|AccBridge|AccSynthetic, "compareTo", "(Ljava/lang/Object;)I").
		sourceFile("Person.java").
		build(0x0021, "org/samples/Person", "java/lang/Object")
}

func sig(owner, name string, varargs bool, params ...string) models.CompiledSignature {
	p := make([]models.CompiledTypeName, len(params))
	for i, v := range params {
		p[i] = models.CompiledTypeName(v)
	}
	return models.CompiledSignature{
		DeclaringType: models.ParseTypeIdentity(owner),
		Name:          name,
		Parameters:    p,
		IsVarArgs:     varargs,
	}
}

func TestParse_Person(t *testing.T) {
	class, err := Parse(personClass())
	require.NoError(t, err)

	assert.Equal(t, "org.samples.Person", class.Name)
	assert.Equal(t, "java.lang.Object", class.SuperName)
	assert.Equal(t, "Person.java", class.SourceFile)
	assert.Equal(t, uint16(61), class.Major)
	assert.Len(t, class.Methods, 9)

	sigs, err := class.Signatures(descriptor.SimpleNames)
	require.NoError(t, err)

	const owner = "org.samples.Person"
	defaultCtor := sig(owner, "Person", false)
	defaultCtor.MaybeImplicit = true
	assert.Equal(t, []models.CompiledSignature{
		defaultCtor,
		sig(owner, "Person", false, "String", "int"),
		sig(owner, "getAge", false, "int"),
		sig(owner, "getAge", false, "int", "Object"),
		sig(owner, "getAge", false, "int", "Object[]"),
		sig(owner, "collect", true, "String", "Object[]"),
	}, sigs)

	qualified, err := class.Signatures(descriptor.QualifiedNames)
	require.NoError(t, err)
	assert.Equal(t, models.CompiledTypeName("java.lang.Object[]"), qualified[4].Parameters[1])
}

func TestSignatures_Enum(t *testing.T) {
	b := newClassBuilder()
	b.utf("Code")
	data := b.
		method(AccStatic|0x0001, "values", "()[Lorg/samples/Color;").
		method(AccStatic|0x0001, "valueOf", "(Ljava/lang/String;)Lorg/samples/Color;").
		method(0x0002, "<init>", "(Ljava/lang/String;ILjava/lang/String;)V").
		method(0x0001, "label", "()Ljava/lang/String;").
		build(0x0011|AccEnum, "org/samples/Color", "java/lang/Enum")

	class, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, class.IsEnum())

	sigs, err := class.Signatures(descriptor.SimpleNames)
	require.NoError(t, err)
	assert.Equal(t, []models.CompiledSignature{
		sig("org.samples.Color", "Color", false, "String"),
		sig("org.samples.Color", "label", false),
	}, sigs)
}

func TestSignatures_InnerClass(t *testing.T) {
	tests := []struct {
		name     string
		access   uint16
		expected []string
	}{
		{"inner class drops enclosing instance", 0x0001, []string{"String"}},
		{"static nested class keeps parameters", 0x0001 | AccStatic, []string{"Person", "String"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newClassBuilder()
			b.utf("Code")
			data := b.
				method(0x0001, "<init>", "(Lorg/samples/Person;Ljava/lang/String;)V").
				innerClass("org/samples/Person$Address", "org/samples/Person", "Address", tt.access).
				build(0x0021, "org/samples/Person$Address", "java/lang/Object")

			class, err := Parse(data)
			require.NoError(t, err)

			sigs, err := class.Signatures(descriptor.SimpleNames)
			require.NoError(t, err)
			require.Len(t, sigs, 1)
			assert.Equal(t, "Address", sigs[0].Name)
			assert.Equal(t, "Person$Address", sigs[0].DeclaringType.Name)
			got := make([]string, len(sigs[0].Parameters))
			for i, p := range sigs[0].Parameters {
				got[i] = p.String()
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSignatures_RecordMembers(t *testing.T) {
	b := newClassBuilder()
	b.utf("Code")
	data := b.
		method(0x0001, "<init>", "(Ljava/lang/String;I)V").
		method(0x0001, "<init>", "(Ljava/lang/String;)V").
		method(0x0011, "toString", "()Ljava/lang/String;").
		method(0x0011, "hashCode", "()I").
		method(0x0011, "equals", "(Ljava/lang/Object;)Z").
		method(0x0001, "name", "()Ljava/lang/String;").
		method(0x0001, "reset", "()V").
		method(0x0001, "withAge", "(I)Lorg/samples/Point;").
		method(0x0009, "origin", "()Lorg/samples/Point;").
		build(0x0031, "org/samples/Point", "java/lang/Record")

	class, err := Parse(data)
	require.NoError(t, err)
	assert.True(t, class.IsRecord())

	sigs, err := class.Signatures(descriptor.SimpleNames)
	require.NoError(t, err)

	implicit := map[string]bool{}
	for _, s := range sigs {
		implicit[s.Name+"("+s.ParameterList()+")"] = s.MaybeImplicit
	}
	assert.Equal(t, map[string]bool{
		"Point(String,int)": true,
		"Point(String)":     true,
		"toString()":        true,
		"hashCode()":        true,
		"equals(Object)":    true,
		"name()":            true,
		"reset()":           false,
		"withAge(int)":      false,
		"origin()":          false,
	}, implicit)
}

func TestParse_Errors(t *testing.T) {
	valid := personClass()
	unknownTag := append([]byte(nil), valid...)
	unknownTag[10] = 99 // first constant pool tag

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte{0xCA, 0xFE, 0xBA, 0xBF, 0, 0, 0, 61}},
		{"truncated", valid[:len(valid)/2]},
		{"unknown constant tag", unknownTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ClassFormatErrorCode), "got %v", err)
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "Person.class")
	require.NoError(t, os.WriteFile(good, personClass(), 0644))
	bad := filepath.Join(dir, "Broken.class")
	require.NoError(t, os.WriteFile(bad, []byte("not a class"), 0644))

	class, err := ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, good, class.Path)

	_, err = ReadFile(bad)
	var formatErr *errors.ClassFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, bad, formatErr.Location().File)

	_, err = ReadFile(filepath.Join(dir, "Missing.class"))
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode))
}
