// Package classfile reads the method table of compiled .class files.
package classfile

import (
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/toyz/locus/internal/errors"
)

// Magic is the first word of every class file
const Magic = 0xCAFEBABE

// Access flags used by the reader
const (
	AccStatic    = 0x0008
	AccBridge    = 0x0040
	AccVarArgs   = 0x0080
	AccInterface = 0x0200
	AccSynthetic = 0x1000
	AccEnum      = 0x4000
)

const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// Method is one entry of the methods table
type Method struct {
	Name        string
	Descriptor  string
	AccessFlags uint16
}

// IsSynthetic reports compiler-generated methods with no source counterpart
func (m Method) IsSynthetic() bool {
	return m.AccessFlags&(AccSynthetic|AccBridge) != 0
}

// IsVarArgs reports whether the last parameter was declared with ...
func (m Method) IsVarArgs() bool {
	return m.AccessFlags&AccVarArgs != 0
}

// Class is the subset of a class file needed to enumerate declared callables
type Class struct {
	Path         string
	Major, Minor uint16
	AccessFlags  uint16
	Name         string // binary name, e.g. org.samples.Person$Address
	SuperName    string
	SourceFile   string
	// OuterName is set for inner (non-static member) classes, whose
	// constructors take the enclosing instance as a hidden first parameter
	OuterName string
	Methods   []Method
}

// IsRecord reports whether the class is a record type
func (c *Class) IsRecord() bool {
	return c.SuperName == "java.lang.Record"
}

// IsEnum reports whether the class is an enum type
func (c *Class) IsEnum() bool {
	return c.AccessFlags&AccEnum != 0
}

// ReadFile parses the class file at path
func ReadFile(path string) (*Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	class, err := Parse(data)
	if err != nil {
		if formatErr, ok := err.(*errors.ClassFormatError); ok {
			return nil, formatErr.WithLocation(errors.SourceLocation{File: path})
		}
		return nil, err
	}
	class.Path = path
	return class, nil
}

// Read parses a class file from r
func Read(r io.Reader) (*Class, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapWithOperation("read", "class file", err)
	}
	return Parse(data)
}

// Parse parses class file bytes
func Parse(data []byte) (*Class, error) {
	r := &reader{data: data}

	if r.u4() != Magic {
		return nil, r.fail(0, "bad magic number")
	}
	class := &Class{}
	class.Minor = r.u2()
	class.Major = r.u2()

	pool, err := r.constantPool()
	if err != nil {
		return nil, err
	}

	class.AccessFlags = r.u2()
	thisClass := r.u2()
	superClass := r.u2()
	if r.err != nil {
		return nil, r.err
	}

	if class.Name, err = pool.className(thisClass); err != nil {
		return nil, r.fail(r.pos, "%v", err)
	}
	if superClass != 0 {
		if class.SuperName, err = pool.className(superClass); err != nil {
			return nil, r.fail(r.pos, "%v", err)
		}
	}

	r.skip(int64(r.u2()) * 2) // interfaces

	if err := r.members(pool, nil); err != nil { // fields
		return nil, err
	}
	if err := r.members(pool, &class.Methods); err != nil {
		return nil, err
	}
	if err := r.classAttributes(pool, class); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return class, nil
}

type reader struct {
	data []byte
	pos  int64
	err  error
}

func (r *reader) fail(offset int64, format string, args ...interface{}) *errors.ClassFormatError {
	err := errors.NewClassFormatError(offset, format, args...)
	if r.err == nil {
		r.err = err
	}
	return err
}

func (r *reader) take(n int64) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > int64(len(r.data)) {
		r.fail(r.pos, "unexpected end of data reading %d bytes", n)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) u1() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u2() uint16 {
	if b := r.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (r *reader) u4() uint32 {
	if b := r.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (r *reader) skip(n int64) {
	r.take(n)
}

// constantPool keeps the entries the method table refers to: UTF-8 strings
// and class references
type constantPool struct {
	utf8    map[uint16]string
	classes map[uint16]uint16
}

func (p *constantPool) string(index uint16) (string, error) {
	s, ok := p.utf8[index]
	if !ok {
		return "", errors.Newf(errors.ClassFormatErrorCode, "constant #%d is not a UTF-8 entry", index)
	}
	return s, nil
}

func (p *constantPool) className(index uint16) (string, error) {
	nameIndex, ok := p.classes[index]
	if !ok {
		return "", errors.Newf(errors.ClassFormatErrorCode, "constant #%d is not a class entry", index)
	}
	internal, err := p.string(nameIndex)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(internal, "/", "."), nil
}

func (r *reader) constantPool() (*constantPool, error) {
	count := r.u2()
	pool := &constantPool{
		utf8:    make(map[uint16]string),
		classes: make(map[uint16]uint16),
	}

	for i := uint16(1); i < count && r.err == nil; i++ {
		offset := r.pos
		switch tag := r.u1(); tag {
		case tagUtf8:
			length := r.u2()
			pool.utf8[i] = decodeModifiedUTF8(r.take(int64(length)))
		case tagClass:
			pool.classes[i] = r.u2()
		case tagString, tagMethodType, tagModule, tagPackage:
			r.skip(2)
		case tagMethodHandle:
			r.skip(3)
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			r.skip(4)
		case tagLong, tagDouble:
			r.skip(8)
			i++ // eight-byte constants occupy two slots
		default:
			return nil, r.fail(offset, "unknown constant pool tag %d at #%d", tag, i)
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return pool, nil
}

// members reads a fields or methods table, keeping entries when into is set
func (r *reader) members(pool *constantPool, into *[]Method) error {
	count := r.u2()
	for i := uint16(0); i < count && r.err == nil; i++ {
		offset := r.pos
		access := r.u2()
		nameIndex := r.u2()
		descIndex := r.u2()
		r.skipAttributes()
		if r.err != nil || into == nil {
			continue
		}

		name, err := pool.string(nameIndex)
		if err != nil {
			return r.fail(offset, "%v", err)
		}
		desc, err := pool.string(descIndex)
		if err != nil {
			return r.fail(offset, "%v", err)
		}
		*into = append(*into, Method{Name: name, Descriptor: desc, AccessFlags: access})
	}
	return r.err
}

func (r *reader) skipAttributes() {
	count := r.u2()
	for i := uint16(0); i < count && r.err == nil; i++ {
		r.skip(2)
		r.skip(int64(r.u4()))
	}
}

func (r *reader) classAttributes(pool *constantPool, class *Class) error {
	count := r.u2()
	for i := uint16(0); i < count && r.err == nil; i++ {
		name, _ := pool.string(r.u2())
		length := int64(r.u4())
		body := &reader{data: r.take(length), pos: 0}
		if r.err != nil {
			break
		}

		switch name {
		case "SourceFile":
			class.SourceFile, _ = pool.string(body.u2())
		case "InnerClasses":
			classes := body.u2()
			for j := uint16(0); j < classes && body.err == nil; j++ {
				inner, outer, _, access := body.u2(), body.u2(), body.u2(), body.u2()
				if outer == 0 || access&AccStatic != 0 {
					continue
				}
				if innerName, err := pool.className(inner); err == nil && innerName == class.Name {
					class.OuterName, _ = pool.className(outer)
				}
			}
			if body.err != nil {
				return r.fail(r.pos-length, "truncated InnerClasses attribute")
			}
		}
	}
	return r.err
}

// decodeModifiedUTF8 decodes the class file string encoding, which differs
// from UTF-8 in its encoding of NUL and supplementary characters
func decodeModifiedUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	var units []uint16
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			units = append(units, 0xFFFD)
			i++
		}
	}
	for i := 0; i < len(units); i++ {
		u := units[i]
		if u >= 0xD800 && u < 0xDC00 && i+1 < len(units) && units[i+1] >= 0xDC00 && units[i+1] < 0xE000 {
			sb.WriteRune(rune(u-0xD800)<<10 | rune(units[i+1]-0xDC00) + 0x10000)
			i++
			continue
		}
		sb.WriteRune(rune(u))
	}
	return sb.String()
}
