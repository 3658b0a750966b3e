// Package descriptor turns textual method signatures and JVM descriptors into
// models.CompiledSignature values.
package descriptor

import (
	"fmt"
	"strings"

	"github.com/toyz/locus/internal/models"
)

// Naming selects how compiled parameter type names are spelled
type Naming int

const (
	// SimpleNames drops packages and enclosing types: java.util.Map$Entry[] becomes Entry[]
	SimpleNames Naming = iota
	// QualifiedNames uses canonical names: java.util.Map$Entry[] becomes java.util.Map.Entry[]
	QualifiedNames
)

// String returns the configuration spelling of the naming
func (n Naming) String() string {
	switch n {
	case QualifiedNames:
		return "qualified"
	default:
		return "simple"
	}
}

// ParseNaming accepts "simple" or "qualified"
func ParseNaming(name string) (Naming, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "simple":
		return SimpleNames, nil
	case "qualified", "canonical":
		return QualifiedNames, nil
	default:
		return SimpleNames, fmt.Errorf("unknown naming %q (expected simple or qualified)", name)
	}
}

// NamingFor returns QualifiedNames when qualified is set
func NamingFor(qualified bool) Naming {
	if qualified {
		return QualifiedNames
	}
	return SimpleNames
}

// TypeName spells a binary type name (java.lang.Object[], a.B$C) under n
func (n Naming) TypeName(binary string) models.CompiledTypeName {
	base, dims := splitArray(binary)

	switch n {
	case QualifiedNames:
		base = strings.ReplaceAll(base, "$", ".")
	default:
		if i := strings.LastIndexByte(base, '.'); i >= 0 {
			base = base[i+1:]
		}
		if i := strings.LastIndexByte(base, '$'); i >= 0 && i < len(base)-1 {
			base = base[i+1:]
		}
	}

	return models.CompiledTypeName(base + strings.Repeat("[]", dims))
}

// TypeNames spells every name in binaries under n
func (n Naming) TypeNames(binaries []string) []models.CompiledTypeName {
	names := make([]models.CompiledTypeName, len(binaries))
	for i, b := range binaries {
		names[i] = n.TypeName(b)
	}
	return names
}

func splitArray(name string) (string, int) {
	dims := 0
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
		dims++
	}
	return name, dims
}
