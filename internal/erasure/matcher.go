package erasure

import (
	"fmt"

	"github.com/toyz/locus/internal/models"
)

// MismatchReason describes why a candidate was rejected
type MismatchReason int

const (
	NoMismatch MismatchReason = iota
	NameMismatch
	ArityMismatch
	ParameterMismatch
)

// String returns the string representation of the reason
func (r MismatchReason) String() string {
	switch r {
	case NoMismatch:
		return "match"
	case NameMismatch:
		return "name differs"
	case ArityMismatch:
		return "parameter count differs"
	case ParameterMismatch:
		return "parameter type differs"
	default:
		return "unknown"
	}
}

// Mismatch is the first point at which a candidate diverged from a compiled signature
type Mismatch struct {
	Reason   MismatchReason
	Position int // parameter index for ParameterMismatch, otherwise -1
	Expected string
	Actual   string
}

// Matched reports whether the candidate was accepted
func (m Mismatch) Matched() bool {
	return m.Reason == NoMismatch
}

func (m Mismatch) String() string {
	switch m.Reason {
	case NoMismatch:
		return m.Reason.String()
	case ParameterMismatch:
		return fmt.Sprintf("parameter %d erases to %s, expected %s", m.Position+1, m.Actual, m.Expected)
	default:
		return fmt.Sprintf("%s: %s, expected %s", m.Reason, m.Actual, m.Expected)
	}
}

// Matches reports whether candidate erases to compiled under default naming
func Matches(compiled models.CompiledSignature, candidate *models.ParsedDeclaration) bool {
	return DefaultNormalizer.Matches(compiled, candidate)
}

// FirstMatch returns the first candidate, in order, that erases to compiled
func FirstMatch(compiled models.CompiledSignature, candidates []*models.ParsedDeclaration) (*models.ParsedDeclaration, bool) {
	return DefaultNormalizer.FirstMatch(compiled, candidates)
}

// Explain reports where candidate stops matching compiled under default naming
func Explain(compiled models.CompiledSignature, candidate *models.ParsedDeclaration) Mismatch {
	return DefaultNormalizer.Explain(compiled, candidate)
}

// Matches reports whether candidate erases to compiled: same name, same
// number of positions, and every position normalizing to exactly the
// compiled type name.
func (n Normalizer) Matches(compiled models.CompiledSignature, candidate *models.ParsedDeclaration) bool {
	return n.Explain(compiled, candidate).Matched()
}

// FirstMatch evaluates candidates in order and returns the first accepted one.
// Later candidates erasing to the same signature are never considered.
func (n Normalizer) FirstMatch(compiled models.CompiledSignature, candidates []*models.ParsedDeclaration) (*models.ParsedDeclaration, bool) {
	for _, candidate := range candidates {
		if n.Matches(compiled, candidate) {
			return candidate, true
		}
	}
	return nil, false
}

// Explain runs the match and reports the first failing check
func (n Normalizer) Explain(compiled models.CompiledSignature, candidate *models.ParsedDeclaration) Mismatch {
	if candidate == nil {
		return Mismatch{Reason: NameMismatch, Position: -1, Expected: compiled.Name}
	}
	if candidate.Name != compiled.Name {
		return Mismatch{Reason: NameMismatch, Position: -1, Expected: compiled.Name, Actual: candidate.Name}
	}
	if len(candidate.Parameters) != len(compiled.Parameters) {
		return Mismatch{
			Reason:   ArityMismatch,
			Position: -1,
			Expected: fmt.Sprint(len(compiled.Parameters)),
			Actual:   fmt.Sprint(len(candidate.Parameters)),
		}
	}

	typeParameters := candidate.TypeParameterSet()
	for i, param := range candidate.Parameters {
		if actual := n.Normalize(param, typeParameters); actual != compiled.Parameters[i] {
			return Mismatch{
				Reason:   ParameterMismatch,
				Position: i,
				Expected: string(compiled.Parameters[i]),
				Actual:   string(actual),
			}
		}
	}
	return Mismatch{Reason: NoMismatch, Position: -1}
}
