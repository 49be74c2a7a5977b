package prefilter

import (
	"github.com/coregx/ahocorasick"
)

// Literals finds occurrences of a literal set with an Aho-Corasick
// automaton.
type Literals struct {
	auto     *ahocorasick.Automaton
	complete bool
	litLen   int
	size     int
}

func newLiterals(lits []string, complete bool) (*Literals, error) {
	builder := ahocorasick.NewBuilder()
	size := 0
	for _, lit := range lits {
		builder.AddPattern([]byte(lit))
		size += len(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	pf := &Literals{auto: auto, complete: complete, size: size}
	if complete {
		pf.litLen = len(lits[0])
	}
	return pf, nil
}

// Find implements Prefilter.
func (l *Literals) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	m := l.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsMatch reports whether any literal occurs in haystack[start:].
func (l *Literals) IsMatch(haystack []byte, start int) bool {
	if start < 0 || start > len(haystack) {
		return false
	}
	return l.auto.IsMatch(haystack[start:])
}

// IsComplete implements Prefilter.
func (l *Literals) IsComplete() bool { return l.complete }

// LiteralLen implements Prefilter.
func (l *Literals) LiteralLen() int { return l.litLen }

// HeapBytes implements Prefilter. It is an estimate: the automaton keeps
// roughly one state per literal byte.
func (l *Literals) HeapBytes() int { return l.size * 64 }
