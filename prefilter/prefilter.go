// Package prefilter provides fast candidate filtering for the confirmation
// phase of a multi-pattern search.
//
// A prefilter is derived from a compiled program whose pattern is a plain
// string or an alternation of plain strings. It locates the literals with an
// Aho-Corasick automaton so that the Pike VM only runs where a match can
// start, or not at all:
//   - Plain string → complete prefilter, the literal occurrence is the match
//   - Alternation of strings → candidate positions, verified by the VM
//   - Anything else → nil (no prefilter)
//
// Example usage:
//
//	prog := pike.MustCompile("error|warning")
//	pf := prefilter.New(prog)
//	pos := pf.Find([]byte("a warning"), 0)
//	// pos == 2
package prefilter

import "github.com/coregx/multiregex/pike"

// Prefilter is used to quickly find candidate match positions before running
// the Pike VM.
type Prefilter interface {
	// Find returns the index of the first candidate match starting at or after
	// start, or -1 if no candidate is found.
	//
	// A candidate means one of the literals occurs there. This does NOT
	// guarantee a match unless IsComplete() is true.
	Find(haystack []byte, start int) int

	// IsComplete returns true if a candidate at pos is itself the leftmost
	// match haystack[pos:pos+LiteralLen()].
	IsComplete() bool

	// LiteralLen returns the byte length of the literal when IsComplete() is
	// true, and 0 otherwise.
	LiteralLen() int

	// HeapBytes returns the number of bytes of heap memory used by this
	// prefilter.
	HeapBytes() int
}

// New returns the prefilter for p, or nil when p is not made of literals.
func New(p *pike.Program) Prefilter {
	if p.Anchored() {
		return nil
	}
	if s, ok := p.PlainString(); ok {
		pf, err := newLiterals([]string{s}, true)
		if err != nil {
			return nil
		}
		return pf
	}
	lits, ok := p.Literals()
	if !ok {
		return nil
	}
	pf, err := newLiterals(lits, false)
	if err != nil {
		return nil
	}
	return pf
}
