// Package charclass implements the character matchers used by compiled
// programs: a dense bitset, a sparse sorted rune list and a named Unicode
// table, each with an inversion flag.
//
// Matchers are a closed set of variants selected by Kind. They are immutable
// once built and safe for concurrent use.
package charclass

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
	"unicode"
)

// Kind identifies a matcher variant. The values are part of the binary format.
type Kind uint8

const (
	// KindBitset is a dense bitset over [0, 32*len(words)).
	KindBitset Kind = 1

	// KindSparse is a sorted list of runes, used when a bitset would be mostly empty.
	KindSparse Kind = 2

	// KindUnicode is a named table from the unicode package.
	KindUnicode Kind = 3
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindBitset:
		return "Bitset"
	case KindSparse:
		return "Sparse"
	case KindUnicode:
		return "Unicode"
	default:
		return fmt.Sprintf("UnknownKind(%d)", k)
	}
}

// wildcardThreshold is the member count at which a class is approximated by a
// single wildcard edge in the NFA instead of explicit ranges.
const wildcardThreshold = 30000

// Matcher classifies a single code point.
type Matcher struct {
	kind    Kind
	inverse bool
	words   []uint32
	runes   []rune
	name    string
	table   *unicode.RangeTable
}

// Interval is an inclusive range of code points.
type Interval struct {
	Lo, Hi rune
}

// NewBitset returns a bitset matcher for the given runes.
func NewBitset(members []rune, inverse bool) *Matcher {
	var s set
	for _, r := range members {
		s.add(r)
	}
	s.trim()
	return &Matcher{kind: KindBitset, inverse: inverse, words: s.words}
}

// NewSparse returns a sparse matcher for the given runes.
func NewSparse(members []rune, inverse bool) *Matcher {
	runes := slices.Clone(members)
	slices.Sort(runes)
	return &Matcher{kind: KindSparse, inverse: inverse, runes: slices.Compact(runes)}
}

// NewUnicode returns a matcher for a Unicode category, script or property
// name such as "L", "Greek" or "White_Space".
func NewUnicode(name string, inverse bool) (*Matcher, error) {
	table := lookupTable(name)
	if table == nil {
		return nil, fmt.Errorf("unknown unicode class %q", name)
	}
	return &Matcher{kind: KindUnicode, inverse: inverse, name: name, table: table}, nil
}

func lookupTable(name string) *unicode.RangeTable {
	if t, ok := unicode.Categories[name]; ok {
		return t
	}
	if t, ok := unicode.Scripts[name]; ok {
		return t
	}
	if t, ok := unicode.Properties[name]; ok {
		return t
	}
	return nil
}

// Kind returns the matcher variant.
func (m *Matcher) Kind() Kind { return m.kind }

// Inverse reports whether the matcher accepts the complement of its members.
func (m *Matcher) Inverse() bool { return m.inverse }

// Name returns the table name of a KindUnicode matcher.
func (m *Matcher) Name() string { return m.name }

// Matches reports whether r belongs to the class.
// Negative values (end of input) never match, inverted or not.
func (m *Matcher) Matches(r rune) bool {
	if r < 0 {
		return false
	}
	var in bool
	switch m.kind {
	case KindBitset:
		w := int(r >> 5)
		in = w < len(m.words) && m.words[w]&(1<<(uint(r)&31)) != 0
	case KindSparse:
		_, in = slices.BinarySearch(m.runes, r)
	case KindUnicode:
		in = unicode.Is(m.table, r)
	}
	return in != m.inverse
}

// members returns the non-inverted member list of a bitset or sparse matcher.
func (m *Matcher) members() []rune {
	switch m.kind {
	case KindSparse:
		return m.runes
	case KindBitset:
		var out []rune
		for i, w := range m.words {
			for w != 0 {
				b := bits.TrailingZeros32(w)
				out = append(out, rune(i*32+b))
				w &^= 1 << uint(b)
			}
		}
		return out
	}
	return nil
}

// Edges returns the transitions an NFA should use for this class. When
// wildcard is true the class is approximated by a single any-character edge
// and intervals is nil. Approximations only ever add characters.
func (m *Matcher) Edges() (intervals []Interval, wildcard bool) {
	if m.kind == KindUnicode {
		if m.inverse {
			return nil, true
		}
		for _, r := range m.table.R16 {
			intervals = append(intervals, Interval{rune(r.Lo), rune(r.Hi)})
		}
		for _, r := range m.table.R32 {
			intervals = append(intervals, Interval{rune(r.Lo), rune(r.Hi)})
		}
		return intervals, false
	}
	members := m.members()
	if m.inverse {
		if len(members) <= wildcardThreshold {
			return nil, true
		}
		next := rune(0)
		for _, r := range members {
			if r > next {
				intervals = append(intervals, Interval{next, r - 1})
			}
			next = r + 1
		}
		if next <= unicode.MaxRune {
			intervals = append(intervals, Interval{next, unicode.MaxRune})
		}
		return intervals, false
	}
	if len(members) >= wildcardThreshold {
		return nil, true
	}
	return runs(members), false
}

// runs groups sorted runes into maximal consecutive intervals.
func runs(members []rune) []Interval {
	var out []Interval
	for _, r := range members {
		if n := len(out); n > 0 && out[n-1].Hi+1 == r {
			out[n-1].Hi = r
			continue
		}
		out = append(out, Interval{r, r})
	}
	return out
}

// String renders the class in pattern syntax.
func (m *Matcher) String() string {
	var b strings.Builder
	if m.kind == KindUnicode {
		if m.inverse {
			b.WriteString(`\P{`)
		} else {
			b.WriteString(`\p{`)
		}
		b.WriteString(m.name)
		b.WriteByte('}')
		return b.String()
	}
	b.WriteByte('[')
	if m.inverse {
		b.WriteByte('^')
	}
	for _, iv := range runs(m.members()) {
		writeRune(&b, iv.Lo)
		if iv.Hi > iv.Lo {
			if iv.Hi > iv.Lo+1 {
				b.WriteByte('-')
			}
			writeRune(&b, iv.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func writeRune(b *strings.Builder, r rune) {
	if r >= ' ' && r < 0x7f {
		if strings.ContainsRune(`\]^-[`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
		return
	}
	fmt.Fprintf(b, `\x{%x}`, r)
}
