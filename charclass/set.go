package charclass

import "math/bits"

// set is the mutable form of a bitset class used while parsing. The members
// are words XOR inverse: an inverted set holds the complement of its words.
type set struct {
	words   []uint32
	inverse bool
}

func (s *set) grow(n int) {
	if n > len(s.words) {
		s.words = append(s.words, make([]uint32, n-len(s.words))...)
	}
}

// add sets the bit for r. On an inverted set this removes r from the members.
func (s *set) add(r rune) {
	w := int(r >> 5)
	s.grow(w + 1)
	s.words[w] |= 1 << (uint(r) & 31)
}

func (s *set) addRange(lo, hi rune) {
	for r := lo; r <= hi; r++ {
		s.add(r)
	}
}

func (s *set) word(i int) uint32 {
	var w uint32
	if i < len(s.words) {
		w = s.words[i]
	}
	if s.inverse {
		w = ^w
	}
	return w
}

// trim drops trailing zero words.
func (s *set) trim() {
	n := len(s.words)
	for n > 0 && s.words[n-1] == 0 {
		n--
	}
	s.words = s.words[:n]
}

func combine(a, b set, inverse bool, op func(x, y uint32) uint32) set {
	n := max(len(a.words), len(b.words))
	out := set{words: make([]uint32, n), inverse: inverse}
	for i := range out.words {
		w := op(a.word(i), b.word(i))
		if inverse {
			w = ^w
		}
		out.words[i] = w
	}
	out.trim()
	return out
}

func union(a, b set) set {
	return combine(a, b, a.inverse || b.inverse, func(x, y uint32) uint32 { return x | y })
}

func intersect(a, b set) set {
	return combine(a, b, a.inverse && b.inverse, func(x, y uint32) uint32 { return x & y })
}

func complement(a set) set {
	a.inverse = !a.inverse
	return a
}

// matcher picks the compact representation: sparse when fewer than one in
// eight positions below the highest member is set, a bitset otherwise.
func (s set) matcher() *Matcher {
	s.trim()
	count, length := 0, 0
	for i, w := range s.words {
		count += bits.OnesCount32(w)
		if w != 0 {
			length = i*32 + 32 - bits.LeadingZeros32(w)
		}
	}
	m := &Matcher{kind: KindBitset, inverse: s.inverse, words: s.words}
	if length > 64 && count*8 < length {
		return &Matcher{kind: KindSparse, inverse: s.inverse, runes: m.members()}
	}
	return m
}
