package charclass

import (
	"fmt"

	"github.com/coregx/multiregex/internal/binfmt"
)

// Encode writes m as its kind tag, the inversion flag and the variant payload.
func (m *Matcher) Encode(w *binfmt.Writer) {
	w.Int(int(m.kind))
	w.Bool(m.inverse)
	switch m.kind {
	case KindBitset:
		words := make([]int, len(m.words))
		for i, x := range m.words {
			words[i] = int(int32(x))
		}
		w.Ints(words)
	case KindSparse:
		runes := make([]int, len(m.runes))
		for i, r := range m.runes {
			runes[i] = int(r)
		}
		w.Ints(runes)
	case KindUnicode:
		w.String(m.name)
	}
}

// Decode reads a matcher written by Encode. Problems are recorded on r and a
// nil matcher is returned.
func Decode(r *binfmt.Reader) *Matcher {
	kind := Kind(r.Int())
	inverse := r.Bool()
	if r.Err() != nil {
		return nil
	}
	switch kind {
	case KindBitset:
		ints := r.Ints()
		words := make([]uint32, len(ints))
		for i, x := range ints {
			words[i] = uint32(int32(x))
		}
		return &Matcher{kind: KindBitset, inverse: inverse, words: words}
	case KindSparse:
		ints := r.Ints()
		runes := make([]rune, len(ints))
		for i, x := range ints {
			runes[i] = rune(x)
		}
		return &Matcher{kind: KindSparse, inverse: inverse, runes: runes}
	case KindUnicode:
		name := r.String()
		if r.Err() != nil {
			return nil
		}
		m, err := NewUnicode(name, inverse)
		if err != nil {
			r.Fail(fmt.Errorf("%w: %w", binfmt.ErrMalformed, err))
			return nil
		}
		return m
	default:
		r.Fail(fmt.Errorf("%w: matcher kind %d", binfmt.ErrMalformed, kind))
		return nil
	}
}
