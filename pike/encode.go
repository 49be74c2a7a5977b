package pike

import (
	"fmt"

	"github.com/coregx/multiregex/charclass"
	"github.com/coregx/multiregex/internal/binfmt"
)

// maxLookDepth bounds look-around nesting accepted by Decode.
const maxLookDepth = 64

// Encode writes the program: code, group count, slot count, preamble length,
// character classes and look-around programs.
func (p *Program) Encode(w *binfmt.Writer) {
	w.Ints(p.Code)
	w.Int(p.Groups)
	w.Int(p.Slots)
	w.Int(p.PrefixLen)
	w.Int(len(p.Classes))
	for _, m := range p.Classes {
		m.Encode(w)
	}
	w.Int(len(p.Looks))
	for _, l := range p.Looks {
		l.Encode(w)
	}
}

// Decode reads a program written by Encode and validates it. Problems are
// recorded on r and nil is returned.
func Decode(r *binfmt.Reader) *Program {
	p := decode(r, 0)
	if p == nil {
		return nil
	}
	if err := p.Validate(); err != nil {
		r.Fail(fmt.Errorf("%w: %w", binfmt.ErrMalformed, err))
		return nil
	}
	return p
}

func decode(r *binfmt.Reader, depth int) *Program {
	if depth > maxLookDepth {
		r.Fail(fmt.Errorf("%w: look-around nesting deeper than %d", binfmt.ErrMalformed, maxLookDepth))
		return nil
	}
	p := &Program{
		Code:      r.Ints(),
		Groups:    r.Int(),
		Slots:     r.Int(),
		PrefixLen: r.Int(),
	}
	n := r.Len()
	for i := 0; i < n && r.Err() == nil; i++ {
		p.Classes = append(p.Classes, charclass.Decode(r))
	}
	n = r.Len()
	for i := 0; i < n && r.Err() == nil; i++ {
		p.Looks = append(p.Looks, decode(r, depth+1))
	}
	if r.Err() != nil {
		return nil
	}
	return p
}
