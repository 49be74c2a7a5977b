package syntax

// Builder assembles a Regexp from calls instead of pattern text. The first
// failing call is reported by Complete; later calls are ignored.
type Builder struct {
	p        *parser
	anchored bool
	err      *Error
	calls    int
}

// NewBuilder returns a builder for an unanchored expression.
func NewBuilder(opts Options) *Builder {
	return &Builder{p: newParser("", opts)}
}

// Start resets the builder. An anchored expression matches only at the
// search offset.
func (b *Builder) Start(anchored bool) {
	*b = Builder{p: newParser("", b.p.opts), anchored: anchored}
	if anchored {
		b.p.push(&Assert{Kind: LineStart})
	}
}

func (b *Builder) fail(code ErrorCode) {
	if b.err == nil {
		b.err = &Error{Code: code, Pos: b.calls}
	}
}

func (b *Builder) step() bool {
	b.calls++
	return b.err == nil
}

// BeginGroup opens a group.
func (b *Builder) BeginGroup(capture bool) {
	if b.step() {
		b.p.openGroup(capture)
	}
}

// EndGroup closes the innermost group.
func (b *Builder) EndGroup() {
	if b.step() && !b.p.closeGroup() {
		b.fail(ErrUnexpectedParen)
	}
}

// AddString appends the literal code points of s.
func (b *Builder) AddString(s string) {
	if b.step() {
		for _, r := range s {
			b.p.push(&Literal{Rune: r})
		}
	}
}

// AddAnyChar appends '.'.
func (b *Builder) AddAnyChar() {
	if b.step() {
		b.p.push(&Any{})
	}
}

// AddHook appends a hook with parameters p1 and p2.
func (b *Builder) AddHook(p1, p2 int) {
	if b.step() {
		b.p.push(&Hook{P1: p1, P2: p2})
	}
}

// AddIntRange appends an integer range.
func (b *Builder) AddIntRange(lo, hi int) {
	if b.step() {
		if lo < 0 || hi < 0 {
			b.fail(ErrInvalidRange)
			return
		}
		b.p.pushIntRange(lo, hi)
	}
}

// AddOr starts a new alternative in the innermost group.
func (b *Builder) AddOr() {
	if b.step() {
		b.p.alternate()
	}
}

// AddRepeat repeats the last added element; max is -1 when unbounded.
func (b *Builder) AddRepeat(min, max int, greedy bool) {
	if b.step() {
		if code := b.p.repeat(min, max, greedy); code != "" {
			b.fail(code)
		}
	}
}

// Complete returns the expression. Open groups are an error.
func (b *Builder) Complete() (*Regexp, error) {
	if b.err == nil && len(b.p.stack) != 1 {
		b.fail(ErrMissingParen)
	}
	if b.err != nil {
		return nil, b.err
	}
	re := b.p.finish(b.anchored)
	re.Pattern = re.String()
	return re, nil
}
