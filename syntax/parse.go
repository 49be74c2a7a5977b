package syntax

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coregx/multiregex/charclass"
)

// maxRepeat bounds counted repetition; every copy is emitted as code.
const maxRepeat = 1000

// maxName bounds the length of a pattern name in <name>.
const maxName = 20

// Options controls Parse.
type Options struct {
	// Name registers the parsed pattern with Resolver when both are set.
	Name string
	// NoCapture makes every group except group 0 non-capturing.
	NoCapture bool
	// Resolver resolves <name>, <all> and <_all>. Without one, references
	// fail with ErrUnknownName.
	Resolver Resolver
}

type frame struct {
	group *Group
	look  bool
}

// parser holds the state shared by Parse and Builder.
type parser struct {
	pattern string
	opts    Options
	stack   []frame
	ncap    int
	looks   int
}

func newParser(pattern string, opts Options) *parser {
	p := &parser{pattern: pattern, opts: opts}
	p.stack = []frame{{group: &Group{Index: 0, Alts: [][]Node{nil}}}}
	return p
}

func (p *parser) errorf(code ErrorCode, pos int) *Error {
	return &Error{Code: code, Pos: pos, Pattern: p.pattern}
}

func (p *parser) top() *Group {
	return p.stack[len(p.stack)-1].group
}

func (p *parser) push(n Node) {
	g := p.top()
	last := len(g.Alts) - 1
	g.Alts[last] = append(g.Alts[last], n)
}

func (p *parser) pop() Node {
	g := p.top()
	last := len(g.Alts) - 1
	alt := g.Alts[last]
	if len(alt) == 0 {
		return nil
	}
	n := alt[len(alt)-1]
	g.Alts[last] = alt[:len(alt)-1]
	return n
}

func (p *parser) alternate() {
	g := p.top()
	g.Alts = append(g.Alts, nil)
}

func (p *parser) openGroup(capture bool) {
	index := -1
	if capture && !p.opts.NoCapture && p.looks == 0 {
		p.ncap++
		index = p.ncap
	}
	g := &Group{Index: index, Alts: [][]Node{nil}}
	p.push(g)
	p.stack = append(p.stack, frame{group: g})
}

func (p *parser) openLook(behind, negative bool) {
	body := &Group{Index: -1, Alts: [][]Node{nil}}
	p.push(&Look{Behind: behind, Negative: negative, Body: body})
	p.stack = append(p.stack, frame{group: body, look: true})
	p.looks++
}

func (p *parser) closeGroup() bool {
	if len(p.stack) < 2 {
		return false
	}
	if p.stack[len(p.stack)-1].look {
		p.looks--
	}
	p.stack = p.stack[:len(p.stack)-1]
	return true
}

// repeat wraps the last node. It returns the error code on failure.
func (p *parser) repeat(lo, hi int, greedy bool) ErrorCode {
	if lo < 0 || hi == 0 || hi > 0 && lo > hi {
		return ErrInvalidRepeat
	}
	if lo > maxRepeat || hi > maxRepeat {
		return ErrRepeatSize
	}
	sub := p.pop()
	if sub == nil {
		return ErrMissingRepeatArgument
	}
	p.push(&Repeat{Sub: sub, Min: lo, Max: hi, Greedy: greedy})
	return ""
}

func (p *parser) finish(anchored bool) *Regexp {
	re := &Regexp{
		Pattern:  p.pattern,
		Root:     p.stack[0].group,
		Anchored: anchored,
		Groups:   p.ncap + 1,
	}
	if p.opts.Name != "" && p.opts.Resolver != nil {
		p.opts.Resolver.Register(p.opts.Name, re)
	}
	return re
}

// Parse parses pattern. A pattern beginning with '^' is anchored: matches
// may start only at the search offset.
func Parse(pattern string, opts Options) (*Regexp, error) {
	p := newParser(pattern, opts)
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.finish(strings.HasPrefix(pattern, "^")), nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string, opts Options) *Regexp {
	re, err := Parse(pattern, opts)
	if err != nil {
		panic(`syntax: Parse(` + strconv.Quote(pattern) + `): ` + err.Error())
	}
	return re
}

func (p *parser) parse() error {
	s := p.pattern
	i := 0
	for i < len(s) {
		var err *Error
		switch s[i] {
		case '.':
			p.push(&Any{})
			i++
		case '^':
			p.push(&Assert{Kind: LineStart})
			i++
		case '$':
			p.push(&Assert{Kind: LineEnd})
			i++
		case '|':
			p.alternate()
			i++
		case '(':
			i, err = p.parseGroup(i)
		case ')':
			if !p.closeGroup() {
				return p.errorf(ErrUnexpectedParen, i)
			}
			i++
		case '*', '+', '?':
			lo, hi := 0, -1
			switch s[i] {
			case '+':
				lo = 1
			case '?':
				hi = 1
			}
			i, err = p.parseRepeat(i, i+1, lo, hi)
		case '{':
			i, err = p.parseCount(i)
		case '[':
			m, end, cerr := charclass.Parse(s, i)
			if cerr != nil || m == nil {
				return p.errorf(ErrInvalidClass, i)
			}
			p.push(&Class{Matcher: m})
			i = end
		case '\\':
			i, err = p.parseEscape(i)
		case '<':
			i, err = p.parseAngle(i)
		case ']', '}':
			return p.errorf(ErrUnexpectedChar, i)
		default:
			r, w := utf8.DecodeRuneInString(s[i:])
			p.push(&Literal{Rune: r})
			i += w
		}
		if err != nil {
			return err
		}
	}
	if len(p.stack) != 1 {
		return p.errorf(ErrMissingParen, len(s))
	}
	return nil
}

func (p *parser) parseRepeat(start, i, lo, hi int) (int, *Error) {
	greedy := true
	if i < len(p.pattern) && p.pattern[i] == '?' {
		greedy = false
		i++
	}
	if code := p.repeat(lo, hi, greedy); code != "" {
		return i, p.errorf(code, start)
	}
	return i, nil
}

// parseCount parses {n}, {n,} and {n,m} at s[i] == '{'.
func (p *parser) parseCount(i int) (int, *Error) {
	lo, hi, end, ok := p.parsePair(i+1, ",", '}', true)
	if !ok {
		return i, p.errorf(ErrInvalidRepeat, i)
	}
	return p.parseRepeat(i, end, lo, hi)
}

// parsePair parses "a", "a<sep>" or "a<sep>b" followed by close, starting
// at s[i]. A lone "a" yields a == b; a missing b yields -1 when openEnded.
func (p *parser) parsePair(i int, seps string, close byte, openEnded bool) (lo, hi, end int, ok bool) {
	s := p.pattern
	lo, i, ok = number(s, i)
	if !ok {
		return 0, 0, i, false
	}
	hi = lo
	if i < len(s) && strings.IndexByte(seps, s[i]) >= 0 {
		i++
		if i < len(s) && s[i] == close {
			if !openEnded {
				return 0, 0, i, false
			}
			hi = -1
		} else if hi, i, ok = number(s, i); !ok {
			return 0, 0, i, false
		}
	}
	if i >= len(s) || s[i] != close {
		return 0, 0, i, false
	}
	return lo, hi, i + 1, true
}

func number(s string, i int) (int, int, bool) {
	j := i
	for j < len(s) && j-i < 10 && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, i, false
	}
	v, err := strconv.ParseInt(s[i:j], 10, 32)
	if err != nil {
		return 0, i, false
	}
	return int(v), j, true
}

func (p *parser) parseGroup(i int) (int, *Error) {
	s := p.pattern
	if i+1 >= len(s) || s[i+1] != '?' {
		p.openGroup(true)
		return i + 1, nil
	}
	if i+2 >= len(s) {
		return i, p.errorf(ErrMissingParen, i)
	}
	switch s[i+2] {
	case ':':
		p.openGroup(false)
		return i + 3, nil
	case '=', '!':
		p.openLook(false, s[i+2] == '!')
		return i + 3, nil
	case '<':
		if i+3 < len(s) && (s[i+3] == '=' || s[i+3] == '!') {
			p.openLook(true, s[i+3] == '!')
			return i + 4, nil
		}
		return i, p.errorf(ErrNamedGroup, i)
	case 'P':
		return i, p.errorf(ErrNamedGroup, i)
	}
	return i, p.errorf(ErrUnsupportedGroup, i)
}

func (p *parser) parseEscape(i int) (int, *Error) {
	s := p.pattern
	r, end, ok, err := charclass.ParseEscape(s, i+1)
	if err != nil {
		return i, p.errorf(ErrInvalidEscape, i)
	}
	if ok {
		p.push(&Literal{Rune: r})
		return end, nil
	}
	c := s[i+1]
	if charclass.IsPerl(c) {
		m, end, _ := charclass.Parse(s, i)
		p.push(&Class{Matcher: m})
		return end, nil
	}
	switch c {
	case 'b':
		p.push(&Assert{Kind: WordBoundary})
		return i + 2, nil
	case 'B':
		p.push(&Assert{Kind: NonWordBoundary})
		return i + 2, nil
	case 'p', 'P':
		close := strings.IndexByte(s[i+2:], '}')
		if i+2 >= len(s) || s[i+2] != '{' || close < 0 {
			return i, p.errorf(ErrInvalidClass, i)
		}
		m, uerr := charclass.NewUnicode(s[i+3:i+2+close], c == 'P')
		if uerr != nil {
			return i, p.errorf(ErrInvalidClass, i)
		}
		p.push(&Class{Matcher: m})
		return i + 3 + close, nil
	case 'i':
		if i+2 >= len(s) || s[i+2] != '{' {
			return i, p.errorf(ErrInvalidRange, i)
		}
		lo, hi, end, ok := p.parsePair(i+3, ",-", '}', false)
		if !ok || !hasSeparator(s[i+3:end], ",-") {
			return i, p.errorf(ErrInvalidRange, i)
		}
		p.pushIntRange(lo, hi)
		return end, nil
	case 'h':
		if i+2 >= len(s) || s[i+2] != '{' {
			return i, p.errorf(ErrInvalidHook, i)
		}
		p1, p2, end, ok := p.parsePair(i+3, ",", '}', true)
		if !ok {
			return i, p.errorf(ErrInvalidHook, i)
		}
		p.push(&Hook{P1: p1, P2: p2})
		return end, nil
	}
	return i, p.errorf(ErrInvalidEscape, i)
}

// pushIntRange adds [lo, hi], swapping reversed bounds. A single value is
// plain digits.
func (p *parser) pushIntRange(lo, hi int) {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		for _, r := range strconv.Itoa(lo) {
			p.push(&Literal{Rune: r})
		}
		return
	}
	p.push(&IntRange{Min: lo, Max: hi})
}

// parseAngle parses <a-b> or <name> at s[i] == '<'.
func (p *parser) parseAngle(i int) (int, *Error) {
	s := p.pattern
	if i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
		lo, hi, end, ok := p.parsePair(i+1, "-", '>', false)
		if !ok || !hasSeparator(s[i+1:end], "-") {
			return i, p.errorf(ErrInvalidRange, i)
		}
		p.pushIntRange(lo, hi)
		return end, nil
	}
	j := i + 1
	for j < len(s) && j-i <= maxName && isNameChar(s[j]) {
		j++
	}
	if j == i+1 || j >= len(s) || s[j] != '>' {
		return i, p.errorf(ErrInvalidName, i)
	}
	name := s[i+1 : j]
	res := p.opts.Resolver
	if res == nil {
		return i, p.errorf(ErrUnknownName, i)
	}
	switch name {
	case "all", "_all":
		keep := Public
		if name == "_all" {
			keep = func(string) bool { return true }
		}
		refs := res.LookupAll(keep)
		if len(refs) == 0 {
			return i, p.errorf(ErrUnknownName, i)
		}
		g := &Group{Index: -1}
		for _, re := range refs {
			g.Alts = append(g.Alts, []Node{re.Uncaptured()})
		}
		p.push(g)
	default:
		re, ok := res.Lookup(name)
		if !ok {
			return i, p.errorf(ErrUnknownName, i)
		}
		p.push(re.Uncaptured())
	}
	return j + 1, nil
}

func isNameChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// hasSeparator reports whether a parsed pair carried an explicit upper bound.
func hasSeparator(pair, seps string) bool {
	return strings.ContainsAny(pair, seps)
}
