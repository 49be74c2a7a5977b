// Package syntax parses multiregex patterns into expression trees.
//
// The dialect covers the usual operators plus three extensions used by large
// pattern libraries: integer ranges (<a-b> and \i{a,b}), hooks (\h{a,b}) whose
// outcome is decided by caller code at match time, and references to other
// named patterns (<name>, <all>, <_all>) resolved through a Resolver.
package syntax

import (
	"strconv"
	"strings"

	"github.com/coregx/multiregex/charclass"
)

// Node is an expression tree node. The implementations are the types in this
// file and no others.
type Node interface {
	isNode()
}

// Literal matches one code point.
type Literal struct {
	Rune rune
}

// Class matches one code point accepted by Matcher.
type Class struct {
	Matcher *charclass.Matcher
}

// Any matches any code point except '\n' and '\r'.
type Any struct{}

// AssertKind selects a zero-width assertion.
type AssertKind uint8

const (
	// LineStart is '^': the start of the input.
	LineStart AssertKind = iota
	// LineEnd is '$': the end of the input.
	LineEnd
	// WordBoundary is \b.
	WordBoundary
	// NonWordBoundary is \B.
	NonWordBoundary
)

// Assert is a zero-width assertion.
type Assert struct {
	Kind AssertKind
}

// Repeat matches Sub between Min and Max times; Max is -1 when unbounded.
type Repeat struct {
	Sub    Node
	Min    int
	Max    int
	Greedy bool
}

// Group is a sequence of alternatives. Index is the capture group number, or
// -1 for a non-capturing group.
type Group struct {
	Index int
	Alts  [][]Node
}

// Look is a look-ahead or look-behind assertion over Body.
type Look struct {
	Behind   bool
	Negative bool
	Body     *Group
}

// IntRange matches a decimal integer in [Min, Max].
type IntRange struct {
	Min, Max int
}

// Hook defers matching to the caller's hook callback, identified by P1 and P2.
type Hook struct {
	P1, P2 int
}

func (*Literal) isNode()  {}
func (*Class) isNode()    {}
func (*Any) isNode()      {}
func (*Assert) isNode()   {}
func (*Repeat) isNode()   {}
func (*Group) isNode()    {}
func (*Look) isNode()     {}
func (*IntRange) isNode() {}
func (*Hook) isNode()     {}

// Regexp is a parsed pattern. Root is capture group 0.
type Regexp struct {
	Pattern  string
	Root     *Group
	Anchored bool
	// Groups counts capture groups including group 0.
	Groups int
}

// String renders the expression back into pattern syntax.
func (re *Regexp) String() string {
	var b strings.Builder
	writeAlts(&b, re.Root.Alts)
	return b.String()
}

// Uncaptured returns a copy of re.Root in which no group captures. It is used
// when one pattern embeds another by name.
func (re *Regexp) Uncaptured() *Group {
	return uncapture(re.Root)
}

func uncapture(g *Group) *Group {
	out := &Group{Index: -1, Alts: make([][]Node, len(g.Alts))}
	for i, alt := range g.Alts {
		seq := make([]Node, len(alt))
		for j, n := range alt {
			seq[j] = uncaptureNode(n)
		}
		out.Alts[i] = seq
	}
	return out
}

func uncaptureNode(n Node) Node {
	switch n := n.(type) {
	case *Group:
		return uncapture(n)
	case *Repeat:
		r := *n
		r.Sub = uncaptureNode(n.Sub)
		return &r
	case *Look:
		l := *n
		l.Body = uncapture(n.Body)
		return &l
	}
	return n
}

func writeAlts(b *strings.Builder, alts [][]Node) {
	for i, alt := range alts {
		if i > 0 {
			b.WriteByte('|')
		}
		for _, n := range alt {
			writeNode(b, n)
		}
	}
}

const metaChars = `\.*+?|[]{}()^$<`

func writeNode(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Literal:
		switch {
		case strings.ContainsRune(metaChars, n.Rune):
			b.WriteByte('\\')
			b.WriteRune(n.Rune)
		case n.Rune < ' ' || n.Rune == 0x7f:
			b.WriteString(`\x{`)
			b.WriteString(strconv.FormatInt(int64(n.Rune), 16))
			b.WriteByte('}')
		default:
			b.WriteRune(n.Rune)
		}
	case *Class:
		b.WriteString(n.Matcher.String())
	case *Any:
		b.WriteByte('.')
	case *Assert:
		b.WriteString([...]string{`^`, `$`, `\b`, `\B`}[n.Kind])
	case *Repeat:
		if _, nested := n.Sub.(*Repeat); nested {
			b.WriteString("(?:")
			writeNode(b, n.Sub)
			b.WriteByte(')')
		} else {
			writeNode(b, n.Sub)
		}
		switch {
		case n.Min == 0 && n.Max == -1:
			b.WriteByte('*')
		case n.Min == 1 && n.Max == -1:
			b.WriteByte('+')
		case n.Min == 0 && n.Max == 1:
			b.WriteByte('?')
		case n.Max == -1:
			b.WriteString("{" + strconv.Itoa(n.Min) + ",}")
		case n.Min == n.Max:
			b.WriteString("{" + strconv.Itoa(n.Min) + "}")
		default:
			b.WriteString("{" + strconv.Itoa(n.Min) + "," + strconv.Itoa(n.Max) + "}")
		}
		if !n.Greedy {
			b.WriteByte('?')
		}
	case *Group:
		if n.Index >= 0 {
			b.WriteByte('(')
		} else {
			b.WriteString("(?:")
		}
		writeAlts(b, n.Alts)
		b.WriteByte(')')
	case *Look:
		b.WriteString([...]string{"(?=", "(?!", "(?<=", "(?<!"}[btoi(n.Behind)*2+btoi(n.Negative)])
		writeAlts(b, n.Body.Alts)
		b.WriteByte(')')
	case *IntRange:
		b.WriteString("<" + strconv.Itoa(n.Min) + "-" + strconv.Itoa(n.Max) + ">")
	case *Hook:
		b.WriteString(`\h{` + strconv.Itoa(n.P1) + ",")
		if n.P2 >= 0 {
			b.WriteString(strconv.Itoa(n.P2))
		}
		b.WriteByte('}')
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
