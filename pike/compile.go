package pike

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/coregx/multiregex/charclass"
	"github.com/coregx/multiregex/syntax"
)

// MaxProgramLen bounds the number of words in a compiled program, look-around
// bodies included.
const MaxProgramLen = 1 << 22

// ErrProgramTooLarge is returned when a pattern expands past MaxProgramLen.
var ErrProgramTooLarge = errors.New("pike: program too large")

// emitter writes code in two passes. During the size probe code is nil and
// only n advances, so forward jump targets are known before the real run.
type emitter struct {
	code    []int
	n       int
	prefix  int
	classes []*charclass.Matcher
	looks   []*Program
	err     error
}

func (e *emitter) add(w int) {
	if e.code != nil {
		e.code[e.n] = w
	}
	e.n++
}

// hole reserves a word for a jump target filled by patch.
func (e *emitter) hole() int {
	e.n++
	return e.n - 1
}

func (e *emitter) patch(at int) {
	if e.code != nil {
		e.code[at] = e.n
	}
}

func (e *emitter) addClass(m *charclass.Matcher) int {
	if e.code == nil {
		return -1
	}
	e.classes = append(e.classes, m)
	return len(e.classes) - 1
}

// Compile generates the program for re. Unanchored patterns start with the
// search preamble, equivalent to a lazy (?s:.)*? loop.
func Compile(re *syntax.Regexp) (*Program, error) {
	p, err := generate(func(e *emitter) {
		if !re.Anchored {
			start := e.n
			e.add(OpSplitJmp)
			e.add(start + 5)
			e.add(OpDotAll)
			e.add(OpSplit)
			e.add(start + 2)
		}
		e.prefix = e.n
		e.group(re.Root)
	})
	if err != nil {
		return nil, err
	}
	p.Groups = re.Groups
	p.Slots = 2 * re.Groups
	return p, nil
}

// MustCompile parses and compiles pattern with default options, panicking
// on error.
func MustCompile(pattern string) *Program {
	re, err := syntax.Parse(pattern, syntax.Options{})
	if err != nil {
		panic(`pike: Compile(` + strconv.Quote(pattern) + `): ` + err.Error())
	}
	p, err := Compile(re)
	if err != nil {
		panic(`pike: Compile(` + strconv.Quote(pattern) + `): ` + err.Error())
	}
	return p
}

func generate(gen func(e *emitter)) (*Program, error) {
	probe := &emitter{}
	gen(probe)
	if probe.n > MaxProgramLen {
		return nil, fmt.Errorf("%w: %d words", ErrProgramTooLarge, probe.n)
	}
	e := &emitter{code: make([]int, probe.n)}
	gen(e)
	if e.err != nil {
		return nil, e.err
	}
	return &Program{
		Code:      e.code,
		PrefixLen: e.prefix,
		Classes:   e.classes,
		Looks:     e.looks,
	}, nil
}

func (e *emitter) seq(nodes []syntax.Node) {
	for _, n := range nodes {
		e.node(n)
	}
}

// group emits the alternatives of g. Every alternative but the last is
// guarded by a SPLIT to the next one and ends with a JMP past the group.
func (e *emitter) group(g *syntax.Group) {
	if g.Index >= 0 {
		e.add(OpSave)
		e.add(2 * g.Index)
	}
	last := len(g.Alts) - 1
	var exits []int
	for _, alt := range g.Alts[:last] {
		e.add(OpSplit)
		next := e.hole()
		e.seq(alt)
		e.add(OpJmp)
		exits = append(exits, e.hole())
		e.patch(next)
	}
	e.seq(g.Alts[last])
	for _, at := range exits {
		e.patch(at)
	}
	if g.Index >= 0 {
		e.add(OpSave)
		e.add(2*g.Index + 1)
	}
}

func (e *emitter) node(n syntax.Node) {
	if e.n > MaxProgramLen {
		// the size probe is over budget already; generate reports it
		return
	}
	switch n := n.(type) {
	case *syntax.Literal:
		e.add(int(n.Rune))
	case *syntax.Class:
		e.add(OpCharClass)
		e.add(e.addClass(n.Matcher))
	case *syntax.Any:
		e.add(OpDot)
	case *syntax.Assert:
		e.add([...]int{OpLineStart, OpLineEnd, OpWordBoundary, OpNonWordBoundary}[n.Kind])
	case *syntax.Repeat:
		e.repeat(n)
	case *syntax.Group:
		e.group(n)
	case *syntax.Look:
		e.look(n)
	case *syntax.IntRange:
		lo, hi := n.Min, n.Max
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo == hi {
			for _, r := range strconv.Itoa(lo) {
				e.add(int(r))
			}
			return
		}
		e.add(OpIntRange)
		e.add(lo)
		e.add(OpCheckRange)
		e.add(hi)
	case *syntax.Hook:
		e.add(OpHookBegin)
		e.add(n.P1)
		e.add(OpHookProc)
		e.add(n.P2)
	default:
		panic(fmt.Sprintf("pike: unexpected node %T", n))
	}
}

// repeat unrolls counted repetition. The preferred branch of each split
// decides greediness.
func (e *emitter) repeat(r *syntax.Repeat) {
	start := e.n
	loop, skip := OpSplitJmp, OpSplit
	if !r.Greedy {
		loop, skip = OpSplit, OpSplitJmp
	}
	for i := 1; i < r.Min; i++ {
		e.node(r.Sub)
	}
	if r.Max == -1 {
		if r.Min > 0 {
			body := e.n
			e.node(r.Sub)
			e.add(loop)
			e.add(body)
			return
		}
		e.add(skip)
		out := e.hole()
		e.node(r.Sub)
		e.add(loop)
		e.add(start + 2)
		e.patch(out)
		return
	}
	if r.Min > 0 {
		e.node(r.Sub)
	}
	var outs []int
	for i := r.Min; i < r.Max; i++ {
		e.add(skip)
		outs = append(outs, e.hole())
		e.node(r.Sub)
	}
	for _, at := range outs {
		e.patch(at)
	}
}

// look compiles the body as its own anchored program. Look-behind bodies are
// reversed so they can run backwards from the current position.
func (e *emitter) look(l *syntax.Look) {
	op := OpLookahead
	switch {
	case l.Behind && l.Negative:
		op = OpNegLookbehind
	case l.Behind:
		op = OpLookbehind
	case l.Negative:
		op = OpNegLookahead
	}
	e.add(op)
	if e.code == nil {
		e.add(-1)
		return
	}
	sub, err := generate(func(se *emitter) { se.group(l.Body) })
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		e.add(-1)
		return
	}
	if l.Behind {
		sub.reverse()
	}
	e.looks = append(e.looks, sub)
	e.add(len(e.looks) - 1)
}
