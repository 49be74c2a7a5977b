package nfa

import (
	"fmt"

	"github.com/coregx/multiregex/pike"
)

// FromProgram builds the graph of p, starting at pc 0 so that the search
// preamble becomes a wildcard self-loop. Each reachable program counter
// gets one state; len(p.Code) is the accepting state.
//
// Hook units become a single edge on the symbol interned in hooks. Integer
// ranges are expanded into a digit automaton.
func FromProgram(p *pike.Program, hooks *HookTable) (*NFA, error) {
	if hooks == nil {
		hooks = NewHookTable()
	}
	c := &converter{
		code:  p.Code,
		p:     p,
		hooks: hooks,
		b:     NewBuilderWithCapacity(len(p.Code) + 1),
		state: make([]StateID, len(p.Code)+1),
	}
	for i := range c.state {
		c.state[i] = InvalidState
	}
	start := c.stateAt(0)
	for len(c.work) > 0 {
		pc := c.work[len(c.work)-1]
		c.work = c.work[:len(c.work)-1]
		if err := c.translate(pc); err != nil {
			return nil, err
		}
		if c.b.States() > MaxStates {
			return nil, &BuildError{Message: "too many states", StateID: InvalidState, PC: pc, Err: ErrTooComplex}
		}
	}
	c.b.SetStart(start)
	return c.b.Build(WithAnchored(p.Anchored()))
}

type converter struct {
	code  []int
	p     *pike.Program
	hooks *HookTable
	b     *Builder
	state []StateID
	work  []int
}

// stateAt returns the state for pc, queueing pc for translation on first
// sight.
func (c *converter) stateAt(pc int) StateID {
	if id := c.state[pc]; id != InvalidState {
		return id
	}
	var id StateID
	if pc == len(c.code) {
		id = c.b.AddAccept()
	} else {
		id = c.b.AddState()
		c.work = append(c.work, pc)
	}
	c.state[pc] = id
	return id
}

func (c *converter) fail(pc int, format string, args ...any) error {
	return &BuildError{
		Message: fmt.Sprintf(format, args...),
		StateID: c.state[pc],
		PC:      pc,
		Err:     ErrInvalidProgram,
	}
}

// operand returns the word after the opcode at pc, or an error when the
// program is truncated.
func (c *converter) operand(pc, off int) (int, error) {
	if pc+off >= len(c.code) {
		return 0, c.fail(pc, "truncated instruction")
	}
	return c.code[pc+off], nil
}

func (c *converter) target(pc, t int) (StateID, error) {
	if t < 0 || t > len(c.code) {
		return InvalidState, c.fail(pc, "jump target %d out of range", t)
	}
	return c.stateAt(t), nil
}

func (c *converter) translate(pc int) error {
	from := c.state[pc]
	op := c.code[pc]
	switch {
	case op >= 0:
		c.b.AddRange(from, op, op, c.stateAt(pc+1))
		return nil
	case op == pike.OpDot || op == pike.OpDotAll:
		c.b.AddWildcard(from, c.stateAt(pc+1))
		return nil
	case op >= pike.OpNonWordBoundary:
		c.b.AddEpsilon(from, c.stateAt(pc+1))
		return nil
	}

	arg, err := c.operand(pc, 1)
	if err != nil {
		return err
	}
	switch op {
	case pike.OpCharClass:
		if arg < 0 || arg >= len(c.p.Classes) {
			return c.fail(pc, "class %d out of range", arg)
		}
		next := c.stateAt(pc + 2)
		intervals, wildcard := c.p.Classes[arg].Edges()
		if wildcard {
			c.b.AddWildcard(from, next)
		}
		for _, iv := range intervals {
			c.b.AddRange(from, int(iv.Lo), int(iv.Hi), next)
		}
	case pike.OpLookahead, pike.OpLookbehind, pike.OpNegLookahead, pike.OpNegLookbehind, pike.OpSave:
		c.b.AddEpsilon(from, c.stateAt(pc+2))
	case pike.OpSplit, pike.OpSplitJmp:
		to, err := c.target(pc, arg)
		if err != nil {
			return err
		}
		c.b.AddEpsilon(from, c.stateAt(pc+2))
		c.b.AddEpsilon(from, to)
	case pike.OpJmp:
		to, err := c.target(pc, arg)
		if err != nil {
			return err
		}
		c.b.AddEpsilon(from, to)
	case pike.OpHookBegin, pike.OpIntRange:
		second, err := c.operand(pc, 3)
		if err != nil {
			return err
		}
		if pc+4 > len(c.code) {
			return c.fail(pc, "truncated instruction")
		}
		next := c.stateAt(pc + 4)
		if op == pike.OpHookBegin {
			c.b.AddSymbol(from, c.hooks.Symbol(arg, second), next)
			return nil
		}
		if arg < 0 || arg > second {
			return c.fail(pc, "invalid integer range [%d, %d]", arg, second)
		}
		c.b.addIntRange(from, arg, second, next)
	default:
		return c.fail(pc, "unexpected opcode %d", op)
	}
	return nil
}
