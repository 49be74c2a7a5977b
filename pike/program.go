// Package pike compiles parsed patterns to bytecode and runs the bytecode on a
// Pike virtual machine.
//
// A program is a flat []int. Non-negative words are literal code points;
// negative words are opcodes. Threads advance in lock-step over the input, at
// most one per program counter, so a run is linear in the input length times
// the program length.
package pike

import (
	"fmt"
	"strings"

	"github.com/coregx/multiregex/charclass"
)

// Opcodes without an operand.
const (
	OpDot             = -1
	OpDotAll          = -2
	OpLineStart       = -3
	OpLineEnd         = -4
	OpWordBoundary    = -5
	OpNonWordBoundary = -6
)

// Opcodes followed by one operand word.
const (
	OpCharClass     = -20 // class index
	OpLookahead     = -21 // look-around index
	OpLookbehind    = -22
	OpNegLookahead  = -23
	OpNegLookbehind = -24
	OpSave          = -25 // capture slot
	OpHookBegin     = -26 // p1; always followed by OpHookProc p2
	OpHookProc      = -27
	OpIntRange      = -28 // min; always followed by OpCheckRange max
	OpCheckRange    = -29
	OpSplit         = -30 // target; prefers the next instruction
	OpSplitJmp      = -31 // target; prefers the target
	OpJmp           = -32 // target
)

// Program is a compiled pattern. A Program is immutable after Compile and
// safe for concurrent use.
type Program struct {
	Code []int
	// Groups counts capture groups including group 0.
	Groups int
	// Slots is the number of capture slots, two per group.
	Slots int
	// PrefixLen is the length of the unanchored-search preamble; zero for
	// anchored patterns and look-around bodies.
	PrefixLen int
	Classes   []*charclass.Matcher
	Looks     []*Program
}

// width returns the number of words of the instruction unit starting with op.
// Hook and integer-range pairs form one four-word unit.
func width(op int) int {
	switch {
	case op == OpHookBegin || op == OpIntRange:
		return 4
	case op <= OpCharClass && op >= OpJmp:
		return 2
	}
	return 1
}

func isJump(op int) bool {
	return op <= OpSplit && op >= OpJmp
}

// Anchored reports whether the program lacks the search preamble.
func (p *Program) Anchored() bool {
	return p.PrefixLen == 0
}

var opNames = map[int]string{
	OpDot:             "dot",
	OpDotAll:          "dotall",
	OpLineStart:       "line_start",
	OpLineEnd:         "line_end",
	OpWordBoundary:    "word_boundary",
	OpNonWordBoundary: "non_word_boundary",
	OpCharClass:       "class",
	OpLookahead:       "lookahead",
	OpLookbehind:      "lookbehind",
	OpNegLookahead:    "neg_lookahead",
	OpNegLookbehind:   "neg_lookbehind",
	OpSave:            "save",
	OpHookBegin:       "hook_begin",
	OpHookProc:        "hook_proc",
	OpIntRange:        "int_range",
	OpCheckRange:      "check_range",
	OpSplit:           "split",
	OpSplitJmp:        "split_jmp",
	OpJmp:             "jmp",
}

// String disassembles the program, one instruction per line.
func (p *Program) String() string {
	var b strings.Builder
	for pc := 0; pc < len(p.Code); {
		op := p.Code[pc]
		switch {
		case op >= 0:
			fmt.Fprintf(&b, "%d: %q\n", pc, rune(op))
			pc++
		case op == OpHookBegin || op == OpIntRange:
			fmt.Fprintf(&b, "%d: %s %d\n", pc, opNames[op], p.Code[pc+1])
			fmt.Fprintf(&b, "%d: %s %d\n", pc+2, opNames[p.Code[pc+2]], p.Code[pc+3])
			pc += 4
		case width(op) == 2:
			fmt.Fprintf(&b, "%d: %s %d\n", pc, opNames[op], p.Code[pc+1])
			pc += 2
		default:
			fmt.Fprintf(&b, "%d: %s\n", pc, opNames[op])
			pc++
		}
	}
	return b.String()
}

// Validate checks that every instruction is well formed and every operand
// indexes an existing table entry. Compile always produces valid programs;
// Validate guards programs read from untrusted storage.
func (p *Program) Validate() error {
	if p.Slots != 2*p.Groups || p.Groups < 0 {
		return fmt.Errorf("pike: %d slots for %d groups", p.Slots, p.Groups)
	}
	if p.PrefixLen < 0 || p.PrefixLen > len(p.Code) {
		return fmt.Errorf("pike: prefix length %d out of range", p.PrefixLen)
	}
	n := len(p.Code)
	starts := make([]bool, n+1)
	starts[n] = true
	var jumps []int
	for pc := 0; pc < n; {
		op := p.Code[pc]
		w := width(op)
		if op < 0 && opNames[op] == "" {
			return fmt.Errorf("pike: invalid opcode %d at pc %d", op, pc)
		}
		if op > 0x10FFFF {
			return fmt.Errorf("pike: invalid code point %d at pc %d", op, pc)
		}
		if op >= 0 {
			w = 1
		}
		if pc+w > n {
			return fmt.Errorf("pike: truncated instruction at pc %d", pc)
		}
		starts[pc] = true
		if w == 4 {
			starts[pc+2] = true
		}
		if op < 0 && w > 1 {
			arg := p.Code[pc+1]
			var ok bool
			switch {
			case op == OpCharClass:
				ok = arg >= 0 && arg < len(p.Classes)
			case op >= OpNegLookbehind && op <= OpLookahead:
				ok = arg >= 0 && arg < len(p.Looks)
			case op == OpSave:
				ok = arg >= 0 && arg < p.Slots
			case isJump(op):
				ok = arg >= 0 && arg <= n
				jumps = append(jumps, arg)
			case op == OpHookBegin:
				ok = p.Code[pc+2] == OpHookProc
			case op == OpIntRange:
				ok = p.Code[pc+2] == OpCheckRange && arg >= 0 && arg <= p.Code[pc+3]
			}
			if !ok {
				return fmt.Errorf("pike: invalid operand %d for %s at pc %d", arg, opNames[op], pc)
			}
		}
		pc += w
	}
	for _, target := range jumps {
		if !starts[target] {
			return fmt.Errorf("pike: jump into the middle of an instruction at %d", target)
		}
	}
	for _, m := range p.Classes {
		if m == nil {
			return fmt.Errorf("pike: nil character class")
		}
	}
	for _, l := range p.Looks {
		if l == nil {
			return fmt.Errorf("pike: nil look-around program")
		}
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}
