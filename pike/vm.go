package pike

import (
	"fmt"
	"unicode/utf8"
)

// Exec searches input from at and returns the capture slots of the preferred
// match as start/end pairs per group, -1 for groups that did not take part.
// It returns nil when there is no match. hook decides \h{..} hooks; a nil
// hook fails them.
func (p *Program) Exec(input []byte, at int, hook HookFunc) []int {
	if at < 0 || at > len(input) {
		return nil
	}
	caps, _ := p.run(input, at, len(input), mode{wantCaps: true}, hook)
	return caps
}

// Find returns the bounds of the preferred match at or after at.
func (p *Program) Find(input []byte, at int, hook HookFunc) (start, end int, ok bool) {
	caps := p.Exec(input, at, hook)
	if caps == nil {
		return -1, -1, false
	}
	return caps[0], caps[1], true
}

// Match reports whether p matches anywhere in input[at:].
func (p *Program) Match(input []byte, at int, hook HookFunc) bool {
	if at < 0 || at > len(input) {
		return false
	}
	_, ok := p.run(input, at, len(input), mode{}, hook)
	return ok
}

// FullMatch reports whether p matches all of input, ignoring the search
// preamble.
func (p *Program) FullMatch(input []byte, hook HookFunc) bool {
	_, ok := p.run(input, 0, len(input), mode{anchored: true, anchorEnd: true}, hook)
	return ok
}

// mode selects how a run treats its bounds.
type mode struct {
	// backward runs read the code point ending at each position; they
	// serve look-behind.
	backward bool
	// anchored runs skip the preamble and never prune threads by start.
	anchored bool
	// anchorEnd accepts only matches ending at the far bound.
	anchorEnd bool
	// wantCaps keeps going after the first match to settle captures.
	wantCaps bool
}

// run executes the program from position from towards to.
func (p *Program) run(input []byte, from, to int, m mode, hook HookFunc) ([]int, bool) {
	size := len(p.Code) + 1
	cur := newQueue(size, p.Slots)
	next := newQueue(size, p.Slots)
	queued := newQueue(size, p.Slots)
	if m.anchored {
		queued.start(p.PrefixLen)
	} else {
		queued.start(0)
	}
	hk := hooks{fn: hook}
	// stepped[pc] is the step in which the hook thread at pc last ran
	stepped := make([]int, size)
	step := 0

	var result []int
	found := false
	for pos := from; ; {
		if queued.empty() {
			break
		}
		step++
		r, w := runeAt(input, pos, m.backward)
		prev, _ := runeAt(input, pos, !m.backward)
	threads:
		for pc := -1; ; {
			pc = cur.after(pc)
			if pc < 0 {
				pc = queued.shift(cur)
			}
			if pc < 0 {
				break
			}
			if pc == len(p.Code) {
				if m.anchorEnd && pos != to {
					continue
				}
				if !m.wantCaps {
					return nil, true
				}
				result = cur.result(pc)
				if !m.anchored && p.Slots > 0 {
					next.dropLater(cur.startOffset(pc))
				}
				queued.clear()
				found = true
				break threads
			}
			switch op := p.Code[pc]; op {
			case OpDot:
				if r >= 0 && r != '\n' && r != '\r' {
					cur.later(pc, pc+1, next)
				}
			case OpDotAll:
				if r >= 0 {
					cur.later(pc, pc+1, next)
				}
			case OpWordBoundary, OpNonWordBoundary:
				if (isWord(prev) != isWord(r)) == (op == OpWordBoundary) {
					cur.now(pc, pc+1, false)
				}
			case OpLineStart:
				if pos == 0 {
					cur.now(pc, pc+1, false)
				}
			case OpLineEnd:
				if pos == len(input) {
					cur.now(pc, pc+1, false)
				}
			case OpCharClass:
				if r >= 0 && p.Classes[p.Code[pc+1]].Matches(r) {
					cur.later(pc, pc+2, next)
				}
			case OpLookahead, OpNegLookahead:
				_, ok := p.Looks[p.Code[pc+1]].run(input, pos, len(input), mode{anchored: true}, hook)
				if ok == (op == OpLookahead) {
					cur.now(pc, pc+2, false)
				}
			case OpLookbehind, OpNegLookbehind:
				_, ok := p.Looks[p.Code[pc+1]].run(input, pos, 0, mode{backward: true, anchored: true}, hook)
				if ok == (op == OpLookbehind) {
					cur.now(pc, pc+2, false)
				}
			case OpHookBegin, OpIntRange:
				intRange := op == OpIntRange
				value := pos
				if intRange {
					value = 0
				}
				if cur.now(pc, pc+2, false) || stepped[pc+2] != step {
					hk.open(pc+2, intRange, p.Code[pc+1], p.Code[pc+3], value)
					break
				}
				more, done := hk.late(pc+2, intRange, p.Code[pc+1], p.Code[pc+3], value, pos, r)
				if more {
					cur.later(pc, pc+2, next)
				}
				if done {
					cur.later(pc, pc+4, next)
					next.fork(pc + 4)
				}
			case OpHookProc, OpCheckRange:
				stepped[pc] = step
				more, done := hk.step(pc, pos, r)
				if more {
					cur.later(pc, pc, next)
				}
				if done {
					cur.later(pc, pc+2, next)
					next.fork(pc + 2)
				}
			case OpSave:
				cur.caps[pc][p.Code[pc+1]] = pos + 1
				cur.now(pc, pc+2, false)
			case OpSplit:
				cur.now(pc, p.Code[pc+1], true)
				cur.now(pc, pc+2, false)
			case OpSplitJmp:
				cur.now(pc, pc+2, true)
				cur.now(pc, p.Code[pc+1], false)
			case OpJmp:
				cur.now(pc, p.Code[pc+1], false)
			default:
				if op < 0 {
					panic(fmt.Sprintf("pike: invalid opcode %d at pc %d", op, pc))
				}
				if rune(op) == r {
					cur.later(pc, pc+1, next)
				}
			}
		}
		cur.clear()
		queued, next = next, queued
		if pos == to {
			break
		}
		if m.backward {
			pos -= w
		} else {
			pos += w
		}
	}
	return result, found
}

// runeAt returns the code point starting at pos, or ending at pos when
// backward is set, and its width. At the edges of input it returns -1.
func runeAt(input []byte, pos int, backward bool) (rune, int) {
	if backward {
		if pos <= 0 {
			return -1, 0
		}
		return utf8.DecodeLastRune(input[:pos])
	}
	if pos >= len(input) {
		return -1, 0
	}
	return utf8.DecodeRune(input[pos:])
}

// isWord reports whether r is an ASCII word character.
func isWord(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// result converts the captures of the thread at pc to offsets.
func (q *queue) result(pc int) []int {
	caps := make([]int, len(q.caps[pc]))
	for i, v := range q.caps[pc] {
		caps[i] = v - 1
	}
	return caps
}
