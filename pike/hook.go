package pike

import "fmt"

// Hook outcome codes returned by a HookFunc.
const (
	// HookContinue keeps the hook open for the next code point.
	HookContinue = 0
	// HookDone closes the hook and lets the thread continue past it.
	HookDone = 1
	// HookDoneContinue lets the thread continue and keeps the hook open.
	HookDoneContinue = 2
)

// HookFunc decides a hook step. args holds the two hook parameters, the
// offset where the hook started and the offset of the code point being
// consumed. Any code other than the Hook* constants fails the hook.
type HookFunc func(args [4]int) int

// pending is the state of one hook or integer range in a run: the
// parameters and one accumulator per open instance. Hooks accumulate their
// start offset, integer ranges the value read so far.
type pending struct {
	intRange bool
	p1, p2   int
	values   []int
}

// hooks maps the pc of a HOOK_PROC or CHECK_RANGE instruction to its state.
type hooks struct {
	fn    HookFunc
	state map[int]*pending
}

func (h *hooks) open(pc int, intRange bool, p1, p2, value int) {
	if h.state == nil {
		h.state = make(map[int]*pending)
	}
	st := h.state[pc]
	if st == nil {
		st = &pending{intRange: intRange, p1: p1, p2: p2}
		h.state[pc] = st
	} else if st.intRange != intRange || st.p1 != p1 || st.p2 != p2 {
		panic(fmt.Sprintf("pike: hook at pc %d reopened with (%d, %d), have (%d, %d)", pc, p1, p2, st.p1, st.p2))
	}
	st.values = append(st.values, value)
}

// step feeds the code point r at pos to every open instance at pc and
// reports whether any instance wants more input and whether any finished.
func (h *hooks) step(pc, pos int, r rune) (more, done bool) {
	st := h.state[pc]
	if st == nil {
		return false, false
	}
	if r < 0 {
		delete(h.state, pc)
		return false, false
	}
	kept := st.values[:0]
	for _, v := range st.values {
		var code int
		code, v = h.advance(st, v, pos, r)
		switch code {
		case HookContinue:
			more = true
			kept = append(kept, v)
		case HookDone:
			done = true
		case HookDoneContinue:
			more, done = true, true
			kept = append(kept, v)
		}
	}
	st.values = kept
	if len(kept) == 0 {
		delete(h.state, pc)
	}
	return more, done
}

// late handles an instance opened after the thread at pc already stepped
// in this position: the instance consumes r on its own and joins the open
// ones only if it wants more input.
func (h *hooks) late(pc int, intRange bool, p1, p2, value, pos int, r rune) (more, done bool) {
	if r < 0 {
		return false, false
	}
	st := &pending{intRange: intRange, p1: p1, p2: p2}
	code, v := h.advance(st, value, pos, r)
	more = code == HookContinue || code == HookDoneContinue
	done = code == HookDone || code == HookDoneContinue
	if more {
		h.open(pc, intRange, p1, p2, v)
	}
	return more, done
}

func (h *hooks) advance(st *pending, v, pos int, r rune) (int, int) {
	switch {
	case st.intRange:
		return rangeStep(st.p1, st.p2, v, r)
	case h.fn != nil:
		return h.fn([4]int{st.p1, st.p2, v, pos}), v
	}
	return -1, v
}

// rangeStep appends digit r to v. Leading zeros are accepted.
func rangeStep(lo, hi, v int, r rune) (int, int) {
	if r < '0' || r > '9' {
		return -1, v
	}
	if v > (hi-int(r-'0'))/10 {
		return -1, v
	}
	v = v*10 + int(r-'0')
	switch {
	case v < lo:
		return HookContinue, v
	case v < hi:
		return HookDoneContinue, v
	case v == hi:
		return HookDone, v
	}
	return -1, v
}
