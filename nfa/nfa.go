package nfa

import (
	"fmt"
	"strings"
)

// StateID uniquely identifies an NFA state.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// Edge symbols. Code points are non-negative. Wildcard stands for any
// character and is kept as one unexpanded edge. Symbols at or below
// firstHookSymbol name hooks interned in a HookTable.
const (
	Wildcard        = -1
	firstHookSymbol = -2
)

// IsHook reports whether sym is a hook symbol.
func IsHook(sym int) bool {
	return sym <= firstHookSymbol
}

// Transition is an edge taken on any symbol in [Lo, Hi].
type Transition struct {
	Lo, Hi int
	Next   StateID
}

// Contains reports whether the transition covers sym.
func (t Transition) Contains(sym int) bool {
	return t.Lo <= sym && sym <= t.Hi
}

// State is a single NFA state: an accept flag, epsilon successors and
// labelled transitions.
type State struct {
	id      StateID
	accept  bool
	epsilon []StateID
	trans   []Transition
}

// ID returns the state's identifier
func (s *State) ID() StateID { return s.id }

// IsAccept reports whether reaching the state means the program matched.
func (s *State) IsAccept() bool { return s.accept }

// Epsilon returns the successors reached without consuming input.
func (s *State) Epsilon() []StateID { return s.epsilon }

// Transitions returns the labelled edges in insertion order.
func (s *State) Transitions() []Transition { return s.trans }

// NFA is an explicit state graph. It is immutable after Build and safe for
// concurrent use.
type NFA struct {
	states   []State
	start    StateID
	anchored bool
}

// Start returns the start state.
func (n *NFA) Start() StateID { return n.start }

// States returns the number of states.
func (n *NFA) States() int { return len(n.states) }

// State returns the state with the given ID, or nil when out of range.
func (n *NFA) State(id StateID) *State {
	if int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// IsAnchored reports whether the source program only matches at offset 0.
func (n *NFA) IsAnchored() bool { return n.anchored }

// Matches reports whether the NFA accepts the whole symbol string. A
// non-negative symbol also follows wildcard edges.
func (n *NFA) Matches(symbols []int) bool {
	cur := n.closure([]StateID{n.start})
	for _, sym := range symbols {
		var next []StateID
		for _, id := range cur {
			for _, t := range n.states[id].trans {
				if t.Contains(sym) || (sym >= 0 && t.Lo == Wildcard && t.Hi == Wildcard) {
					next = append(next, t.Next)
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		cur = n.closure(next)
	}
	for _, id := range cur {
		if n.states[id].accept {
			return true
		}
	}
	return false
}

func (n *NFA) closure(ids []StateID) []StateID {
	seen := make(map[StateID]bool, len(ids))
	out := make([]StateID, 0, len(ids))
	stack := append([]StateID(nil), ids...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		stack = append(stack, n.states[id].epsilon...)
	}
	return out
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NFA{states: %d, start: %d}\n", len(n.states), n.start)
	for i := range n.states {
		s := &n.states[i]
		fmt.Fprintf(&b, "  %d", s.id)
		if s.accept {
			b.WriteString(" accept")
		}
		for _, e := range s.epsilon {
			fmt.Fprintf(&b, " ε->%d", e)
		}
		for _, t := range s.trans {
			fmt.Fprintf(&b, " %s->%d", symbolRange(t.Lo, t.Hi), t.Next)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func symbolRange(lo, hi int) string {
	switch {
	case lo == Wildcard && hi == Wildcard:
		return "*"
	case IsHook(lo):
		return fmt.Sprintf("h%d", firstHookSymbol-lo)
	case lo == hi:
		return fmt.Sprintf("%q", rune(lo))
	}
	return fmt.Sprintf("%q-%q", rune(lo), rune(hi))
}
