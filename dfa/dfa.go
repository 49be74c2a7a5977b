// Package dfa determinizes pattern NFAs and minimizes the result.
//
// A DFA runs over symbols, not characters: the wildcard (nfa.Wildcard) and
// hook symbols are letters of their own. At match time a character c
// follows both the edge covering c and the wildcard edge, so a scanner has
// to track a set of states. Matches implements that reading; Accepts is the
// plain deterministic walk over symbols.
//
// State ids of a DFA are contiguous from Base. The root is always Base.
package dfa

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/multiregex/nfa"
)

// Transition is an edge on any symbol in [Lo, Hi].
type Transition struct {
	Lo, Hi int
	Next   int
}

// State is a DFA state. Accept is the owning pattern index or -1.
// Transitions are sorted by Lo and do not overlap.
type State struct {
	ID     int
	Accept int
	Trans  []Transition
}

// DFA is the automaton of one pattern.
type DFA struct {
	Pattern int
	Base    int
	States  []State
}

// Root returns the id of the start state.
func (d *DFA) Root() int { return d.Base }

// Len returns the number of states.
func (d *DFA) Len() int { return len(d.States) }

// State returns the state with the given id, or nil.
func (d *DFA) State(id int) *State {
	i := id - d.Base
	if i < 0 || i >= len(d.States) {
		return nil
	}
	return &d.States[i]
}

// Step returns the successor of state id on sym, or -1.
func (d *DFA) Step(id, sym int) int {
	s := d.State(id)
	if s == nil {
		return -1
	}
	return Lookup(s.Trans, sym)
}

// Lookup finds the transition covering sym in a sorted transition list and
// returns its target, or -1.
func Lookup(trans []Transition, sym int) int {
	i := sort.Search(len(trans), func(i int) bool { return trans[i].Hi >= sym })
	if i < len(trans) && trans[i].Lo <= sym {
		return trans[i].Next
	}
	return -1
}

// Accepts walks the symbols deterministically and reports whether the
// final state accepts.
func (d *DFA) Accepts(symbols []int) bool {
	id := d.Root()
	for _, sym := range symbols {
		if id = d.Step(id, sym); id < 0 {
			return false
		}
	}
	return d.State(id).Accept >= 0
}

// Matches reports whether the whole symbol string is accepted when every
// character also follows wildcard edges.
func (d *DFA) Matches(symbols []int) bool {
	cur := map[int]bool{d.Root(): true}
	for _, sym := range symbols {
		next := make(map[int]bool)
		for id := range cur {
			if t := d.Step(id, sym); t >= 0 {
				next[t] = true
			}
			if sym >= 0 {
				if t := d.Step(id, nfa.Wildcard); t >= 0 {
					next[t] = true
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		cur = next
	}
	for id := range cur {
		if d.State(id).Accept >= 0 {
			return true
		}
	}
	return false
}

// Rebase returns a copy of d whose ids start at base.
func (d *DFA) Rebase(base int) *DFA {
	out := &DFA{Pattern: d.Pattern, Base: base, States: make([]State, len(d.States))}
	shift := base - d.Base
	for i, s := range d.States {
		trans := make([]Transition, len(s.Trans))
		for j, t := range s.Trans {
			trans[j] = Transition{t.Lo, t.Hi, t.Next + shift}
		}
		out.States[i] = State{ID: s.ID + shift, Accept: s.Accept, Trans: trans}
	}
	return out
}

// Validate checks that every transition targets a state of d and that
// transitions are sorted and disjoint.
func (d *DFA) Validate() error {
	if len(d.States) == 0 {
		return ErrEmptyInput
	}
	for i, s := range d.States {
		if s.ID != d.Base+i {
			return &Error{Kind: InvalidState, Message: fmt.Sprintf("state %d has id %d", d.Base+i, s.ID)}
		}
		for j, t := range s.Trans {
			if t.Lo > t.Hi || (j > 0 && s.Trans[j-1].Hi >= t.Lo) {
				return &Error{Kind: InvalidState, Message: fmt.Sprintf("state %d: transitions out of order", s.ID)}
			}
			if d.State(t.Next) == nil {
				return &Error{Kind: InvalidState, Message: fmt.Sprintf("state %d: target %d out of range", s.ID, t.Next)}
			}
		}
	}
	return nil
}

// String returns a human-readable representation of the DFA
func (d *DFA) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "DFA{pattern: %d, base: %d, states: %d}\n", d.Pattern, d.Base, len(d.States))
	for _, s := range d.States {
		fmt.Fprintf(&b, "  %d", s.ID)
		if s.Accept >= 0 {
			fmt.Fprintf(&b, " accept(%d)", s.Accept)
		}
		for _, t := range s.Trans {
			fmt.Fprintf(&b, " %s->%d", symbols(t.Lo, t.Hi), t.Next)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func symbols(lo, hi int) string {
	switch {
	case lo == nfa.Wildcard:
		return "*"
	case nfa.IsHook(lo):
		return fmt.Sprintf("h%d", -2-lo)
	case lo == hi:
		return fmt.Sprintf("%q", rune(lo))
	}
	return fmt.Sprintf("%q-%q", rune(lo), rune(hi))
}

// reorder renumbers the states reachable from root in breadth-first order
// starting at base. Unreachable states are dropped.
func reorder(states []State, root, base, pattern int) *DFA {
	index := make(map[int]int, len(states))
	byID := make(map[int]*State, len(states))
	for i := range states {
		byID[states[i].ID] = &states[i]
	}
	order := []int{root}
	index[root] = base
	for i := 0; i < len(order); i++ {
		for _, t := range byID[order[i]].Trans {
			if _, ok := index[t.Next]; !ok {
				index[t.Next] = base + len(order)
				order = append(order, t.Next)
			}
		}
	}
	out := &DFA{Pattern: pattern, Base: base, States: make([]State, len(order))}
	for i, id := range order {
		s := byID[id]
		trans := make([]Transition, len(s.Trans))
		for j, t := range s.Trans {
			trans[j] = Transition{t.Lo, t.Hi, index[t.Next]}
		}
		out.States[i] = State{ID: base + i, Accept: s.Accept, Trans: trans}
	}
	return out
}
