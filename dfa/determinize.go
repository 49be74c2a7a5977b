package dfa

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/coregx/multiregex/nfa"
)

// closures memoizes the epsilon closure of each NFA state.
type closures struct {
	n    *nfa.NFA
	memo [][]nfa.StateID
	seen []bool
}

func newClosures(n *nfa.NFA) *closures {
	return &closures{
		n:    n,
		memo: make([][]nfa.StateID, n.States()),
		seen: make([]bool, n.States()),
	}
}

// of returns the sorted closure of a single state. Epsilon cycles are
// handled by the visited set.
func (c *closures) of(id nfa.StateID) []nfa.StateID {
	if c.memo[id] != nil {
		return c.memo[id]
	}
	var out []nfa.StateID
	stack := []nfa.StateID{id}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c.seen[s] {
			continue
		}
		c.seen[s] = true
		out = append(out, s)
		stack = append(stack, c.n.State(s).Epsilon()...)
	}
	for _, s := range out {
		c.seen[s] = false
	}
	slices.Sort(out)
	c.memo[id] = out
	return out
}

// union returns the sorted, duplicate-free closure of ids.
func (c *closures) union(ids []nfa.StateID) []nfa.StateID {
	var out []nfa.StateID
	for _, id := range ids {
		out = append(out, c.of(id)...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// setKey encodes a sorted id set as a map key.
func setKey[T ~uint32 | ~int](ids []T) string {
	buf := make([]byte, 0, len(ids)*2)
	for _, id := range ids {
		buf = binary.AppendUvarint(buf, uint64(id))
	}
	return string(buf)
}

// Determinize runs subset construction over n. The result is complete for
// the reachable symbol sets, in breadth-first order from the root, with ids
// starting at zero. Accepting states are labelled with pattern.
func Determinize(n *nfa.NFA, pattern int, cfg Config) (*DFA, error) {
	if n == nil || n.States() == 0 {
		return nil, ErrEmptyInput
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := newClosures(n)
	d := &DFA{Pattern: pattern}
	var sets [][]nfa.StateID
	index := make(map[string]int)
	add := func(set []nfa.StateID) int {
		k := setKey(set)
		if id, ok := index[k]; ok {
			return id
		}
		id := len(sets)
		index[k] = id
		sets = append(sets, set)
		accept := -1
		for _, s := range set {
			if n.State(s).IsAccept() {
				accept = pattern
				break
			}
		}
		d.States = append(d.States, State{ID: id, Accept: accept})
		return id
	}
	add(c.of(n.Start()))

	var lo, hi []int
	var next []nfa.StateID
	for i := 0; i < len(sets); i++ {
		if len(sets) > cfg.MaxStates {
			return nil, &Error{
				Kind:    StateLimitExceeded,
				Message: fmt.Sprintf("more than %d states", cfg.MaxStates),
			}
		}
		lo, hi, next = lo[:0], hi[:0], next[:0]
		for _, s := range sets[i] {
			for _, t := range n.State(s).Transitions() {
				lo = append(lo, t.Lo)
				hi = append(hi, t.Hi)
				next = append(next, t.Next)
			}
		}
		var trans []Transition
		targets := make([]nfa.StateID, 0, 4)
		for _, span := range Cover(lo, hi) {
			targets = targets[:0]
			for _, k := range span.From {
				targets = append(targets, next[k])
			}
			id := add(c.union(targets))
			trans = append(trans, Transition{span.Lo, span.Hi, id})
		}
		d.States[i].Trans = Compact(trans)
	}
	return d, nil
}
