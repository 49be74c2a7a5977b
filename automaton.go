package multiregex

import (
	"fmt"
	"slices"

	"github.com/coregx/multiregex/dfa/multi"
	"github.com/coregx/multiregex/nfa"
	"github.com/coregx/multiregex/pike"
	"github.com/coregx/multiregex/prefilter"
)

// Automaton is a compiled pattern set. Internally patterns are numbered by
// the order they were compiled in; callbacks receive the caller's IDs.
//
// An Automaton is immutable and safe for concurrent use.
type Automaton struct {
	ids    []int
	tables *multi.Tables
	// dfaStates is the total number of per-pattern DFA states; raw ids are
	// below it.
	dfaStates  int
	vms        []*pike.Program
	hooks      *nfa.HookTable
	prefilters []prefilter.Prefilter
}

// Stats describes the size of an Automaton.
type Stats struct {
	Patterns  int
	DFAStates int
	States    int
	Pending   int
	Retained  int
	Hooks     int
}

func (s Stats) String() string {
	return fmt.Sprintf("patterns=%d dfa_states=%d states=%d pending=%d retained=%d hooks=%d",
		s.Patterns, s.DFAStates, s.States, s.Pending, s.Retained, s.Hooks)
}

// Len returns the number of patterns.
func (a *Automaton) Len() int { return len(a.ids) }

// IDs returns the caller IDs in compile order.
func (a *Automaton) IDs() []int { return slices.Clone(a.ids) }

// Stats returns the automaton's size figures.
func (a *Automaton) Stats() Stats {
	return Stats{
		Patterns:  len(a.ids),
		DFAStates: a.dfaStates,
		States:    a.tables.StateCount(),
		Pending:   len(a.tables.Pending),
		Retained:  len(a.tables.Raw),
		Hooks:     a.hooks.Len(),
	}
}

// Match is one confirmed match. Starts and Ends hold byte offsets per
// capture group, group 0 first; -1 marks a group that did not take part.
type Match struct {
	ID     int
	Starts []int
	Ends   []int
}

// FindAll runs both phases over input and returns every reported match,
// grouped by pattern in candidate discovery order.
func (a *Automaton) FindAll(input []byte, hook HookFunc) []Match {
	var out []Match
	cb := Funcs{OnHitInfo: func(id int, starts, ends []int) {
		out = append(out, Match{ID: id, Starts: slices.Clone(starts), Ends: slices.Clone(ends)})
	}}
	NewMatcher(a, input, cb, hook).Find()
	return out
}

// validate checks the cross references a loaded automaton relies on.
func (a *Automaton) validate() error {
	if len(a.vms) != len(a.ids) {
		return fmt.Errorf("%d programs for %d patterns", len(a.vms), len(a.ids))
	}
	if err := a.tables.Validate(); err != nil {
		return err
	}
	pattern := func(p int) bool { return p >= 0 && p < len(a.ids) }
	hook := func(edges []int) error {
		h := multi.HookEdges(edges)
		for i := 0; i < len(h); i += 3 {
			if _, ok := a.hooks.Lookup(h[i]); !ok || h[i] != h[i+1] {
				return fmt.Errorf("unknown hook symbol %d", h[i])
			}
		}
		return nil
	}
	for s, rec := range a.tables.Combined {
		for _, p := range multi.Hits(rec) {
			if !pattern(p) {
				return fmt.Errorf("state %d: hit %d out of range", s, p)
			}
		}
		if err := hook(multi.Edges(rec)); err != nil {
			return fmt.Errorf("state %d: %w", s, err)
		}
	}
	for _, rec := range a.tables.Raw {
		if p := multi.RawAccept(rec); p != -1 && !pattern(p) {
			return fmt.Errorf("raw state %d: accept %d out of range", multi.RawID(rec), p)
		}
		if multi.RawID(rec) < 0 || multi.RawID(rec) >= a.dfaStates {
			return fmt.Errorf("raw state %d out of range", multi.RawID(rec))
		}
		if err := hook(multi.RawEdges(rec)); err != nil {
			return fmt.Errorf("raw state %d: %w", multi.RawID(rec), err)
		}
	}
	return nil
}
