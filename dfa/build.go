package dfa

import "github.com/coregx/multiregex/nfa"

// Build runs the per-pattern pipeline: subset construction, dead-state
// pruning and, when enabled, minimization. State ids start at base.
func Build(n *nfa.NFA, pattern, base int, cfg Config) (*DFA, error) {
	d, err := Determinize(n, pattern, cfg)
	if err != nil {
		return nil, err
	}
	d = Prune(d)
	if cfg.Minimize {
		d = Minimize(d)
	}
	if base != 0 {
		d = d.Rebase(base)
	}
	return d, nil
}

// Literal returns the DFA of an unanchored plain string without going
// through an NFA: the root loops on the wildcard and a chain of states
// spells s. It is the same automaton Build produces for the compiled
// literal.
func Literal(s string, pattern, base int) *DFA {
	d := &DFA{Pattern: pattern, Base: base}
	for _, r := range s {
		id := base + len(d.States)
		var trans []Transition
		if id == base {
			trans = append(trans, Transition{nfa.Wildcard, nfa.Wildcard, base})
		}
		trans = append(trans, Transition{int(r), int(r), id + 1})
		d.States = append(d.States, State{ID: id, Accept: -1, Trans: trans})
	}
	last := State{ID: base + len(d.States), Accept: pattern, Trans: []Transition{}}
	if len(d.States) == 0 {
		last.Trans = append(last.Trans, Transition{nfa.Wildcard, nfa.Wildcard, base})
	}
	d.States = append(d.States, last)
	return d
}
