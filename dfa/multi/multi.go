// Package multi composes per-pattern DFAs into one bounded automaton.
//
// Composition is subset construction over raw states: a combined state is a
// set of raw per-pattern DFA state ids, and its edges are the minimal
// covering intervals of its members' edges. Once StateLimit combined states
// exist, every newly discovered set becomes a pending state instead. A
// pending state keeps only its raw ids; the raw states reachable from them
// are retained verbatim so a scanner can step them one by one.
//
// Record layouts, all flat []int:
//
//	combined[s] = [hitCount, hit..., (lo, hi, dest)...]
//	pending[k]  = [rawID...]           // combined id StateCount()+k
//	raw[i]      = [rawID, accept, (lo, hi, dest)...]   // sorted by rawID
//
// dest in a combined record is a combined id, possibly pending; dest in a
// raw record is a raw id. Hits are internal pattern indexes in ascending
// order; accept is a pattern index or -1.
package multi

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sort"

	"github.com/coregx/multiregex/dfa"
)

// MaxStateLimit bounds Config.StateLimit.
const MaxStateLimit = 1 << 24

// Config configures composition.
type Config struct {
	// StateLimit is the maximum number of combined states. Zero or a
	// negative value means twice the total number of raw states.
	StateLimit int
}

// DefaultConfig returns a configuration with the automatic state limit.
func DefaultConfig() Config {
	return Config{}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StateLimit > MaxStateLimit {
		return &dfa.Error{
			Kind:    dfa.InvalidConfig,
			Message: fmt.Sprintf("StateLimit must be <= %d", MaxStateLimit),
		}
	}
	return nil
}

// WithStateLimit returns a new config with the specified state limit
func (c Config) WithStateLimit(limit int) Config {
	c.StateLimit = limit
	return c
}

// Tables is the composed automaton. It is immutable after Compose and safe
// for concurrent use.
type Tables struct {
	Combined [][]int
	Pending  [][]int
	Raw      [][]int
}

// StateCount returns the number of combined states. Pending ids start here.
func (t *Tables) StateCount() int { return len(t.Combined) }

// Compose builds the combined automaton of dfas. Raw ids must be globally
// unique, which holds when each DFA is based past the previous one.
func Compose(dfas []*dfa.DFA, cfg Config) (*Tables, error) {
	if len(dfas) == 0 {
		return nil, dfa.ErrEmptyInput
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := newComposer(dfas)
	limit := cfg.StateLimit
	if limit <= 0 {
		limit = 2 * c.total
	}
	limit = max(limit, 1)

	roots := make([]int, 0, len(dfas))
	for _, d := range dfas {
		roots = append(roots, d.Root())
	}
	slices.Sort(roots)
	roots = slices.Compact(roots)

	t := &Tables{}
	var sets [][]int
	index := make(map[string]int)
	pendingIndex := make(map[string]int)
	lookup := func(set []int) int {
		k := key(set)
		if id, ok := index[k]; ok {
			return id
		}
		if p, ok := pendingIndex[k]; ok {
			return limit + p
		}
		if len(sets) < limit {
			id := len(sets)
			index[k] = id
			sets = append(sets, set)
			return id
		}
		p := len(t.Pending)
		pendingIndex[k] = p
		t.Pending = append(t.Pending, set)
		return limit + p
	}
	lookup(roots)

	var lo, hi, next []int
	for i := 0; i < len(sets); i++ {
		lo, hi, next = lo[:0], hi[:0], next[:0]
		var hits []int
		for _, id := range sets[i] {
			s := c.state(id)
			if s.Accept >= 0 {
				hits = append(hits, s.Accept)
			}
			for _, tr := range s.Trans {
				lo = append(lo, tr.Lo)
				hi = append(hi, tr.Hi)
				next = append(next, tr.Next)
			}
		}
		slices.Sort(hits)
		hits = slices.Compact(hits)

		var trans []dfa.Transition
		for _, span := range dfa.Cover(lo, hi) {
			target := make([]int, 0, len(span.From))
			for _, k := range span.From {
				target = append(target, next[k])
			}
			slices.Sort(target)
			target = slices.Compact(target)
			trans = append(trans, dfa.Transition{Lo: span.Lo, Hi: span.Hi, Next: lookup(target)})
		}
		trans = dfa.Compact(trans)

		rec := make([]int, 0, 1+len(hits)+3*len(trans))
		rec = append(rec, len(hits))
		rec = append(rec, hits...)
		for _, tr := range trans {
			rec = append(rec, tr.Lo, tr.Hi, tr.Next)
		}
		t.Combined = append(t.Combined, rec)
	}
	t.Raw = c.retain(t.Pending)
	return t, nil
}

type composer struct {
	dfas  []*dfa.DFA
	total int
}

func newComposer(dfas []*dfa.DFA) *composer {
	sorted := slices.Clone(dfas)
	slices.SortFunc(sorted, func(a, b *dfa.DFA) int { return a.Base - b.Base })
	c := &composer{dfas: sorted}
	for _, d := range sorted {
		c.total += d.Len()
	}
	return c
}

// state resolves a raw id.
func (c *composer) state(id int) *dfa.State {
	i := sort.Search(len(c.dfas), func(i int) bool {
		return c.dfas[i].Base+c.dfas[i].Len() > id
	})
	if i == len(c.dfas) {
		return nil
	}
	return c.dfas[i].State(id)
}

// retain returns the raw records of every state reachable from the pending
// sets, sorted by id.
func (c *composer) retain(pending [][]int) [][]int {
	seen := make(map[int]bool)
	var stack, ids []int
	for _, set := range pending {
		stack = append(stack, set...)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		for _, tr := range c.state(id).Trans {
			stack = append(stack, tr.Next)
		}
	}
	slices.Sort(ids)
	raw := make([][]int, len(ids))
	for i, id := range ids {
		s := c.state(id)
		rec := make([]int, 0, 2+3*len(s.Trans))
		rec = append(rec, id, s.Accept)
		for _, tr := range s.Trans {
			rec = append(rec, tr.Lo, tr.Hi, tr.Next)
		}
		raw[i] = rec
	}
	return raw
}

func key(set []int) string {
	buf := make([]byte, 0, len(set)*3)
	for _, id := range set {
		buf = binary.AppendUvarint(buf, uint64(id))
	}
	return string(buf)
}

func errorf(format string, args ...any) error {
	return &dfa.Error{Kind: dfa.InvalidState, Message: fmt.Sprintf(format, args...)}
}
