// Package multiregex matches many regular expressions against one input in
// a single pass.
//
// Every pattern is compiled twice: to Pike VM bytecode, which finds exact
// match positions and capture groups, and to a minimized DFA. The DFAs are
// composed into one combined automaton of bounded size. Matching runs in two
// phases:
//   - Phase 1 scans the input once with the combined automaton and collects
//     the patterns that may match (never fewer than actually match)
//   - Phase 2 confirms each candidate with its VM and reports the matches
//
// Basic usage:
//
//	a, err := multiregex.Compile(0, `abc|abd`, `<190-205>年`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range a.FindAll([]byte("xxabdyy"), nil) {
//	    fmt.Println(m.ID, m.Starts[0], m.Ends[0]) // 0 2 5
//	}
//
// Streaming results through a callback:
//
//	m := multiregex.NewMatcher(a, input, multiregex.Funcs{
//	    OnHit:     func(id int) bool { return wanted[id] },
//	    OnHitInfo: func(id int, starts, ends []int) { ... },
//	}, nil)
//	m.Find()
//
// Beyond the usual regular expression syntax, patterns may contain integer
// ranges (<1-31>), references to named patterns (<name>, <all>, <_all>) and
// hooks (\h{p1,p2}) decided by a HookFunc at match time.
//
// An Automaton is immutable and safe for concurrent use. It can be written
// with WriteTo and loaded back with Load, LoadBytes or LoadFile.
package multiregex

import (
	"strconv"
)

// Build compiles patterns with cfg. Patterns that fail are skipped and
// listed in a *BuildError returned together with the automaton.
//
// Example:
//
//	a, err := multiregex.Build(multiregex.DefaultConfig(), []multiregex.Pattern{
//	    {ID: 1, Name: "_year", Expr: `<1900-2099>`},
//	    {ID: 2, Expr: `<_year>-<1-12>`},
//	})
func Build(cfg Config, patterns []Pattern) (*Automaton, error) {
	b := NewBuilder(cfg)
	for _, p := range patterns {
		if err := b.Add(p); err != nil && b.err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Compile compiles exprs with ids 0..len(exprs)-1 and the given combined
// state limit. A non-positive limit picks one from the pattern sizes.
func Compile(stateLimit int, exprs ...string) (*Automaton, error) {
	patterns := make([]Pattern, len(exprs))
	for i, expr := range exprs {
		patterns[i] = Pattern{ID: i, Expr: expr}
	}
	return Build(DefaultConfig().WithStateLimit(stateLimit), patterns)
}

// MustCompile is like Compile but panics if any pattern fails.
//
// Example:
//
//	var dates = multiregex.MustCompile(0, `<1-31>\.<1-12>\.`, `<1-12>/<1-31>/`)
func MustCompile(stateLimit int, exprs ...string) *Automaton {
	a, err := Compile(stateLimit, exprs...)
	if err != nil {
		panic("multiregex: Compile(" + strconv.Itoa(len(exprs)) + " patterns): " + err.Error())
	}
	return a
}
