package multiregex

import (
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/coregx/multiregex/dfa/multi"
	"github.com/coregx/multiregex/prefilter"
)

// recorder is a Callback that logs every call.
type recorder struct {
	calls []string
	deny  map[int]bool
}

func (r *recorder) Hit(id int) bool {
	r.calls = append(r.calls, fmt.Sprintf("hit %d", id))
	return !r.deny[id]
}

func (r *recorder) HitInfo(id int, starts, ends []int) {
	r.calls = append(r.calls, fmt.Sprintf("info %d %d-%d", id, starts[0], ends[0]))
}

func (r *recorder) HitEnd(id int) {
	r.calls = append(r.calls, fmt.Sprintf("end %d", id))
}

func TestCallbackProtocol(t *testing.T) {
	a := MustCompile(0, "a", "b")
	rec := &recorder{deny: map[int]bool{0: true}}
	m := NewMatcher(a, []byte("abab"), rec, nil)
	assert.Assert(t, m.Find())
	want := []string{
		"hit 0",
		"hit 1", "info 1 1-2", "info 1 3-4", "end 1",
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("callback calls mismatch (-want +got):\n%s", diff)
	}
}

func TestFindGatedStillReportsMatch(t *testing.T) {
	a := MustCompile(0, "a")
	m := NewMatcher(a, []byte("xa"), Funcs{OnHit: func(int) bool { return false }}, nil)
	assert.Assert(t, m.Find())
	m.Reset([]byte("xx"))
	assert.Assert(t, !m.Find())
	assert.Assert(t, NewMatcher(a, []byte("a"), nil, nil).Find())
}

func TestCandidates(t *testing.T) {
	a, err := Build(DefaultConfig(), []Pattern{{ID: 20, Expr: "b"}, {ID: 30, Expr: "a"}, {ID: 40, Expr: "zz"}})
	assert.NilError(t, err)
	m := NewMatcher(a, []byte("ab"), nil, nil)
	assert.Assert(t, m.Find())
	assert.DeepEqual(t, m.Candidates(), []int{30, 20})

	m.Reset([]byte("zzz"))
	assert.Equal(t, len(m.Candidates()), 0)
	assert.Assert(t, m.Find())
	assert.DeepEqual(t, m.Candidates(), []int{40})
}

// TestCandidatesOverApproximate shows a scan candidate the VM rejects: the
// scan ignores look-arounds.
func TestCandidatesOverApproximate(t *testing.T) {
	a := MustCompile(0, "foo(?=bar)")
	m := NewMatcher(a, []byte("foobaz"), nil, nil)
	assert.Assert(t, !m.Find())
	assert.DeepEqual(t, m.Candidates(), []int{0})
}

func TestSwitchTo(t *testing.T) {
	a := MustCompile(0, "abc")
	b := MustCompile(3, "x+", "y", "zz", "c")
	var got []int
	m := NewMatcher(a, []byte("abcxyc"), Funcs{OnHitEnd: func(id int) { got = append(got, id) }}, nil)
	assert.Assert(t, m.Find())
	m.SwitchTo(b)
	assert.Assert(t, m.Find())
	m.SwitchTo(a)
	m.Reset([]byte("ab"))
	assert.Assert(t, !m.Find())
	assert.DeepEqual(t, got, []int{0, 3, 0, 1})
}

func TestHooks(t *testing.T) {
	a := MustCompile(0, `a\h{0,0}c`)

	type call struct {
		kind HookKind
		id   int
		args [4]int
	}
	var calls []call
	hook := func(kind HookKind, id int, args [4]int) int {
		calls = append(calls, call{kind, id, args})
		return HookDone
	}
	assert.DeepEqual(t, spans(a.FindAll([]byte("abc"), hook)), []string{"0:0-3"})
	want := []call{
		{HookDFA, -1, [4]int{0, 0, 1, 1}},
		{HookVM, 0, [4]int{0, 0, 1, 1}},
	}
	if diff := cmp.Diff(want, calls, cmp.AllowUnexported(call{})); diff != "" {
		t.Errorf("hook calls mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, len(a.FindAll([]byte("abc"), nil)), 0)
	fail := func(HookKind, int, [4]int) int { return 7 }
	assert.Equal(t, len(a.FindAll([]byte("abc"), fail)), 0)
}

func TestHookSpansCodePoints(t *testing.T) {
	input := []byte("<ééé>")
	a := MustCompile(0, `\<\h{1,2}>`)
	hook := func(kind HookKind, id int, args [4]int) int {
		if input[args[3]] == '>' {
			return -1
		}
		return HookDoneContinue
	}
	assert.DeepEqual(t, spans(a.FindAll(input, hook)), []string{"0:0-8"})

	// A scan hook that never finishes hides the pattern from phase 2.
	block := func(kind HookKind, id int, args [4]int) int {
		if kind == HookDFA {
			return HookContinue
		}
		return hook(kind, id, args)
	}
	m := NewMatcher(a, input, nil, block)
	assert.Assert(t, !m.Find())
	assert.Equal(t, len(m.Candidates()), 0)
}

var corpus = []string{
	"abc|abd", "bd", "^xx", "y+z", "a.c", "(ab)+c", "zz?y", "c[a-c]{2}",
	`\d{2,}-\d`, "<10-250>", `(?<!a)b`, `\bword\b`, "é+", "[^abc]{3}",
	"x*", "colou?r", `[a-z]+@[a-z]+\.com`,
}

var inputs = []string{
	"", "xxabdyy", "abababc", "zzyabcab", "acbb", "axc", "cab", "yyyyz",
	"12-3 99-", "cbbd 251 249", "word, words", "ééé color colour",
	"me@host.com", "\n\r\t", "bb", "a\nc",
}

func TestStateLimitEquivalence(t *testing.T) {
	full, err := Compile(multi.MaxStateLimit, corpus...)
	assert.NilError(t, err)
	assert.Equal(t, full.Stats().Pending, 0)

	for _, limit := range []int{1, 2, 3, 7, 20} {
		a, err := Compile(limit, corpus...)
		assert.NilError(t, err)
		assert.Assert(t, a.Stats().States <= limit)
		if full.Stats().States > limit {
			assert.Assert(t, a.Stats().Pending > 0, "limit %d", limit)
		}
		for _, in := range inputs {
			want := full.FindAll([]byte(in), nil)
			got := a.FindAll([]byte(in), nil)
			if diff := cmp.Diff(sortByID(want), sortByID(got)); diff != "" {
				t.Errorf("limit %d input %q mismatch (-unbounded +limited):\n%s", limit, in, diff)
			}
		}
	}
}

func sortByID(ms []Match) []Match {
	out := slices.Clone(ms)
	slices.SortStableFunc(out, func(a, b Match) int { return a.ID - b.ID })
	return out
}

// TestScanNeverMisses checks phase 1 against each VM on its own.
func TestScanNeverMisses(t *testing.T) {
	for _, limit := range []int{0, 1, 4} {
		a, err := Compile(limit, corpus...)
		assert.NilError(t, err)
		for _, in := range inputs {
			m := NewMatcher(a, []byte(in), nil, nil)
			m.Find()
			cands := m.Candidates()
			for i, vm := range a.vms {
				if vm.Match([]byte(in), 0, nil) && !slices.Contains(cands, a.ids[i]) {
					t.Errorf("limit %d: pattern %q matches %q but is no candidate", limit, corpus[i], in)
				}
			}
		}
	}
}

func TestPrefilterEquivalence(t *testing.T) {
	patterns := []string{"needle", "error|warning|fatal", "ab|abc", "x", "hay"}
	with, err := Build(DefaultConfig(), patternsOf(patterns))
	assert.NilError(t, err)
	without, err := Build(DefaultConfig().WithPrefilter(false), patternsOf(patterns))
	assert.NilError(t, err)
	assert.Assert(t, with.prefilters != nil)
	assert.Assert(t, without.prefilters == nil)

	for _, in := range []string{
		"hayneedlehay", "a warning, an error, a fatal error", "abcab", "xxx", "",
	} {
		if diff := cmp.Diff(without.FindAll([]byte(in), nil), with.FindAll([]byte(in), nil)); diff != "" {
			t.Errorf("input %q mismatch (-vm +prefilter):\n%s", in, diff)
		}
	}
}

func TestRetiredPrefilter(t *testing.T) {
	a := MustCompile(0, "error|warning")
	input := []byte("an error, a warning, then nothing")
	m := NewMatcher(a, input, nil, nil)
	pf := m.trackers[0].Inner()
	_, ok := pf.(*prefilter.Literals)
	assert.Assert(t, ok)
	m.trackers[0] = prefilter.NewTrackerWithConfig(pf, prefilter.TrackerConfig{CheckInterval: 1, MinEfficiency: 2})

	assert.Assert(t, m.exec(0, 0, nil) != nil)
	assert.Assert(t, !m.trackers[0].IsActive())
	assert.DeepEqual(t, m.exec(0, 9, nil)[:2], []int{12, 19})
	assert.Assert(t, m.exec(0, 19, nil) == nil)
	assert.Assert(t, m.exec(0, len(input), nil) == nil)
}

func patternsOf(exprs []string) []Pattern {
	out := make([]Pattern, len(exprs))
	for i, e := range exprs {
		out[i] = Pattern{ID: i, Expr: e}
	}
	return out
}

func TestHookKindString(t *testing.T) {
	assert.Equal(t, HookDFA.String(), "DFA")
	assert.Equal(t, HookVM.String(), "VM")
	assert.Equal(t, HookKind(9).String(), "HookKind(9)")
}
