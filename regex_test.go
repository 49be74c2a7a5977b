package multiregex

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/coregx/multiregex/dfa"
	"github.com/coregx/multiregex/dfa/multi"
	"github.com/coregx/multiregex/syntax"
)

// spans returns the group 0 bounds of each match as "id:start-end".
func spans(ms []Match) []string {
	var out []string
	for _, m := range ms {
		out = append(out, fmt.Sprintf("%d:%d-%d", m.ID, m.Starts[0], m.Ends[0]))
	}
	return out
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		input    string
		want     []string
	}{
		{"alternation", []string{"abc|abd"}, "xxabdyy", []string{"0:2-5"}},
		{"int range", []string{"<190-205>年"}, "192年", []string{"0:0-6"}},
		{"int range above", []string{"<190-205>年"}, "210年", nil},
		{"anchored", []string{"^[0-9]*"}, "123abc", []string{"0:0-3"}},
		{"anchored no match", []string{"^abc"}, "xabc", nil},
		{"several patterns", []string{"b+", "a"}, "abba", []string{"1:0-1", "1:3-4", "0:1-3"}},
		{"empty matches", []string{"x*"}, "ab", []string{"0:0-0", "0:1-1", "0:2-2"}},
		{"empty matches step by rune", []string{"x*"}, "é", []string{"0:0-0", "0:2-2"}},
		{"plain string", []string{"needle"}, "hayneedlehayneedle", []string{"0:3-9", "0:12-18"}},
		{"no candidates", []string{"abc", "d+e"}, "xyz", nil},
		{"lookahead", []string{"foo(?=bar)"}, "foobaz foobar", []string{"0:7-10"}},
		{"lookbehind", []string{"(?<=a)(b|c){2,5}?"}, "abcbx", []string{"0:1-3"}},
		{"word boundary", []string{`\bcat\b`}, "concat cat", []string{"0:7-10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Compile(0, tt.patterns...)
			assert.NilError(t, err)
			if diff := cmp.Diff(tt.want, spans(a.FindAll([]byte(tt.input), nil))); diff != "" {
				t.Errorf("FindAll(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

// TestAgreesWithStdlib compares leftmost-first matches with regexp on the
// common syntax.
func TestAgreesWithStdlib(t *testing.T) {
	patterns := []string{
		`\d+`,
		`[a-z]+@[a-z]+\.[a-z]+`,
		`foo|foobar`,
		`a{2,3}`,
		`(ab)+c?`,
		`x[^y]*y`,
		`[A-Z][a-z]*`,
		`abcd|bc`,
	}
	inputs := []string{
		"",
		"foobar and foo",
		"mail bob@example.com now",
		"aaaaaaa",
		"abababc ab",
		"xxyx-zy Hello World 123 45",
		"xabcd",
	}
	a, err := Compile(0, patterns...)
	assert.NilError(t, err)
	for _, in := range inputs {
		got := make(map[int][][]int)
		for _, m := range a.FindAll([]byte(in), nil) {
			got[m.ID] = append(got[m.ID], []int{m.Starts[0], m.Ends[0]})
		}
		for id, p := range patterns {
			want := regexp.MustCompile(p).FindAllStringIndex(in, -1)
			if diff := cmp.Diff(want, got[id]); diff != "" {
				t.Errorf("pattern %q on %q mismatch (-want +got):\n%s", p, in, diff)
			}
		}
	}
}

func TestCaptures(t *testing.T) {
	a := MustCompile(0, `(\d+)-(\d+)?x`, `(?:a)(b)`)
	got := a.FindAll([]byte("12-x 3-45x ab"), nil)
	want := []Match{
		{ID: 0, Starts: []int{0, 0, -1}, Ends: []int{4, 2, -1}},
		{ID: 0, Starts: []int{5, 5, 7}, Ends: []int{10, 6, 9}},
		{ID: 1, Starts: []int{11, 12}, Ends: []int{13, 13}},
	}
	assert.DeepEqual(t, want, got)
}

func TestBuildErrors(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig().WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	a, err := Build(cfg, []Pattern{
		{ID: 10, Expr: "ab+"},
		{ID: 11, Expr: "(ab"},
		{ID: 12, Expr: "<nope>"},
		{ID: 13, Expr: "c"},
	})
	assert.Assert(t, a != nil)
	var be *BuildError
	assert.Assert(t, errors.As(err, &be))
	assert.Equal(t, len(be.Failures), 2)
	assert.Equal(t, be.Failures[0].ID, 11)
	assert.Equal(t, be.Failures[1].ID, 12)
	assert.Assert(t, errors.Is(err, &syntax.Error{Code: syntax.ErrUnknownName}))
	var se *syntax.Error
	assert.Assert(t, errors.As(be.Failures[0], &se))
	assert.Assert(t, strings.Contains(err.Error(), "2 pattern(s) failed"))
	assert.Assert(t, strings.Contains(logs.String(), "pattern skipped"))

	assert.DeepEqual(t, a.IDs(), []int{10, 13})
	assert.DeepEqual(t, spans(a.FindAll([]byte("abbc"), nil)), []string{"10:0-3", "13:3-4"})
}

func TestBuildNoPatterns(t *testing.T) {
	a, err := Build(DefaultConfig(), nil)
	assert.Assert(t, errors.Is(err, ErrNoPatterns))
	assert.Equal(t, a.Len(), 0)
	assert.Equal(t, len(a.FindAll([]byte("anything"), nil)), 0)

	a, err = Build(DefaultConfig(), []Pattern{{Expr: "("}})
	var be *BuildError
	assert.Assert(t, errors.As(err, &be))
	assert.Equal(t, a.Len(), 0)
}

func TestInvalidConfig(t *testing.T) {
	_, err := Build(DefaultConfig().WithStateLimit(multi.MaxStateLimit+1), []Pattern{{Expr: "a"}})
	assert.Assert(t, errors.Is(err, ErrInvalidConfig))

	_, err = Build(DefaultConfig().WithDFA(dfa.DefaultConfig().WithMaxStates(0)), []Pattern{{Expr: "a"}})
	assert.Assert(t, errors.Is(err, ErrInvalidConfig))

	b := NewBuilder(Config{StateLimit: -1, DFA: dfa.Config{}})
	assert.Assert(t, errors.Is(b.Add(Pattern{Expr: "a"}), ErrInvalidConfig))
}

func TestDFAStateLimitSkipsPattern(t *testing.T) {
	cfg := DefaultConfig().WithDFA(dfa.DefaultConfig().WithMaxStates(4))
	a, err := Build(cfg, []Pattern{{ID: 1, Expr: "[ab]*a[ab]{4}"}, {ID: 2, Expr: "ok"}})
	var be *BuildError
	assert.Assert(t, errors.As(err, &be))
	assert.Assert(t, errors.Is(be.Failures[0], dfa.ErrStateLimitExceeded))
	assert.DeepEqual(t, a.IDs(), []int{2})
}

func TestNamedPatterns(t *testing.T) {
	lib := syntax.NewLibrary()
	a, err := Build(DefaultConfig().WithResolver(lib), []Pattern{
		{ID: 1, Name: "cat", Expr: "cat"},
		{ID: 2, Name: "dog", Expr: "dog"},
		{Name: "_s", Expr: "s?"},
		{ID: 3, Expr: "<all><_s>!"},
	})
	assert.NilError(t, err)
	assert.Equal(t, a.Len(), 3)
	assert.Equal(t, lib.Len(), 3)
	assert.DeepEqual(t, spans(a.FindAll([]byte("dogs! cat"), nil)), []string{
		"2:0-3", "3:0-5", "1:6-9",
	})
}

func TestBuilderProgrammatic(t *testing.T) {
	sb := syntax.NewBuilder(syntax.Options{})
	sb.Start(false)
	sb.AddString("id")
	sb.AddIntRange(1, 12)
	re, err := sb.Complete()
	assert.NilError(t, err)

	b := NewBuilder(DefaultConfig())
	assert.NilError(t, b.AddRegexp(5, re))
	assert.Equal(t, b.Len(), 1)
	a, err := b.Build()
	assert.NilError(t, err)
	assert.DeepEqual(t, spans(a.FindAll([]byte("id13 id07"), nil)), []string{"5:0-3", "5:5-9"})
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustCompile() did not panic on invalid pattern")
		}
	}()
	MustCompile(0, "(")
}
