package pike

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExec(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    []int // nil means no match
	}{
		{"abc|abd", "xxabdyy", []int{2, 5}},
		{"abcd|bc", "xabcd", []int{1, 5}},
		{`(\b|(?:[^a])+(.|.))`, " 1b ", []int{0, 4, 0, 4, 3, 4}},
		{"abc", "ab", nil},
		{"", "xyz", []int{0, 0}},
		{"a+", "baaa", []int{1, 4}},
		{"a+?", "baaa", []int{1, 2}},
		{"a*", "baaa", []int{0, 0}},
		{"a{2,3}", "aaaa", []int{0, 3}},
		{"a{2,3}?", "aaaa", []int{0, 2}},
		{"a{2,}", "aaaaa", []int{0, 5}},
		{"a{3}", "aa", nil},
		{"(ab){2}", "ababab", []int{0, 4, 2, 4}},
		{"a(b|c)*d", "xabcbd", []int{1, 6, 4, 5}},
		{"(a)(b)?", "a", []int{0, 1, 0, 1, -1, -1}},
		{"(a|ab)(c|bcd)(d*)", "abcd", []int{0, 4, 0, 1, 1, 4, 4, 4}},
		{"^[0-9]*", "123abc", []int{0, 3}},
		{"^b", "ab", nil},
		{"a$", "aba", []int{2, 3}},
		{"a.c", "a\nc a\rc abc", []int{8, 11}},
		{`\bfoo\b`, "afoo foo", []int{5, 8}},
		{`\Bfoo`, "afoo", []int{1, 4}},
		{`foo\B`, "foo foox", []int{4, 7}},
		{`[0-9]+`, "ab123", []int{2, 5}},
		{"é+", "aéé", []int{1, 5}},
		{`\p{Greek}+`, "abγδ", []int{2, 6}},
		{"<190-205>年", "192年", []int{0, 6}},
		{"<190-205>年", "210年", nil},
		{"<190-205>年", "0192年", []int{0, 7}},
		{"x<5-300>y", "x301y", nil},
		{"x<5-300>y", "x300y", []int{0, 5}},
		{"x<5-300>y", "x4y", nil},
		{"x<5-300>y", "x5y", []int{0, 3}},
		{"foo(?=bar)", "foobaz foobar", []int{7, 10}},
		{"foo(?!bar)", "foobar foobaz", []int{7, 10}},
		{"(?<=ab)c", "xc abc", []int{5, 6}},
		{"(?<!a)c", "ac bc", []int{4, 5}},
		{"(?<=a|bc)d", "bcd", []int{2, 3}},
		{"(?<=a|bc)d", "xd", nil},
		{"(?<=é)x", "éx", []int{2, 3}},
		{"(?<=a+)b", "aab", []int{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			p := MustCompile(tt.pattern)
			got := p.Exec([]byte(tt.input), 0, nil)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Exec(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			if ok := p.Match([]byte(tt.input), 0, nil); ok != (tt.want != nil) {
				t.Errorf("Match(%q) = %v, want %v", tt.input, ok, tt.want != nil)
			}
		})
	}
}

func TestExecOffset(t *testing.T) {
	p := MustCompile("ab")
	input := []byte("ab ab")
	start, end, ok := p.Find(input, 1, nil)
	if !ok || start != 3 || end != 5 {
		t.Errorf("Find(at=1) = %d, %d, %v; want 3, 5, true", start, end, ok)
	}
	if _, _, ok := p.Find(input, 4, nil); ok {
		t.Error("Find(at=4) matched")
	}
	if p.Exec(input, 6, nil) != nil || p.Exec(input, -1, nil) != nil {
		t.Error("Exec accepted an offset outside the input")
	}

	// an anchored pattern matches at the start of input only
	anchored := MustCompile("^[0-9]+")
	if got := anchored.Exec([]byte("123abc"), 3, nil); got != nil {
		t.Errorf("Exec(^[0-9]+, at=3) = %v, want nil", got)
	}
}

func TestFullMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    bool
	}{
		{"a+", "aaa", true},
		{"a+", "aab", false},
		{"a+", "baa", false},
		{"a|ab", "ab", true},
		{"(?:ab)*", "", true},
		{"<10-20>", "15", true},
		{"<10-20>", "25", false},
	}
	for _, tt := range tests {
		if got := MustCompile(tt.pattern).FullMatch([]byte(tt.input), nil); got != tt.want {
			t.Errorf("FullMatch(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
		}
	}
}

func TestHooks(t *testing.T) {
	t.Run("done", func(t *testing.T) {
		var calls [][4]int
		hook := func(args [4]int) int {
			calls = append(calls, args)
			return HookDone
		}
		got := MustCompile(`a\h{0,0}c`).Exec([]byte("abc"), 0, hook)
		if diff := cmp.Diff([]int{0, 3}, got); diff != "" {
			t.Errorf("Exec mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([][4]int{{0, 0, 1, 1}}, calls); diff != "" {
			t.Errorf("hook calls mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil hook fails", func(t *testing.T) {
		if MustCompile(`a\h{0,0}c`).Match([]byte("abc"), 0, nil) {
			t.Error("matched without a hook")
		}
	})

	t.Run("consumes several code points", func(t *testing.T) {
		input := []byte("abbbc")
		hook := func(args [4]int) int {
			if input[args[3]] == 'b' {
				return HookDoneContinue
			}
			return -1
		}
		got := MustCompile(`a\h{7,8}c`).Exec(input, 0, hook)
		if diff := cmp.Diff([]int{0, 5}, got); diff != "" {
			t.Errorf("Exec mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("parameters", func(t *testing.T) {
		var seen [2]int
		hook := func(args [4]int) int {
			seen = [2]int{args[0], args[1]}
			return HookDone
		}
		MustCompile(`\h{3,}`).Exec([]byte("z"), 0, hook)
		if seen != [2]int{3, -1} {
			t.Errorf("hook saw parameters %v, want [3 -1]", seen)
		}
	})

	t.Run("no input left", func(t *testing.T) {
		called := false
		hook := func([4]int) int { called = true; return HookDone }
		if MustCompile(`a\h{1,2}`).Match([]byte("a"), 0, hook) || called {
			t.Errorf("hook at end of input: called = %v", called)
		}
	})
}

func TestHookReopenPanics(t *testing.T) {
	var h hooks
	h.open(5, false, 1, 2, 0)
	defer func() {
		if recover() == nil {
			t.Error("reopening a hook with other parameters did not panic")
		}
	}()
	h.open(5, false, 1, 3, 0)
}

func TestRangeStep(t *testing.T) {
	tests := []struct {
		lo, hi, v int
		r         rune
		code, out int
	}{
		{190, 205, 0, '1', HookContinue, 1},
		{190, 205, 19, '2', HookDoneContinue, 192},
		{190, 205, 20, '5', HookDone, 205},
		{190, 205, 21, '0', -1, 210},
		{190, 205, 19, 'x', -1, 19},
		{0, 5, 0, '0', HookDoneContinue, 0},
	}
	for _, tt := range tests {
		code, out := rangeStep(tt.lo, tt.hi, tt.v, tt.r)
		if code != tt.code || (code >= 0 && out != tt.out) {
			t.Errorf("rangeStep(%d, %d, %d, %q) = %d, %d; want %d, %d", tt.lo, tt.hi, tt.v, tt.r, code, out, tt.code, tt.out)
		}
	}
}

func TestIsWord(t *testing.T) {
	for _, r := range "azAZ09_" {
		if !isWord(r) {
			t.Errorf("isWord(%q) = false", r)
		}
	}
	for _, r := range []rune{' ', '-', 'é', -1} {
		if isWord(r) {
			t.Errorf("isWord(%q) = true", r)
		}
	}
}
