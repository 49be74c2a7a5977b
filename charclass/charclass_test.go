package charclass

import (
	"bytes"
	"testing"

	"github.com/coregx/multiregex/internal/binfmt"
	"github.com/google/go-cmp/cmp"
)

// TestParse_Matches tests membership for parsed bracket expressions
func TestParse_Matches(t *testing.T) {
	tests := []struct {
		class string
		in    string
		out   string
	}{
		{`[abc]`, "abc", "dA-"},
		{`[a-c]`, "abc", "d`"},
		{`[^a-c]`, "dz\n", "abc"},
		{`[a-z&&[^aeiou]]`, "bcz", "aeiou1"},
		{`[a[0-9]]`, "a05", "b"},
		{`[\d_]`, "09_", "a "},
		{`[\D]`, "a ", "5"},
		{`[\-\]]`, "-]", "a"},
		{`[a-]`, "a-", "b"},
		{`[-a]`, "a-", "b"},
		{`[\x41-\x43]`, "ABC", "D"},
		{`[α-γ]`, "αβγ", "δa"},
		{`[]`, "", "a]"},
		{`\w`, "aZ0_", "-é"},
		{`\S`, "a", " \t"},
	}
	for _, tt := range tests {
		t.Run(tt.class, func(t *testing.T) {
			m, end, err := Parse(tt.class, 0)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.class, err)
			}
			if end != len(tt.class) {
				t.Errorf("end = %d, want %d", end, len(tt.class))
			}
			for _, r := range tt.in {
				if !m.Matches(r) {
					t.Errorf("%s should match %q", tt.class, r)
				}
			}
			for _, r := range tt.out {
				if m.Matches(r) {
					t.Errorf("%s should not match %q", tt.class, r)
				}
			}
			if m.Matches(-1) {
				t.Errorf("%s must not match end of input", tt.class)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []string{`[abc`, `[z-a]`, `[\q]`, `[a-\d]`, `[\x]`}
	for _, class := range tests {
		if _, _, err := Parse(class, 0); err == nil {
			t.Errorf("Parse(%q): expected error", class)
		}
	}
}

func TestParse_NotAClass(t *testing.T) {
	m, end, err := Parse(`\n`, 0)
	if m != nil || err != nil || end != 0 {
		t.Errorf("Parse(`\\n`) = %v, %d, %v; want nil, 0, nil", m, end, err)
	}
}

func TestParseEscape(t *testing.T) {
	tests := []struct {
		in   string
		want rune
		end  int
		ok   bool
	}{
		{`n`, '\n', 1, true},
		{`t`, '\t', 1, true},
		{`e`, 0x1B, 1, true},
		{`0101`, 'A', 4, true},
		{`0777`, 077, 3, true},
		{`0`, 0, 1, true},
		{`x41`, 'A', 3, true},
		{`u00e9`, 'é', 5, true},
		{`x{1F600}`, 0x1F600, 8, true},
		{`.`, '.', 1, true},
		{`<`, '<', 1, true},
		{`\`, '\\', 1, true},
		{`d`, 0, 0, false},
		{`b`, 0, 0, false},
	}
	for _, tt := range tests {
		r, end, ok, err := ParseEscape(tt.in, 0)
		if err != nil {
			t.Errorf("ParseEscape(%q) error: %v", tt.in, err)
			continue
		}
		if ok != tt.ok || (ok && (r != tt.want || end != tt.end)) {
			t.Errorf("ParseEscape(%q) = %q, %d, %v; want %q, %d, %v", tt.in, r, end, ok, tt.want, tt.end, tt.ok)
		}
	}
	if _, _, _, err := ParseEscape(`a\`, 2); err == nil {
		t.Error("expected trailing backslash error")
	}
}

func TestMatcher_Representation(t *testing.T) {
	dense, _, err := Parse(`[a-z]`, 0)
	if err != nil {
		t.Fatal(err)
	}
	if dense.Kind() != KindBitset {
		t.Errorf("[a-z] kind = %v, want Bitset", dense.Kind())
	}
	sparse, _, err := Parse(`[a\x{4e00}\x{9fa5}]`, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sparse.Kind() != KindSparse {
		t.Errorf("kind = %v, want Sparse", sparse.Kind())
	}
	if !sparse.Matches(0x4e00) || sparse.Matches(0x4e01) {
		t.Error("sparse membership wrong")
	}
}

func TestMatcher_Edges(t *testing.T) {
	tests := []struct {
		name     string
		m        func() *Matcher
		want     []Interval
		wildcard bool
	}{
		{
			name: "positive bitset",
			m:    func() *Matcher { return NewBitset([]rune("abcx"), false) },
			want: []Interval{{'a', 'c'}, {'x', 'x'}},
		},
		{
			name:     "inverted small set",
			m:        func() *Matcher { return NewSparse([]rune("ab"), true) },
			wildcard: true,
		},
		{
			name:     "inverted unicode",
			m:        func() *Matcher { m, _ := NewUnicode("Greek", true); return m },
			wildcard: true,
		},
		{
			name: "empty",
			m:    func() *Matcher { return NewBitset(nil, false) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, wildcard := tt.m().Edges()
			if wildcard != tt.wildcard {
				t.Errorf("wildcard = %v, want %v", wildcard, tt.wildcard)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("edges mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatcher_EdgesLargeClass(t *testing.T) {
	var big []rune
	for r := rune(0x4e00); r <= 0x4e00+wildcardThreshold; r++ {
		big = append(big, r)
	}
	if _, wildcard := NewSparse(big, false).Edges(); !wildcard {
		t.Error("huge positive class should become a wildcard edge")
	}
	edges, wildcard := NewSparse(big, true).Edges()
	if wildcard {
		t.Fatal("huge inverted class should use complement ranges")
	}
	want := []Interval{{0, 0x4dff}, {0x4e00 + wildcardThreshold + 1, 0x10FFFF}}
	if diff := cmp.Diff(want, edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestUnicode(t *testing.T) {
	m, err := NewUnicode("Greek", false)
	if err != nil {
		t.Fatal(err)
	}
	if !m.Matches('λ') || m.Matches('a') {
		t.Error("Greek membership wrong")
	}
	if _, err := NewUnicode("NoSuchTable", false); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestEncodeDecode(t *testing.T) {
	greek, _ := NewUnicode("Greek", true)
	matchers := []*Matcher{
		NewBitset([]rune("az"), false),
		NewSparse([]rune{1, 0x4e00}, true),
		greek,
	}
	var buf bytes.Buffer
	w := binfmt.NewWriter(&buf)
	for _, m := range matchers {
		m.Encode(w)
	}
	if _, err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	r := binfmt.NewReader(&buf)
	for _, want := range matchers {
		got := Decode(r)
		if r.Err() != nil {
			t.Fatalf("decode failed: %v", r.Err())
		}
		if got.String() != want.String() || got.Kind() != want.Kind() {
			t.Errorf("decoded %s (%v), want %s (%v)", got, got.Kind(), want, want.Kind())
		}
	}
}
