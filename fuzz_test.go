package multiregex

import (
	"slices"
	"testing"
)

var seedPatterns = []string{
	"abc|abd", `a\d+b`, "^x*y", "(ab)+", "[^a-c]{2}", `\bfoo`, "<7-42>",
	"é.", "(?<=a)b", "a(?!b)", "colou?r", ".",
}

var seedInputs = []string{
	"", "abd", "a123b", "xxy", "ababab", "dd", "foo bar", "042", "éa", "ab", "ac", "colr",
}

// FuzzScan checks that the candidate scan never misses a pattern the VM
// matches, for a pattern paired with a fixed companion set.
func FuzzScan(f *testing.F) {
	for _, p := range seedPatterns {
		for _, in := range seedInputs {
			f.Add(p, in, 0)
		}
	}
	f.Fuzz(func(t *testing.T, pattern, input string, limit int) {
		if limit < 0 || limit > 64 {
			return
		}
		a, err := Compile(limit, pattern, "abc|abd", `\d+`)
		if err != nil {
			return
		}
		m := NewMatcher(a, []byte(input), nil, nil)
		m.Find()
		cands := m.Candidates()
		for i, vm := range a.vms {
			if vm.Match([]byte(input), 0, nil) && !slices.Contains(cands, a.ids[i]) {
				t.Errorf("pattern %d of [%q abc|abd \\d+] matches %q but is no candidate", a.ids[i], pattern, input)
			}
		}
	})
}
