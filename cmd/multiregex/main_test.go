package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestArrayFlags(t *testing.T) {
	var flags arrayFlags
	assert.Equal(t, flags.String(), "")
	assert.NilError(t, flags.Set("a+"))
	assert.NilError(t, flags.Set("b|c"))
	assert.Equal(t, flags.String(), "a+, b|c")
}

func runCmd(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestMatchExprs(t *testing.T) {
	code, out, stderr := runCmd(t, "xxabdyy 192年", "match", "-e", "abc|abd", "-e", "<190-205>年")
	assert.Equal(t, code, 0, stderr)
	assert.Equal(t, out, "0\t2\t5\t\"abd\"\n1\t8\t14\t\"192年\"\n")
}

func TestMatchGroups(t *testing.T) {
	code, out, _ := runCmd(t, "10-20", "match", "-groups", "-e", `(\d+)-(\d+)`)
	assert.Equal(t, code, 0)
	assert.Equal(t, out, "0\t0\t5\t\"10-20\"\t1:0-2\t2:3-5\n")
}

func TestCompileAndMatchFiles(t *testing.T) {
	dir := t.TempDir()
	set := filepath.Join(dir, "rules.yaml")
	assert.NilError(t, os.WriteFile(set, []byte(`
state_limit: 2
patterns:
  - {name: _d, expr: "[0-9]+"}
  - {id: 3, name: version, expr: "v<_d>\\.<_d>"}
  - {id: 4, expr: fatal}
`), 0o600))
	auto := filepath.Join(dir, "rules.mra")
	code, out, stderr := runCmd(t, "", "compile", "-set", set, "-o", auto)
	assert.Equal(t, code, 0, stderr)
	assert.Assert(t, strings.Contains(out, "patterns=2"), out)
	assert.Assert(t, strings.Contains(out, "states=2"), out)

	in1 := filepath.Join(dir, "a.log")
	in2 := filepath.Join(dir, "b.log")
	assert.NilError(t, os.WriteFile(in1, []byte("running v1.2"), 0o600))
	assert.NilError(t, os.WriteFile(in2, []byte("fatal"), 0o600))
	code, out, stderr = runCmd(t, "", "match", "-a", auto, in1, in2)
	assert.Equal(t, code, 0, stderr)
	assert.Equal(t, out, in1+":3\t8\t12\t\"v1.2\"\n"+in2+":4\t0\t5\t\"fatal\"\n")
}

func TestGen(t *testing.T) {
	code, out, stderr := runCmd(t, "", "gen", "-pkg", "rules", "-name", "Rules", "-e", "abc")
	assert.Equal(t, code, 0, stderr)
	assert.Assert(t, strings.Contains(out, "package rules"))
	assert.Assert(t, strings.Contains(out, "var Rules = multiregex.MustLoadBytes"))

	path := filepath.Join(t.TempDir(), "gen.go")
	code, _, stderr = runCmd(t, "", "gen", "-o", path, "-e", "abc")
	assert.Equal(t, code, 0, stderr)
	src, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Assert(t, bytes.Contains(src, []byte("package main")))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"no command", nil, 2, "usage:"},
		{"unknown command", []string{"frob"}, 2, `unknown command "frob"`},
		{"no patterns", []string{"match"}, 2, "no patterns"},
		{"missing output", []string{"compile", "-e", "a"}, 2, "-o is required"},
		{"bad flag", []string{"match", "-bogus"}, 1, "flag provided but not defined"},
		{"bad pattern", []string{"match", "-e", "(a"}, 1, "failed to compile"},
		{"exclusive sources", []string{"match", "-a", "x.mra", "-e", "a"}, 2, "-a excludes"},
		{"missing automaton", []string{"match", "-a", "/nonexistent/x.mra"}, 1, "no such file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCmd(t, "", tt.args...)
			assert.Equal(t, code, tt.code)
			assert.Assert(t, strings.Contains(stderr, tt.msg), stderr)
		})
	}
}

func TestHelp(t *testing.T) {
	code, out, _ := runCmd(t, "", "help")
	assert.Equal(t, code, 0)
	assert.Assert(t, strings.Contains(out, "commands:"))

	code, _, stderr := runCmd(t, "", "match", "-h")
	assert.Equal(t, code, 0)
	assert.Assert(t, strings.Contains(stderr, "-groups"))
}
