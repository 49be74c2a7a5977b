package patternset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/coregx/multiregex"
)

const sample = `
state_limit: 16
patterns:
  - name: _year
    expr: <1900-2099>
  - id: 1
    name: date
    expr: <_year>-<1-12>-<1-31>;
  - id: 2
    expr: "(error|warning): "
  - expr: plain
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	assert.NilError(t, err)
	assert.Equal(t, s.StateLimit, 16)
	assert.Assert(t, s.Prefilter == nil)

	want := []multiregex.Pattern{
		{ID: 0, Name: "_year", Expr: "<1900-2099>"},
		{ID: 1, Name: "date", Expr: "<_year>-<1-12>-<1-31>;"},
		{ID: 2, Expr: "(error|warning): "},
		{ID: 3, Expr: "plain"},
	}
	if diff := cmp.Diff(want, s.Entries()); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}
	cfg := s.Config(multiregex.DefaultConfig())
	assert.Equal(t, cfg.StateLimit, 16)
	assert.Assert(t, cfg.Prefilter)
}

func TestBuild(t *testing.T) {
	s, err := Parse([]byte(sample))
	assert.NilError(t, err)
	a, err := s.Build(multiregex.DefaultConfig())
	assert.NilError(t, err)
	assert.DeepEqual(t, a.IDs(), []int{1, 2, 3})

	var ids []int
	for _, m := range a.FindAll([]byte("warning: 2024-2-29; plain"), nil) {
		ids = append(ids, m.ID)
	}
	assert.DeepEqual(t, ids, []int{2, 1, 3})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{"unknown key", "patterns:\n  - expr: a\n    flags: i\n", false},
		{"bad yaml", "patterns: [", false},
		{"no patterns", "state_limit: 3\n", true},
		{"empty expr", "patterns:\n  - id: 1\n", true},
		{"duplicate name", "patterns:\n  - {name: a, expr: x}\n  - {name: a, expr: y}\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Assert(t, err != nil)
			assert.Equal(t, errors.Is(err, ErrInvalid), tt.invalid)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	off := false
	id := 9
	s := &Set{StateLimit: 5, Prefilter: &off, Patterns: []Entry{{ID: &id, Expr: "a+"}, {Name: "b", Expr: "b"}}}
	data, err := s.Marshal()
	assert.NilError(t, err)
	got, err := Parse(data)
	assert.NilError(t, err)
	assert.DeepEqual(t, s, got)
	assert.Assert(t, !got.Config(multiregex.DefaultConfig()).Prefilter)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.yaml")
	assert.NilError(t, os.WriteFile(path, []byte(sample), 0o600))
	s, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, len(s.Patterns), 4)

	assert.NilError(t, os.WriteFile(path, []byte("patterns: ["), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, path)
}
