// Package patternset reads and writes pattern libraries as YAML.
//
// A pattern set lists the patterns of one automaton together with build
// options:
//
//	state_limit: 4096
//	patterns:
//	  - name: _year
//	    expr: <1900-2099>
//	  - id: 1
//	    name: date
//	    expr: <_year>-<1-12>-<1-31>
//	  - id: 2
//	    expr: (error|warning):\s
//
// Entries without an id get their position in the list. Names starting with
// '_' declare helpers that other entries reference with <name>.
package patternset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/coregx/multiregex"
)

// ErrInvalid indicates a pattern set that decodes but cannot be built.
var ErrInvalid = errors.New("patternset: invalid pattern set")

// Set is a decoded pattern set.
type Set struct {
	StateLimit int     `yaml:"state_limit,omitempty"`
	Prefilter  *bool   `yaml:"prefilter,omitempty"`
	Patterns   []Entry `yaml:"patterns"`
}

// Entry is one pattern. ID is optional.
type Entry struct {
	ID   *int   `yaml:"id,omitempty"`
	Name string `yaml:"name,omitempty"`
	Expr string `yaml:"expr"`
}

// Parse decodes data. Unknown keys are errors.
func Parse(data []byte) (*Set, error) {
	var s Set
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("patternset: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and decodes the file at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks that every entry has an expression and that names are
// unique.
func (s *Set) Validate() error {
	if len(s.Patterns) == 0 {
		return fmt.Errorf("%w: no patterns", ErrInvalid)
	}
	names := make(map[string]int)
	for i, e := range s.Patterns {
		if e.Expr == "" {
			return fmt.Errorf("%w: entry %d: empty expr", ErrInvalid, i)
		}
		if e.Name == "" {
			continue
		}
		if j, ok := names[e.Name]; ok {
			return fmt.Errorf("%w: entry %d: name %q already used by entry %d", ErrInvalid, i, e.Name, j)
		}
		names[e.Name] = i
	}
	return nil
}

// Marshal encodes s.
func (s *Set) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Config applies the set's options to base.
func (s *Set) Config(base multiregex.Config) multiregex.Config {
	if s.StateLimit != 0 {
		base = base.WithStateLimit(s.StateLimit)
	}
	if s.Prefilter != nil {
		base = base.WithPrefilter(*s.Prefilter)
	}
	return base
}

// Entries returns the builder input of s.
func (s *Set) Entries() []multiregex.Pattern {
	out := make([]multiregex.Pattern, len(s.Patterns))
	for i, e := range s.Patterns {
		id := i
		if e.ID != nil {
			id = *e.ID
		}
		out[i] = multiregex.Pattern{ID: id, Name: e.Name, Expr: e.Expr}
	}
	return out
}

// Build compiles s with base adjusted by the set's options.
func (s *Set) Build(base multiregex.Config) (*multiregex.Automaton, error) {
	return multiregex.Build(s.Config(base), s.Entries())
}
