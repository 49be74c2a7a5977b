package multiregex

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig indicates an invalid Config.
	ErrInvalidConfig = errors.New("multiregex: invalid configuration")

	// ErrNoPatterns indicates a build without any successfully compiled
	// pattern. The returned Automaton is valid and never matches.
	ErrNoPatterns = errors.New("multiregex: no patterns")
)

// CompileError reports a pattern that failed to compile.
type CompileError struct {
	ID      int
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("pattern %d %q: %v", e.ID, e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError lists the patterns a build skipped. The automaton returned with
// it matches the remaining patterns.
type BuildError struct {
	Failures []*CompileError
}

func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "multiregex: %d pattern(s) failed to compile", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n\t")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap returns the individual failures, so errors.Is and errors.As see
// through to the underlying syntax or DFA errors.
func (e *BuildError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}
