// Package nfa turns compiled pike programs into explicit state graphs for
// subset construction.
//
// The graph over-approximates the program: anchors, word boundaries,
// look-around and capture saves become epsilon edges, and wide classes
// become a single wildcard edge. A DFA built from it may report a pattern
// that the program rejects, never the reverse.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrInvalidState indicates an invalid NFA state ID was encountered
	ErrInvalidState = errors.New("invalid NFA state")

	// ErrInvalidProgram indicates the program contains an instruction the
	// builder cannot translate
	ErrInvalidProgram = errors.New("invalid program")

	// ErrTooComplex indicates the graph would exceed MaxStates
	ErrTooComplex = errors.New("pattern too complex")
)

// BuildError represents an error during NFA construction via the Builder API
// or FromProgram.
type BuildError struct {
	Message string
	StateID StateID
	// PC is the program counter being translated, or -1.
	PC  int
	Err error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	switch {
	case e.PC >= 0:
		return fmt.Sprintf("NFA build error at pc %d: %s", e.PC, e.Message)
	case e.StateID != InvalidState:
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}

// Unwrap returns the underlying error
func (e *BuildError) Unwrap() error {
	return e.Err
}

func stateError(id StateID, format string, args ...any) *BuildError {
	return &BuildError{
		Message: fmt.Sprintf(format, args...),
		StateID: id,
		PC:      -1,
		Err:     ErrInvalidState,
	}
}
