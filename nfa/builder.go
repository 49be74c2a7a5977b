package nfa

// MaxStates bounds the size of a single graph.
const MaxStates = 1 << 22

// Builder constructs NFAs incrementally using a low-level API.
// FromProgram drives it; tests use it to build graphs by hand.
type Builder struct {
	states []State
	start  StateID
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
		start:  InvalidState,
	}
}

// AddState adds a state without edges and returns its ID
func (b *Builder) AddState() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, State{id: id})
	return id
}

// AddAccept adds an accepting state and returns its ID
func (b *Builder) AddAccept() StateID {
	id := b.AddState()
	b.states[id].accept = true
	return id
}

// AddEpsilon adds an edge from -> to that consumes no input.
func (b *Builder) AddEpsilon(from, to StateID) {
	s := &b.states[from]
	s.epsilon = append(s.epsilon, to)
}

// AddRange adds an edge from -> to on any code point in [lo, hi].
func (b *Builder) AddRange(from StateID, lo, hi int, to StateID) {
	s := &b.states[from]
	s.trans = append(s.trans, Transition{Lo: lo, Hi: hi, Next: to})
}

// AddWildcard adds an edge from -> to that any character may take.
func (b *Builder) AddWildcard(from, to StateID) {
	b.AddRange(from, Wildcard, Wildcard, to)
}

// AddSymbol adds an edge on a hook symbol.
func (b *Builder) AddSymbol(from StateID, sym int, to StateID) {
	b.AddRange(from, sym, sym, to)
}

// SetStart sets the start state
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed:
// - Start state is valid
// - All state references point to valid states
// - Ranges are ordered and symbols are not mixed with characters
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set", StateID: InvalidState, PC: -1}
	}
	if int(b.start) >= len(b.states) {
		return stateError(b.start, "start state out of bounds")
	}
	if len(b.states) > MaxStates {
		return &BuildError{Message: "too many states", StateID: InvalidState, PC: -1, Err: ErrTooComplex}
	}
	for i := range b.states {
		s := &b.states[i]
		for _, e := range s.epsilon {
			if int(e) >= len(b.states) {
				return stateError(s.id, "invalid epsilon target %d", e)
			}
		}
		for j, t := range s.trans {
			if int(t.Next) >= len(b.states) {
				return stateError(s.id, "invalid transition %d target %d", j, t.Next)
			}
			if t.Lo > t.Hi {
				return stateError(s.id, "transition %d has empty range [%d, %d]", j, t.Lo, t.Hi)
			}
			if t.Lo < 0 && t.Lo != t.Hi {
				return stateError(s.id, "transition %d spans symbols [%d, %d]", j, t.Lo, t.Hi)
			}
		}
	}
	return nil
}

// Build finalizes and returns the constructed NFA.
func (b *Builder) Build(opts ...BuildOption) (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	n := &NFA{
		states: b.states,
		start:  b.start,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// BuildOption is a functional option for configuring the built NFA
type BuildOption func(*NFA)

// WithAnchored marks the NFA as matching only at offset 0.
func WithAnchored(anchored bool) BuildOption {
	return func(n *NFA) {
		n.anchored = anchored
	}
}
