package multiregex

import (
	"bytes"
	"fmt"
	"io"

	"github.com/coregx/multiregex/dfa/multi"
	"github.com/coregx/multiregex/internal/binfmt"
	"github.com/coregx/multiregex/internal/mmap"
	"github.com/coregx/multiregex/nfa"
	"github.com/coregx/multiregex/pike"
)

// WriteTo serializes a. The layout is the header, the pattern ids, the
// per-pattern DFA state count, the retained raw states, the pending sets,
// the combined states, one program per pattern and the hook table.
func (a *Automaton) WriteTo(w io.Writer) (int64, error) {
	bw := binfmt.NewWriter(w)
	bw.Header()
	bw.Ints(a.ids)
	bw.Int(a.dfaStates)
	bw.Tables(a.tables.Raw)
	bw.Tables(a.tables.Pending)
	bw.Tables(a.tables.Combined)
	bw.Int(len(a.vms))
	for _, vm := range a.vms {
		vm.Encode(bw)
	}
	hooks := a.hooks.Hooks()
	bw.Int(len(hooks))
	for _, h := range hooks {
		bw.Int(h.P1)
		bw.Int(h.P2)
	}
	return bw.Flush()
}

// MarshalBinary returns the serialized form of a.
func (a *Automaton) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads an automaton written by WriteTo. A stream with another version
// number is accepted if it decodes. Prefilters are rebuilt from the
// programs.
func Load(r io.Reader) (*Automaton, error) {
	br := binfmt.NewReader(r)
	if _, err := br.Header(); err != nil {
		return nil, err
	}
	a := &Automaton{
		ids:       br.Ints(),
		dfaStates: br.Int(),
		tables:    &multi.Tables{},
	}
	a.tables.Raw = br.Tables()
	a.tables.Pending = br.Tables()
	a.tables.Combined = br.Tables()

	n := br.Len()
	for i := 0; i < n && br.Err() == nil; i++ {
		if vm := pike.Decode(br); vm != nil {
			a.vms = append(a.vms, vm)
		}
	}
	n = br.Len()
	var hooks []nfa.Hook
	for i := 0; i < n && br.Err() == nil; i++ {
		hooks = append(hooks, nfa.Hook{P1: br.Int(), P2: br.Int()})
	}
	if err := br.Err(); err != nil {
		return nil, err
	}
	a.hooks = nfa.HookTableOf(hooks)
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", binfmt.ErrMalformed, err)
	}
	a.prefilters = buildPrefilters(a.vms)
	return a, nil
}

// LoadBytes reads an automaton from data.
func LoadBytes(data []byte) (*Automaton, error) {
	return Load(bytes.NewReader(data))
}

// MustLoadBytes is like LoadBytes but panics on error. Generated code uses
// it to restore an embedded automaton.
func MustLoadBytes(data []byte) *Automaton {
	a, err := LoadBytes(data)
	if err != nil {
		panic("multiregex: LoadBytes: " + err.Error())
	}
	return a
}

// LoadFile reads an automaton from a file. The file is memory-mapped while
// decoding where the platform allows it.
func LoadFile(path string) (*Automaton, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadBytes(f.Bytes())
}
