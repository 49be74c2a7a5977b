package multiregex

import (
	"log/slog"
	"slices"

	"github.com/coregx/multiregex/dfa"
	"github.com/coregx/multiregex/dfa/multi"
	"github.com/coregx/multiregex/nfa"
	"github.com/coregx/multiregex/pike"
	"github.com/coregx/multiregex/prefilter"
	"github.com/coregx/multiregex/syntax"
)

// Pattern is one entry of a pattern set.
type Pattern struct {
	// ID is reported to callbacks. IDs need not be unique or dense.
	ID int
	// Name registers the pattern for <name> references by later patterns.
	// A name starting with '_' declares a private helper: it is compiled
	// without captures, registered, and not matched on its own.
	Name string
	Expr string
}

// Builder compiles patterns one at a time and composes them into an
// Automaton. A failing pattern is recorded and skipped; the others still
// build.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	cfg   Config
	err   error
	log   *slog.Logger
	lib   syntax.Resolver
	hooks *nfa.HookTable

	ids  []int
	vms  []*pike.Program
	dfas []*dfa.DFA
	base int
	errs []*CompileError
}

// NewBuilder returns a builder for cfg. An invalid cfg is reported by every
// later call.
func NewBuilder(cfg Config) *Builder {
	b := &Builder{
		cfg:   cfg,
		err:   cfg.Validate(),
		log:   cfg.logger(),
		lib:   cfg.Resolver,
		hooks: nfa.NewHookTable(),
	}
	if b.lib == nil {
		b.lib = syntax.NewLibrary()
	}
	return b
}

// Add parses and compiles p. It returns a *CompileError when p fails; the
// failure is also kept for Errors and Build.
func (b *Builder) Add(p Pattern) error {
	if b.err != nil {
		return b.err
	}
	private := p.Name != "" && !syntax.Public(p.Name)
	re, err := syntax.Parse(p.Expr, syntax.Options{
		Name:      p.Name,
		NoCapture: private,
		Resolver:  b.lib,
	})
	if err != nil {
		return b.fail(p.ID, p.Expr, err)
	}
	if private {
		b.log.Debug("registered helper pattern", "name", p.Name)
		return nil
	}
	return b.add(p.ID, p.Expr, re)
}

// AddRegexp compiles an expression assembled with syntax.Builder.
func (b *Builder) AddRegexp(id int, re *syntax.Regexp) error {
	if b.err != nil {
		return b.err
	}
	return b.add(id, re.Pattern, re)
}

func (b *Builder) add(id int, expr string, re *syntax.Regexp) error {
	prog, err := pike.Compile(re)
	if err != nil {
		return b.fail(id, expr, err)
	}
	idx := len(b.ids)
	var d *dfa.DFA
	if s, ok := prog.PlainString(); ok {
		d = dfa.Literal(s, idx, b.base)
	} else {
		n, err := nfa.FromProgram(prog, b.hooks)
		if err != nil {
			return b.fail(id, expr, err)
		}
		d, err = dfa.Build(n, idx, b.base, b.cfg.DFA)
		if err != nil {
			return b.fail(id, expr, err)
		}
	}
	b.ids = append(b.ids, id)
	b.vms = append(b.vms, prog)
	b.dfas = append(b.dfas, d)
	b.base += d.Len()
	b.log.Debug("compiled pattern", "id", id, "code", len(prog.Code), "dfa_states", d.Len())
	return nil
}

func (b *Builder) fail(id int, expr string, err error) error {
	ce := &CompileError{ID: id, Pattern: expr, Err: err}
	b.errs = append(b.errs, ce)
	b.log.Warn("pattern skipped", "id", id, "pattern", expr, "error", err)
	return ce
}

// Errors returns the failures recorded so far.
func (b *Builder) Errors() []*CompileError {
	return slices.Clone(b.errs)
}

// Len returns the number of patterns compiled so far.
func (b *Builder) Len() int {
	return len(b.ids)
}

// Build composes the compiled patterns. When some patterns failed, the
// automaton is returned together with a *BuildError. Without any compiled
// pattern the automaton never matches.
func (b *Builder) Build() (*Automaton, error) {
	if b.err != nil {
		return nil, b.err
	}
	a := &Automaton{
		ids:       slices.Clone(b.ids),
		vms:       slices.Clone(b.vms),
		hooks:     nfa.HookTableOf(slices.Clone(b.hooks.Hooks())),
		dfaStates: b.base,
	}
	if len(b.dfas) == 0 {
		a.tables = &multi.Tables{Combined: [][]int{{0}}}
	} else {
		t, err := multi.Compose(b.dfas, multi.Config{StateLimit: b.cfg.StateLimit})
		if err != nil {
			return nil, err
		}
		a.tables = t
	}
	if b.cfg.Prefilter {
		a.prefilters = buildPrefilters(a.vms)
	}
	b.log.Info("built automaton",
		"patterns", len(a.ids),
		"failed", len(b.errs),
		"dfa_states", a.dfaStates,
		"states", a.tables.StateCount(),
		"pending", len(a.tables.Pending),
		"retained", len(a.tables.Raw),
		"hooks", a.hooks.Len())

	switch {
	case len(b.errs) > 0:
		return a, &BuildError{Failures: b.Errors()}
	case len(a.ids) == 0:
		return a, ErrNoPatterns
	}
	return a, nil
}

func buildPrefilters(vms []*pike.Program) []prefilter.Prefilter {
	pfs := make([]prefilter.Prefilter, len(vms))
	for i, vm := range vms {
		pfs[i] = prefilter.New(vm)
	}
	return pfs
}
