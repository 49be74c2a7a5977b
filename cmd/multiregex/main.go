// Command multiregex compiles pattern sets, matches them against input and
// generates Go source embedding a compiled set.
//
// Usage:
//
//	multiregex compile [-set rules.yaml] [-e expr]... [-limit n] -o rules.mra
//	multiregex match   (-a rules.mra | -set rules.yaml | -e expr...) [file...]
//	multiregex gen     [-set rules.yaml] [-e expr]... -pkg rules -name Rules [-o rules_gen.go]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/coregx/multiregex"
	"github.com/coregx/multiregex/codegen"
	"github.com/coregx/multiregex/patternset"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

var errUsage = errors.New("usage")

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	cmd, args := args[0], args[1:]
	var err error
	switch cmd {
	case "compile":
		err = runCompile(args, stdout, stderr)
	case "match":
		err = runMatch(args, stdin, stdout, stderr)
	case "gen":
		err = runGen(args, stdout, stderr)
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "multiregex: unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "multiregex %s: %v\n", cmd, err)
		return 2
	default:
		fmt.Fprintf(stderr, "multiregex %s: %v\n", cmd, err)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `usage: multiregex <command> [flags]

commands:
  compile   compile patterns into a serialized automaton
  match     report the matches of patterns in files or stdin
  gen       generate Go source embedding compiled patterns

Run "multiregex <command> -h" for the flags of a command.
`)
}

// arrayFlags collects a repeatable string flag.
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

// source holds the flags that select and compile patterns.
type source struct {
	set         string
	exprs       arrayFlags
	limit       int
	noPrefilter bool
	verbose     bool
}

func (s *source) register(fs *flag.FlagSet) {
	fs.StringVar(&s.set, "set", "", "YAML pattern set")
	fs.Var(&s.exprs, "e", "pattern expression (repeatable); ids follow the set's entries")
	fs.IntVar(&s.limit, "limit", 0, "combined state limit (0: the set's or automatic)")
	fs.BoolVar(&s.noPrefilter, "no-prefilter", false, "disable literal prefilters")
	fs.BoolVar(&s.verbose, "v", false, "log build details")
}

func (s *source) given() bool {
	return s.set != "" || len(s.exprs) > 0
}

func (s *source) build(stderr io.Writer) (*multiregex.Automaton, []multiregex.Pattern, error) {
	level := slog.LevelWarn
	if s.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	cfg := multiregex.DefaultConfig().WithLogger(log)

	var patterns []multiregex.Pattern
	if s.set != "" {
		ps, err := patternset.Load(s.set)
		if err != nil {
			return nil, nil, err
		}
		cfg = ps.Config(cfg)
		patterns = ps.Entries()
	}
	for _, e := range s.exprs {
		patterns = append(patterns, multiregex.Pattern{ID: len(patterns), Expr: e})
	}
	if len(patterns) == 0 {
		return nil, nil, fmt.Errorf("%w: no patterns (use -set or -e)", errUsage)
	}
	if s.limit != 0 {
		cfg = cfg.WithStateLimit(s.limit)
	}
	if s.noPrefilter {
		cfg = cfg.WithPrefilter(false)
	}
	a, err := multiregex.Build(cfg, patterns)
	if err != nil {
		return nil, nil, err
	}
	return a, patterns, nil
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("multiregex "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func runCompile(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("compile", stderr)
	var src source
	src.register(fs)
	out := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("%w: -o is required", errUsage)
	}
	a, _, err := src.build(stderr)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	n, err := a.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d bytes, %s\n", *out, n, a.Stats())
	return nil
}

func runMatch(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("match", stderr)
	var src source
	src.register(fs)
	load := fs.String("a", "", "serialized automaton")
	groups := fs.Bool("groups", false, "print capture group offsets")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var a *multiregex.Automaton
	var err error
	switch {
	case *load != "" && src.given():
		return fmt.Errorf("%w: -a excludes -set and -e", errUsage)
	case *load != "":
		a, err = multiregex.LoadFile(*load)
	default:
		a, _, err = src.build(stderr)
	}
	if err != nil {
		return err
	}

	if fs.NArg() == 0 {
		input, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		report(stdout, "", a, input, *groups)
		return nil
	}
	for _, name := range fs.Args() {
		input, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		prefix := ""
		if fs.NArg() > 1 {
			prefix = name + ":"
		}
		report(stdout, prefix, a, input, *groups)
	}
	return nil
}

// report prints one line per match: id, start, end and the quoted text.
func report(w io.Writer, prefix string, a *multiregex.Automaton, input []byte, groups bool) {
	for _, m := range a.FindAll(input, nil) {
		start, end := m.Starts[0], m.Ends[0]
		fmt.Fprintf(w, "%s%d\t%d\t%d\t%s", prefix, m.ID, start, end, strconv.Quote(string(input[start:end])))
		if groups {
			for g := 1; g < len(m.Starts); g++ {
				fmt.Fprintf(w, "\t%d:%d-%d", g, m.Starts[g], m.Ends[g])
			}
		}
		fmt.Fprintln(w)
	}
}

func runGen(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("gen", stderr)
	var src source
	src.register(fs)
	pkg := fs.String("pkg", "main", "package of the generated file")
	name := fs.String("name", "Patterns", "exported variable holding the automaton")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	a, patterns, err := src.build(stderr)
	if err != nil {
		return err
	}
	cfg := codegen.Config{Package: *pkg, Name: *name, Patterns: patterns, Source: src.set}
	if *out == "" {
		return codegen.Write(stdout, a, cfg)
	}
	return codegen.Save(*out, a, cfg)
}
