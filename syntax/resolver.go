package syntax

import "strings"

// Resolver looks up named patterns referenced with <name>, <all> and <_all>.
type Resolver interface {
	// Lookup returns the pattern registered under name.
	Lookup(name string) (*Regexp, bool)
	// LookupAll returns, in registration order, the patterns whose names
	// satisfy keep.
	LookupAll(keep func(name string) bool) []*Regexp
	// Register records re under name, replacing an earlier entry.
	Register(name string, re *Regexp)
}

// Library is an in-memory Resolver.
type Library struct {
	names  []string
	byName map[string]*Regexp
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{byName: make(map[string]*Regexp)}
}

func (l *Library) Lookup(name string) (*Regexp, bool) {
	re, ok := l.byName[name]
	return re, ok
}

func (l *Library) LookupAll(keep func(name string) bool) []*Regexp {
	var out []*Regexp
	for _, name := range l.names {
		if keep(name) {
			out = append(out, l.byName[name])
		}
	}
	return out
}

func (l *Library) Register(name string, re *Regexp) {
	if _, ok := l.byName[name]; !ok {
		l.names = append(l.names, name)
	}
	l.byName[name] = re
}

// Len returns the number of registered names.
func (l *Library) Len() int { return len(l.names) }

// Public reports whether name is visible to <all>. Names starting with '_'
// are private helpers.
func Public(name string) bool {
	return !strings.HasPrefix(name, "_")
}
