package nfa

// Hook is the parameter pair of a \h{p1,p2} construct.
type Hook struct {
	P1, P2 int
}

// HookTable interns hook parameter pairs as edge symbols. The k-th distinct
// pair gets symbol -(2+k). One table is shared by every pattern of an
// automaton so that equal hooks share a symbol.
type HookTable struct {
	hooks []Hook
	index map[Hook]int
}

// NewHookTable returns an empty table.
func NewHookTable() *HookTable {
	return &HookTable{index: make(map[Hook]int)}
}

// HookTableOf rebuilds a table from pairs in symbol order.
func HookTableOf(hooks []Hook) *HookTable {
	t := NewHookTable()
	for _, h := range hooks {
		t.Symbol(h.P1, h.P2)
	}
	return t
}

// Symbol returns the symbol for (p1, p2), interning it on first use.
func (t *HookTable) Symbol(p1, p2 int) int {
	h := Hook{p1, p2}
	if k, ok := t.index[h]; ok {
		return firstHookSymbol - k
	}
	k := len(t.hooks)
	t.hooks = append(t.hooks, h)
	t.index[h] = k
	return firstHookSymbol - k
}

// Lookup returns the pair behind sym.
func (t *HookTable) Lookup(sym int) (Hook, bool) {
	k := firstHookSymbol - sym
	if k < 0 || k >= len(t.hooks) {
		return Hook{}, false
	}
	return t.hooks[k], true
}

// Len returns the number of interned pairs.
func (t *HookTable) Len() int { return len(t.hooks) }

// Hooks returns the pairs in symbol order. The slice must not be modified.
func (t *HookTable) Hooks() []Hook { return t.hooks }
