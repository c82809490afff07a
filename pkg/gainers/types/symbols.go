package types

// SymbolMap maps company name to ticker, keeping first-insertion order.
// It only grows; nothing removes entries.
type SymbolMap struct {
	names   []string
	tickers map[string]string
}

func NewSymbolMap() *SymbolMap {
	return &SymbolMap{tickers: make(map[string]string)}
}

// Put records a company; a repeated name keeps its position and takes the new ticker.
func (m *SymbolMap) Put(s Symbol) {
	if _, ok := m.tickers[s.CompanyName]; !ok {
		m.names = append(m.names, s.CompanyName)
	}
	m.tickers[s.CompanyName] = s.Ticker
}

// Merge adds every symbol in order and reports how many names were new.
func (m *SymbolMap) Merge(syms []Symbol) int {
	before := len(m.names)
	for _, s := range syms {
		m.Put(s)
	}
	return len(m.names) - before
}

func (m *SymbolMap) Len() int { return len(m.names) }

// Names returns the company names in order.
func (m *SymbolMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Values returns the tickers in the same order as Names.
func (m *SymbolMap) Values() []string {
	out := make([]string, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, m.tickers[n])
	}
	return out
}

// Ticker looks up a company name.
func (m *SymbolMap) Ticker(name string) (string, bool) {
	t, ok := m.tickers[name]
	return t, ok
}

// At returns the symbol at index i of the ordered view.
func (m *SymbolMap) At(i int) (Symbol, bool) {
	if i < 0 || i >= len(m.names) {
		return Symbol{}, false
	}
	n := m.names[i]
	return Symbol{Ticker: m.tickers[n], CompanyName: n}, true
}

// Symbols returns the ordered entries.
func (m *SymbolMap) Symbols() []Symbol {
	out := make([]Symbol, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, Symbol{Ticker: m.tickers[n], CompanyName: n})
	}
	return out
}
