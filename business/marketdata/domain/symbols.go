package domain

// SymbolTable translates between canonical pairs and one venue's native
// symbols. Tables are fixed at construction; an unknown symbol is data the
// venue sent that we do not trade, not an error.
type SymbolTable struct {
	venue       string
	toVenue     map[Pair]string
	toCanonical map[string]Pair
}

// NewSymbolTable builds a table from canonical pair strings ("BTC/USD") to
// venue symbols. Panics on an unparsable pair: the mappings are compiled-in
// constants, not runtime input.
func NewSymbolTable(venue string, canonicalToVenue map[string]string) SymbolTable {
	t := SymbolTable{
		venue:       venue,
		toVenue:     make(map[Pair]string, len(canonicalToVenue)),
		toCanonical: make(map[string]Pair, len(canonicalToVenue)),
	}
	for canonical, symbol := range canonicalToVenue {
		pair := MustParsePair(canonical)
		t.toVenue[pair] = symbol
		t.toCanonical[symbol] = pair
	}
	return t
}

// Venue returns the venue this table belongs to.
func (t SymbolTable) Venue() string {
	return t.venue
}

// VenueSymbol returns the venue's symbol for a canonical pair.
func (t SymbolTable) VenueSymbol(p Pair) (string, bool) {
	s, ok := t.toVenue[p]
	return s, ok
}

// Canonical returns the canonical pair for a venue symbol.
func (t SymbolTable) Canonical(symbol string) (Pair, bool) {
	p, ok := t.toCanonical[symbol]
	return p, ok
}

// Pairs returns the canonical pairs the table covers, unordered.
func (t SymbolTable) Pairs() []Pair {
	out := make([]Pair, 0, len(t.toVenue))
	for p := range t.toVenue {
		out = append(out, p)
	}
	return out
}
