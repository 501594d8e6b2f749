package cpu

import (
	"iter"
	"slices"
)

// Symbol is a label and the word address it denotes.
type Symbol struct {
	Name    string
	Address uint16
}

// SymbolTable records the labels of a single assembly.
type SymbolTable struct {
	symbols []Symbol
	index   map[string]int
}

// Reset forgets all symbols.
func (st *SymbolTable) Reset() {
	st.symbols = st.symbols[:0]
	clear(st.index)
}

// Define records a new label at address.
func (st *SymbolTable) Define(name string, address uint16) (err error) {
	if _, ok := st.index[name]; ok {
		err = ErrLabelDuplicate
		return
	}

	if st.index == nil {
		st.index = make(map[string]int, 16)
	}
	st.index[name] = len(st.symbols)
	st.symbols = append(st.symbols, Symbol{Name: name, Address: address})

	return
}

// Relocate shifts every symbol whose address lies past the expansion point
// forward by delta words.
func (st *SymbolTable) Relocate(after uint16, delta int) {
	if delta == 0 {
		return
	}

	for n := range st.symbols {
		sym := &st.symbols[n]
		if sym.Address > after {
			sym.Address = uint16(int(sym.Address) + delta)
		}
	}
}

// Lookup returns the address of a label.
func (st *SymbolTable) Lookup(name string) (address uint16, ok bool) {
	n, ok := st.index[name]
	if ok {
		address = st.symbols[n].Address
	}
	return
}

// Len returns the number of defined symbols.
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// All iterates over the symbols in definition order.
func (st *SymbolTable) All() iter.Seq[Symbol] {
	return slices.Values(st.symbols)
}

// Map returns the symbols as a name to address map.
func (st *SymbolTable) Map() (labels map[string]uint16) {
	labels = make(map[string]uint16, len(st.symbols))
	for _, sym := range st.symbols {
		labels[sym.Name] = sym.Address
	}
	return
}
