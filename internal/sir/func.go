package sir

import (
	"sable/internal/source"
)

// Func is a single SIR function: a value table plus a block graph.
type Func struct {
	ID   FuncID
	Name string
	Span source.Span

	// Values is the value table; slot 0 is reserved for the invalid
	// sentinel.
	Values []ValueInfo
	// Params are the entry values of the function, in declaration order.
	Params []ValueID

	Entry  BlockID
	Blocks []Block
}

// Value reconstructs the operand handle for a value table entry.
// Unknown IDs return the zero (invalid) Value.
func (f *Func) Value(id ValueID) Value {
	if f == nil || !id.IsValid() || int(id) >= len(f.Values) {
		return Value{}
	}
	info := f.Values[id]
	return Value{ID: id, Type: info.Type, Ownership: info.Ownership}
}

// Module is a collection of SIR functions.
type Module struct {
	Funcs []*Func
}
