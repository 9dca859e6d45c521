package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for common primitive types.
type Builtins struct {
	Invalid TypeID
	Unit    TypeID
	Bool    TypeID
	Int     TypeID
	String  TypeID
	Any     TypeID
}

type typeKey struct {
	kind Kind
	name string
}

// Interner provides stable TypeIDs by hashing structural descriptors.
type Interner struct {
	types    []Type
	lowering []Lowering
	index    map[typeKey]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in types.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 16),
	}
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Unit = in.Intern(Type{Kind: KindUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.String = in.Intern(Type{Kind: KindString})
	in.builtins.Any = in.Intern(Type{Kind: KindAny})
	return in
}

// Builtins returns TypeIDs for built-in types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern returns a stable TypeID for the descriptor, creating one on
// first use.
func (in *Interner) Intern(t Type) TypeID {
	key := typeKey{kind: t.Kind, name: t.Name}
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRaw(t)
	in.index[key] = id
	return id
}

// MakeBox interns a named heap-managed type.
func (in *Interner) MakeBox(name string) TypeID {
	return in.Intern(Type{Kind: KindBox, Name: name})
}

func (in *Interner) internRaw(t Type) TypeID {
	raw, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: type id overflow: %w", err))
	}
	in.types = append(in.types, t)
	in.lowering = append(in.lowering, loweringFor(t))
	return TypeID(raw)
}

// Lookup returns the descriptor for an interned TypeID.
func (in *Interner) Lookup(id TypeID) Type {
	if int(id) >= len(in.types) {
		return Type{Kind: KindInvalid}
	}
	return in.types[id]
}

// LoweringOf returns the lowering information for an interned TypeID.
// Unknown IDs lower as invalid (non-trivial, not address-only) so that
// misuse surfaces in the verifier instead of silently becoming trivial.
func (in *Interner) LoweringOf(id TypeID) Lowering {
	if int(id) >= len(in.lowering) {
		return Lowering{}
	}
	return in.lowering[id]
}

// String renders an interned type for diagnostics and IR dumps.
func (in *Interner) String(id TypeID) string {
	t := in.Lookup(id)
	if t.Kind == KindBox && t.Name != "" {
		return t.Name
	}
	return t.Kind.String()
}
