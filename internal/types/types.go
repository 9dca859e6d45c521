// Package types provides the type interner and the per-type lowering
// information used during IR generation.
//
// The interner hands out stable TypeIDs. The lowering side answers the
// two questions code generation asks about every type: whether values of
// the type are trivial (no ownership semantics, nothing to release) and
// whether the type is address-only (values cannot be held in registers
// and must always live in addressable memory).
package types

// TypeID identifies an interned type.
type TypeID uint32

// NoTypeID indicates no type (zero is sentinel).
const NoTypeID TypeID = 0

// IsValid returns true if the ID is valid (non-zero).
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates type kinds.
type Kind uint8

const (
	// KindInvalid represents an invalid type.
	KindInvalid Kind = iota
	// KindUnit represents the unit type.
	KindUnit
	// KindBool represents the boolean type.
	KindBool
	// KindInt represents the integer type.
	KindInt
	// KindString represents the managed string type.
	KindString
	// KindBox represents a named heap-managed value (reference semantics,
	// register-sized handle, non-trivial destroy).
	KindBox
	// KindAny represents the opaque existential type. Values of KindAny
	// are address-only: they never fit a register and are manipulated
	// through memory.
	KindAny
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBox:
		return "box"
	case KindAny:
		return "any"
	default:
		return "?"
	}
}

// Type is a structural type descriptor.
type Type struct {
	Kind Kind
	// Name is the nominal name for KindBox types; empty otherwise.
	Name string
}

// Lowering describes how values of a type are represented during IR
// generation.
type Lowering struct {
	// Trivial types have no ownership semantics: copies are free and
	// there is nothing to release.
	Trivial bool
	// AddressOnly types cannot be held in registers; every value of the
	// type lives in addressable memory.
	AddressOnly bool
}

// loweringFor derives lowering information from a type descriptor.
func loweringFor(t Type) Lowering {
	switch t.Kind {
	case KindUnit, KindBool, KindInt:
		return Lowering{Trivial: true}
	case KindString, KindBox:
		return Lowering{}
	case KindAny:
		return Lowering{AddressOnly: true}
	default:
		return Lowering{}
	}
}
