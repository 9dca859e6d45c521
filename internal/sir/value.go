package sir

import (
	"sable/internal/types"
)

// Ownership enumerates the ownership kind the emitter assigned to a value.
type Ownership uint8

const (
	// OwnershipTrivial marks a value of a type with no ownership
	// semantics. Trivial values are never destroyed or borrowed.
	OwnershipTrivial Ownership = iota
	// OwnershipOwned marks a +1 register value; whoever holds it is
	// responsible for destroying it exactly once.
	OwnershipOwned
	// OwnershipGuaranteed marks a +0 register value borrowed from
	// somewhere else; it must not be destroyed and must not outlive
	// its source.
	OwnershipGuaranteed
	// OwnershipAddress marks a memory address. Addresses are not owned
	// at the register level; ownership of their contents is tracked
	// separately.
	OwnershipAddress
)

// String returns a human-readable representation of the ownership kind.
func (o Ownership) String() string {
	switch o {
	case OwnershipTrivial:
		return "trivial"
	case OwnershipOwned:
		return "owned"
	case OwnershipGuaranteed:
		return "guaranteed"
	case OwnershipAddress:
		return "address"
	default:
		return "?"
	}
}

// Value is an IR operand: a typed SSA value with an ownership kind.
// The zero Value is invalid.
type Value struct {
	ID        ValueID
	Type      types.TypeID
	Ownership Ownership
}

// IsValid returns true if the value refers to a real operand.
func (v Value) IsValid() bool { return v.ID.IsValid() }

// IsAddress returns true if the value denotes a memory location rather
// than a register-class operand.
func (v Value) IsAddress() bool { return v.Ownership == OwnershipAddress }

// ValueInfo is the per-value record stored in a function's value table.
type ValueInfo struct {
	Type      types.TypeID
	Ownership Ownership
	// Name is an optional hint used by the printer ("tmp", "borrow", a
	// parameter name). May be empty.
	Name string
}
