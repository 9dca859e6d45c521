// Package sir defines the Sable IR: an SSA-form low-level representation
// produced by IR generation.
//
// Instructions are a closed tagged union (Kind plus per-kind payload),
// blocks end in a terminator, and every value carries the ownership kind
// the emitter assigned to it.
package sir

type FuncID int32
type BlockID int32

// ValueID identifies a value within a function. Zero is the invalid
// sentinel; slot 0 of the value table is reserved.
type ValueID uint32

const (
	NoFuncID  FuncID  = -1
	NoBlockID BlockID = -1
	NoValueID ValueID = 0
)

// IsValid returns true if the ID is valid.
func (id FuncID) IsValid() bool  { return id != NoFuncID }
func (id BlockID) IsValid() bool { return id != NoBlockID }
func (id ValueID) IsValid() bool { return id != NoValueID }
