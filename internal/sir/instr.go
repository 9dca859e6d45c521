package sir

import (
	"sable/internal/source"
	"sable/internal/types"
)

// InstrKind enumerates instruction kinds in SIR.
type InstrKind uint8

const (
	// InstrNop represents a no-op instruction.
	InstrNop InstrKind = iota
	// InstrCopyValue duplicates a register value, producing a new +1 value.
	InstrCopyValue
	// InstrCopyAddr copies between two memory locations.
	InstrCopyAddr
	// InstrStore stores a register value into a memory location.
	InstrStore
	// InstrDestroyValue releases a +1 register value.
	InstrDestroyValue
	// InstrDestroyAddr releases the contents of a memory location.
	InstrDestroyAddr
	// InstrBeginBorrow begins a non-owning borrow of a register value.
	InstrBeginBorrow
	// InstrEndBorrow ends a borrow started by InstrBeginBorrow.
	InstrEndBorrow
	// InstrAllocTemp allocates uninitialized temporary storage.
	InstrAllocTemp
)

// String returns the mnemonic for the instruction kind.
func (k InstrKind) String() string {
	switch k {
	case InstrNop:
		return "nop"
	case InstrCopyValue:
		return "copy_value"
	case InstrCopyAddr:
		return "copy_addr"
	case InstrStore:
		return "store"
	case InstrDestroyValue:
		return "destroy_value"
	case InstrDestroyAddr:
		return "destroy_addr"
	case InstrBeginBorrow:
		return "begin_borrow"
	case InstrEndBorrow:
		return "end_borrow"
	case InstrAllocTemp:
		return "alloc_temp"
	default:
		return "?"
	}
}

// Instr represents a SIR instruction.
type Instr struct {
	Kind InstrKind
	Span source.Span

	CopyValue    CopyValueInstr
	CopyAddr     CopyAddrInstr
	Store        StoreInstr
	DestroyValue DestroyValueInstr
	DestroyAddr  DestroyAddrInstr
	BeginBorrow  BeginBorrowInstr
	EndBorrow    EndBorrowInstr
	AllocTemp    AllocTempInstr
}

// CopyValueInstr duplicates a register value.
type CopyValueInstr struct {
	Src    ValueID
	Result ValueID
}

// CopyAddrInstr copies the contents of one memory location into another.
// Take consumes the source (a move); Init treats the destination as
// uninitialized, otherwise the previous contents are destroyed first.
type CopyAddrInstr struct {
	Src  ValueID
	Dst  ValueID
	Take bool
	Init bool
}

// StoreMode distinguishes initializing from assigning stores.
type StoreMode uint8

const (
	// StoreInit treats the destination as uninitialized memory.
	StoreInit StoreMode = iota
	// StoreAssign destroys the destination's previous contents before
	// installing the new value.
	StoreAssign
)

// String returns the printed form of the store mode.
func (m StoreMode) String() string {
	switch m {
	case StoreInit:
		return "init"
	case StoreAssign:
		return "assign"
	default:
		return "?"
	}
}

// StoreInstr stores a register value into a memory location.
type StoreInstr struct {
	Src  ValueID
	Dst  ValueID
	Mode StoreMode
}

// DestroyValueInstr releases an owned register value.
type DestroyValueInstr struct {
	Value ValueID
}

// DestroyAddrInstr releases the contents of a memory location.
type DestroyAddrInstr struct {
	Addr ValueID
}

// BeginBorrowInstr begins a non-owning borrow of a register value.
type BeginBorrowInstr struct {
	Src    ValueID
	Result ValueID
}

// EndBorrowInstr ends a borrow. Borrowed is the begin_borrow result,
// Original the value it was borrowed from.
type EndBorrowInstr struct {
	Borrowed ValueID
	Original ValueID
}

// AllocTempInstr allocates uninitialized temporary storage for a value
// of the given type; Result is the address of the storage.
type AllocTempInstr struct {
	Type   types.TypeID
	Result ValueID
}
