package sir

import (
	"fmt"

	"fortio.org/safecast"

	"sable/internal/source"
	"sable/internal/types"
)

// Builder appends instructions to a function at a current insertion
// point. The insertion point is invalid when no block is selected or the
// selected block is already terminated; emission into an invalid
// insertion point is silently dropped, mirroring how code after a
// terminator is unreachable.
type Builder struct {
	F   *Func
	cur BlockID
}

// NewBuilder creates a function with an entry block and positions the
// builder at its start.
func NewBuilder(name string, span source.Span) *Builder {
	b := &Builder{
		F: &Func{
			Name:   name,
			Span:   span,
			Values: []ValueInfo{{}}, // reserve 0 as invalid sentinel
		},
		cur: NoBlockID,
	}
	entry := b.NewBlock()
	b.F.Entry = entry
	b.cur = entry
	return b
}

// HasValidInsertionPoint reports whether instructions emitted now will
// land in a live block.
func (b *Builder) HasValidInsertionPoint() bool {
	blk := b.CurrentBlock()
	return blk != nil && !blk.Terminated()
}

// CurrentBlock returns the block at the insertion point, or nil.
func (b *Builder) CurrentBlock() *Block {
	if b == nil || b.F == nil || !b.cur.IsValid() {
		return nil
	}
	idx := int(b.cur)
	if idx < 0 || idx >= len(b.F.Blocks) {
		return nil
	}
	return &b.F.Blocks[idx]
}

// NewBlock appends an empty block to the function.
func (b *Builder) NewBlock() BlockID {
	raw, err := safecast.Conv[int32](len(b.F.Blocks))
	if err != nil {
		panic(fmt.Errorf("sir: block id overflow: %w", err))
	}
	id := BlockID(raw)
	b.F.Blocks = append(b.F.Blocks, Block{ID: id, Term: Terminator{Kind: TermNone}})
	return id
}

// StartBlock moves the insertion point to the start of the given block.
func (b *Builder) StartBlock(id BlockID) {
	b.cur = id
}

// ClearInsertionPoint invalidates the insertion point. Subsequent
// emission is dropped until StartBlock selects a live block.
func (b *Builder) ClearInsertionPoint() {
	b.cur = NoBlockID
}

// SetTerm terminates the current block. No-op if the insertion point is
// invalid or the block is already terminated.
func (b *Builder) SetTerm(t *Terminator) {
	blk := b.CurrentBlock()
	if blk == nil || blk.Terminated() || t == nil {
		return
	}
	blk.Term = *t
}

func (b *Builder) emit(ins *Instr) {
	blk := b.CurrentBlock()
	if blk == nil || blk.Terminated() || ins == nil {
		return
	}
	blk.Instrs = append(blk.Instrs, *ins)
}

func (b *Builder) allocValue(ty types.TypeID, own Ownership, name string) Value {
	raw, err := safecast.Conv[uint32](len(b.F.Values))
	if err != nil {
		panic(fmt.Errorf("sir: value id overflow: %w", err))
	}
	id := ValueID(raw)
	b.F.Values = append(b.F.Values, ValueInfo{Type: ty, Ownership: own, Name: name})
	return Value{ID: id, Type: ty, Ownership: own}
}

// AddParam registers a function entry value.
func (b *Builder) AddParam(name string, ty types.TypeID, own Ownership) Value {
	v := b.allocValue(ty, own, name)
	b.F.Params = append(b.F.Params, v.ID)
	return v
}

// CreateCopyValue emits copy_value, producing a fresh +1 duplicate of a
// register value.
func (b *Builder) CreateCopyValue(span source.Span, src Value) Value {
	own := OwnershipOwned
	if src.Ownership == OwnershipTrivial {
		own = OwnershipTrivial
	}
	result := b.allocValue(src.Type, own, "copy")
	b.emit(&Instr{
		Kind:      InstrCopyValue,
		Span:      span,
		CopyValue: CopyValueInstr{Src: src.ID, Result: result.ID},
	})
	return result
}

// CreateCopyAddr emits copy_addr between two memory locations.
func (b *Builder) CreateCopyAddr(span source.Span, src, dst Value, take, init bool) {
	b.emit(&Instr{
		Kind:     InstrCopyAddr,
		Span:     span,
		CopyAddr: CopyAddrInstr{Src: src.ID, Dst: dst.ID, Take: take, Init: init},
	})
}

// CreateStore emits store of a register value into a memory location.
func (b *Builder) CreateStore(span source.Span, src, dst Value, mode StoreMode) {
	b.emit(&Instr{
		Kind:  InstrStore,
		Span:  span,
		Store: StoreInstr{Src: src.ID, Dst: dst.ID, Mode: mode},
	})
}

// CreateDestroyValue emits destroy_value of an owned register value.
func (b *Builder) CreateDestroyValue(span source.Span, v Value) {
	b.emit(&Instr{
		Kind:         InstrDestroyValue,
		Span:         span,
		DestroyValue: DestroyValueInstr{Value: v.ID},
	})
}

// CreateDestroyAddr emits destroy_addr of a memory location's contents.
func (b *Builder) CreateDestroyAddr(span source.Span, addr Value) {
	b.emit(&Instr{
		Kind:        InstrDestroyAddr,
		Span:        span,
		DestroyAddr: DestroyAddrInstr{Addr: addr.ID},
	})
}

// CreateBeginBorrow emits begin_borrow, producing a guaranteed view of a
// register value.
func (b *Builder) CreateBeginBorrow(span source.Span, src Value) Value {
	result := b.allocValue(src.Type, OwnershipGuaranteed, "borrow")
	b.emit(&Instr{
		Kind:        InstrBeginBorrow,
		Span:        span,
		BeginBorrow: BeginBorrowInstr{Src: src.ID, Result: result.ID},
	})
	return result
}

// CreateEndBorrow emits end_borrow for a borrowed value and its source.
func (b *Builder) CreateEndBorrow(span source.Span, borrowed, original Value) {
	b.emit(&Instr{
		Kind:      InstrEndBorrow,
		Span:      span,
		EndBorrow: EndBorrowInstr{Borrowed: borrowed.ID, Original: original.ID},
	})
}

// CreateAllocTemp emits alloc_temp and returns the address of the fresh
// uninitialized storage.
func (b *Builder) CreateAllocTemp(span source.Span, ty types.TypeID) Value {
	result := b.allocValue(ty, OwnershipAddress, "tmp")
	b.emit(&Instr{
		Kind:      InstrAllocTemp,
		Span:      span,
		AllocTemp: AllocTempInstr{Type: ty, Result: result.ID},
	})
	return result
}
