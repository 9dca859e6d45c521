package irgen

import (
	"fmt"

	"sable/internal/sir"
	"sable/internal/source"
)

// BorrowScope brackets temporary non-owning access to a managed value.
// It derives a borrowed view at construction and guarantees the borrow
// is ended exactly once, whichever way control flow leaves the scope:
//
//	bs := irgen.BeginBorrowScope(fn, value, span)
//	defer bs.End()
//	use(bs.Borrowed())
//
// The borrowed view never owns a release obligation itself; the scope
// object owns the end-borrow cleanup when one is needed.
type BorrowScope struct {
	fn       *Fn
	original ManagedValue
	borrowed ManagedValue
	handle   CleanupHandle
	span     source.Span
}

// BeginBorrowScope opens a borrow of original. The borrowed view depends
// on what the value is:
//
//   - empty value: nothing to borrow, the scope is already closed
//   - trivial type: the raw value itself, no bracket needed
//   - already guaranteed: passes through unchanged
//   - address: passes through unchanged
//   - owned register value: begin_borrow is emitted and an end-borrow
//     cleanup registered; the scope remembers its handle
func BeginBorrowScope(fn *Fn, original ManagedValue, span source.Span) *BorrowScope {
	bs := &BorrowScope{fn: fn, original: original, span: span}
	if !original.IsValid() {
		return bs
	}

	v := original.Value()
	lowering := fn.loweringOf(v.Type)
	switch {
	case lowering.Trivial:
		bs.borrowed = Unmanaged(v)
	case v.Ownership == sir.OwnershipGuaranteed:
		bs.borrowed = Unmanaged(v)
	case v.IsAddress():
		bs.borrowed = Unmanaged(v)
	default:
		borrowed := fn.B.CreateBeginBorrow(span, v)
		if !borrowed.IsAddress() {
			bs.handle = fn.EnterEndBorrowCleanup(v, borrowed)
		}
		bs.borrowed = Unmanaged(borrowed)
	}
	return bs
}

// Borrowed returns the non-owning view held by the scope. The zero
// ManagedValue once the scope has ended or when nothing was borrowed.
func (bs *BorrowScope) Borrowed() ManagedValue {
	return bs.borrowed
}

// End closes the borrow for good: the end-borrow action is emitted and
// its cleanup marked dead. Calling End on an already-closed scope is a
// no-op.
func (bs *BorrowScope) End() {
	bs.endImpl(CleanupDead)
}

// Suspend closes the borrow for a region that may be re-entered: the
// end-borrow action is emitted and its cleanup left dormant so a later
// re-entry can reactivate it. Idempotent like End.
func (bs *BorrowScope) Suspend() {
	bs.endImpl(CleanupDormant)
}

func (bs *BorrowScope) endImpl(next CleanupState) {
	// Unreachable code after a terminator: emitting is both impossible
	// and unnecessary, just drop the obligation.
	if !bs.fn.B.HasValidInsertionPoint() {
		bs.handle = CleanupHandle{}
		bs.borrowed = ManagedValue{}
		return
	}

	// Trivial, guaranteed, and address cases registered no cleanup, and
	// so does a second End on a closed scope.
	if !bs.handle.IsValid() {
		bs.borrowed = ManagedValue{}
		return
	}

	if st := bs.fn.Cleanups.State(bs.handle); st != CleanupActive {
		panic(fmt.Errorf("irgen: end-borrow emitted out of order (cleanup is %s)", st))
	}
	bs.fn.Cleanups.Emit(bs.handle, bs.span)
	bs.fn.Cleanups.SetState(bs.handle, next)

	bs.borrowed = ManagedValue{}
	bs.handle = CleanupHandle{}
}
