package irgen

import (
	"fmt"

	"sable/internal/sir"
	"sable/internal/source"
	"sable/internal/types"
)

// ManagedValue is an IR operand paired with at most one release
// obligation on the cleanup stack. A live ManagedValue with a valid
// handle is the unique owner of that obligation: ownership moves out
// through the Forward family, never by copying the handle.
//
// The zero ManagedValue denotes "no value" (optional and void results)
// and must never be dereferenced.
type ManagedValue struct {
	value   sir.Value
	cleanup CleanupHandle
	lvalue  bool
}

// Unmanaged wraps a value that carries no release obligation: a trivial
// value, a borrowed (+0) value, or an address whose contents are owned
// elsewhere.
func Unmanaged(v sir.Value) ManagedValue {
	return ManagedValue{value: v}
}

// LValue wraps the address of existing storage. LValues are inherently
// non-owning views into that storage.
func LValue(addr sir.Value) ManagedValue {
	if !addr.IsAddress() {
		panic(fmt.Errorf("irgen: lvalue must be an address, got %s %%%d", addr.Ownership, addr.ID))
	}
	return ManagedValue{value: addr, lvalue: true}
}

func managed(v sir.Value, h CleanupHandle) ManagedValue {
	return ManagedValue{value: v, cleanup: h}
}

// IsValid returns false for the zero "no value" ManagedValue.
func (mv ManagedValue) IsValid() bool { return mv.value.IsValid() }

// Value returns the underlying operand without touching the cleanup.
func (mv ManagedValue) Value() sir.Value { return mv.value }

// Type returns the semantic type of the underlying operand.
func (mv ManagedValue) Type() types.TypeID { return mv.value.Type }

// Cleanup returns the handle of the owned release obligation, or the
// invalid handle.
func (mv ManagedValue) Cleanup() CleanupHandle { return mv.cleanup }

// HasCleanup returns true if this value owns a release obligation.
func (mv ManagedValue) HasCleanup() bool { return mv.cleanup.IsValid() }

// IsLValue returns true if this value is a reference into existing
// storage.
func (mv ManagedValue) IsLValue() bool { return mv.lvalue }

// Copy emits a copy of this value with independent ownership. The
// source is left untouched; its own cleanup, if any, still protects the
// original.
func (mv ManagedValue) Copy(fn *Fn, span source.Span) ManagedValue {
	lowering := fn.loweringOf(mv.value.Type)
	if !mv.cleanup.IsValid() {
		if !lowering.Trivial {
			panic(fmt.Errorf("irgen: copy of unmanaged non-trivial value %%%d", mv.value.ID))
		}
		return mv
	}
	if lowering.Trivial {
		panic(fmt.Errorf("irgen: trivial value %%%d has a cleanup", mv.value.ID))
	}

	if !lowering.AddressOnly {
		return fn.EmitManagedRetain(span, mv.value)
	}

	buf := fn.EmitTemporaryAllocation(span, mv.value.Type)
	fn.B.CreateCopyAddr(span, mv.value, buf, false, true)
	return fn.EmitManagedRValueWithCleanup(buf)
}

// CopyInto stores a copy of this value with independent ownership into
// an address the caller guarantees is uninitialized. The source's own
// cleanup is not consumed or altered.
func (mv ManagedValue) CopyInto(fn *Fn, dest sir.Value, span source.Span) {
	lowering := fn.loweringOf(mv.value.Type)
	if lowering.AddressOnly {
		fn.B.CreateCopyAddr(span, mv.value, dest, false, true)
		return
	}
	copied := fn.B.CreateCopyValue(span, mv.value)
	fn.EmitSemanticStore(span, copied, dest, true)
}

// CopyUnmanaged is the same operation as Copy but for +0 values that
// carry no cleanup: it returns a +1 value that does.
func (mv ManagedValue) CopyUnmanaged(fn *Fn, span source.Span) ManagedValue {
	lowering := fn.loweringOf(mv.value.Type)
	if lowering.Trivial {
		return mv
	}

	var result sir.Value
	if !mv.value.IsAddress() {
		result = fn.B.CreateCopyValue(span, mv.value)
	} else {
		result = fn.EmitTemporaryAllocation(span, mv.value.Type)
		fn.B.CreateCopyAddr(span, mv.value, result, false, true)
	}
	return fn.EmitManagedRValueWithCleanup(result)
}

// ForwardCleanup deactivates this value's cleanup: ownership has been
// transferred to whatever the caller does next with the raw value.
// Calling it on a value without a cleanup is a contract violation.
func (mv ManagedValue) ForwardCleanup(fn *Fn) {
	if !mv.HasCleanup() {
		panic(fmt.Errorf("irgen: value %%%d has no cleanup to forward", mv.value.ID))
	}
	fn.Cleanups.Forward(mv.cleanup)
}

// Forward consumes this value: the cleanup, if any, is deactivated and
// the raw value returned. Responsibility for releasing it now belongs to
// the receiver.
func (mv ManagedValue) Forward(fn *Fn) sir.Value {
	if mv.HasCleanup() {
		mv.ForwardCleanup(fn)
	}
	return mv.value
}

// ForwardInto consumes this value into an uninitialized address: the
// cleanup is forwarded and the raw value stored as an initialization.
func (mv ManagedValue) ForwardInto(fn *Fn, span source.Span, dest sir.Value) {
	if mv.HasCleanup() {
		mv.ForwardCleanup(fn)
	}
	fn.EmitSemanticStore(span, mv.value, dest, true)
}

// AssignInto consumes this value into an already-initialized address:
// the cleanup is forwarded and the store destroys the destination's
// previous contents before installing the new value.
func (mv ManagedValue) AssignInto(fn *Fn, span source.Span, dest sir.Value) {
	if mv.HasCleanup() {
		mv.ForwardCleanup(fn)
	}
	fn.EmitSemanticStore(span, mv.value, dest, false)
}

// Borrow produces a non-owning, scope-bounded view of this value without
// creating a new cleanup. LValues and addresses are already non-owning
// views and come back unchanged; register values get a begin_borrow.
func (mv ManagedValue) Borrow(fn *Fn, span source.Span) ManagedValue {
	if !mv.value.IsValid() {
		panic(fmt.Errorf("irgen: cannot borrow an invalid value"))
	}
	if mv.lvalue {
		return mv
	}
	if mv.value.IsAddress() {
		return Unmanaged(mv.value)
	}
	return fn.EmitManagedBeginBorrow(span, mv.value)
}
