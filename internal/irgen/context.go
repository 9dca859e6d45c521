// Package irgen implements the ownership and cleanup tracking used while
// lowering a typed program into SIR.
//
// Code-generation routines produce ManagedValues: an IR operand paired
// with at most one deferred release obligation on the function's cleanup
// stack. The operations on ManagedValue (copy, forward, store, borrow)
// keep that obligation correctly scheduled, deactivated, or re-activated
// across every control-flow edge; BorrowScope brackets temporary
// non-owning access so every borrow is ended exactly once.
//
// All failure modes in this package are contract violations by calling
// code-generation logic, not user-facing errors. They panic: silently
// proceeding would generate a program with incorrect ownership, which is
// strictly worse than stopping compilation.
package irgen

import (
	"fmt"

	"sable/internal/sir"
	"sable/internal/source"
	"sable/internal/types"
)

// Fn is the code-generation context for a single function. It owns the
// instruction builder, the cleanup stack, and the type information every
// ownership decision consults. Contexts are independent: there is no
// ambient or global builder state.
type Fn struct {
	B        *sir.Builder
	Cleanups *CleanupStack
	Types    *types.Interner
	Opts     Options
}

// NewFn creates an independent code-generation context with a fresh
// function and an empty cleanup stack.
func NewFn(name string, span source.Span, interner *types.Interner, opts Options) *Fn {
	fn := &Fn{
		B:     sir.NewBuilder(name, span),
		Types: interner,
		Opts:  opts,
	}
	fn.Cleanups = newCleanupStack(fn)
	return fn
}

func (fn *Fn) loweringOf(ty types.TypeID) types.Lowering {
	return fn.Types.LoweringOf(ty)
}

// EmitManagedRValueWithCleanup wraps a +1 value with a fresh destroy
// cleanup. Trivial values own nothing to release and come back unmanaged.
func (fn *Fn) EmitManagedRValueWithCleanup(v sir.Value) ManagedValue {
	if fn.loweringOf(v.Type).Trivial {
		return Unmanaged(v)
	}
	return managed(v, fn.EnterDestroyCleanup(v))
}

// EmitManagedRetain emits a duplication of a register value and wraps
// the result with a fresh cleanup.
func (fn *Fn) EmitManagedRetain(span source.Span, v sir.Value) ManagedValue {
	copied := fn.B.CreateCopyValue(span, v)
	return fn.EmitManagedRValueWithCleanup(copied)
}

// EmitTemporaryAllocation allocates uninitialized temporary storage and
// returns its address.
func (fn *Fn) EmitTemporaryAllocation(span source.Span, ty types.TypeID) sir.Value {
	return fn.B.CreateAllocTemp(span, ty)
}

// EmitSemanticStore stores a value into a destination address. init
// treats the destination as uninitialized memory; otherwise the store
// destroys the previous contents first. Address-class sources move via
// copy_addr [take], register-class sources via store.
func (fn *Fn) EmitSemanticStore(span source.Span, v, dest sir.Value, init bool) {
	if !dest.IsAddress() {
		panic(fmt.Errorf("irgen: semantic store into non-address %%%d", dest.ID))
	}
	if v.IsAddress() {
		fn.B.CreateCopyAddr(span, v, dest, true, init)
		return
	}
	mode := sir.StoreAssign
	if init {
		mode = sir.StoreInit
	}
	fn.B.CreateStore(span, v, dest, mode)
}

// EmitManagedBeginBorrow emits begin_borrow and wraps the borrowed
// operand without a cleanup; the caller owns the end-borrow obligation.
func (fn *Fn) EmitManagedBeginBorrow(span source.Span, v sir.Value) ManagedValue {
	return Unmanaged(fn.B.CreateBeginBorrow(span, v))
}

// EnterDestroyCleanup schedules a release of the given value at scope
// exit and returns its handle.
func (fn *Fn) EnterDestroyCleanup(v sir.Value) CleanupHandle {
	return fn.Cleanups.Push(func(fn *Fn, span source.Span) {
		if v.IsAddress() {
			fn.B.CreateDestroyAddr(span, v)
		} else {
			fn.B.CreateDestroyValue(span, v)
		}
	}, fn.B.F.Span)
}

// EnterEndBorrowCleanup schedules an end_borrow of a borrowed operand at
// scope exit and returns its handle.
func (fn *Fn) EnterEndBorrowCleanup(original, borrowed sir.Value) CleanupHandle {
	return fn.Cleanups.Push(func(fn *Fn, span source.Span) {
		fn.B.CreateEndBorrow(span, borrowed, original)
	}, fn.B.F.Span)
}

// Finish terminates the function and runs the verifier when enabled.
// Remaining cleanups are the caller's responsibility; Finish does not
// pop scopes.
func (fn *Fn) Finish(span source.Span) (*sir.Func, error) {
	if fn.B.HasValidInsertionPoint() {
		fn.B.SetTerm(&sir.Terminator{Kind: sir.TermReturn})
	}
	for i := range fn.B.F.Blocks {
		if fn.B.F.Blocks[i].Term.Kind == sir.TermNone {
			fn.B.F.Blocks[i].Term.Kind = sir.TermUnreachable
		}
	}
	if fn.Opts.VerifyAfterGen {
		if err := sir.ValidateFunc(fn.B.F); err != nil {
			return nil, fmt.Errorf("irgen: generated function %s is malformed: %w", fn.B.F.Name, err)
		}
	}
	return fn.B.F, nil
}
