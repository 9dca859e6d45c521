package irgen_test

import (
	"testing"

	"sable/internal/irgen"
	"sable/internal/sir"
	"sable/internal/source"
	"sable/internal/types"
)

func testSpan() source.Span {
	return source.Span{File: 1, Start: 0, End: 1}
}

func newTestFn(t *testing.T) (*irgen.Fn, *types.Interner) {
	t.Helper()
	in := types.NewInterner()
	fn := irgen.NewFn("test", testSpan(), in, irgen.DefaultOptions())
	return fn, in
}

// ownedBox produces a managed +1 register value of a non-trivial type
// with a freshly registered destroy cleanup.
func ownedBox(t *testing.T, fn *irgen.Fn, in *types.Interner) irgen.ManagedValue {
	t.Helper()
	ty := in.MakeBox("Account")
	v := fn.B.AddParam("a", ty, sir.OwnershipOwned)
	mv := fn.EmitManagedRValueWithCleanup(v)
	if !mv.HasCleanup() {
		t.Fatalf("expected managed value to carry a cleanup")
	}
	return mv
}

// ownedAny produces a managed address-only value with a destroy cleanup.
func ownedAny(t *testing.T, fn *irgen.Fn, in *types.Interner) irgen.ManagedValue {
	t.Helper()
	v := fn.B.AddParam("a", in.Builtins().Any, sir.OwnershipAddress)
	mv := fn.EmitManagedRValueWithCleanup(v)
	if !mv.HasCleanup() {
		t.Fatalf("expected managed value to carry a cleanup")
	}
	return mv
}

// trivialInt produces an unmanaged trivial value.
func trivialInt(fn *irgen.Fn, in *types.Interner) irgen.ManagedValue {
	v := fn.B.AddParam("n", in.Builtins().Int, sir.OwnershipTrivial)
	return irgen.Unmanaged(v)
}

func entryInstrs(fn *irgen.Fn) []sir.Instr {
	return fn.B.F.Blocks[fn.B.F.Entry].Instrs
}

func instrKinds(instrs []sir.Instr) []sir.InstrKind {
	kinds := make([]sir.InstrKind, len(instrs))
	for i := range instrs {
		kinds[i] = instrs[i].Kind
	}
	return kinds
}

func wantKinds(t *testing.T, got []sir.Instr, want ...sir.InstrKind) {
	t.Helper()
	kinds := instrKinds(got)
	if len(kinds) != len(want) {
		t.Fatalf("emitted %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("emitted %v, want %v", kinds, want)
		}
	}
}

func wantPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	f()
}
