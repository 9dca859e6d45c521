package irgen_test

import (
	"testing"

	"sable/internal/irgen"
	"sable/internal/sir"
)

func TestManagedValue_TrivialCopyIsFree(t *testing.T) {
	fn, in := newTestFn(t)
	mv := trivialInt(fn, in)

	got := mv.Copy(fn, testSpan())

	if got != mv {
		t.Errorf("copy of a trivial value changed it: %+v -> %+v", mv, got)
	}
	if got.HasCleanup() {
		t.Errorf("copy of a trivial value registered a cleanup")
	}
	if n := len(entryInstrs(fn)); n != 0 {
		t.Errorf("copy of a trivial value emitted %d instrs", n)
	}
}

func TestManagedValue_CopyRegisterValue(t *testing.T) {
	fn, in := newTestFn(t)
	mv := ownedBox(t, fn, in)

	cp := mv.Copy(fn, testSpan())

	wantKinds(t, entryInstrs(fn), sir.InstrCopyValue)
	if !cp.HasCleanup() {
		t.Fatalf("copy carries no cleanup")
	}
	if cp.Cleanup() == mv.Cleanup() {
		t.Fatalf("copy shares the source's cleanup")
	}
	if cp.Value().ID == mv.Value().ID {
		t.Fatalf("copy aliases the source value")
	}

	// Consuming only the copy leaves the source obligation intact.
	cp.ForwardCleanup(fn)
	if got := fn.Cleanups.State(cp.Cleanup()); got != irgen.CleanupDead {
		t.Errorf("forwarded copy cleanup = %s, want dead", got)
	}
	if got := fn.Cleanups.State(mv.Cleanup()); got != irgen.CleanupActive {
		t.Errorf("source cleanup = %s, want active", got)
	}
}

func TestManagedValue_CopyAddressOnly(t *testing.T) {
	fn, in := newTestFn(t)
	mv := ownedAny(t, fn, in)

	cp := mv.Copy(fn, testSpan())

	instrs := entryInstrs(fn)
	wantKinds(t, instrs, sir.InstrAllocTemp, sir.InstrCopyAddr)
	ca := instrs[1].CopyAddr
	if ca.Take {
		t.Errorf("copy must not consume the source (take set)")
	}
	if !ca.Init {
		t.Errorf("copy into fresh temporary must initialize")
	}
	if ca.Src != mv.Value().ID {
		t.Errorf("copy source = %%%d, want %%%d", ca.Src, mv.Value().ID)
	}
	if ca.Dst != instrs[0].AllocTemp.Result {
		t.Errorf("copy destination is not the fresh temporary")
	}
	if !cp.HasCleanup() || cp.Cleanup() == mv.Cleanup() {
		t.Errorf("address-only copy must own a fresh cleanup")
	}
	if got := fn.Cleanups.State(mv.Cleanup()); got != irgen.CleanupActive {
		t.Errorf("source cleanup = %s, want active", got)
	}
}

func TestManagedValue_CopyOfUnmanagedNonTrivialPanics(t *testing.T) {
	fn, in := newTestFn(t)
	v := fn.B.AddParam("g", in.MakeBox("Account"), sir.OwnershipGuaranteed)
	mv := irgen.Unmanaged(v)

	wantPanic(t, func() { mv.Copy(fn, testSpan()) })
}

func TestManagedValue_CopyInto(t *testing.T) {
	t.Run("address_only", func(t *testing.T) {
		fn, in := newTestFn(t)
		mv := ownedAny(t, fn, in)
		dest := fn.B.AddParam("dest", in.Builtins().Any, sir.OwnershipAddress)

		mv.CopyInto(fn, dest, testSpan())

		instrs := entryInstrs(fn)
		wantKinds(t, instrs, sir.InstrCopyAddr)
		ca := instrs[0].CopyAddr
		if ca.Take || !ca.Init {
			t.Errorf("copy_addr take=%v init=%v, want take=false init=true", ca.Take, ca.Init)
		}
		if got := fn.Cleanups.State(mv.Cleanup()); got != irgen.CleanupActive {
			t.Errorf("source cleanup = %s, want active", got)
		}
	})

	t.Run("register", func(t *testing.T) {
		fn, in := newTestFn(t)
		mv := ownedBox(t, fn, in)
		dest := fn.B.AddParam("dest", mv.Type(), sir.OwnershipAddress)

		mv.CopyInto(fn, dest, testSpan())

		instrs := entryInstrs(fn)
		wantKinds(t, instrs, sir.InstrCopyValue, sir.InstrStore)
		if instrs[1].Store.Mode != sir.StoreInit {
			t.Errorf("store mode = %s, want init", instrs[1].Store.Mode)
		}
		if instrs[1].Store.Src != instrs[0].CopyValue.Result {
			t.Errorf("stored value is not the fresh duplicate")
		}
		if got := fn.Cleanups.State(mv.Cleanup()); got != irgen.CleanupActive {
			t.Errorf("source cleanup = %s, want active", got)
		}
	})
}

func TestManagedValue_CopyUnmanaged(t *testing.T) {
	t.Run("trivial_unchanged", func(t *testing.T) {
		fn, in := newTestFn(t)
		mv := trivialInt(fn, in)
		if got := mv.CopyUnmanaged(fn, testSpan()); got != mv {
			t.Errorf("trivial CopyUnmanaged changed the value")
		}
	})

	t.Run("guaranteed_register", func(t *testing.T) {
		fn, in := newTestFn(t)
		v := fn.B.AddParam("g", in.MakeBox("Account"), sir.OwnershipGuaranteed)
		mv := irgen.Unmanaged(v)

		cp := mv.CopyUnmanaged(fn, testSpan())

		wantKinds(t, entryInstrs(fn), sir.InstrCopyValue)
		if !cp.HasCleanup() {
			t.Errorf("CopyUnmanaged result carries no cleanup")
		}
	})

	t.Run("borrowed_address", func(t *testing.T) {
		fn, in := newTestFn(t)
		v := fn.B.AddParam("a", in.Builtins().Any, sir.OwnershipAddress)
		mv := irgen.Unmanaged(v)

		cp := mv.CopyUnmanaged(fn, testSpan())

		wantKinds(t, entryInstrs(fn), sir.InstrAllocTemp, sir.InstrCopyAddr)
		if !cp.HasCleanup() {
			t.Errorf("CopyUnmanaged result carries no cleanup")
		}
	})
}

func TestManagedValue_ForwardCleanupWithoutCleanupPanics(t *testing.T) {
	fn, in := newTestFn(t)
	mv := trivialInt(fn, in)

	wantPanic(t, func() { mv.ForwardCleanup(fn) })
}

func TestManagedValue_ForwardDeactivatesCleanup(t *testing.T) {
	fn, in := newTestFn(t)
	mv := ownedBox(t, fn, in)
	h := mv.Cleanup()

	raw := mv.Forward(fn)

	if raw != mv.Value() {
		t.Errorf("Forward returned %+v, want the underlying value %+v", raw, mv.Value())
	}
	if got := fn.Cleanups.State(h); got != irgen.CleanupDead {
		t.Errorf("cleanup state = %s, want dead", got)
	}

	// Nothing fires at scope exit: ownership moved to the caller.
	fn.Cleanups.PopTo(0, testSpan())
	if n := len(entryInstrs(fn)); n != 0 {
		t.Errorf("scope exit emitted %d instrs after forward", n)
	}
}

func TestManagedValue_ForwardWithoutCleanupReturnsValue(t *testing.T) {
	fn, in := newTestFn(t)
	mv := trivialInt(fn, in)

	if raw := mv.Forward(fn); raw != mv.Value() {
		t.Errorf("Forward returned %+v, want %+v", raw, mv.Value())
	}
}

func TestManagedValue_ForwardInto(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		fn, in := newTestFn(t)
		mv := ownedBox(t, fn, in)
		dest := fn.B.AddParam("dest", mv.Type(), sir.OwnershipAddress)

		mv.ForwardInto(fn, testSpan(), dest)

		instrs := entryInstrs(fn)
		wantKinds(t, instrs, sir.InstrStore)
		if instrs[0].Store.Mode != sir.StoreInit {
			t.Errorf("store mode = %s, want init", instrs[0].Store.Mode)
		}
		if got := fn.Cleanups.State(mv.Cleanup()); got != irgen.CleanupDead {
			t.Errorf("cleanup state = %s, want dead", got)
		}
	})

	t.Run("address_only_moves", func(t *testing.T) {
		fn, in := newTestFn(t)
		mv := ownedAny(t, fn, in)
		dest := fn.B.AddParam("dest", in.Builtins().Any, sir.OwnershipAddress)

		mv.ForwardInto(fn, testSpan(), dest)

		instrs := entryInstrs(fn)
		wantKinds(t, instrs, sir.InstrCopyAddr)
		ca := instrs[0].CopyAddr
		if !ca.Take || !ca.Init {
			t.Errorf("copy_addr take=%v init=%v, want take=true init=true", ca.Take, ca.Init)
		}
	})
}

func TestManagedValue_AssignIntoDestroysOldContents(t *testing.T) {
	fn, in := newTestFn(t)
	mv := ownedBox(t, fn, in)
	dest := fn.B.AddParam("dest", mv.Type(), sir.OwnershipAddress)

	mv.AssignInto(fn, testSpan(), dest)

	instrs := entryInstrs(fn)
	wantKinds(t, instrs, sir.InstrStore)
	if instrs[0].Store.Mode != sir.StoreAssign {
		t.Errorf("store mode = %s, want assign", instrs[0].Store.Mode)
	}
	if got := fn.Cleanups.State(mv.Cleanup()); got != irgen.CleanupDead {
		t.Errorf("cleanup state = %s, want dead", got)
	}
}

func TestManagedValue_Borrow(t *testing.T) {
	t.Run("owned_register", func(t *testing.T) {
		fn, in := newTestFn(t)
		mv := ownedBox(t, fn, in)

		b := mv.Borrow(fn, testSpan())

		wantKinds(t, entryInstrs(fn), sir.InstrBeginBorrow)
		if b.HasCleanup() {
			t.Errorf("borrowed view owns a cleanup")
		}
		if b.Value().Ownership != sir.OwnershipGuaranteed {
			t.Errorf("borrowed ownership = %s, want guaranteed", b.Value().Ownership)
		}
	})

	t.Run("lvalue_passthrough", func(t *testing.T) {
		fn, in := newTestFn(t)
		addr := fn.B.AddParam("slot", in.MakeBox("Account"), sir.OwnershipAddress)
		mv := irgen.LValue(addr)

		if got := mv.Borrow(fn, testSpan()); got != mv {
			t.Errorf("borrow of an lvalue changed it")
		}
		if n := len(entryInstrs(fn)); n != 0 {
			t.Errorf("borrow of an lvalue emitted %d instrs", n)
		}
	})

	t.Run("address_passthrough", func(t *testing.T) {
		fn, in := newTestFn(t)
		addr := fn.B.AddParam("a", in.Builtins().Any, sir.OwnershipAddress)
		mv := fn.EmitManagedRValueWithCleanup(addr)

		b := mv.Borrow(fn, testSpan())

		if b.Value() != mv.Value() {
			t.Errorf("borrow of an address changed the operand")
		}
		if b.HasCleanup() {
			t.Errorf("borrowed view of an address owns a cleanup")
		}
		if n := len(entryInstrs(fn)); n != 0 {
			t.Errorf("borrow of an address emitted %d instrs", n)
		}
	})

	t.Run("invalid_panics", func(t *testing.T) {
		fn, _ := newTestFn(t)
		var empty irgen.ManagedValue
		wantPanic(t, func() { empty.Borrow(fn, testSpan()) })
	})
}
