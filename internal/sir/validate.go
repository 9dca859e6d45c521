package sir

import (
	"errors"
	"fmt"
)

// Validate checks SIR module invariants.
// Returns an error if any invariant is violated.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, f := range m.Funcs {
		if f == nil {
			continue
		}
		if err := ValidateFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateFunc checks the structural invariants of a single function:
// every block terminated, branch targets and value IDs in range,
// ownership kinds consistent with how each instruction uses its
// operands, and begin/end borrow brackets well formed.
func ValidateFunc(f *Func) error {
	if f == nil {
		return nil
	}

	var errs []error

	if err := validateBlocksTerminated(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateBlockTargets(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateValueIDs(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateOwnership(f); err != nil {
		errs = append(errs, err)
	}
	if err := validateBorrows(f); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// validateBlocksTerminated checks that every block ends with a terminator.
func validateBlocksTerminated(f *Func) error {
	var errs []error
	for i := range f.Blocks {
		if f.Blocks[i].Term.Kind == TermNone {
			errs = append(errs, fmt.Errorf("bb%d: unterminated block", i))
		}
	}
	return errors.Join(errs...)
}

// validateBlockTargets checks that all branch target IDs exist.
func validateBlockTargets(f *Func) error {
	var errs []error
	for i := range f.Blocks {
		bb := &f.Blocks[i]
		if bb.Term.Kind != TermGoto {
			continue
		}
		t := bb.Term.Goto.Target
		if t < 0 || int(t) >= len(f.Blocks) {
			errs = append(errs, fmt.Errorf("bb%d: br target bb%d does not exist", i, t))
		}
	}
	return errors.Join(errs...)
}

// validateValueIDs checks that every operand refers to a value table entry.
func validateValueIDs(f *Func) error {
	var errs []error
	check := func(bi, ii int, role string, id ValueID) {
		if !id.IsValid() || int(id) >= len(f.Values) {
			errs = append(errs, fmt.Errorf("bb%d instr %d: %s value %%%d out of range", bi, ii, role, id))
		}
	}
	for bi := range f.Blocks {
		bb := &f.Blocks[bi]
		for ii := range bb.Instrs {
			ins := &bb.Instrs[ii]
			switch ins.Kind {
			case InstrCopyValue:
				check(bi, ii, "src", ins.CopyValue.Src)
				check(bi, ii, "result", ins.CopyValue.Result)
			case InstrCopyAddr:
				check(bi, ii, "src", ins.CopyAddr.Src)
				check(bi, ii, "dst", ins.CopyAddr.Dst)
			case InstrStore:
				check(bi, ii, "src", ins.Store.Src)
				check(bi, ii, "dst", ins.Store.Dst)
			case InstrDestroyValue:
				check(bi, ii, "value", ins.DestroyValue.Value)
			case InstrDestroyAddr:
				check(bi, ii, "addr", ins.DestroyAddr.Addr)
			case InstrBeginBorrow:
				check(bi, ii, "src", ins.BeginBorrow.Src)
				check(bi, ii, "result", ins.BeginBorrow.Result)
			case InstrEndBorrow:
				check(bi, ii, "borrowed", ins.EndBorrow.Borrowed)
				check(bi, ii, "original", ins.EndBorrow.Original)
			case InstrAllocTemp:
				check(bi, ii, "result", ins.AllocTemp.Result)
			}
		}
		if bb.Term.Kind == TermReturn && bb.Term.Return.HasValue {
			if !bb.Term.Return.Value.IsValid() || int(bb.Term.Return.Value) >= len(f.Values) {
				errs = append(errs, fmt.Errorf("bb%d: return value %%%d out of range", bi, bb.Term.Return.Value))
			}
		}
	}
	return errors.Join(errs...)
}

// validateOwnership checks that operands carry the ownership kind each
// instruction requires.
func validateOwnership(f *Func) error {
	var errs []error
	own := func(id ValueID) (Ownership, bool) {
		if !id.IsValid() || int(id) >= len(f.Values) {
			return 0, false
		}
		return f.Values[id].Ownership, true
	}
	for bi := range f.Blocks {
		bb := &f.Blocks[bi]
		for ii := range bb.Instrs {
			ins := &bb.Instrs[ii]
			bad := func(role string, id ValueID, want string) {
				errs = append(errs, fmt.Errorf("bb%d instr %d: %s of %s must be %s (got %%%d)",
					bi, ii, role, ins.Kind, want, id))
			}
			switch ins.Kind {
			case InstrCopyValue:
				if o, ok := own(ins.CopyValue.Src); ok && o == OwnershipAddress {
					bad("src", ins.CopyValue.Src, "a register value")
				}
			case InstrCopyAddr:
				if o, ok := own(ins.CopyAddr.Src); ok && o != OwnershipAddress {
					bad("src", ins.CopyAddr.Src, "an address")
				}
				if o, ok := own(ins.CopyAddr.Dst); ok && o != OwnershipAddress {
					bad("dst", ins.CopyAddr.Dst, "an address")
				}
			case InstrStore:
				if o, ok := own(ins.Store.Src); ok && o == OwnershipAddress {
					bad("src", ins.Store.Src, "a register value")
				}
				if o, ok := own(ins.Store.Dst); ok && o != OwnershipAddress {
					bad("dst", ins.Store.Dst, "an address")
				}
			case InstrDestroyValue:
				if o, ok := own(ins.DestroyValue.Value); ok && o != OwnershipOwned {
					bad("operand", ins.DestroyValue.Value, "an owned value")
				}
			case InstrDestroyAddr:
				if o, ok := own(ins.DestroyAddr.Addr); ok && o != OwnershipAddress {
					bad("operand", ins.DestroyAddr.Addr, "an address")
				}
			case InstrBeginBorrow:
				if o, ok := own(ins.BeginBorrow.Src); ok && (o == OwnershipAddress || o == OwnershipTrivial) {
					bad("src", ins.BeginBorrow.Src, "a managed register value")
				}
			}
		}
	}
	return errors.Join(errs...)
}

// validateBorrows checks begin/end borrow bracketing: every end_borrow
// names a begin_borrow result, and no borrow is ended twice.
func validateBorrows(f *Func) error {
	var errs []error

	borrowResults := make(map[ValueID]bool)
	for bi := range f.Blocks {
		bb := &f.Blocks[bi]
		for ii := range bb.Instrs {
			if bb.Instrs[ii].Kind == InstrBeginBorrow {
				borrowResults[bb.Instrs[ii].BeginBorrow.Result] = true
			}
		}
	}

	ended := make(map[ValueID]bool)
	for bi := range f.Blocks {
		bb := &f.Blocks[bi]
		for ii := range bb.Instrs {
			ins := &bb.Instrs[ii]
			if ins.Kind != InstrEndBorrow {
				continue
			}
			id := ins.EndBorrow.Borrowed
			if !borrowResults[id] {
				errs = append(errs, fmt.Errorf("bb%d instr %d: end_borrow of %%%d which is not a begin_borrow result", bi, ii, id))
				continue
			}
			if ended[id] {
				errs = append(errs, fmt.Errorf("bb%d instr %d: borrow %%%d ended more than once", bi, ii, id))
			}
			ended[id] = true
		}
	}

	return errors.Join(errs...)
}
