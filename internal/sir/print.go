package sir

import (
	"fmt"
	"io"

	"sable/internal/types"
)

// Printer dumps SIR to a text format for debugging and golden tests.
type Printer struct {
	w        io.Writer
	interner *types.Interner
	err      error
}

// NewPrinter creates a new SIR printer. The interner may be nil, in
// which case types print as raw IDs.
func NewPrinter(w io.Writer, interner *types.Interner) *Printer {
	return &Printer{w: w, interner: interner}
}

// Dump writes the module to the writer.
func Dump(w io.Writer, m *Module, interner *types.Interner) error {
	p := NewPrinter(w, interner)
	return p.PrintModule(m)
}

// PrintModule prints a complete module.
func (p *Printer) PrintModule(m *Module) error {
	if m == nil {
		return nil
	}
	for i, f := range m.Funcs {
		if i > 0 {
			p.printf("\n")
		}
		if err := p.PrintFunc(f); err != nil {
			return err
		}
	}
	return p.err
}

// PrintFunc prints a single function.
func (p *Printer) PrintFunc(f *Func) error {
	if f == nil {
		return nil
	}
	p.printf("func %s(", f.Name)
	for i, id := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		info := f.Values[id]
		p.printf("%%%d : %s %s", id, info.Ownership, p.typeName(info.Type))
	}
	p.printf(") {\n")
	for i := range f.Blocks {
		p.printBlock(f, &f.Blocks[i])
	}
	p.printf("}\n")
	return p.err
}

func (p *Printer) printBlock(f *Func, bb *Block) {
	p.printf("bb%d:\n", bb.ID)
	for i := range bb.Instrs {
		p.printInstr(f, &bb.Instrs[i])
	}
	switch bb.Term.Kind {
	case TermNone:
		p.printf("  <unterminated>\n")
	case TermReturn:
		if bb.Term.Return.HasValue {
			p.printf("  return %%%d\n", bb.Term.Return.Value)
		} else {
			p.printf("  return\n")
		}
	case TermGoto:
		p.printf("  br bb%d\n", bb.Term.Goto.Target)
	case TermUnreachable:
		p.printf("  unreachable\n")
	}
}

func (p *Printer) printInstr(f *Func, ins *Instr) {
	switch ins.Kind {
	case InstrNop:
		p.printf("  nop\n")
	case InstrCopyValue:
		c := ins.CopyValue
		p.printf("  %%%d = copy_value %%%d : %s\n", c.Result, c.Src, p.valueType(f, c.Result))
	case InstrCopyAddr:
		c := ins.CopyAddr
		p.printf("  copy_addr %s%%%d to %s%%%d\n",
			flag("[take] ", c.Take), c.Src, flag("[init] ", c.Init), c.Dst)
	case InstrStore:
		s := ins.Store
		p.printf("  store %%%d to [%s] %%%d\n", s.Src, s.Mode, s.Dst)
	case InstrDestroyValue:
		p.printf("  destroy_value %%%d\n", ins.DestroyValue.Value)
	case InstrDestroyAddr:
		p.printf("  destroy_addr %%%d\n", ins.DestroyAddr.Addr)
	case InstrBeginBorrow:
		bb := ins.BeginBorrow
		p.printf("  %%%d = begin_borrow %%%d : %s\n", bb.Result, bb.Src, p.valueType(f, bb.Result))
	case InstrEndBorrow:
		e := ins.EndBorrow
		p.printf("  end_borrow %%%d from %%%d\n", e.Borrowed, e.Original)
	case InstrAllocTemp:
		a := ins.AllocTemp
		p.printf("  %%%d = alloc_temp %s\n", a.Result, p.typeName(a.Type))
	default:
		p.printf("  <unknown instr %d>\n", ins.Kind)
	}
}

func (p *Printer) valueType(f *Func, id ValueID) string {
	if f == nil || int(id) >= len(f.Values) {
		return "?"
	}
	return p.typeName(f.Values[id].Type)
}

func (p *Printer) typeName(id types.TypeID) string {
	if p.interner == nil {
		return fmt.Sprintf("t%d", id)
	}
	return p.interner.String(id)
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func flag(s string, on bool) string {
	if on {
		return s
	}
	return ""
}
