package irdump_test

import (
	"path/filepath"
	"testing"

	"sable/internal/irdump"
	"sable/internal/sir"
	"sable/internal/source"
	"sable/internal/types"
)

func sampleModule() *sir.Module {
	in := types.NewInterner()
	span := source.Span{File: 1, Start: 0, End: 1}
	b := sir.NewBuilder("sample", span)
	v := b.AddParam("x", in.MakeBox("Account"), sir.OwnershipOwned)
	b.CreateDestroyValue(span, v)
	b.SetTerm(&sir.Terminator{Kind: sir.TermReturn})
	return &sir.Module{Funcs: []*sir.Func{b.F}}
}

func TestWriteRead(t *testing.T) {
	m := sampleModule()
	path := filepath.Join(t.TempDir(), "sample"+irdump.Ext)

	if err := irdump.Write(path, m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := irdump.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(got.Funcs) != 1 {
		t.Fatalf("got %d funcs, want 1", len(got.Funcs))
	}
	f := got.Funcs[0]
	if f.Name != "sample" {
		t.Errorf("func name = %q, want %q", f.Name, "sample")
	}
	if len(f.Blocks) != 1 || len(f.Blocks[0].Instrs) != 1 {
		t.Fatalf("block shape changed: %+v", f.Blocks)
	}
	if f.Blocks[0].Instrs[0].Kind != sir.InstrDestroyValue {
		t.Errorf("instr kind = %v, want destroy_value", f.Blocks[0].Instrs[0].Kind)
	}
	if err := sir.Validate(got); err != nil {
		t.Errorf("reloaded module fails validation: %v", err)
	}
}

func TestRead_RejectsGarbage(t *testing.T) {
	if _, err := irdump.Unmarshal([]byte("not a snapshot")); err == nil {
		t.Fatalf("expected decode error")
	}
}
