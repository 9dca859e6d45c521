package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sable/internal/irdump"
	"sable/internal/irgen"
	"sable/internal/project"
	"sable/internal/sir"
	"sable/internal/source"
	"sable/internal/types"
)

var (
	selfcheckDump string
	selfcheckOut  string
)

func init() {
	selfcheckCmd.Flags().StringVar(&selfcheckDump, "dump", "", "print the generated IR (all|<scenario name>)")
	selfcheckCmd.Flags().StringVar(&selfcheckOut, "out", "", "write the generated module to a snapshot file")
}

var selfcheckCmd = &cobra.Command{
	Use:   "selfcheck",
	Short: "Generate representative IR through the ownership layer and verify it",
	Long: `Selfcheck drives copy, forward, assign and borrow codegen scenarios
through the cleanup-tracking layer, runs the verifier on the result and
reports the outcome. Useful as a smoke test of the toolchain build.`,
	RunE: runSelfcheck,
}

type scenario struct {
	name  string
	build func(fn *irgen.Fn, in *types.Interner, span source.Span)
}

var scenarios = []scenario{
	{
		name: "copy_forward",
		build: func(fn *irgen.Fn, in *types.Interner, span source.Span) {
			v := fn.B.AddParam("v", in.MakeBox("Account"), sir.OwnershipOwned)
			dest := fn.B.AddParam("dest", in.MakeBox("Account"), sir.OwnershipAddress)

			s := fn.BeginScope()
			mv := fn.EmitManagedRValueWithCleanup(v)
			cp := mv.Copy(fn, span)
			cp.ForwardInto(fn, span, dest)
			s.Pop(span)
		},
	},
	{
		name: "assign_over_initialized",
		build: func(fn *irgen.Fn, in *types.Interner, span source.Span) {
			v := fn.B.AddParam("v", in.MakeBox("Account"), sir.OwnershipOwned)
			dest := fn.B.AddParam("dest", in.MakeBox("Account"), sir.OwnershipAddress)

			s := fn.BeginScope()
			mv := fn.EmitManagedRValueWithCleanup(v)
			mv.AssignInto(fn, span, dest)
			s.Pop(span)
		},
	},
	{
		name: "address_only_copy",
		build: func(fn *irgen.Fn, in *types.Interner, span source.Span) {
			a := fn.B.AddParam("a", in.Builtins().Any, sir.OwnershipAddress)
			dest := fn.B.AddParam("dest", in.Builtins().Any, sir.OwnershipAddress)

			s := fn.BeginScope()
			mv := fn.EmitManagedRValueWithCleanup(a)
			mv.CopyInto(fn, dest, span)
			s.Pop(span)
		},
	},
	{
		name: "borrow_bracket",
		build: func(fn *irgen.Fn, in *types.Interner, span source.Span) {
			v := fn.B.AddParam("v", in.MakeBox("Account"), sir.OwnershipOwned)

			s := fn.BeginScope()
			mv := fn.EmitManagedRValueWithCleanup(v)
			bs := irgen.BeginBorrowScope(fn, mv, span)
			_ = bs.Borrowed()
			bs.End()
			s.Pop(span)
		},
	},
}

func runSelfcheck(cmd *cobra.Command, args []string) error {
	opts := irgen.DefaultOptions()
	if m, ok, err := project.Load("."); err != nil {
		return err
	} else if ok {
		opts = m.Config.Codegen.Options()
	}

	in := types.NewInterner()
	span := source.Span{File: 1, Start: 0, End: 1}
	module := &sir.Module{}

	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed, color.Bold)

	failed := 0
	for _, sc := range scenarios {
		fn := irgen.NewFn(sc.name, span, in, opts)
		sc.build(fn, in, span)
		f, err := fn.Finish(span)
		if err != nil {
			failColor.Printf("FAIL %s\n", sc.name)
			fmt.Fprintf(os.Stderr, "  %v\n", err)
			failed++
			continue
		}
		module.Funcs = append(module.Funcs, f)
		okColor.Printf("ok   %s\n", sc.name)

		if selfcheckDump == "all" || selfcheckDump == sc.name {
			p := sir.NewPrinter(os.Stdout, in)
			if err := p.PrintFunc(f); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}

	if selfcheckOut != "" {
		if err := irdump.Write(selfcheckOut, module); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", selfcheckOut)
	}
	return nil
}
