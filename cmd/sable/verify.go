package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sable/internal/irdump"
	"sable/internal/sir"
)

var verifyJobs int

func init() {
	verifyCmd.Flags().IntVar(&verifyJobs, "jobs", 0, "max parallel workers (0=auto)")
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file.sirpack|directory>...",
	Short: "Run the SIR verifier over snapshot files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVerify,
}

type verifyResult struct {
	path string
	err  error
}

func runVerify(cmd *cobra.Command, args []string) error {
	paths, err := collectSnapshots(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found", irdump.Ext)
	}

	jobs := verifyJobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var mu sync.Mutex
	results := make([]verifyResult, 0, len(paths))

	var g errgroup.Group
	g.SetLimit(jobs)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			res := verifyResult{path: path}
			m, err := irdump.Read(path)
			if err != nil {
				res.err = err
			} else {
				res.err = sir.Validate(m)
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })

	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed, color.Bold)

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failColor.Printf("FAIL %s\n", res.path)
			fmt.Fprintf(os.Stderr, "  %v\n", res.err)
			failed++
			continue
		}
		okColor.Printf("ok   %s\n", res.path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d snapshots failed verification", failed, len(results))
	}
	return nil
}

// collectSnapshots expands directories into the snapshot files they
// contain, sorted for stable output.
func collectSnapshots(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, irdump.Ext) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)
	return paths, nil
}
