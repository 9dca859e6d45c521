package main

import (
	"os"

	"github.com/spf13/cobra"

	"sable/internal/irdump"
	"sable/internal/sir"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.sirpack>",
	Short: "Print the textual SIR of a snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := irdump.Read(args[0])
		if err != nil {
			return err
		}
		// Snapshots carry no type table, so types print as raw IDs.
		return sir.Dump(os.Stdout, m, nil)
	},
}
