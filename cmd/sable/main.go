package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sable/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sable",
	Short: "Sable IR generation toolchain",
	Long:  `Tools for generating, verifying and inspecting Sable IR`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		mode, _ := cmd.Root().PersistentFlags().GetString("color")
		configureColor(mode)
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(selfcheckCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(dumpCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configureColor(mode string) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stdout)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
