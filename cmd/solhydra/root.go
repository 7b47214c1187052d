package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for solhydra.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solhydra",
		Short: "Combine Solidity analysis tool outputs into one report",
		Long: `solhydra reads the workspace written by a run of Solidity analysis tools
(mythril, oyente, solgraph, solhint, solidity-coverage, solidity-analyzer,
solium) and combines every tool's output for every contract into a single
HTML report with one tab per contract and one pane per tool.

The report is self-contained: styles, script and images are embedded,
so it can be opened from disk or shared as one file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
