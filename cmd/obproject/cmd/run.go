package cmd

import (
	"github.com/spf13/cobra"
)

// runCmd represents the flow run related commands
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Commands to inspect flow runs",
	Long: `Commands to inspect the run records persisted by flow executions.

Each execution of a flow writes a run record and a Markdown card into the
run log store, tracking per-step status and timings.`,
}

func init() {
	addProjectDirFlag(runCmd)
	rootCmd.AddCommand(runCmd)
}
