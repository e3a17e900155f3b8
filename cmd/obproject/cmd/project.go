package cmd

import (
	"github.com/spf13/cobra"
)

// projectCmd represents the project related commands
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Commands to manage projects",
	Long: `Commands to manage projects.

A project owns named assets, the branches they are registered under, and
the run records of its flows. Workflow code normally creates the project
descriptor on first write; these commands cover explicit creation and
inspection.`,
}

func init() {
	rootCmd.AddCommand(projectCmd)
}
