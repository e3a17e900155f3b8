package cmd

import (
	"github.com/spf13/cobra"
)

// branchCmd represents the branch related commands
var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Commands to inspect branches",
	Long: `Commands to inspect the branch namespaces of a project.

Branches are created lazily on first write: there is no explicit branch
creation. Writes under one branch are invisible to reads resolved to
another.`,
}

func init() {
	addProjectDirFlag(branchCmd)
	rootCmd.AddCommand(branchCmd)
}
