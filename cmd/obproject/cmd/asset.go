package cmd

import (
	"github.com/spf13/cobra"
)

// assetCmd represents the asset related commands
var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Commands to manage assets",
	Long: `Commands to manage the data and model assets of a project.

These commands resolve the project and its branch scope from the
obproject.toml found in the current directory (or the directory given with
--dir), exactly like workflow code does: registrations go to the write
branch, retrievals read from the resolved read branch.`,
}

func init() {
	addProjectDirFlag(assetCmd)
	rootCmd.AddCommand(assetCmd)
}
