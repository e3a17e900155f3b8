package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var branchList = &cobra.Command{
	Use:   "list",
	Short: "List the branches of the project",
	Long: `Lists the branch namespaces holding assets for the project, in
lexicographic order.

The write branch of the current scope is starred, the read branch is
marked with an arrow when it differs.`,
	Example: `% obproject branch list
  prod
* user_fred
> test_integration`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "branch list", err)
		}(time.Now())

		ctx := context.Background()
		optionInputs := newCliOptionInputs(config, &obprojectFlags)
		p, err := optionInputs.openProject(ctx)
		if err != nil {
			wrapFatalln("open project", err)
			return
		}
		branches, err := p.Registry().ListBranches(ctx)
		if err != nil {
			wrapFatalln("download branch list", err)
			return
		}
		scope := p.Scope()
		for _, descriptor := range branches {
			switch descriptor.Name {
			case scope.WriteBranch:
				fmt.Println(color.YellowString("*"), descriptor.Name)
			case scope.ReadBranch:
				fmt.Println(color.CyanString(">"), descriptor.Name)
			default:
				fmt.Println(" ", descriptor.Name)
			}
		}
	},
}

func init() {
	branchCmd.AddCommand(branchList)
}
