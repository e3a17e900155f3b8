package cmd

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"
)

var runList = &cobra.Command{
	Use:   "list",
	Short: "List the runs of a flow",
	Long: `Lists the recorded executions of a flow, oldest first.

Without --flow, runs of all flows of the project are listed.`,
	Example: `% obproject run list --flow producer_flow
producer_flow , 2QJ8rzs1pWiznGVGGv0T0jGsvXV , succeeded , user_fred , 2024-03-15 10:30:00 +0000 UTC , 2024-03-15 10:30:02 +0000 UTC`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "run list", err)
		}(time.Now())

		ctx := context.Background()
		optionInputs := newCliOptionInputs(config, &obprojectFlags)
		p, err := optionInputs.openProject(ctx)
		if err != nil {
			wrapFatalln("open project", err)
			return
		}
		runs, err := p.Registry().ListRuns(ctx, obprojectFlags.run.Flow)
		if err != nil {
			wrapFatalln("download run list", err)
			return
		}
		for _, descriptor := range runs {
			var buf bytes.Buffer
			if err = runDescriptorTemplate(obprojectFlags).Execute(&buf, descriptor); err != nil {
				wrapFatalln("executing template", err)
				return
			}
			infoLogger.Println(buf.String())
		}
	},
}

func init() {
	addFlowNameFlag(runList)
	runCmd.AddCommand(runList)
}
