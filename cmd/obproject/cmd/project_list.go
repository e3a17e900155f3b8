package cmd

import (
	"bytes"
	"context"
	"time"

	"github.com/obproject/obproject/pkg/registry"
	"github.com/spf13/cobra"
)

var projectList = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Long:  `Lists the projects known to the metadata store, in lexicographic order.`,
	Example: `% obproject project list
census , census datasets and models , fred , 2024-03-15 10:30:00 +0000 UTC`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "project list", err)
		}(time.Now())

		ctx := context.Background()
		optionInputs := newCliOptionInputs(config, &obprojectFlags)
		st, err := optionInputs.projectStores(ctx)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		projects, err := registry.ListProjects(ctx, st.Metadata())
		if err != nil {
			wrapFatalln("download project list", err)
			return
		}
		for _, descriptor := range projects {
			var buf bytes.Buffer
			if err = projectDescriptorTemplate(obprojectFlags).Execute(&buf, descriptor); err != nil {
				wrapFatalln("executing template", err)
				return
			}
			infoLogger.Println(buf.String())
		}
	},
}

func init() {
	projectCmd.AddCommand(projectList)
}
