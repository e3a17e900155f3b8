package cmd

import (
	"bytes"
	"context"
	"time"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/registry"
	"github.com/obproject/obproject/pkg/registry/status"
	"github.com/spf13/cobra"
)

var projectGet = &cobra.Command{
	Use:   "get",
	Short: "Get project info by name",
	Long: `Performs a direct lookup of a project by name.
Prints the corresponding project information if the name exists,
fails otherwise.`,
	Example: `% obproject project get --name census`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "project get", err)
		}(time.Now())

		ctx := context.Background()
		optionInputs := newCliOptionInputs(config, &obprojectFlags)
		st, err := optionInputs.projectStores(ctx)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		descriptor, err := registry.GetProjectDescriptor(ctx, st.Metadata(), obprojectFlags.project.Name)
		if err != nil {
			if errors.Is(err, status.ErrProjectNotFound) {
				wrapFatalWithCodef(2, "didn't find project %q", obprojectFlags.project.Name)
				return
			}
			wrapFatalln("error downloading project information", err)
			return
		}

		var buf bytes.Buffer
		err = projectDescriptorTemplate(obprojectFlags).Execute(&buf, descriptor)
		if err != nil {
			wrapFatalln("executing template", err)
			return
		}
		infoLogger.Println(buf.String())
	},
}

func init() {
	requireFlags(projectGet,
		addProjectNameFlag(projectGet),
	)
	projectCmd.AddCommand(projectGet)
}
