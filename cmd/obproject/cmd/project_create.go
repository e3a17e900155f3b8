package cmd

import (
	"context"
	"time"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry"
	storagestatus "github.com/obproject/obproject/pkg/storage/status"
	"github.com/spf13/cobra"
)

var projectCreate = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Long: `Create a project descriptor in the metadata store.

This is idempotent from the point of view of workflow code, which ensures
the descriptor exists on first write: use this command to create a project
ahead of any registration, with a description.`,
	Example: `% obproject project create --name census --description "census datasets and models"`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "project create", err)
		}(time.Now())

		ctx := context.Background()
		optionInputs := newCliOptionInputs(config, &obprojectFlags)
		st, err := optionInputs.projectStores(ctx)
		if err != nil {
			wrapFatalln("create stores", err)
			return
		}
		descriptor := model.ProjectDescriptor{
			Name:        obprojectFlags.project.Name,
			Description: obprojectFlags.project.Description,
			Timestamp:   model.GetRunTimeStamp(),
			Contributor: model.Contributor{Name: userName()},
		}
		err = registry.CreateProject(ctx, descriptor, st.Metadata())
		if err != nil {
			if errors.Is(err, storagestatus.ErrExists) {
				wrapFatalln("project "+descriptor.Name+" already exists", nil)
				return
			}
			wrapFatalln("create project", err)
			return
		}
		infoLogger.Println("created project", descriptor.Name)
	},
}

func init() {
	requireFlags(projectCreate,
		addProjectNameFlag(projectCreate),
	)
	addProjectDescriptionFlag(projectCreate)
	projectCmd.AddCommand(projectCreate)
}
