package cmd

import (
	"context"
	"time"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/registry/status"
	"github.com/spf13/cobra"
)

var assetDelete = &cobra.Command{
	Use:   "delete",
	Short: "Delete an asset from the write branch",
	Long: `Removes an asset from the write branch of the project scope: its head
pointer and all its version descriptors.

Payloads stay in the blob store, as other branches and assets may address
the same content. Other branches are not affected.`,
	Example: `% obproject asset delete --kind model --name sample_model`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "asset delete", err)
		}(time.Now())

		ctx := context.Background()
		optionInputs := newCliOptionInputs(config, &obprojectFlags)

		kind, err := parseAssetKind(&obprojectFlags)
		if err != nil {
			wrapFatalln("parse asset kind", err)
			return
		}
		p, err := optionInputs.openProject(ctx)
		if err != nil {
			wrapFatalln("open project", err)
			return
		}
		err = p.Registry().DeleteAsset(ctx, kind, obprojectFlags.asset.Name)
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				wrapFatalWithCodef(2, "didn't find %v asset %q on branch %q",
					kind, obprojectFlags.asset.Name, p.Scope().WriteBranch)
				return
			}
			wrapFatalln("delete asset", err)
			return
		}
		infoLogger.Println("deleted", kind.String()+"/"+obprojectFlags.asset.Name, "from branch", p.Scope().WriteBranch)
	},
}

func init() {
	requireFlags(assetDelete,
		addAssetNameFlag(assetDelete),
	)
	addAssetKindFlag(assetDelete)
	assetCmd.AddCommand(assetDelete)
}
