package cmd

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"
)

var assetVersions = &cobra.Command{
	Use:   "versions",
	Short: "List the version history of an asset",
	Long: `Lists all registered versions of a named asset on a branch, oldest
first. Each registration of the same asset name appends one version; the
head only points to the latest.

Without --branch, the resolved read branch of the project scope is listed.`,
	Example: `% obproject asset versions --name sample_data`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "asset versions", err)
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
		versions, err := p.Registry().ListVersions(ctx, obprojectFlags.asset.Branch, kind, obprojectFlags.asset.Name)
		if err != nil {
			wrapFatalln("download version list", err)
			return
		}
		for _, descriptor := range versions {
			var buf bytes.Buffer
			if err = assetDescriptorTemplate(obprojectFlags).Execute(&buf, descriptor); err != nil {
				wrapFatalln("executing template", err)
				return
			}
			infoLogger.Println(buf.String())
		}
	},
}

func init() {
	requireFlags(assetVersions,
		addAssetNameFlag(assetVersions),
	)
	addAssetKindFlag(assetVersions)
	addAssetBranchFlag(assetVersions)
	assetCmd.AddCommand(assetVersions)
}
