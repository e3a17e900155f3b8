package cmd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry"
	"github.com/spf13/cobra"
)

func applyAssetTemplate(descriptor model.AssetDescriptor) error {
	var buf bytes.Buffer
	if err := assetDescriptorTemplate(obprojectFlags).Execute(&buf, descriptor); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	infoLogger.Println(buf.String())
	return nil
}

var assetList = &cobra.Command{
	Use:   "list",
	Short: "List the assets of a branch",
	Long: `Lists the current assets of a branch: for every asset name and kind,
the version its head points to.

Without --branch, the resolved read branch of the project scope is listed.`,
	Example: `% obproject asset list
data/sample_data , 2QJ8s0WRGAmGroeUJ3PVtempY5w , 156B , user_fred , 2024-03-15 10:30:00 +0000 UTC , producer_flow/2QJ8rzs1p.../start`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "asset list", err)
		}(time.Now())

		ctx := context.Background()
		optionInputs := newCliOptionInputs(config, &obprojectFlags)
		p, err := optionInputs.openProject(ctx)
		if err != nil {
			wrapFatalln("open project", err)
			return
		}
		err = p.Registry().ListAssetsApply(ctx, obprojectFlags.asset.Branch, applyAssetTemplate,
			registry.ConcurrentList(obprojectFlags.core.ConcurrencyFactor),
			registry.BatchSize(obprojectFlags.core.BatchSize),
		)
		if err != nil {
			wrapFatalln("download asset list", err)
			return
		}
	},
}

func init() {
	addAssetBranchFlag(assetList)
	addConcurrencyFactorFlag(assetList, 100)
	addBatchSizeFlag(assetList)
	assetCmd.AddCommand(assetList)
}
