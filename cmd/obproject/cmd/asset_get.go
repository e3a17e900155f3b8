package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry"
	"github.com/obproject/obproject/pkg/registry/status"
	"github.com/spf13/cobra"
)

var assetGet = &cobra.Command{
	Use:   "get",
	Short: "Retrieve an asset",
	Long: `Retrieves the latest version of a named asset visible from the read
branch of the project scope, and writes its payload to stdout or to a file.

The branch resolution is the same as for workflow code: a configured
[dev-assets] branch applies unless the scope resolves to production.
Use --branch to read from an explicit branch instead, or --version to pin
an exact version.`,
	Example: `% obproject asset get --name sample_data > data.json
% obproject asset get --kind model --name sample_model --version 2QJ8... --file model.bin`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "asset get", err)
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

		opts := make([]registry.GetOption, 0, 2)
		if obprojectFlags.asset.Branch != "" {
			opts = append(opts, registry.AtBranch(obprojectFlags.asset.Branch))
		}
		if obprojectFlags.asset.Version != "" {
			opts = append(opts, registry.AtVersion(obprojectFlags.asset.Version))
		}

		var (
			rdr        io.ReadCloser
			descriptor model.AssetDescriptor
		)
		if kind == model.KindModel {
			rdr, descriptor, err = p.Registry().GetModel(ctx, obprojectFlags.asset.Name, opts...)
		} else {
			rdr, descriptor, err = p.Registry().GetData(ctx, obprojectFlags.asset.Name, opts...)
		}
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				wrapFatalWithCodef(2, "didn't find %v asset %q", kind, obprojectFlags.asset.Name)
				return
			}
			wrapFatalln("retrieve asset", err)
			return
		}
		defer func() {
			_ = rdr.Close()
		}()

		out := os.Stdout
		toFile := obprojectFlags.asset.File != "" && obprojectFlags.asset.File != "-"
		if toFile {
			out, err = os.Create(obprojectFlags.asset.File)
			if err != nil {
				wrapFatalln("create output file "+obprojectFlags.asset.File, err)
				return
			}
			defer func() {
				_ = out.Close()
			}()
		}
		if _, err = io.Copy(out, rdr); err != nil {
			wrapFatalln("write payload", err)
			return
		}

		// the descriptor line would garble a payload streamed to stdout
		if toFile {
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
	requireFlags(assetGet,
		addAssetNameFlag(assetGet),
	)
	addAssetKindFlag(assetGet)
	addAssetFileFlag(assetGet)
	addAssetBranchFlag(assetGet)
	addAssetVersionFlag(assetGet)
	assetCmd.AddCommand(assetGet)
}
