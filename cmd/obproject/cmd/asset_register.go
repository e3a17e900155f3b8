package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/obproject/obproject/pkg/model"
	"github.com/spf13/cobra"
)

var assetRegister = &cobra.Command{
	Use:   "register",
	Short: "Register an asset version",
	Long: `Registers the content of a file as a new version of a named asset on
the write branch of the project scope.

Payloads are content addressed: registering identical bytes twice stores
them once. The head of the asset moves to the new version, prior versions
remain listable with "asset versions".`,
	Example: `# Register a data asset with annotations
% obproject asset register --name sample_data --file data.json --annotation source=manual --annotation row_count=5

# Register a model asset from stdin
% cat model.bin | obproject asset register --kind model --name sample_model --file -`,
	Run: func(cmd *cobra.Command, args []string) {
		var err error

		defer func(t0 time.Time) {
			cliUsage(t0, "asset register", err)
		}(time.Now())

		ctx := context.Background()
		optionInputs := newCliOptionInputs(config, &obprojectFlags)

		kind, err := parseAssetKind(&obprojectFlags)
		if err != nil {
			wrapFatalln("parse asset kind", err)
			return
		}
		annotations, err := parseAnnotations(obprojectFlags.asset.Annotations)
		if err != nil {
			wrapFatalln("parse annotations", err)
			return
		}
		payload, err := readPayload(obprojectFlags.asset.File)
		if err != nil {
			wrapFatalln("read payload from "+obprojectFlags.asset.File, err)
			return
		}

		p, err := optionInputs.openProject(ctx)
		if err != nil {
			wrapFatalln("open project", err)
			return
		}

		var descriptor model.AssetDescriptor
		if kind == model.KindModel {
			descriptor, err = p.RegisterModel(ctx, obprojectFlags.asset.Name, payload, annotations)
		} else {
			descriptor, err = p.RegisterData(ctx, obprojectFlags.asset.Name, payload, annotations)
		}
		if err != nil {
			wrapFatalln("register asset", err)
			return
		}

		var buf bytes.Buffer
		err = assetDescriptorTemplate(obprojectFlags).Execute(&buf, descriptor)
		if err != nil {
			wrapFatalln("executing template", err)
			return
		}
		infoLogger.Println(buf.String())
	},
}

func readPayload(file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}

func init() {
	requireFlags(assetRegister,
		addAssetNameFlag(assetRegister),
		addAssetFileFlag(assetRegister),
	)
	addAssetKindFlag(assetRegister)
	addAnnotationFlag(assetRegister)
	addStrictAssetsFlag(assetRegister)
	assetCmd.AddCommand(assetRegister)
}
