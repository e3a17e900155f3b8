package main

import (
	"context"
	"fmt"
	"os"

	"github.com/obproject/obproject/pkg/flow"
	"github.com/obproject/obproject/pkg/oblog"
	"github.com/obproject/obproject/pkg/project"
	"github.com/obproject/obproject/pkg/stores"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var flags struct {
	logLevel string
	strict   bool
}

var rootCmd = &cobra.Command{
	Use:   "producer",
	Short: "producer registers the sample data and model assets",
	Long: `producer is the example flow registering assets.

It registers a data asset "sample_data" and a model asset "sample_model"
on the write branch of the project scope, then retrieves both to verify
write-then-read consistency within the same run. The consumer flow reads
these assets back in a separate invocation.`,
}

var runCmd = &cobra.Command{
	Use:          "run",
	Short:        "Execute the producer flow",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		logger, err := oblog.GetConsoleLogger(flags.logLevel)
		if err != nil {
			return fmt.Errorf("get logger: %w", err)
		}
		st, err := stores.Build(ctx, stores.LoadLocations(), logger)
		if err != nil {
			return fmt.Errorf("create stores: %w", err)
		}
		p, err := project.Open(afero.NewOsFs(), ".",
			project.Stores(st),
			project.Logger(logger),
			project.WithStrictAssets(flags.strict),
		)
		if err != nil {
			return fmt.Errorf("open project: %w", err)
		}

		descriptor, err := producerFlow().Execute(ctx, p, flow.Logger(logger))
		if err != nil {
			return err
		}
		fmt.Printf("run %s finished with status %s\n", descriptor.ID, descriptor.Status)
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "loglevel", "info",
		"The logging level. Levels by increasing order of verbosity: none, info, debug")
	runCmd.Flags().BoolVar(&flags.strict, "strict", false,
		"Refuse to register assets not declared by an asset_config.toml in the project tree")
	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
