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
}

var rootCmd = &cobra.Command{
	Use:   "consumer",
	Short: "consumer retrieves the sample data and model assets",
	Long: `consumer is the example flow reading assets registered by another flow.

It retrieves the data asset "sample_data" and the model asset
"sample_model" from the read branch of the project scope. Run the producer
flow first: the run fails when either asset is not found.`,
}

var runCmd = &cobra.Command{
	Use:          "run",
	Short:        "Execute the consumer flow",
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
		)
		if err != nil {
			return fmt.Errorf("open project: %w", err)
		}

		descriptor, err := consumerFlow().Execute(ctx, p, flow.Logger(logger))
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
	rootCmd.AddCommand(runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
