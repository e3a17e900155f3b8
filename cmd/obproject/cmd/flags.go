package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/oblog"
	"github.com/obproject/obproject/pkg/project"
	"github.com/obproject/obproject/pkg/stores"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type flagsT struct {
	project struct {
		Dir         string
		Name        string
		Description string
	}
	asset struct {
		Kind        string
		Name        string
		File        string
		Annotations []string
		Branch      string
		Version     string
		Strict      bool
	}
	run struct {
		Flow string
	}
	root struct {
		logLevel string
		metrics  metricsFlags
	}
	core struct {
		ConcurrencyFactor int
		BatchSize         int
		Template          string
	}
}

var obprojectFlags = flagsT{}

func addProjectDirFlag(cmd *cobra.Command) string {
	c := "dir"
	cmd.PersistentFlags().StringVar(&obprojectFlags.project.Dir, c, ".",
		"The directory to locate the project from: the obproject.toml found there or in a parent directory applies")
	return c
}

func addProjectNameFlag(cmd *cobra.Command) string {
	c := "name"
	cmd.Flags().StringVar(&obprojectFlags.project.Name, c, "", "The name of the project")
	return c
}

func addProjectDescriptionFlag(cmd *cobra.Command) string {
	c := "description"
	cmd.Flags().StringVar(&obprojectFlags.project.Description, c, "", "A free-form description of the project")
	return c
}

func addAssetKindFlag(cmd *cobra.Command) string {
	c := "kind"
	cmd.Flags().StringVar(&obprojectFlags.asset.Kind, c, "data", `The kind of asset, either "data" or "model"`)
	return c
}

func addAssetNameFlag(cmd *cobra.Command) string {
	c := "name"
	cmd.Flags().StringVar(&obprojectFlags.asset.Name, c, "", "The name of the asset")
	return c
}

func addAssetFileFlag(cmd *cobra.Command) string {
	c := "file"
	cmd.Flags().StringVar(&obprojectFlags.asset.File, c, "",
		`The file holding the payload to register ("-" reads from stdin)`)
	return c
}

func addAnnotationFlag(cmd *cobra.Command) string {
	c := "annotation"
	cmd.Flags().StringSliceVar(&obprojectFlags.asset.Annotations, c, nil,
		"Dynamic metadata attached to the registered version, as key=value. Repeat the flag for several annotations")
	return c
}

func addAssetBranchFlag(cmd *cobra.Command) string {
	c := "branch"
	cmd.Flags().StringVar(&obprojectFlags.asset.Branch, c, "",
		"Read from this branch instead of the branch the project scope resolves to")
	return c
}

func addAssetVersionFlag(cmd *cobra.Command) string {
	c := "version"
	cmd.Flags().StringVar(&obprojectFlags.asset.Version, c, "",
		"Pin the retrieval to a specific version id instead of the branch head")
	return c
}

func addStrictAssetsFlag(cmd *cobra.Command) string {
	c := "strict"
	cmd.Flags().BoolVar(&obprojectFlags.asset.Strict, c, false,
		"Refuse to register assets not declared by an asset_config.toml in the project tree")
	return c
}

func addFlowNameFlag(cmd *cobra.Command) string {
	c := "flow"
	cmd.Flags().StringVar(&obprojectFlags.run.Flow, c, "", "The name of the flow")
	return c
}

func addLogLevel(cmd *cobra.Command) string {
	c := "loglevel"
	cmd.PersistentFlags().StringVar(&obprojectFlags.root.logLevel, c, "info",
		"The logging level. Levels by increasing order of verbosity: none, info, debug")
	return c
}

func addMetricsFlag(cmd *cobra.Command) string {
	c := "metrics"
	defaultMetrics := false
	obprojectFlags.root.metrics.Enabled = &defaultMetrics
	cmd.PersistentFlags().BoolVar(obprojectFlags.root.metrics.Enabled, c, defaultMetrics,
		"Toggle usage metrics collection")
	return c
}

const concurrencyFactorFlag = "concurrency-factor"

func addConcurrencyFactorFlag(cmd *cobra.Command, defaultConcurrency int) string {
	cmd.Flags().IntVar(&obprojectFlags.core.ConcurrencyFactor, concurrencyFactorFlag, defaultConcurrency,
		"Heuristic on the amount of concurrency used when listing metadata. "+
			"Turn this value down to use less memory, increase for faster operations")
	return concurrencyFactorFlag
}

func addBatchSizeFlag(cmd *cobra.Command) string {
	c := "batch-size"
	cmd.Flags().IntVar(&obprojectFlags.core.BatchSize, c, 1024,
		"Number of keys fetched together as a batch when listing. This can be tuned for performance based on network connectivity")
	return c
}

func addTemplateFlag(cmd *cobra.Command) string {
	c := "format"
	cmd.PersistentFlags().StringVar(&obprojectFlags.core.Template, c, "",
		`Pretty-print obproject objects using a Go template. Use '{{ printf "%#v" . }}' to explore available fields`)
	return c
}

// apply config file + env vars to the structure used to parse cli flags
func (flags *flagsT) setDefaultsFromConfig(c *CLIConfig) {
	if flags.root.logLevel == "info" && c.LogLevel != "" {
		flags.root.logLevel = c.LogLevel
	}
	if flags.root.metrics.Enabled == nil || !*flags.root.metrics.Enabled {
		flags.root.metrics.Enabled = c.Metrics.Enabled
	}
}

/** combined config (file + env var) and parameters (pflags) */

type cliOptionInputs struct {
	config *CLIConfig
	flags  *flagsT
}

func newCliOptionInputs(config *CLIConfig, flags *flagsT) *cliOptionInputs {
	return &cliOptionInputs{
		config: config,
		flags:  flags,
	}
}

func (in *cliOptionInputs) getLogger() (*zap.Logger, error) {
	return oblog.GetLogger(in.flags.root.logLevel)
}

// projectStores builds the store set from the configured backend
func (in *cliOptionInputs) projectStores(ctx context.Context) (stores.Stores, error) {
	logger, err := in.getLogger()
	if err != nil {
		return nil, fmt.Errorf("get logger: %w", err)
	}
	return stores.Build(ctx, in.config.locations(), logger)
}

// openProject locates the project from the --dir flag and binds it to the
// configured stores
func (in *cliOptionInputs) openProject(ctx context.Context) (*project.Project, error) {
	st, err := in.projectStores(ctx)
	if err != nil {
		return nil, err
	}
	logger, err := in.getLogger()
	if err != nil {
		return nil, err
	}
	return project.Open(afero.NewOsFs(), in.flags.project.Dir,
		project.Stores(st),
		project.Logger(logger),
		project.WithStrictAssets(in.flags.asset.Strict),
		project.WithMetrics(in.flags.root.metrics.IsEnabled()),
	)
}

func requireFlags(cmd *cobra.Command, requiredFlags ...string) {
	for _, flag := range requiredFlags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			wrapFatalln("mark required flag", err)
			return
		}
	}
}

func userName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

func parseAssetKind(flags *flagsT) (model.Kind, error) {
	return model.ParseKind(flags.asset.Kind)
}

func parseAnnotations(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	annotations := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid annotation %q: expect key=value", pair)
		}
		annotations[key] = value
	}
	return annotations, nil
}
