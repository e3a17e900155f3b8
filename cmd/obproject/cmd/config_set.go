package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configSet = &cobra.Command{
	Aliases: []string{"create"},
	Use:     "set",
	Short:   "Create a local config file",
	Long: `Creates a local config file holding the flags that do not change across
runs, like the store backend and its location.

By default, this configuration file is placed in ` + configFileLocation(false) + `.

Use the ` + envConfigLocation + ` environment variable to change this default target.
`,
	Example: `# Keep stores in a shared local directory
% obproject config set --store localfs --path /var/lib/obproject
config file created in /home/fred/.obproject/obproject.yaml

# Use GCS buckets with a gcloud credential file (use an absolute path here)
% obproject config set --store gcs --meta acme-meta --vmeta acme-vmeta --blob acme-blob --runlog acme-runlog \
    --credential /home/fred/.config/gcloud/application_default_credentials.json
config file created in /home/fred/.obproject/obproject.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		localConfig := CLIConfig{
			Credential: configSetFlags.credential,
			Store:      configSetFlags.store,
			Path:       configSetFlags.path,
			Metadata:   configSetFlags.metadata,
			VMetadata:  configSetFlags.vmetadata,
			Blob:       configSetFlags.blob,
			RunLog:     configSetFlags.runlog,
			LogLevel:   configSetFlags.loglevel,
			Metrics:    obprojectFlags.root.metrics,
		}

		file := configFileLocation(true)
		if ext := filepath.Ext(file); ext != ".yaml" {
			infoLogger.Printf("warning: the generated config file will contain a yaml document, but the file extension is %q", ext)
		}

		o, err := localConfig.MarshalConfig()
		if err != nil {
			wrapFatalln("could not serialize config to yaml", err)
			return
		}
		err = os.MkdirAll(filepath.Dir(file), 0777)
		if err != nil && !os.IsExist(err) {
			wrapFatalln("could not create directory to hold config "+filepath.Dir(file), err)
			return
		}
		if err := os.WriteFile(file, o, 0644); err != nil {
			wrapFatalln("could not write config file "+file, err)
			return
		}
		infoLogger.Println("config file created in", file)
	},
}

var configSetFlags struct {
	credential string
	store      string
	path       string
	metadata   string
	vmetadata  string
	blob       string
	runlog     string
	loglevel   string
}

func init() {
	configSet.Flags().StringVar(&configSetFlags.credential, "credential", "", "The path to the credential file")
	configSet.Flags().StringVar(&configSetFlags.store, "store", viper.GetString("store"), "The store backend: localfs, gcs or s3")
	configSet.Flags().StringVar(&configSetFlags.path, "path", "", "The local directory holding stores (localfs backend)")
	configSet.Flags().StringVar(&configSetFlags.metadata, "meta", "", "The name of the bucket used for immutable metadata")
	configSet.Flags().StringVar(&configSetFlags.vmetadata, "vmeta", "", "The name of the bucket hosting the mutable head pointers")
	configSet.Flags().StringVar(&configSetFlags.blob, "blob", "", "The name of the bucket hosting the asset payloads")
	configSet.Flags().StringVar(&configSetFlags.runlog, "runlog", "", "The name of the bucket hosting the flow run records")
	configSet.Flags().StringVar(&configSetFlags.loglevel, "loglevel", "", "The default logging level")
	configCmd.AddCommand(configSet)
}
