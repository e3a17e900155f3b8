package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "obproject",
	Short: "obproject manages branch-scoped project assets",
	Long: `obproject manages the data and model assets of a project.

Assets are registered under isolated branch namespaces and persisted in an
object store, so workflows can hand versioned data and models to each other
across runs. This CLI covers ad-hoc operations on the same registry the flow
binaries write to: inspecting projects, registering and retrieving assets,
browsing branches, versions and flow runs.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)
	addLogLevel(rootCmd)
	addMetricsFlag(rootCmd)
	addTemplateFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("store", "localfs")
	viper.SetDefault("loglevel", "info")
	if os.Getenv(envConfigLocation) != "" {
		viper.SetConfigFile(os.Getenv(envConfigLocation))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.obproject")
		viper.AddConfigPath("/etc/obproject")
		viper.SetConfigName("obproject")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("obproject")
	viper.AutomaticEnv() // read in environment variables that match
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	obprojectFlags.setDefaultsFromConfig(config)
	if config.Credential != "" {
		// the config file wins over whatever the ambient environment says
		_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", config.Credential)
	}
}
