package cmd

import (
	"os"
	"path/filepath"

	"github.com/obproject/obproject/pkg/stores"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// envConfigLocation overrides the default location of the CLI config file
const envConfigLocation = "OBPROJECT_CONFIG"

// CLIConfig describes the CLI configuration: the store backend settings
// that do not change across runs, plus logging and metrics toggles.
type CLIConfig struct {
	// keep field names aligned with the serialized names, viper matches on those
	Credential string       `json:"credential,omitempty" yaml:"credential,omitempty"`
	Store      string       `json:"store,omitempty" yaml:"store,omitempty"`
	Path       string       `json:"path,omitempty" yaml:"path,omitempty"`
	Metadata   string       `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	VMetadata  string       `json:"vmetadata,omitempty" yaml:"vmetadata,omitempty"`
	Blob       string       `json:"blob,omitempty" yaml:"blob,omitempty"`
	RunLog     string       `json:"runlog,omitempty" yaml:"runlog,omitempty"`
	LogLevel   string       `json:"loglevel,omitempty" yaml:"loglevel,omitempty"`
	Metrics    metricsFlags `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// MarshalConfig produces a yaml rendering of the CLI config
func (c *CLIConfig) MarshalConfig() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *CLIConfig) locations() stores.Locations {
	return stores.Locations{
		Kind:       c.Store,
		Path:       c.Path,
		Metadata:   c.Metadata,
		VMetadata:  c.VMetadata,
		Blob:       c.Blob,
		RunLog:     c.RunLog,
		Credential: c.Credential,
	}
}

func configFileLocation(expand bool) string {
	location := os.Getenv(envConfigLocation)
	if location == "" {
		home := "$HOME"
		if expand {
			if h, err := os.UserHomeDir(); err == nil {
				home = h
			}
		}
		location = filepath.Join(home, ".obproject", "obproject.yaml")
	}
	return location
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the CLI config",
	Long: `Commands to manage the obproject CLI config.

The configuration is the common set of flags needed by most commands and
which do not change across runs, analogous to "git config ...": the store
backend, its buckets or local path, and credentials.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
