// Package config loads the obproject project settings.
//
// A project is rooted at the directory holding its obproject.toml file.
// Assets declare themselves in per-directory asset_config.toml files under
// the data/ and models/ trees. Deployed flows additionally receive a YAML
// deployment spec through the OBPROJECT_DEPLOYMENT environment variable.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	toml "github.com/pelletier/go-toml"
	"github.com/spf13/afero"
)

const (
	// ProjectCfgFile is the name of the project configuration file
	ProjectCfgFile = "obproject.toml"

	// AssetCfgFile is the name of per-asset configuration files
	AssetCfgFile = "asset_config.toml"

	// DataDir is the tree holding data asset directories
	DataDir = "data"

	// ModelsDir is the tree holding model asset directories
	ModelsDir = "models"
)

var (
	// ErrProjectNotFound indicates that no obproject.toml was found in the
	// start directory or any of its parents
	ErrProjectNotFound = errors.New("no " + ProjectCfgFile + " found in this or any parent directory")

	// ErrInvalidConfig indicates a malformed configuration file
	ErrInvalidConfig = errors.New("invalid project configuration")
)

// ProjectConfig mirrors the obproject.toml file
type ProjectConfig struct {
	Project     string    `toml:"project"`
	Description string    `toml:"description,omitempty"`
	DevAssets   DevAssets `toml:"dev-assets,omitempty"`
}

// DevAssets optionally pins the branch read from during development
type DevAssets struct {
	Branch string `toml:"branch,omitempty"`
}

// FindProjectRoot walks up from dir to locate the directory holding an
// obproject.toml file
func FindProjectRoot(fs afero.Fs, dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		found, err := afero.Exists(fs, filepath.Join(current, ProjectCfgFile))
		if err != nil {
			return "", err
		}
		if found {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrProjectNotFound
		}
		current = parent
	}
}

// LoadProject reads and validates the obproject.toml file in root
func LoadProject(fs afero.Fs, root string) (*ProjectConfig, error) {
	b, err := afero.ReadFile(fs, filepath.Join(root, ProjectCfgFile))
	if err != nil {
		return nil, ErrProjectNotFound.Wrap(err)
	}
	var cfg ProjectConfig
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, ErrInvalidConfig.Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadProjectFromDir locates the project root upwards from dir, then loads
// its configuration. It returns the root directory found.
func LoadProjectFromDir(fs afero.Fs, dir string) (*ProjectConfig, string, error) {
	root, err := FindProjectRoot(fs, dir)
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadProject(fs, root)
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}

// Validate checks the project configuration
func (c *ProjectConfig) Validate() error {
	if c.Project == "" {
		return ErrInvalidConfig.Wrap(fmt.Errorf("missing project name in %s", ProjectCfgFile))
	}
	if err := model.ValidateProject(model.ProjectDescriptor{Name: c.Project}); err != nil {
		return ErrInvalidConfig.Wrap(err)
	}
	return nil
}
