package config

import (
	"os"

	"github.com/obproject/obproject/pkg/model"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// DeploymentEnv names the environment variable pointing to the deployment
// spec file of a deployed flow. Unset means local development.
const DeploymentEnv = "OBPROJECT_DEPLOYMENT"

// LoadDeploymentSpec reads the deployment spec named by OBPROJECT_DEPLOYMENT.
// It returns nil without error when the variable is unset.
func LoadDeploymentSpec(fs afero.Fs) (*model.DeploymentSpec, error) {
	pth := os.Getenv(DeploymentEnv)
	if pth == "" {
		return nil, nil
	}
	return LoadDeploymentSpecFile(fs, pth)
}

// LoadDeploymentSpecFile reads a YAML deployment spec from a file
func LoadDeploymentSpecFile(fs afero.Fs, pth string) (*model.DeploymentSpec, error) {
	b, err := afero.ReadFile(fs, pth)
	if err != nil {
		return nil, ErrInvalidConfig.Wrap(err)
	}
	var spec model.DeploymentSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, ErrInvalidConfig.Wrap(err)
	}
	return &spec, nil
}
