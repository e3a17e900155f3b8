package project

import (
	"testing"

	"github.com/obproject/obproject/pkg/config"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/storage/localfs"
	"github.com/obproject/obproject/pkg/stores"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProjectStores() stores.Stores {
	return stores.NewStores(
		localfs.New(afero.NewMemMapFs()),
		localfs.New(afero.NewMemMapFs()),
		localfs.New(afero.NewMemMapFs()),
		localfs.New(afero.NewMemMapFs()),
	)
}

func testProjectConfig(devBranch string) *config.ProjectConfig {
	return &config.ProjectConfig{
		Project:   "myproject",
		DevAssets: config.DevAssets{Branch: devBranch},
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := New(Stores(testProjectStores()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project configuration")

	_, err = New(Config(testProjectConfig("")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stores")
}

func TestProjectScopeLocal(t *testing.T) {
	t.Parallel()

	p, err := New(
		Config(testProjectConfig("")),
		Stores(testProjectStores()),
		User("Alice"),
	)
	require.NoError(t, err)
	assert.Equal(t, model.Scope{
		Project:     "myproject",
		WriteBranch: "user_alice",
		ReadBranch:  "user_alice",
	}, p.Scope())

	p, err = New(
		Config(testProjectConfig("main")),
		Stores(testProjectStores()),
		User("alice"),
	)
	require.NoError(t, err)
	assert.Equal(t, "user_alice", p.Scope().WriteBranch)
	assert.Equal(t, "main", p.Scope().ReadBranch)
}

func TestProjectScopeDeployed(t *testing.T) {
	t.Parallel()

	// production deployments ignore the dev-assets setting
	p, err := New(
		Config(testProjectConfig("main")),
		Stores(testProjectStores()),
		Deployment(&model.DeploymentSpec{Spec: model.DeploymentAsset{AssetBranch: "prod"}}),
		User("alice"),
	)
	require.NoError(t, err)
	assert.Equal(t, "prod", p.Scope().WriteBranch)
	assert.Equal(t, "prod", p.Scope().ReadBranch)

	// test deployments read the dev-assets branch
	p, err = New(
		Config(testProjectConfig("main")),
		Stores(testProjectStores()),
		Deployment(&model.DeploymentSpec{Spec: model.DeploymentAsset{AssetBranch: "test.ci"}}),
		User("alice"),
	)
	require.NoError(t, err)
	assert.Equal(t, "test_ci", p.Scope().WriteBranch)
	assert.Equal(t, "main", p.Scope().ReadBranch)

	// legacy deployments carry the branch at the top level
	p, err = New(
		Config(testProjectConfig("")),
		Stores(testProjectStores()),
		Deployment(&model.DeploymentSpec{Branch: "test.legacy"}),
		User("alice"),
	)
	require.NoError(t, err)
	assert.Equal(t, "test_legacy", p.Scope().WriteBranch)
	assert.Equal(t, "test_legacy", p.Scope().ReadBranch)
}

func writeProjectTree(t *testing.T, fs afero.Fs) {
	require.NoError(t, afero.WriteFile(fs, "/work/myproject/obproject.toml", []byte(`
project = "myproject"
description = "example project"

[dev-assets]
branch = "main"
`), 0600))
	require.NoError(t, afero.WriteFile(fs, "/work/myproject/data/sample_data/asset_config.toml", []byte(`
name = "sample_data"
kind = "data"
`), 0600))
	require.NoError(t, afero.WriteFile(fs, "/work/myproject/models/sample_model/asset_config.toml", []byte(`
name = "sample_model"
kind = "model"
`), 0600))
}

func TestOpen(t *testing.T) {
	t.Setenv(config.DeploymentEnv, "")
	fs := afero.NewMemMapFs()
	writeProjectTree(t, fs)

	// Open resolves the project root from a nested directory
	p, err := Open(fs, "/work/myproject/data/sample_data",
		Stores(testProjectStores()),
		User("alice"),
	)
	require.NoError(t, err)
	assert.Equal(t, "myproject", p.Name())
	assert.Equal(t, "user_alice", p.Scope().WriteBranch)
	assert.Equal(t, "main", p.Scope().ReadBranch)
	assert.Contains(t, p.declared[model.KindData], "sample_data")
	assert.Contains(t, p.declared[model.KindModel], "sample_model")

	_, err = Open(fs, "/elsewhere", Stores(testProjectStores()))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrProjectNotFound)
}

func TestOpenDeployed(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeProjectTree(t, fs)
	require.NoError(t, afero.WriteFile(fs, "/deploy/spec.yaml", []byte(`
branch: ""
spec:
  asset_branch: test.ci
`), 0600))
	t.Setenv(config.DeploymentEnv, "/deploy/spec.yaml")

	p, err := Open(fs, "/work/myproject",
		Stores(testProjectStores()),
		User("alice"),
	)
	require.NoError(t, err)
	assert.Equal(t, "test_ci", p.Scope().WriteBranch)
	assert.Equal(t, "main", p.Scope().ReadBranch)
}
