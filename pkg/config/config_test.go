package config

import (
	"path/filepath"
	"testing"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectTOML = `project = "my_project"
description = "example asset registry project"

[dev-assets]
branch = "prod"
`

func setupProjectTree(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/"+ProjectCfgFile, []byte(projectTOML), 0600))
	require.NoError(t, afero.WriteFile(fs, "/project/data/sample_data/"+AssetCfgFile,
		[]byte("name = \"sample_data\"\nkind = \"data\"\n"), 0600))
	require.NoError(t, afero.WriteFile(fs, "/project/models/sample_model/"+AssetCfgFile,
		[]byte("name = \"sample_model\"\nkind = \"model\"\n"), 0600))
	return fs
}

func TestFindProjectRoot(t *testing.T) {
	fs := setupProjectTree(t)

	root, err := FindProjectRoot(fs, "/project")
	require.NoError(t, err)
	assert.Equal(t, "/project", root)

	// walks up from nested directories
	root, err = FindProjectRoot(fs, "/project/data/sample_data")
	require.NoError(t, err)
	assert.Equal(t, "/project", root)

	_, err = FindProjectRoot(afero.NewMemMapFs(), "/elsewhere")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProjectNotFound))
}

func TestLoadProject(t *testing.T) {
	fs := setupProjectTree(t)

	cfg, root, err := LoadProjectFromDir(fs, "/project/models")
	require.NoError(t, err)
	assert.Equal(t, "/project", root)
	assert.Equal(t, "my_project", cfg.Project)
	assert.Equal(t, "example asset registry project", cfg.Description)
	assert.Equal(t, "prod", cfg.DevAssets.Branch)
}

func TestLoadProjectWithoutDevAssets(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/"+ProjectCfgFile,
		[]byte("project = \"my_project\"\n"), 0600))

	cfg, err := LoadProject(fs, "/project")
	require.NoError(t, err)
	assert.Equal(t, "my_project", cfg.Project)
	assert.Empty(t, cfg.DevAssets.Branch)
}

func TestLoadProjectInvalid(t *testing.T) {
	for _, toPin := range []struct {
		name    string
		content string
	}{
		{name: "malformed toml", content: "project = \n"},
		{name: "missing project name", content: "description = \"no name\"\n"},
		{name: "invalid project name", content: "project = \"my project!\"\n"},
	} {
		testcase := toPin
		t.Run(testcase.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/project/"+ProjectCfgFile, []byte(testcase.content), 0600))

			_, err := LoadProject(fs, "/project")
			require.Error(t, err)
		})
	}
}

func TestDeclaredAssets(t *testing.T) {
	fs := setupProjectTree(t)

	declared, err := DeclaredAssets(fs, "/project")
	require.NoError(t, err)
	require.Len(t, declared, 2)
	assert.Equal(t, "sample_data", declared[0].Name)
	assert.Equal(t, model.KindData, declared[0].Kind)
	assert.Equal(t, filepath.Join("/project", DataDir, "sample_data"), declared[0].Dir)
	assert.Equal(t, "sample_model", declared[1].Name)
	assert.Equal(t, model.KindModel, declared[1].Kind)
}

func TestDeclaredAssetsDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/"+ProjectCfgFile, []byte(projectTOML), 0600))
	// kind and name default from the tree and directory
	require.NoError(t, afero.WriteFile(fs, "/project/data/extra_data/"+AssetCfgFile, []byte(""), 0600))
	// directories without an asset_config.toml are skipped
	require.NoError(t, afero.WriteFile(fs, "/project/data/scratch/notes.txt", []byte("scratch"), 0600))

	declared, err := DeclaredAssets(fs, "/project")
	require.NoError(t, err)
	require.Len(t, declared, 1)
	assert.Equal(t, "extra_data", declared[0].Name)
	assert.Equal(t, model.KindData, declared[0].Kind)
}

func TestDeclaredAssetsKindMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/data/sample_data/"+AssetCfgFile,
		[]byte("name = \"sample_data\"\nkind = \"model\"\n"), 0600))

	_, err := DeclaredAssets(fs, "/project")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestDeclaredAssetsNoTrees(t *testing.T) {
	fs := afero.NewMemMapFs()
	declared, err := DeclaredAssets(fs, "/project")
	require.NoError(t, err)
	assert.Empty(t, declared)
}

func TestLoadDeploymentSpecFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/deploy/spec.yaml",
		[]byte("branch: main\nspec:\n  asset_branch: test.feature\n"), 0600))

	spec, err := LoadDeploymentSpecFile(fs, "/deploy/spec.yaml")
	require.NoError(t, err)
	assert.Equal(t, "main", spec.Branch)
	assert.Equal(t, "test.feature", spec.Spec.AssetBranch)

	_, err = LoadDeploymentSpecFile(fs, "/deploy/missing.yaml")
	require.Error(t, err)
}

func TestLoadDeploymentSpecEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/deploy/spec.yaml",
		[]byte("branch: main\nspec:\n  asset_branch: prod\n"), 0600))

	t.Setenv(DeploymentEnv, "")
	spec, err := LoadDeploymentSpec(fs)
	require.NoError(t, err)
	assert.Nil(t, spec)

	t.Setenv(DeploymentEnv, "/deploy/spec.yaml")
	spec, err = LoadDeploymentSpec(fs)
	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.Equal(t, "prod", spec.Spec.AssetBranch)
}
