package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type scopeFixture struct {
	name        string
	description string
	devBranch   string
	spec        *DeploymentSpec
	expected    string
}

func deployment(branch, assetBranch string) *DeploymentSpec {
	return &DeploymentSpec{
		Branch: branch,
		Spec:   DeploymentAsset{AssetBranch: assetBranch},
	}
}

func readBranchTestCases() []scopeFixture {
	return []scopeFixture{
		// production deployments: read/write same branch
		{
			name:        "production deployment",
			description: "deployed with a production asset branch",
			spec:        deployment("main", "prod"),
			expected:    "prod",
		},
		{
			name:        "production deployment with dev-assets (ignored)",
			description: "dev-assets is ignored for prod deployments",
			devBranch:   "main",
			spec:        deployment("main", "prod"),
			expected:    "prod",
		},
		{
			name:        "production variant",
			description: "production with version suffix",
			spec:        deployment("main", "prod.v2"),
			expected:    "prod.v2",
		},
		// user and test deployments
		{
			name:        "test deployment without dev-assets",
			description: "read/write same test branch",
			spec:        deployment("feature", "test.feature"),
			expected:    "test.feature",
		},
		{
			name:        "test deployment with dev-assets",
			description: "write to test.feature, read from prod",
			devBranch:   "prod",
			spec:        deployment("feature", "test.feature"),
			expected:    "prod",
		},
		{
			name:        "user deployment without dev-assets",
			description: "read/write same user branch",
			spec:        deployment("main", "user.alice"),
			expected:    "user.alice",
		},
		{
			name:        "user deployment with dev-assets",
			description: "write to user.alice, read from prod",
			devBranch:   "prod",
			spec:        deployment("main", "user.alice"),
			expected:    "prod",
		},
		// local development: no deployment spec
		{
			name:        "local dev without dev-assets",
			description: "empty resolution falls back to the write branch",
			spec:        nil,
			expected:    "",
		},
		{
			name:        "local dev with dev-assets",
			description: "write to user branch, read from prod",
			devBranch:   "prod",
			spec:        nil,
			expected:    "prod",
		},
		// edge cases
		{
			name:        "legacy deployment without asset branch",
			description: "falls back to the deployment branch",
			spec:        deployment("main", ""),
			expected:    "main",
		},
		{
			name:        "test namespace with custom branch",
			description: "without dev-assets, read/write same branch",
			spec:        deployment("feature_branch", "test.feature_branch"),
			expected:    "test.feature_branch",
		},
	}
}

func TestResolveReadBranch(t *testing.T) {
	for _, toPin := range readBranchTestCases() {
		testcase := toPin
		t.Run(testcase.name, func(t *testing.T) {
			t.Parallel()
			branch := ResolveReadBranch(testcase.devBranch, testcase.spec)
			assert.Equalf(t, testcase.expected, branch, "scenario: %s", testcase.description)
		})
	}
}

func TestResolveScope(t *testing.T) {
	t.Run("local development", func(t *testing.T) {
		scope := ResolveScope("my_project", "", nil, "alice")
		assert.Equal(t, "my_project", scope.Project)
		assert.Equal(t, "user_alice", scope.WriteBranch)
		assert.Equal(t, "user_alice", scope.ReadBranch)
	})

	t.Run("local development with dev-assets", func(t *testing.T) {
		scope := ResolveScope("my_project", "prod", nil, "alice")
		assert.Equal(t, "user_alice", scope.WriteBranch)
		assert.Equal(t, "prod", scope.ReadBranch)
	})

	t.Run("local development sanitizes the user name", func(t *testing.T) {
		scope := ResolveScope("my_project", "", nil, "Alice@Company.com")
		assert.Equal(t, "user_alice_at_company_com", scope.WriteBranch)
		assert.Equal(t, scope.WriteBranch, scope.ReadBranch)
	})

	t.Run("production deployment", func(t *testing.T) {
		scope := ResolveScope("my_project", "main", deployment("main", "prod"), "alice")
		assert.Equal(t, "prod", scope.WriteBranch)
		assert.Equal(t, "prod", scope.ReadBranch)
	})

	t.Run("test deployment writes sanitized branch", func(t *testing.T) {
		scope := ResolveScope("my_project", "", deployment("feature", "test.feature"), "")
		assert.Equal(t, "test_feature", scope.WriteBranch)
		assert.Equal(t, "test_feature", scope.ReadBranch)
	})

	t.Run("test deployment reading prod", func(t *testing.T) {
		scope := ResolveScope("my_project", "prod", deployment("feature", "test.feature"), "")
		assert.Equal(t, "test_feature", scope.WriteBranch)
		assert.Equal(t, "prod", scope.ReadBranch)
	})
}

func TestIsProductionBranch(t *testing.T) {
	assert.True(t, IsProductionBranch("prod"))
	assert.True(t, IsProductionBranch("prod.v2"))
	assert.False(t, IsProductionBranch("production"))
	assert.False(t, IsProductionBranch("test.prod"))
	assert.False(t, IsProductionBranch("user.alice"))
	assert.False(t, IsProductionBranch(""))
}
