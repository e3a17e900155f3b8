package model

import "fmt"

// DeploymentSpec describes the deployment context a flow executes under.
// A nil spec means local development.
type DeploymentSpec struct {
	Branch string          `json:"branch,omitempty" yaml:"branch,omitempty"` // Deployment branch, kept for deployments predating asset branches
	Spec   DeploymentAsset `json:"spec,omitempty" yaml:"spec,omitempty"`
	_      struct{}
}

// DeploymentAsset carries the asset branch settings of a deployment
type DeploymentAsset struct {
	AssetBranch string `json:"asset_branch,omitempty" yaml:"asset_branch,omitempty"`
	_           struct{}
}

// Scope fixes the project and branch namespaces all asset operations of a
// process resolve to. Branch names are in storage form.
type Scope struct {
	Project     string
	WriteBranch string
	ReadBranch  string
	_           struct{}
}

func (s Scope) String() string {
	return fmt.Sprintf("project: %q, write branch: %q, read branch: %q",
		s.Project, s.WriteBranch, s.ReadBranch)
}

// DeployedBranch yields the logical branch a deployment writes to, or ""
// for local development.
func DeployedBranch(spec *DeploymentSpec) string {
	if spec == nil {
		return ""
	}
	if spec.Spec.AssetBranch != "" {
		return spec.Spec.AssetBranch
	}
	return spec.Branch
}

// UserBranch yields the logical branch local development writes to
func UserBranch(user string) string {
	return "user." + user
}

// ResolveReadBranch yields the logical branch reads resolve to, or "" when
// reads should use the write branch.
//
// Production deployments (asset branch "prod" or "prod.*") always read
// their own branch and ignore the configured dev-assets branch. Every
// other deployment, and local development, reads the dev-assets branch
// when one is configured.
func ResolveReadBranch(devBranch string, spec *DeploymentSpec) string {
	if spec == nil {
		return devBranch
	}
	branch := DeployedBranch(spec)
	if IsProductionBranch(branch) {
		return branch
	}
	if devBranch != "" {
		return devBranch
	}
	return branch
}

// ResolveScope computes the asset scope for a process from its project
// settings and deployment context. The user name only matters for local
// development, where it names the write branch.
func ResolveScope(project, devBranch string, spec *DeploymentSpec, user string) Scope {
	write := DeployedBranch(spec)
	if write == "" {
		write = UserBranch(user)
	}
	read := ResolveReadBranch(devBranch, spec)
	if read == "" {
		read = write
	}
	return Scope{
		Project:     project,
		WriteBranch: SanitizeBranchName(write),
		ReadBranch:  SanitizeBranchName(read),
	}
}
