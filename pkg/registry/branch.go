package registry

import (
	"context"
	"fmt"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry/status"
	"github.com/obproject/obproject/pkg/storage"
	storagestatus "github.com/obproject/obproject/pkg/storage/status"
	"go.uber.org/zap"
)

const (
	maxBranchesToList = 1000000
)

// CreateBranch persists a branch descriptor. The branch name must be in
// storage form (see model.SanitizeBranchName).
func CreateBranch(ctx context.Context, branch model.BranchDescriptor, store storage.Store) error {
	err := model.ValidateBranch(branch.Name)
	if err != nil {
		return err
	}
	buffer, err := model.MarshalBranch(&branch)
	if err != nil {
		return err
	}
	return writeDescriptor(ctx, store, model.GetArchivePathToBranch(branch.Project, branch.Name), buffer, storage.IfNotPresent)
}

// GetBranchDescriptor retrieves the descriptor of a branch in a project
func GetBranchDescriptor(ctx context.Context, store storage.Store, projectName, branchName string) (model.BranchDescriptor, error) {
	var bd model.BranchDescriptor
	o, err := readDescriptor(ctx, store, model.GetArchivePathToBranch(projectName, branchName))
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return bd, status.ErrBranchNotFound
		}
		return bd, err
	}
	b, err := model.UnmarshalBranch(o)
	if err != nil {
		return bd, err
	}
	if b.Name != branchName {
		return bd, fmt.Errorf("branch names in descriptor '%v' and archive path '%v' don't match",
			b.Name, branchName)
	}
	return *b, nil
}

// BranchExists checks that a branch has been registered in the metadata store
func BranchExists(ctx context.Context, store storage.Store, projectName, branchName string) error {
	exists, err := store.Has(ctx, model.GetArchivePathToBranch(projectName, branchName))
	if err != nil {
		return fmt.Errorf("branch validation failed: %v", err)
	}
	if !exists {
		return status.ErrBranchNotFound
	}
	return nil
}

// ListBranches returns all branches of a project, in lexicographic order
func ListBranches(ctx context.Context, store storage.Store, projectName string) (model.BranchDescriptors, error) {
	if err := ProjectExists(ctx, store, projectName); err != nil {
		return nil, err
	}
	ks, _, err := store.KeysPrefix(ctx, "", model.GetArchivePathPrefixToBranches(projectName), "", maxBranchesToList)
	if err != nil {
		return nil, err
	}
	branches := make(model.BranchDescriptors, 0, len(ks))
	for _, k := range ks {
		apc, err := model.GetArchivePathComponents(k)
		if err != nil {
			return nil, err
		}
		bd, err := GetBranchDescriptor(ctx, store, projectName, apc.Branch)
		if err != nil {
			if errors.Is(err, status.ErrBranchNotFound) {
				continue
			}
			return nil, err
		}
		branches = append(branches, bd)
	}
	return branches, nil
}

// ListBranches returns all branches of the project in scope
func (r *Registry) ListBranches(ctx context.Context) (model.BranchDescriptors, error) {
	return ListBranches(ctx, r.metaStore(), r.scope.Project)
}

// ensureBranch creates the branch descriptor for the scope write branch
// when it does not exist yet. Losing a creation race is not an error.
func (r *Registry) ensureBranch(ctx context.Context, branch string) error {
	project := r.scope.Project
	if err := BranchExists(ctx, r.metaStore(), project, branch); err == nil {
		return nil
	} else if !errors.Is(err, status.ErrBranchNotFound) {
		return err
	}
	r.l.Debug("creating branch descriptor", zap.String("project", project), zap.String("branch", branch))
	err := CreateBranch(ctx, model.BranchDescriptor{
		Name:        branch,
		Project:     project,
		Timestamp:   r.clock(),
		Contributor: r.contributor,
	}, r.metaStore())
	if err != nil && !errors.Is(err, storagestatus.ErrExists) {
		return err
	}
	return nil
}
