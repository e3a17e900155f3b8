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
	maxProjectsToList = 1000000
)

// CreateProject persists a project descriptor.
//
// Creation is exclusive: registering a project name twice reports
// storage/status.ErrExists.
func CreateProject(ctx context.Context, project model.ProjectDescriptor, store storage.Store) error {
	err := model.ValidateProject(project)
	if err != nil {
		return err
	}
	buffer, err := model.MarshalProject(&project)
	if err != nil {
		return err
	}
	return writeDescriptor(ctx, store, model.GetArchivePathToProject(project.Name), buffer, storage.IfNotPresent)
}

// GetProjectDescriptor retrieves the descriptor of a named project
func GetProjectDescriptor(ctx context.Context, store storage.Store, projectName string) (model.ProjectDescriptor, error) {
	var pd model.ProjectDescriptor
	o, err := readDescriptor(ctx, store, model.GetArchivePathToProject(projectName))
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return pd, status.ErrProjectNotFound
		}
		return pd, err
	}
	p, err := model.UnmarshalProject(o)
	if err != nil {
		return pd, err
	}
	if p.Name != projectName {
		return pd, fmt.Errorf("project names in descriptor '%v' and archive path '%v' don't match",
			p.Name, projectName)
	}
	return *p, nil
}

// ProjectExists checks that a project has been registered in the metadata store
func ProjectExists(ctx context.Context, store storage.Store, projectName string) error {
	exists, err := store.Has(ctx, model.GetArchivePathToProject(projectName))
	if err != nil {
		return fmt.Errorf("project validation failed: %v", err)
	}
	if !exists {
		return status.ErrProjectNotFound
	}
	return nil
}

// ListProjects returns all projects from a metadata store, in lexicographic order
func ListProjects(ctx context.Context, store storage.Store) (model.ProjectDescriptors, error) {
	ks, _, err := store.KeysPrefix(ctx, "", model.GetArchivePathPrefixToProjects(), "", maxProjectsToList)
	if err != nil {
		return nil, err
	}
	projects := make(model.ProjectDescriptors, 0, len(ks))
	for _, k := range ks {
		apc, err := model.GetArchivePathComponents(k)
		if err != nil {
			return nil, err
		}
		pd, err := GetProjectDescriptor(ctx, store, apc.Project)
		if err != nil {
			if errors.Is(err, status.ErrProjectNotFound) {
				continue
			}
			return nil, err
		}
		projects = append(projects, pd)
	}
	return projects, nil
}

// ensureProject creates the project descriptor for the registry scope
// when it does not exist yet. Concurrent registrations may race on the
// first write: losing the race is not an error.
func (r *Registry) ensureProject(ctx context.Context) error {
	project := r.scope.Project
	if err := ProjectExists(ctx, r.metaStore(), project); err == nil {
		return nil
	} else if !errors.Is(err, status.ErrProjectNotFound) {
		return err
	}
	r.l.Debug("creating project descriptor", zap.String("project", project))
	err := CreateProject(ctx, model.ProjectDescriptor{
		Name:        project,
		Timestamp:   r.clock(),
		Contributor: r.contributor,
	}, r.metaStore())
	if err != nil && !errors.Is(err, storagestatus.ErrExists) {
		return err
	}
	return nil
}
