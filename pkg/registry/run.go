package registry

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry/status"
	"github.com/obproject/obproject/pkg/storage"
)

const (
	maxRunsToList = 1000000
)

// PutRun persists a run record in the run log.
//
// The record for a given run id is overwritten as the run progresses
// from running to its terminal status.
func (r *Registry) PutRun(ctx context.Context, run model.RunDescriptor) error {
	if run.Project == "" {
		run.Project = r.scope.Project
	}
	if err := model.ValidateRun(run); err != nil {
		return err
	}
	buffer, err := model.MarshalRun(&run)
	if err != nil {
		return err
	}
	return writeDescriptor(ctx, r.runLogStore(),
		model.GetArchivePathToRun(run.Project, run.Flow, run.ID), buffer, storage.OverWrite)
}

// GetRun retrieves one run record of a flow
func (r *Registry) GetRun(ctx context.Context, flow, runID string) (model.RunDescriptor, error) {
	var rd model.RunDescriptor
	o, err := readDescriptor(ctx, r.runLogStore(), model.GetArchivePathToRun(r.scope.Project, flow, runID))
	if err != nil {
		return rd, err
	}
	run, err := model.UnmarshalRun(o)
	if err != nil {
		return rd, err
	}
	if run.ID != runID {
		return rd, fmt.Errorf("run ids in descriptor '%v' and archive path '%v' don't match",
			run.ID, runID)
	}
	return *run, nil
}

// ListRuns returns the run records of the project, in flow name order,
// oldest run first. An empty flow argument lists runs across all flows.
func (r *Registry) ListRuns(ctx context.Context, flow string) (model.RunDescriptors, error) {
	ks, _, err := r.runLogStore().KeysPrefix(ctx, "",
		model.GetArchivePathPrefixToRuns(r.scope.Project, flow), "", maxRunsToList)
	if err != nil {
		return nil, err
	}
	runs := make(model.RunDescriptors, 0, len(ks))
	for _, k := range ks {
		apc, e := model.GetArchivePathComponents(k)
		if e != nil {
			return nil, e
		}
		if apc.IsRunCard {
			continue // run cards live next to run records
		}
		rd, e := r.GetRun(ctx, apc.Flow, apc.RunID)
		if e != nil {
			if errors.Is(e, status.ErrNotFound) {
				continue
			}
			return nil, e
		}
		runs = append(runs, rd)
	}
	sort.Sort(runs)
	return runs, nil
}

// PutRunCard persists the Markdown card summarizing a run
func (r *Registry) PutRunCard(ctx context.Context, flow, runID string, card []byte) error {
	return r.runLogStore().Put(ctx,
		model.GetArchivePathToRunCard(r.scope.Project, flow, runID),
		bytes.NewReader(card), storage.OverWrite)
}

// GetRunCard retrieves the Markdown card of a run
func (r *Registry) GetRunCard(ctx context.Context, flow, runID string) ([]byte, error) {
	return readDescriptor(ctx, r.runLogStore(), model.GetArchivePathToRunCard(r.scope.Project, flow, runID))
}
