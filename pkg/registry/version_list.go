package registry

import (
	"context"
	"time"

	"github.com/obproject/obproject/pkg/model"
)

const (
	maxVersionsToList = 1000000
)

// ListVersions returns the version history of one asset on a branch,
// oldest first.
//
// Versions are keyed by ksuid, so the lexicographic key order is the
// chronological order. An empty branch argument lists the resolved
// read branch.
func (r *Registry) ListVersions(ctx context.Context, branch string, kind model.Kind, name string) (model.AssetDescriptors, error) {
	var err error
	defer func(t0 time.Time) {
		if r.MetricsEnabled() {
			r.m.Usage.UsedAll(t0, "ListVersions")(err)
		}
	}(time.Now())

	if branch == "" {
		branch = r.scope.ReadBranch
	} else {
		branch = model.SanitizeBranchName(branch)
	}
	if err = model.ValidateAssetName(name); err != nil {
		return nil, err
	}

	ks, _, err := r.metaStore().KeysPrefix(ctx, "",
		model.GetArchivePathPrefixToVersions(r.scope.Project, branch, kind, name), "",
		maxVersionsToList)
	if err != nil {
		return nil, err
	}
	versions := make(model.AssetDescriptors, 0, len(ks))
	for _, k := range ks {
		apc, e := model.GetArchivePathComponents(k)
		if e != nil {
			err = e
			return nil, err
		}
		ad, e := r.getVersion(ctx, branch, kind, name, apc.VersionID)
		if e != nil {
			err = e
			return nil, err
		}
		versions = append(versions, ad)
	}
	return versions, nil
}
