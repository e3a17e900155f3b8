package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry/status"
	"go.uber.org/zap"
)

// DeleteAsset removes an asset from the write branch: its head pointer
// and all its version descriptors.
//
// Payloads stay in the blob store, as other branches and assets may
// address the same content.
func (r *Registry) DeleteAsset(ctx context.Context, kind model.Kind, name string) (err error) {
	defer func(t0 time.Time) {
		if r.MetricsEnabled() {
			r.m.Usage.UsedAll(t0, "DeleteAsset")(err)
		}
	}(time.Now())

	project := r.scope.Project
	branch := r.scope.WriteBranch

	headPath := model.GetArchivePathToHead(project, branch, kind, name)
	hasHead, err := r.vMetaStore().Has(ctx, headPath)
	if err != nil {
		return err
	}

	ks, _, err := r.metaStore().KeysPrefix(ctx, "",
		model.GetArchivePathPrefixToVersions(project, branch, kind, name), "",
		maxVersionsToList)
	if err != nil {
		return err
	}
	if !hasHead && len(ks) == 0 {
		return status.ErrNotFound
	}

	// 1. drop the head so readers no longer resolve this asset
	if hasHead {
		if err = r.vMetaStore().Delete(ctx, headPath); err != nil {
			return fmt.Errorf("cannot delete head for %s %s in branch %s: %v", kind, name, branch, err)
		}
	}

	// 2. remove all version descriptors
	for _, k := range ks {
		if e := r.metaStore().Delete(ctx, k); e != nil {
			return fmt.Errorf("cannot delete version %s: %v", k, e)
		}
	}

	r.l.Info("deleted asset",
		zap.String("project", project),
		zap.String("branch", branch),
		zap.Stringer("kind", kind),
		zap.String("name", name),
		zap.Int("versions", len(ks)),
	)
	return nil
}
