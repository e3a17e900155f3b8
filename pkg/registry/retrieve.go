package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry/status"
	"go.uber.org/zap"
)

type getSettings struct {
	branch     string
	version    string
	verifyHash bool
}

// GetOption is a functor to qualify an asset retrieval
type GetOption func(*getSettings)

// AtBranch reads from an explicit branch instead of the resolved read
// branch. The name is sanitized to storage form.
func AtBranch(branch string) GetOption {
	return func(s *getSettings) {
		s.branch = model.SanitizeBranchName(branch)
	}
}

// AtVersion pins the retrieval to a version id instead of following the
// branch head
func AtVersion(versionID string) GetOption {
	return func(s *getSettings) {
		s.version = versionID
	}
}

// WithVerifyHash rehashes the payload upon retrieval and checks it
// against the digest recorded at registration time
func WithVerifyHash(enabled bool) GetOption {
	return func(s *getSettings) {
		s.verifyHash = enabled
	}
}

// GetData retrieves a data asset from the read branch: its payload as a
// reader, and the version descriptor. The caller closes the reader.
func (r *Registry) GetData(ctx context.Context, name string, opts ...GetOption) (io.ReadCloser, model.AssetDescriptor, error) {
	return r.getAsset(ctx, model.KindData, name, opts...)
}

// GetModel retrieves a model asset from the read branch: its payload as
// a reader, and the version descriptor. The caller closes the reader.
func (r *Registry) GetModel(ctx context.Context, name string, opts ...GetOption) (io.ReadCloser, model.AssetDescriptor, error) {
	return r.getAsset(ctx, model.KindModel, name, opts...)
}

// getAsset resolves an asset to a version, then opens its payload.
//
// Resolution follows the branch head unless a version is pinned with
// AtVersion. Missing heads, versions or payloads report
// status.ErrNotFound.
func (r *Registry) getAsset(ctx context.Context, kind model.Kind, name string, opts ...GetOption) (rdr io.ReadCloser, ad model.AssetDescriptor, err error) {
	defer func(t0 time.Time) {
		if r.MetricsEnabled() {
			r.m.Usage.UsedAll(t0, "GetAsset")(err)
		}
	}(time.Now())

	var settings getSettings
	for _, apply := range opts {
		apply(&settings)
	}
	branch := settings.branch
	if branch == "" {
		branch = r.scope.ReadBranch
	}

	versionID := settings.version
	if versionID == "" {
		var head *model.HeadDescriptor
		head, err = r.getHead(ctx, branch, kind, name)
		if err != nil {
			return
		}
		versionID = head.VersionID
	}

	ad, err = r.getVersion(ctx, branch, kind, name, versionID)
	if err != nil {
		return
	}

	rdr, err = r.openPayload(ctx, ad)
	if err != nil {
		return
	}
	if settings.verifyHash {
		rdr, err = verifiedPayload(rdr, ad)
		if err != nil {
			return
		}
	}

	r.l.Debug("retrieved asset",
		zap.String("project", r.scope.Project),
		zap.String("branch", branch),
		zap.Stringer("kind", kind),
		zap.String("name", name),
		zap.String("version", ad.ID),
	)
	return rdr, ad, nil
}

// getHead reads the mutable head pointer of an asset
func (r *Registry) getHead(ctx context.Context, branch string, kind model.Kind, name string) (*model.HeadDescriptor, error) {
	o, err := readDescriptor(ctx, r.vMetaStore(), model.GetArchivePathToHead(r.scope.Project, branch, kind, name))
	if err != nil {
		return nil, err
	}
	h, err := model.UnmarshalHead(o)
	if err != nil {
		return nil, err
	}
	if err = model.ValidateHead(*h); err != nil {
		return nil, err
	}
	return h, nil
}

// getVersion reads one immutable version descriptor
func (r *Registry) getVersion(ctx context.Context, branch string, kind model.Kind, name, versionID string) (model.AssetDescriptor, error) {
	var ad model.AssetDescriptor
	o, err := readDescriptor(ctx, r.metaStore(),
		model.GetArchivePathToVersion(r.scope.Project, branch, kind, name, versionID))
	if err != nil {
		return ad, err
	}
	a, err := model.UnmarshalAsset(o)
	if err != nil {
		return ad, err
	}
	if a.Name != name {
		return ad, fmt.Errorf("asset names in descriptor '%v' and archive path '%v' don't match",
			a.Name, name)
	}
	return *a, nil
}

// openPayload opens the content addressed payload of a version
func (r *Registry) openPayload(ctx context.Context, descriptor model.AssetDescriptor) (rdr io.ReadCloser, err error) {
	defer func(t0 time.Time) {
		if r.MetricsEnabled() {
			r.m.IO.IORecord(t0, "read")(descriptor.Size, err)
		}
	}(time.Now())

	pth := model.GetArchivePathToPayload(r.scope.Project, descriptor.Digest)
	has, err := r.blobStore().Has(ctx, pth)
	if err != nil {
		return nil, err
	}
	if !has {
		// the version descriptor names a payload the blob store does not hold
		r.l.Warn("missing payload for registered version",
			zap.String("version", descriptor.ID),
			zap.String("digest", descriptor.Digest),
		)
		return nil, status.ErrNotFound
	}
	return r.blobStore().Get(ctx, pth)
}

// verifiedPayload rehashes a payload and checks it against the recorded digest
func verifiedPayload(rdr io.ReadCloser, descriptor model.AssetDescriptor) (io.ReadCloser, error) {
	defer func() {
		_ = rdr.Close()
	}()
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}
	if model.NewDigest(data).String() != descriptor.Digest {
		return nil, status.ErrPayloadMismatch
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
