package registry

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/obproject/obproject/pkg/errors"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry/status"
	"github.com/obproject/obproject/pkg/storage"
	storagestatus "github.com/obproject/obproject/pkg/storage/status"
	"go.uber.org/zap"
)

// RegisterOption is a functor to qualify a registered asset version
type RegisterOption func(*model.AssetDescriptor)

// WithAnnotations attaches free-form annotations to an asset version
func WithAnnotations(annotations map[string]string) RegisterOption {
	return func(a *model.AssetDescriptor) {
		a.Annotations = annotations
	}
}

// WithWorkflow records the flow execution that produced an asset version
func WithWorkflow(ref model.WorkflowRef) RegisterOption {
	return func(a *model.AssetDescriptor) {
		a.Workflow = ref
	}
}

// WithContentType declares the media type of the payload
func WithContentType(contentType string) RegisterOption {
	return func(a *model.AssetDescriptor) {
		a.ContentType = contentType
	}
}

// RegisterData registers a new version of a data asset on the write
// branch, reading the payload from rdr
func (r *Registry) RegisterData(ctx context.Context, name string, rdr io.Reader, opts ...RegisterOption) (model.AssetDescriptor, error) {
	return r.registerAsset(ctx, model.KindData, name, rdr, opts...)
}

// RegisterModel registers a new version of a model asset on the write
// branch, reading the payload from rdr
func (r *Registry) RegisterModel(ctx context.Context, name string, rdr io.Reader, opts ...RegisterOption) (model.AssetDescriptor, error) {
	return r.registerAsset(ctx, model.KindModel, name, rdr, opts...)
}

// registerAsset appends an immutable version of an asset, then moves the
// branch head to it.
//
// The payload is content addressed in the blob store: identical bytes
// registered twice are stored once. Project and branch descriptors are
// created on first use.
func (r *Registry) registerAsset(ctx context.Context, kind model.Kind, name string, rdr io.Reader, opts ...RegisterOption) (ad model.AssetDescriptor, err error) {
	defer func(t0 time.Time) {
		if r.MetricsEnabled() {
			r.m.Usage.UsedAll(t0, "RegisterAsset")(err)
		}
	}(time.Now())

	if err = model.ValidateAssetName(name); err != nil {
		return
	}
	branch := r.scope.WriteBranch
	if err = r.ensureProject(ctx); err != nil {
		return
	}
	if err = r.ensureBranch(ctx, branch); err != nil {
		return
	}

	var data []byte
	data, err = io.ReadAll(rdr)
	if err != nil {
		return
	}
	digest := model.NewDigest(data)

	if err = r.putPayload(ctx, digest, data); err != nil {
		return
	}

	descriptor := model.AssetDescriptor{}
	for _, apply := range opts {
		apply(&descriptor)
	}
	if descriptor.ContentType == "" {
		descriptor.ContentType = "application/octet-stream"
	}
	descriptor.ID = model.NewVersionID()
	descriptor.Name = name
	descriptor.Kind = kind
	descriptor.Branch = branch
	descriptor.Digest = digest.String()
	descriptor.Size = int64(len(data))
	descriptor.Timestamp = r.clock()
	descriptor.Contributor = r.contributor

	if err = model.ValidateAsset(descriptor); err != nil {
		return
	}

	var buffer []byte
	buffer, err = model.MarshalAsset(&descriptor)
	if err != nil {
		return
	}
	pth := model.GetArchivePathToVersion(r.scope.Project, branch, kind, name, descriptor.ID)
	if err = writeDescriptor(ctx, r.metaStore(), pth, buffer, storage.IfNotPresent); err != nil {
		// version descriptors are immutable: a key collision means a corrupt store
		if errors.Is(err, storagestatus.ErrExists) {
			err = status.ErrUnexpectedUpdate.Wrap(err)
		}
		return
	}

	if err = r.updateHead(ctx, branch, kind, name, descriptor); err != nil {
		return
	}

	r.l.Info("registered asset version",
		zap.String("project", r.scope.Project),
		zap.String("branch", branch),
		zap.Stringer("kind", kind),
		zap.String("name", name),
		zap.String("version", descriptor.ID),
		zap.Int64("size", descriptor.Size),
	)
	return descriptor, nil
}

// putPayload stores a content addressed payload, skipping the write when
// the digest is already present
func (r *Registry) putPayload(ctx context.Context, digest model.Digest, data []byte) (err error) {
	var size int64
	defer func(t0 time.Time) {
		if r.MetricsEnabled() {
			r.m.IO.IORecord(t0, "write")(size, err)
		}
	}(time.Now())

	pth := model.GetArchivePathToPayload(r.scope.Project, digest.String())
	has, err := r.blobStore().Has(ctx, pth)
	if err != nil {
		return err
	}
	if has {
		r.l.Debug("payload already stored", zap.String("digest", digest.String()))
		return nil
	}
	size = int64(len(data))
	err = r.blobStore().Put(ctx, pth, bytes.NewReader(data), storage.IfNotPresent)
	if err != nil && errors.Is(err, storagestatus.ErrExists) {
		// a concurrent registration raced us with identical bytes
		err = nil
	}
	return err
}

// updateHead moves the mutable head pointer of an asset to a version
func (r *Registry) updateHead(ctx context.Context, branch string, kind model.Kind, name string, descriptor model.AssetDescriptor) error {
	head := model.HeadDescriptor{
		VersionID: descriptor.ID,
		Digest:    descriptor.Digest,
		Timestamp: descriptor.Timestamp,
	}
	buffer, err := model.MarshalHead(&head)
	if err != nil {
		return err
	}
	return writeDescriptor(ctx, r.vMetaStore(),
		model.GetArchivePathToHead(r.scope.Project, branch, kind, name), buffer, storage.OverWrite)
}
