package stores

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/obproject/obproject/pkg/storage"
	"github.com/obproject/obproject/pkg/storage/gcs"
	"github.com/obproject/obproject/pkg/storage/localfs"
	"github.com/obproject/obproject/pkg/storage/sthree"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// KindLocalFS selects stores backed by the local filesystem
	KindLocalFS = "localfs"

	// KindGCS selects stores backed by Google Cloud Storage buckets
	KindGCS = "gcs"

	// KindS3 selects stores backed by AWS S3 buckets
	KindS3 = "s3"

	// DefaultPath is the local directory holding stores when no path is
	// configured
	DefaultPath = ".obproject"
)

// Locations names the backend and the buckets (or local root directory)
// each store maps to. Empty bucket names default to a shared naming scheme.
type Locations struct {
	Kind       string `json:"store,omitempty" yaml:"store,omitempty" mapstructure:"store"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	Metadata   string `json:"metadata,omitempty" yaml:"metadata,omitempty" mapstructure:"metadata"`
	VMetadata  string `json:"vmetadata,omitempty" yaml:"vmetadata,omitempty" mapstructure:"vmetadata"`
	Blob       string `json:"blob,omitempty" yaml:"blob,omitempty" mapstructure:"blob"`
	RunLog     string `json:"runlog,omitempty" yaml:"runlog,omitempty" mapstructure:"runlog"`
	Credential string `json:"credential,omitempty" yaml:"credential,omitempty" mapstructure:"credential"`
	_          struct{}
}

func (l Locations) withDefaults() Locations {
	if l.Kind == "" {
		l.Kind = KindLocalFS
	}
	if l.Path == "" {
		l.Path = DefaultPath
	}
	if l.Metadata == "" {
		l.Metadata = "obproject-meta"
	}
	if l.VMetadata == "" {
		l.VMetadata = "obproject-vmeta"
	}
	if l.Blob == "" {
		l.Blob = "obproject-blob"
	}
	if l.RunLog == "" {
		l.RunLog = "obproject-runlog"
	}
	return l
}

// Build assembles the set of stores for the configured backend.
//
// The localfs backend keeps the four stores as subdirectories of the
// configured path. The gcs and s3 backends map each store to its
// configured bucket.
//
// Every store is wrapped with the instrumented decorator, reporting
// spans to the global tracer and debug logs to the provided logger.
func Build(ctx context.Context, locations Locations, l *zap.Logger) (Stores, error) {
	if l == nil {
		l = zap.NewNop()
	}
	locations = locations.withDefaults()

	tr := opentracing.GlobalTracer()
	instrument := func(store storage.Store) storage.Store {
		return storage.Instrument(tr, l, store)
	}

	switch locations.Kind {
	case KindLocalFS:
		baseFs := afero.NewOsFs()
		build := func(name string) storage.Store {
			return instrument(localfs.New(afero.NewBasePathFs(baseFs, filepath.Join(locations.Path, name))))
		}
		return NewStores(
			build("metadata"),
			build("vmetadata"),
			build("blob"),
			build("runlog"),
		), nil

	case KindGCS:
		st := New()
		for _, bucket := range []struct {
			name string
			set  func(storage.Store)
		}{
			{name: locations.Metadata, set: st.SetMetadata},
			{name: locations.VMetadata, set: st.SetVMetadata},
			{name: locations.Blob, set: st.SetBlob},
			{name: locations.RunLog, set: st.SetRunLog},
		} {
			store, err := gcs.New(ctx, bucket.name, locations.Credential, gcs.Logger(l))
			if err != nil {
				return nil, fmt.Errorf("create gcs store for bucket %q: %w", bucket.name, err)
			}
			bucket.set(instrument(store))
		}
		return st, nil

	case KindS3:
		build := func(bucket string) storage.Store {
			return instrument(sthree.New(sthree.Bucket(bucket), sthree.Logger(l)))
		}
		return NewStores(
			build(locations.Metadata),
			build(locations.VMetadata),
			build(locations.Blob),
			build(locations.RunLog),
		), nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %q (expect %s, %s or %s)",
			locations.Kind, KindLocalFS, KindGCS, KindS3)
	}
}
