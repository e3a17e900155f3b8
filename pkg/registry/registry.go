// Package registry implements asset registration and retrieval for a
// project over a set of object stores.
//
// Assets are identified by a kind (data or model) and a name inside a
// branch namespace. Every registration appends an immutable version
// descriptor keyed by a ksuid and moves the branch head to it; payloads
// are content addressed in the blob store, so re-registering identical
// bytes stores them once.
package registry

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/obproject/obproject/pkg/metrics"
	"github.com/obproject/obproject/pkg/model"
	"github.com/obproject/obproject/pkg/registry/status"
	"github.com/obproject/obproject/pkg/storage"
	"github.com/obproject/obproject/pkg/stores"
	"go.uber.org/zap"
)

// Registry exposes asset operations scoped to one project and its
// resolved read and write branches.
//
// A Registry is safe for concurrent use.
type Registry struct {
	scope       model.Scope
	stores      stores.Stores
	contributor model.Contributor
	clock       func() time.Time
	l           *zap.Logger

	metrics.Enable
	m *M
}

// Option is a functor to build a registry with some options
type Option func(*Registry)

// Scope fixes the project and the read and write branches the registry
// operates on
func Scope(scope model.Scope) Option {
	return func(r *Registry) {
		r.scope = scope
	}
}

// Stores defines the set of object stores backing the registry
func Stores(st stores.Stores) Option {
	return func(r *Registry) {
		r.stores = st
	}
}

// ContributedBy records who registers assets through this registry
func ContributedBy(c model.Contributor) Option {
	return func(r *Registry) {
		r.contributor = c
	}
}

// Logger injects a logging facility into registry operations
func Logger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.l = l
		}
	}
}

// WithClock overrides the time source used to stamp descriptors
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithMetrics toggles metrics collection on registry operations
func WithMetrics(enabled bool) Option {
	return func(r *Registry) {
		r.EnableMetrics(enabled)
	}
}

func defaultRegistry() *Registry {
	return &Registry{
		clock: model.GetRunTimeStamp,
		l:     zap.NewNop(),
	}
}

// New builds a registry for a scope and a set of stores
func New(opts ...Option) *Registry {
	r := defaultRegistry()
	for _, apply := range opts {
		apply(r)
	}
	if r.MetricsEnabled() {
		r.m = getMetrics()
	}
	return r
}

func (r *Registry) metaStore() storage.Store {
	return r.stores.Metadata()
}

func (r *Registry) vMetaStore() storage.Store {
	return r.stores.VMetadata()
}

func (r *Registry) blobStore() storage.Store {
	return r.stores.Blob()
}

func (r *Registry) runLogStore() storage.Store {
	return r.stores.RunLog()
}

// readDescriptor fetches the raw bytes of a descriptor, mapping
// missing keys to status.ErrNotFound
func readDescriptor(ctx context.Context, store storage.Store, pth string) ([]byte, error) {
	has, err := store.Has(ctx, pth)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotFound
	}
	rdr, err := store.Get(ctx, pth)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rdr.Close()
	}()
	return io.ReadAll(rdr)
}

func writeDescriptor(ctx context.Context, store storage.Store, pth string, b []byte, exclusive bool) error {
	return store.Put(ctx, pth, bytes.NewReader(b), exclusive)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
