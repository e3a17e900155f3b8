// Package gcs provides a Google Cloud Storage backed object store.
package gcs

import (
	"context"
	"io"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/obproject/obproject/pkg/storage"
	"github.com/obproject/obproject/pkg/storage/status"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type gcs struct {
	client         *gcsStorage.Client
	readOnlyClient *gcsStorage.Client
	bucket         string
	l              *zap.Logger
}

// New builds a store backed by a GCS bucket.
//
// The credential file is optional: when empty, application default
// credentials apply.
func New(ctx context.Context, bucket string, credentialFile string, opts ...Option) (storage.Store, error) {
	googleStore := &gcs{
		bucket: bucket,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(googleStore)
	}

	clientOpts := make([]option.ClientOption, 0, 2)
	if credentialFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialFile))
	}

	var err error
	googleStore.readOnlyClient, err = gcsStorage.NewClient(ctx,
		append(clientOpts, option.WithScopes(gcsStorage.ScopeReadOnly))...)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	googleStore.client, err = gcsStorage.NewClient(ctx,
		append(clientOpts, option.WithScopes(gcsStorage.ScopeFullControl))...)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return googleStore, nil
}

func (g *gcs) String() string {
	return "gcs://" + g.bucket
}

func (g *gcs) Has(ctx context.Context, objectName string) (bool, error) {
	_, err := g.readOnlyClient.Bucket(g.bucket).Object(objectName).Attrs(ctx)
	if err != nil {
		if err == gcsStorage.ErrObjectNotExist {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

func (g *gcs) Get(ctx context.Context, objectName string) (io.ReadCloser, error) {
	g.l.Debug("gcs get", zap.String("key", objectName))
	objectReader, err := g.readOnlyClient.Bucket(g.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return objectReader, nil
}

func (g *gcs) Put(ctx context.Context, objectName string, reader io.Reader, exclusive bool) error {
	g.l.Debug("gcs put", zap.String("key", objectName), zap.Bool("exclusive", exclusive))
	object := g.client.Bucket(g.bucket).Object(objectName)
	if exclusive {
		object = object.If(gcsStorage.Conditions{DoesNotExist: true})
	}
	writer := object.NewWriter(ctx)
	if _, err := storage.PipeIO(writer, reader); err != nil {
		_ = writer.Close()
		return toSentinelErrors(err)
	}
	return toSentinelErrors(writer.Close())
}

func (g *gcs) Delete(ctx context.Context, objectName string) error {
	err := g.client.Bucket(g.bucket).Object(objectName).Delete(ctx)
	if err == gcsStorage.ErrObjectNotExist {
		return nil
	}
	return toSentinelErrors(err)
}

func (g *gcs) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	pageToken := ""
	for {
		page, next, err := g.KeysPrefix(ctx, pageToken, "", "", defaultPageSize)
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		if next == "" {
			return keys, nil
		}
		pageToken = next
	}
}

const defaultPageSize = 1000

func (g *gcs) KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error) {
	itr := g.readOnlyClient.Bucket(g.bucket).Objects(ctx, &gcsStorage.Query{Prefix: prefix, Delimiter: delimiter})

	var objects []*gcsStorage.ObjectAttrs
	nextPageToken, err := iterator.NewPager(itr, count, pageToken).NextPage(&objects)
	if err != nil {
		return nil, "", toSentinelErrors(err)
	}

	keys := make([]string, 0, len(objects))
	for _, objAttrs := range objects {
		if objAttrs.Prefix != "" {
			// rolled-up key when a delimiter is in use
			keys = append(keys, objAttrs.Prefix)
			continue
		}
		keys = append(keys, objAttrs.Name)
	}
	return keys, nextPageToken, nil
}

func (g *gcs) Clear(context.Context) error {
	return status.ErrNotSupported
}
