package storage

import (
	"context"
	"io"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
)

// Instrument decorates a store with opentracing spans and debug logging.
func Instrument(tr opentracing.Tracer, l *zap.Logger, store Store) Store {
	return &instrumentedStore{
		tr:    tr,
		store: store,
		l:     l.With(zap.String("store", store.String())),
	}
}

type instrumentedStore struct {
	store Store
	tr    opentracing.Tracer
	l     *zap.Logger
}

func (i *instrumentedStore) opName(name string) string {
	return strings.Join([]string{"storage", i.String(), name}, ".")
}

func (i *instrumentedStore) spanFromContext(ctx context.Context, name string) opentracing.Span {
	parent := opentracing.SpanFromContext(ctx)
	if parent != nil {
		return i.tr.StartSpan(name, opentracing.ChildOf(parent.Context()))
	}
	return i.tr.StartSpan(name)
}

func (i *instrumentedStore) String() string {
	return i.store.String()
}

func (i *instrumentedStore) Has(ctx context.Context, key string) (bool, error) {
	span := i.spanFromContext(ctx, i.opName("Has"))
	defer span.Finish()
	i.l.Debug("storage has", zap.String("key", key))

	return i.store.Has(ctx, key)
}

func (i *instrumentedStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	span := i.spanFromContext(ctx, i.opName("Get"))
	defer span.Finish()
	i.l.Debug("storage get", zap.String("key", key))

	return i.store.Get(ctx, key)
}

func (i *instrumentedStore) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) error {
	span := i.spanFromContext(ctx, i.opName("Put"))
	defer span.Finish()
	i.l.Debug("storage put", zap.String("key", key), zap.Bool("exclusive", exclusive))

	return i.store.Put(ctx, key, rdr, exclusive)
}

func (i *instrumentedStore) Delete(ctx context.Context, key string) error {
	span := i.spanFromContext(ctx, i.opName("Delete"))
	defer span.Finish()
	i.l.Debug("storage delete", zap.String("key", key))

	return i.store.Delete(ctx, key)
}

func (i *instrumentedStore) Keys(ctx context.Context) ([]string, error) {
	span := i.spanFromContext(ctx, i.opName("Keys"))
	defer span.Finish()
	i.l.Debug("storage keys")

	return i.store.Keys(ctx)
}

func (i *instrumentedStore) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	span := i.spanFromContext(ctx, i.opName("KeysPrefix"))
	defer span.Finish()
	i.l.Debug("storage keys with prefix", zap.String("prefix", prefix))

	return i.store.KeysPrefix(ctx, token, prefix, delimiter, count)
}

func (i *instrumentedStore) Clear(ctx context.Context) error {
	span := i.spanFromContext(ctx, i.opName("Clear"))
	defer span.Finish()
	i.l.Debug("storage clear")

	return i.store.Clear(ctx)
}
