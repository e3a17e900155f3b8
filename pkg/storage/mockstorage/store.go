// Package mockstorage provides a mock object store for testing,
// with every method overridable by a func field.
package mockstorage

import (
	"context"
	"io"
)

// StoreMock implements storage.Store with configurable functions.
// Methods without a configured func return zero values.
type StoreMock struct {
	StringFunc     func() string
	HasFunc        func(ctx context.Context, key string) (bool, error)
	GetFunc        func(ctx context.Context, key string) (io.ReadCloser, error)
	PutFunc        func(ctx context.Context, key string, source io.Reader, exclusive bool) error
	DeleteFunc     func(ctx context.Context, key string) error
	KeysFunc       func(ctx context.Context) ([]string, error)
	KeysPrefixFunc func(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error)
	ClearFunc      func(ctx context.Context) error
}

func (s *StoreMock) String() string {
	if s.StringFunc == nil {
		return "mock"
	}
	return s.StringFunc()
}

func (s *StoreMock) Has(ctx context.Context, key string) (bool, error) {
	if s.HasFunc == nil {
		return false, nil
	}
	return s.HasFunc(ctx, key)
}

func (s *StoreMock) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.GetFunc == nil {
		return nil, nil
	}
	return s.GetFunc(ctx, key)
}

func (s *StoreMock) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if s.PutFunc == nil {
		return nil
	}
	return s.PutFunc(ctx, key, source, exclusive)
}

func (s *StoreMock) Delete(ctx context.Context, key string) error {
	if s.DeleteFunc == nil {
		return nil
	}
	return s.DeleteFunc(ctx, key)
}

func (s *StoreMock) Keys(ctx context.Context) ([]string, error) {
	if s.KeysFunc == nil {
		return nil, nil
	}
	return s.KeysFunc(ctx)
}

func (s *StoreMock) KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error) {
	if s.KeysPrefixFunc == nil {
		return nil, "", nil
	}
	return s.KeysPrefixFunc(ctx, pageToken, prefix, delimiter, count)
}

func (s *StoreMock) Clear(ctx context.Context) error {
	if s.ClearFunc == nil {
		return nil
	}
	return s.ClearFunc(ctx)
}
