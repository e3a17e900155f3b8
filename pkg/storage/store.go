// Package storage provides an interface to handle backend storage objects.
//
// This package supports the following backends:
//   - GCS (Google)
//   - S3 (AWS)
//   - local file system
//
// Stores hold opaque objects addressed by keys. Metadata layouts built on
// top of stores (see pkg/model) rely on lexicographically sorted key
// listings.
package storage

import (
	"context"
	"io"
)

const (
	// OverWrite replaces any object previously stored under the same key
	OverWrite = false

	// IfNotPresent makes Put fail with status.ErrExists when the key is already present
	IfNotPresent = true
)

// Store implementations know how to persist and retrieve objects in a K/V fashion.
//
// Typically this is something file system-like: examples are GCS, S3, local FS.
// Implementations are assumed to be fairly simple and map errors to the
// sentinels declared by the status package.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	// KeysPrefix returns a page of keys matching prefix, starting after pageToken,
	// with at most count entries, plus the token for the next page ("" when done).
	// A non-empty delimiter rolls up keys to their first delimiter past the prefix.
	KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error)
	Clear(context.Context) error
}

// PipeIO copies all bytes from reader to writer.
func PipeIO(writer io.Writer, reader io.Reader) (int64, error) {
	return io.Copy(writer, reader)
}
