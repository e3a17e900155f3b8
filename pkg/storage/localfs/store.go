// Package localfs provides a local file system backed object store.
//
// Writes are atomic: objects are first written to a staging area inside
// the backing file system, then renamed into place. This relies on
// Rename being atomic on the target file system.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/obproject/obproject/pkg/storage"
	"github.com/obproject/obproject/pkg/storage/status"
	"github.com/spf13/afero"
)

// staging area for in-flight puts, kept inside the store's own file system
const putStageName = ".put-stage"

// New creates a local file system backed object store.
//
// When fs is nil, objects live under .obproject/objects relative to the
// current directory.
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".obproject", "objects"))
	}
	return &localFS{fs: fs}
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) String() string {
	const localfs = "localfs"
	if fs, ok := l.fs.(*afero.BasePathFs); ok {
		if pp, err := fs.RealPath(""); err == nil {
			return localfs + "@" + pp
		}
	}
	return localfs
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	if err := maybeInvalidKey(key); err != nil {
		return false, err
	}
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !fi.IsDir(), nil
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotFound
	}
	return l.fs.Open(key)
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, exclusive bool) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}
	if exclusive {
		has, err := l.Has(ctx, key)
		if err != nil {
			return err
		}
		if has {
			return status.ErrExists
		}
	}
	stageKey := filepath.Join(putStageName, key)
	if err := l.fs.MkdirAll(filepath.Dir(stageKey), 0700); err != nil {
		return fmt.Errorf("ensuring staging directories for %q: %w", key, err)
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC | os.O_SYNC
	target, err := l.fs.OpenFile(stageKey, flag, 0600)
	if err != nil {
		return fmt.Errorf("create record for %q: %w", key, err)
	}
	if _, err = storage.PipeIO(target, source); err != nil {
		_ = target.Close()
		return fmt.Errorf("write record for %q: %w", key, err)
	}
	if err = target.Close(); err != nil {
		return err
	}
	if dir := filepath.Dir(key); dir != "" {
		if err = l.fs.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("ensuring directories for %q: %w", key, err)
		}
	}
	// exclusivity remains racy across processes: Rename clobbers a
	// concurrent winner. Single-writer flows make this acceptable.
	return l.fs.Rename(stageKey, key)
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	if err := maybeInvalidKey(key); err != nil {
		return err
	}
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	const root = "."
	var res []string
	err := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if path == root || info.IsDir() {
			return nil
		}
		key := normalKey(path)
		if maybeInvalidKey(key) != nil {
			// skip in-flight staged objects
			return nil
		}
		res = append(res, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(res)
	return res, nil
}

func (l *localFS) KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error) {
	all, err := l.Keys(ctx)
	if err != nil {
		return nil, "", err
	}
	matched := make([]string, 0, count)
	var last string
	for _, key := range all {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		if delimiter != "" {
			if i := strings.Index(key[len(prefix):], delimiter); i >= 0 {
				key = key[:len(prefix)+i+len(delimiter)]
			}
			if key == last {
				continue
			}
		}
		if pageToken != "" && key <= pageToken {
			continue
		}
		last = key
		matched = append(matched, key)
		if count > 0 && len(matched) > count {
			// one extra probed: more pages remain
			return matched[:count], matched[count-1], nil
		}
	}
	return matched, "", nil
}

func (l *localFS) Clear(ctx context.Context) error {
	return l.fs.RemoveAll("/")
}

// maybeInvalidKey rejects keys colliding with the staging area
func maybeInvalidKey(key string) error {
	pathComponents := strings.Split(strings.TrimLeft(key, "/"), "/")
	if len(pathComponents) > 0 && pathComponents[0] == putStageName {
		return fmt.Errorf("key %q conflicts with put staging area name %q: %w",
			key, putStageName, status.ErrInvalidResource)
	}
	return nil
}

// normalKey maps walked paths back to slash-separated store keys
func normalKey(path string) string {
	return strings.TrimLeft(filepath.ToSlash(path), "/")
}
