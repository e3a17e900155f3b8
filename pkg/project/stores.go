package project

import (
	"path/filepath"

	"github.com/obproject/obproject/pkg/storage/localfs"
	"github.com/obproject/obproject/pkg/stores"
	"github.com/spf13/afero"
)

// LocalStoreDir is the directory holding the local asset stores of a project tree.
const LocalStoreDir = ".obproject"

// LocalStores builds a set of stores backed by the local filesystem, rooted at dir.
//
// Each store lives in its own subdirectory, so a single project tree can host
// metadata, head pointers, payloads and run records side by side. Directories
// are created lazily on first write.
func LocalStores(fs afero.Fs, dir string) stores.Stores {
	sub := func(name string) afero.Fs {
		return afero.NewBasePathFs(fs, filepath.Join(dir, name))
	}
	return stores.NewStores(
		localfs.New(sub("metadata")),
		localfs.New(sub("vmetadata")),
		localfs.New(sub("blob")),
		localfs.New(sub("runlog")),
	)
}
