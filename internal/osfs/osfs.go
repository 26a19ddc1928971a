//
// SPDX-License-Identifier: GPL-3.0-or-later
//

// Package osfs is the production [fs.FileSystem] adapter: a direct
// os/path-filepath wrapper, kept intentionally thin since the storage
// driver itself carries no behavior worth a heavier abstraction (see
// DESIGN.md).
package osfs

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
	"github.com/pgguru/pgbackrest/internal/fs"
)

// OSFileSystem implements [fs.FileSystem] against the real filesystem.
type OSFileSystem struct{}

var _ fs.FileSystem = OSFileSystem{}

// New returns the production filesystem adapter.
func New() OSFileSystem { return OSFileSystem{} }

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, cfgerr.ErrFileMissing{Path: path}
	default:
		return nil, cfgerr.ErrFileOpen{Path: path, Err: err}
	}
}

func (OSFileSystem) ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	switch {
	case err == nil:
		// fall through
	case errors.Is(err, os.ErrNotExist):
		return nil, cfgerr.ErrPathMissing{Path: dir}
	default:
		return nil, cfgerr.ErrPathOpen{Path: dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() || (e.Type()&os.ModeSymlink) != 0 {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(filepath.Clean(path))
	return err == nil
}
