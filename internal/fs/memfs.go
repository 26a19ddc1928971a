//
// SPDX-License-Identifier: GPL-3.0-or-later
//

package fs

import (
	"sort"
	"strings"

	"github.com/pgguru/pgbackrest/internal/cfgerr"
)

// MemFS is an in-memory [FileSystem] fake used by engine tests so the
// end-to-end scenarios run hermetically. Files are keyed by their full
// path; directories exist implicitly as path prefixes.
type MemFS struct {
	Files map[string][]byte
}

var _ FileSystem = (*MemFS)(nil)

// NewMemFS builds an empty fake filesystem.
func NewMemFS() *MemFS {
	return &MemFS{Files: map[string][]byte{}}
}

// Put adds or replaces a file.
func (m *MemFS) Put(path string, content string) *MemFS {
	m.Files[path] = []byte(content)
	return m
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.Files[path]
	if !ok {
		return nil, cfgerr.ErrFileMissing{Path: path}
	}
	return data, nil
}

func (m *MemFS) ListDir(dir string) ([]string, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	var found bool
	names := map[string]bool{}
	for path := range m.Files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		found = true
		rest := strings.TrimPrefix(path, prefix)
		if strings.Contains(rest, "/") {
			continue // nested, not a direct child
		}
		names[rest] = true
	}
	if !found {
		return nil, cfgerr.ErrPathMissing{Path: dir}
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemFS) Exists(path string) bool {
	if _, ok := m.Files[path]; ok {
		return true
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range m.Files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
