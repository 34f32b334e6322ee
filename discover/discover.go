// Package discover walks a test tree in a stable order: a directory's own
// test files first, sorted by name, then each subdirectory depth-first in
// the same order. Repeated runs over an unchanged tree always visit files
// in the same sequence, which fail-fast reporting depends on.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
)

// WalkFunc is called once per eligible test file. A non-nil return stops the
// walk immediately and is propagated to the caller of Walk.
type WalkFunc func(path string) error

// Walk visits every file under root whose name ends in ext. Files that do
// not carry the extension are silently skipped. An unreadable root is an
// error; the harness cannot proceed without the tree.
func Walk(root, ext string, fn WalkFunc) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("failed to read test directory %s: %w", root, err)
	}

	// os.ReadDir returns entries sorted by name
	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if filepath.Ext(entry.Name()) != ext {
			continue
		}
		if err := fn(path); err != nil {
			return err
		}
	}

	for _, subdir := range subdirs {
		if err := Walk(subdir, ext, fn); err != nil {
			return err
		}
	}
	return nil
}
