// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath and os
// functions that accept and return types.FilesystemPath, plus the file
// helpers juv needs for writing notebooks in place.
package fspath

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/juvnb/juv/pkg/types"
)

// ErrNoAvailableName is returned by FirstAvailable when every candidate
// name is taken.
var ErrNoAvailableName = errors.New("no available file name")

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Base wraps filepath.Base for FilesystemPath.
func Base(p types.FilesystemPath) string {
	return filepath.Base(string(p))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// Ext wraps filepath.Ext for FilesystemPath.
func Ext(p types.FilesystemPath) string {
	return filepath.Ext(string(p))
}

// HasExt reports whether p ends in ext, compared case-sensitively.
func HasExt(p types.FilesystemPath, ext string) bool {
	return Ext(p) == ext
}

// WithExt replaces the extension of p (if any) with ext.
func WithExt(p types.FilesystemPath, ext string) types.FilesystemPath {
	s := string(p)
	return types.FilesystemPath(strings.TrimSuffix(s, filepath.Ext(s)) + ext)
}

// Exists reports whether p names an existing file or directory. Errors other
// than "not exist" are returned.
func Exists(p types.FilesystemPath) (bool, error) {
	_, err := os.Stat(string(p))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// FirstAvailable returns the first of dir/stem+ext, dir/stem1+ext, ...
// dir/stem(limit-1)+ext that does not exist.
func FirstAvailable(dir types.FilesystemPath, stem, ext string, limit int) (types.FilesystemPath, error) {
	for i := range limit {
		name := stem + ext
		if i > 0 {
			name = fmt.Sprintf("%s%d%s", stem, i, ext)
		}
		candidate := JoinStr(dir, name)
		exists, err := Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s%s through %s%d%s are all taken in %s", ErrNoAvailableName, stem, ext, stem, limit-1, ext, dir)
}

// WriteFileAtomic writes data to a temporary file next to p and renames it
// over p, so readers see either the old content or the new content. The
// mode of an existing file is kept; perm applies to new files.
func WriteFileAtomic(p types.FilesystemPath, data []byte, perm fs.FileMode) (err error) {
	target := string(p)
	if info, statErr := os.Stat(target); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("set file mode: %w", err)
	}
	if err = os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}
	renamed = true
	return nil
}
