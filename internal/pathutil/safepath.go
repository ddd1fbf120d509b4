// Package pathutil confines user-supplied file paths to a base directory.
//
// Storage paths come from environment variables, so they are resolved
// through symlinks and rejected when they would land outside the taskflow
// data directory.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapesBase is returned when a path resolves outside its base directory.
var ErrEscapesBase = errors.New("path escapes base directory")

// ResolveSafePath resolves userPath against baseDir and returns the
// symlink-free absolute result, which is guaranteed to lie inside baseDir.
//
// Relative paths are joined to baseDir; absolute paths are accepted only if
// they already point inside it. The target itself need not exist: the
// deepest existing ancestor is resolved and the missing tail is re-attached.
//
// Empty paths, paths containing NUL bytes and paths that escape baseDir
// (directly, through "..", or through a symlink) are rejected.
func ResolveSafePath(baseDir, userPath string) (string, error) {
	if strings.TrimSpace(userPath) == "" {
		return "", fmt.Errorf("path is empty or whitespace-only")
	}
	if strings.ContainsRune(userPath, 0) {
		return "", fmt.Errorf("path contains null byte")
	}

	candidate := userPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(baseDir, candidate)
	}

	resolved, err := resolveAllowMissing(filepath.Clean(candidate))
	if err != nil {
		return "", err
	}
	base, err := resolveAllowMissing(filepath.Clean(baseDir))
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	if !within(base, resolved) {
		return "", fmt.Errorf("%w: %s", ErrEscapesBase, userPath)
	}
	return resolved, nil
}

// within reports whether path equals base or lies beneath it.
func within(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveAllowMissing evaluates symlinks in path. When a suffix of the path
// does not exist yet, the deepest existing ancestor is resolved and the
// missing components are appended unchanged.
func resolveAllowMissing(path string) (string, error) {
	var missing []string
	current := path

	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to resolve symlinks: %w", err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing parent directory found for %s", path)
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}
