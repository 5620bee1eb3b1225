package diagfmt

import (
	"path/filepath"
	"strings"
)

// FormatPath renders path according to mode. baseDir is only consulted by
// the relative and auto modes.
func FormatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeRelative:
		return relativeTo(path, baseDir)
	default:
		if baseDir == "" {
			return path
		}
		rel := relativeTo(path, baseDir)
		if strings.HasPrefix(rel, "..") {
			return path
		}
		return rel
	}
}

func relativeTo(path, baseDir string) string {
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
