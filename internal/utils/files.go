package utils

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DirectoryFilter defines a function that determines whether a directory should be visited
type DirectoryFilter func(path string, entry fs.DirEntry) bool

// DefaultDirectoryFilter skips directories that never hold analyzed source
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
	}

	return func(path string, entry fs.DirEntry) bool {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// IsGoSource reports whether path names a non-test Go file
func IsGoSource(path string) bool {
	return strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go")
}

// MatchesAny reports whether path, or its base name, matches one of the glob patterns
func MatchesAny(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, slashed); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// SourceDirectories returns root and every directory below it accepted by filter
func SourceDirectories(root string, filter DirectoryFilter) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && filter != nil && !filter(path, entry) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
