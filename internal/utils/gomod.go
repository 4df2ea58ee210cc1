package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// Module describes the Go module enclosing a directory
type Module struct {
	Root string // directory containing go.mod
	Path string // module path declared in go.mod
}

// ParseModuleName extracts the module name from a go.mod file
func ParseModuleName(goModPath string) (string, error) {
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.ParseLax(goModPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse go.mod file: %w", err)
	}

	if modFile.Module == nil {
		return "", fmt.Errorf("no module declaration found in %s", goModPath)
	}

	return modFile.Module.Mod.Path, nil
}

// FindModule searches for go.mod starting from startDir and walking up
func FindModule(startDir string) (Module, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return Module{}, err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			path, err := ParseModuleName(goModPath)
			if err != nil {
				return Module{}, err
			}
			return Module{Root: currentDir, Path: path}, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return Module{}, fmt.Errorf("go.mod file not found above %s", startDir)
}
