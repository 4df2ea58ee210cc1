package utils

import (
	"fmt"
	"go/format"
	"os"
)

// FormatGoCode formats Go source code using the same logic as gofmt
func FormatGoCode(source []byte) ([]byte, error) {
	return format.Source(source)
}

// WriteGoFile formats source and writes it over filename, keeping the file's mode.
// Unformattable source is written unchanged.
func WriteGoFile(filename string, source []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(filename); err == nil {
		mode = info.Mode().Perm()
	}

	if formatted, err := FormatGoCode(source); err == nil {
		source = formatted
	}

	tmp := filename + ".axonlint.tmp"
	if err := os.WriteFile(tmp, source, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
