package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toyz/axonlint/internal/errors"
)

// parsePosition parses the file:line:col form used by packages.Error
func parsePosition(pos string) (errors.SourceLocation, error) {
	if pos == "" || pos == "-" {
		return errors.SourceLocation{}, fmt.Errorf("no position")
	}

	parts := strings.Split(pos, ":")
	loc := errors.SourceLocation{File: pos}

	// Walk back over trailing numeric fields so Windows drive letters stay in the file name.
	numbers := make([]int, 0, 2)
	for len(parts) > 1 && len(numbers) < 2 {
		n, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			break
		}
		numbers = append([]int{n}, numbers...)
		parts = parts[:len(parts)-1]
	}

	loc.File = strings.Join(parts, ":")
	if len(numbers) > 0 {
		loc.Line = numbers[0]
	}
	if len(numbers) > 1 {
		loc.Column = numbers[1]
	}
	return loc, nil
}
