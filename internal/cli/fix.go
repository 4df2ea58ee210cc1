package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/toyz/axonlint/internal/edits"
	"github.com/toyz/axonlint/internal/errors"
	"github.com/toyz/axonlint/internal/models"
	"github.com/toyz/axonlint/internal/utils"
)

// FileChange describes the rewrite of one file
type FileChange struct {
	Path   string
	Before []byte
	After  []byte // edited, not yet formatted
	Fixes  int
	Edits  int
}

// FixSummary is the outcome of a fix run
type FixSummary struct {
	Changes   []FileChange
	Applied   int
	Skipped   int
	Conflicts *errors.MultipleErrors
}

// Fix checks the packages matched by patterns and applies every planned fix.
// Each registration's fix is applied whole or not at all. With dryRun no file is written.
func (r *Runner) Fix(ctx context.Context, dir string, patterns []string, dryRun bool) (*Result, *FixSummary, error) {
	result, err := r.Check(ctx, dir, patterns)
	if err != nil {
		return nil, nil, err
	}

	summary, err := r.ApplyFixes(ctx, result, dryRun)
	return result, summary, err
}

// ApplyFixes applies the fixes of result's findings file by file
func (r *Runner) ApplyFixes(ctx context.Context, result *Result, dryRun bool) (*FixSummary, error) {
	summary := &FixSummary{}

	byFile := make(map[string][]models.Fix)
	seen := make(map[string]bool)
	for _, finding := range result.Findings {
		if finding.Fix.IsEmpty() {
			continue
		}
		// A handler shared by several registrations gets the same fix more than once.
		key := fixKey(finding.Fix)
		if seen[key] {
			continue
		}
		seen[key] = true

		path := result.Fset.Position(finding.Fix.Edits[0].Span.Pos).Filename
		byFile[path] = append(byFile[path], finding.Fix)
	}

	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		fixes := byFile[path]
		change, skipped, err := r.fixFile(result, path, fixes)
		if err != nil {
			return summary, err
		}

		for _, skip := range skipped {
			errors.AddToMultiple(&summary.Conflicts, errors.NewFixConflictError(path, skip.Title, skip.Reason))
		}
		summary.Skipped += len(skipped)
		if change.Fixes == 0 {
			continue
		}
		summary.Applied += change.Fixes
		summary.Changes = append(summary.Changes, change)

		if dryRun {
			continue
		}
		if err := utils.WriteGoFile(path, change.After); err != nil {
			return summary, errors.WrapFileSystemError("write", path, err)
		}
		r.diagnostics.Verbose("Rewrote %s (%d edits)", path, change.Edits)
	}

	return summary, nil
}

func (r *Runner) fixFile(result *Result, path string, fixes []models.Fix) (FileChange, []edits.SkippedFix, error) {
	change := FileChange{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		return change, nil, errors.WrapFileSystemError("read", path, err)
	}
	change.Before = src

	file := result.Fset.File(fixes[0].Edits[0].Span.Pos)
	if file == nil || file.Size() != len(src) {
		skipped := make([]edits.SkippedFix, 0, len(fixes))
		for _, fix := range fixes {
			skipped = append(skipped, edits.SkippedFix{Title: fix.Title, Reason: "file changed since it was analyzed"})
		}
		return change, skipped, nil
	}

	applied, err := edits.Apply(file, src, fixes)
	if err != nil {
		return change, nil, errors.Wrapf(errors.FixConflictErrorCode, err, "failed to apply fixes to %s", path)
	}

	if applied.Changed() && !bytes.Equal(applied.Source, src) {
		change.After = applied.Source
		change.Fixes = len(applied.Applied)
		change.Edits = applied.EditCount
	}
	return change, applied.Skipped, nil
}

func fixKey(fix models.Fix) string {
	var key bytes.Buffer
	for _, edit := range fix.Edits {
		fmt.Fprintf(&key, "%d:%d:%s;", edit.Span.Pos, edit.Span.End, edit.NewText)
	}
	return key.String()
}
