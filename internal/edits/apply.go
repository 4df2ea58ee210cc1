package edits

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"sort"
	"unicode"

	"github.com/toyz/axonlint/internal/models"
)

// ErrSizeMismatch is returned when the source does not match the token.File it is edited through
var ErrSizeMismatch = errors.New("source size does not match file")

// SkippedFix records a fix that was not applied and why
type SkippedFix struct {
	Title  string
	Reason string
}

// Result is the outcome of applying fixes to one file
type Result struct {
	Source    []byte
	Applied   []models.Fix
	Skipped   []SkippedFix
	EditCount int
}

// Changed reports whether any edit was applied
func (r Result) Changed() bool {
	return r.EditCount > 0
}

type offsetEdit struct {
	start, end int
	text       string
}

// Apply applies fixes to src, the content of file. Each fix is all-or-nothing: if any of
// its edits is out of range, overlaps an edit already accepted, or finds text other than
// its OldText guard, the whole fix is skipped and src is left untouched by it.
func Apply(file *token.File, src []byte, fixes []models.Fix) (Result, error) {
	result := Result{Source: src}
	if file == nil {
		return result, fmt.Errorf("edits: file is nil")
	}
	if file.Size() != len(src) {
		return result, fmt.Errorf("edits: %s: %w (%d != %d)", file.Name(), ErrSizeMismatch, len(src), file.Size())
	}

	var accepted []offsetEdit
	for _, fix := range fixes {
		if fix.IsEmpty() {
			continue
		}

		resolved, err := resolve(file, src, fix)
		if err == nil {
			err = checkOverlap(accepted, resolved)
		}
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFix{Title: fix.Title, Reason: err.Error()})
			continue
		}

		accepted = append(accepted, resolved...)
		result.Applied = append(result.Applied, fix)
	}

	if len(accepted) == 0 {
		return result, nil
	}

	result.Source = splice(src, accepted)
	result.EditCount = len(accepted)
	return result, nil
}

// resolve converts a fix's spans to byte offsets and validates its guards
func resolve(file *token.File, src []byte, fix models.Fix) ([]offsetEdit, error) {
	resolved := make([]offsetEdit, 0, len(fix.Edits))
	for _, edit := range fix.Edits {
		start, ok := offset(file, edit.Span.Pos)
		if !ok {
			return nil, fmt.Errorf("edit start %d outside %s", edit.Span.Pos, file.Name())
		}
		end, ok := offset(file, edit.Span.End)
		if !ok || end < start {
			return nil, fmt.Errorf("edit end %d outside %s", edit.Span.End, file.Name())
		}
		if edit.OldText != "" && !sameText(src[start:end], edit.OldText) {
			return nil, fmt.Errorf("source changed: expected %q, found %q", edit.OldText, src[start:end])
		}
		resolved = append(resolved, offsetEdit{start: start, end: end, text: edit.NewText})
	}

	if err := checkOverlap(nil, resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

// offset maps pos into file without panicking on foreign positions
func offset(file *token.File, pos token.Pos) (int, bool) {
	if !pos.IsValid() {
		return 0, false
	}
	off := int(pos) - file.Base()
	if off < 0 || off > file.Size() {
		return 0, false
	}
	return off, true
}

// checkOverlap reports whether any candidate overlaps an accepted edit or another candidate
func checkOverlap(accepted, candidates []offsetEdit) error {
	all := make([]offsetEdit, 0, len(accepted)+len(candidates))
	all = append(all, accepted...)
	all = append(all, candidates...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end < all[j].end
	})

	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if cur.start < prev.end || (cur.start == prev.start && cur.start == cur.end && prev.start == prev.end) {
			return fmt.Errorf("conflicting edits at offsets %d-%d and %d-%d", prev.start, prev.end, cur.start, cur.end)
		}
	}
	return nil
}

// splice applies non-overlapping edits back to front
func splice(src []byte, list []offsetEdit) []byte {
	sorted := make([]offsetEdit, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].start > sorted[j].start
	})

	out := make([]byte, len(src))
	copy(out, src)
	for _, edit := range sorted {
		var buf bytes.Buffer
		buf.Grow(len(out) - (edit.end - edit.start) + len(edit.text))
		buf.Write(out[:edit.start])
		buf.WriteString(edit.text)
		buf.Write(out[edit.end:])
		out = buf.Bytes()
	}
	return out
}

// sameText compares guarded source with expected text, ignoring whitespace.
// Planned text is rendered canonically, as in "a, b string", while the source may not be.
func sameText(found []byte, expected string) bool {
	if bytes.Equal(found, []byte(expected)) {
		return true
	}
	return bytes.Equal(stripSpace(found), stripSpace([]byte(expected)))
}

func stripSpace(text []byte) []byte {
	return bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}
