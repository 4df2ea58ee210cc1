package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/toyz/axonlint/internal/errors"
	"github.com/toyz/axonlint/internal/models"
	"github.com/toyz/axonlint/internal/utils"
)

// Reporter prints findings and errors for humans or as JSON
type Reporter struct {
	diagnostics *utils.DiagnosticSystem
	out         io.Writer
	errOut      io.Writer
	baseDir     string
	verbose     bool
}

// NewReporter creates a reporter writing findings to out and errors to errOut.
// File names are printed relative to baseDir when possible.
func NewReporter(diagnostics *utils.DiagnosticSystem, out, errOut io.Writer, baseDir string, verbose bool) *Reporter {
	return &Reporter{
		diagnostics: diagnostics,
		out:         out,
		errOut:      errOut,
		baseDir:     baseDir,
		verbose:     verbose,
	}
}

func (r *Reporter) relative(path string) string {
	if r.baseDir == "" {
		return path
	}
	if rel, err := filepath.Rel(r.baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func severityColor(severity models.Severity) *color.Color {
	switch severity {
	case models.SeverityError:
		return color.New(color.FgRed, color.Bold)
	case models.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgBlue)
	}
}

// PrintFindings prints one line per finding in file:line:col form
func (r *Reporter) PrintFindings(result *Result) {
	for _, finding := range result.Findings {
		pos := finding.Position
		fmt.Fprintf(r.out, "%s:%d:%d: %s: %s [%s]\n",
			r.relative(pos.Filename), pos.Line, pos.Column,
			r.diagnostics.Colorize(severityColor(finding.Diagnostic.Severity), finding.Diagnostic.Severity.String()),
			finding.Diagnostic.Message,
			finding.Diagnostic.RuleID,
		)
		if r.verbose {
			reg := finding.Registration
			fmt.Fprintf(r.out, "    %s %q handled by %s\n", reg.Method, reg.Template, reg.Handler)
			for _, edit := range finding.Fix.Edits {
				fmt.Fprintf(r.out, "    fix: %s -> %s\n", describeOld(edit), edit.NewText)
			}
		}
	}
}

func describeOld(edit models.FixEdit) string {
	if edit.OldText != "" {
		return edit.OldText
	}
	return "declaration"
}

type jsonEdit struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	OldText string `json:"old_text,omitempty"`
	NewText string `json:"new_text"`
}

type jsonFix struct {
	Title string     `json:"title"`
	Edits []jsonEdit `json:"edits"`
}

type jsonFinding struct {
	File      string   `json:"file"`
	Line      int      `json:"line"`
	Column    int      `json:"column"`
	EndLine   int      `json:"end_line"`
	EndColumn int      `json:"end_column"`
	Rule      string   `json:"rule"`
	Severity  string   `json:"severity"`
	Message   string   `json:"message"`
	Arguments []string `json:"arguments"`
	Package   string   `json:"package"`
	Method    string   `json:"method"`
	Template  string   `json:"template"`
	Handler   string   `json:"handler"`
	Fix       *jsonFix `json:"fix,omitempty"`
}

// PrintJSON prints all findings as a JSON array
func (r *Reporter) PrintJSON(result *Result) error {
	findings := make([]jsonFinding, 0, len(result.Findings))
	for _, finding := range result.Findings {
		entry := jsonFinding{
			File:      r.relative(finding.Position.Filename),
			Line:      finding.Position.Line,
			Column:    finding.Position.Column,
			EndLine:   finding.End.Line,
			EndColumn: finding.End.Column,
			Rule:      finding.Diagnostic.RuleID,
			Severity:  finding.Diagnostic.Severity.String(),
			Message:   finding.Diagnostic.Message,
			Arguments: finding.Diagnostic.Arguments,
			Package:   finding.Package,
			Method:    finding.Registration.Method,
			Template:  finding.Registration.Template,
			Handler:   finding.Registration.Handler,
		}
		if !finding.Fix.IsEmpty() {
			fix := &jsonFix{Title: finding.Fix.Title}
			for _, edit := range finding.Fix.Edits {
				pos := result.Fset.Position(edit.Span.Pos)
				fix.Edits = append(fix.Edits, jsonEdit{
					Line:    pos.Line,
					Column:  pos.Column,
					OldText: edit.OldText,
					NewText: edit.NewText,
				})
			}
			entry.Fix = fix
		}
		findings = append(findings, entry)
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(findings)
}

// PrintSummary prints run statistics
func (r *Reporter) PrintSummary(result *Result) {
	stats := map[string]interface{}{
		"Packages":      result.Packages,
		"Registrations": result.Registrations,
		"Findings":      len(result.Findings),
	}
	r.diagnostics.Summary("Check complete", stats)
}

// PrintChanges prints the lines a fix run changes, or would change with --dry-run
func (r *Reporter) PrintChanges(summary *FixSummary, dryRun bool) {
	verb := "fixed"
	if dryRun {
		verb = "would fix"
	}

	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, change := range summary.Changes {
		fmt.Fprintf(r.out, "%s: %s %d registration(s)\n", r.relative(change.Path), verb, change.Fixes)
		for _, line := range changedLines(change.Before, change.After) {
			fmt.Fprintf(r.out, "  %d\n", line.number)
			fmt.Fprintf(r.out, "  %s\n", r.diagnostics.Colorize(removed, "- "+line.before))
			fmt.Fprintf(r.out, "  %s\n", r.diagnostics.Colorize(added, "+ "+line.after))
		}
	}

	if summary.Conflicts != nil {
		for _, conflict := range summary.Conflicts.Errors {
			r.diagnostics.Warn("%s", conflict.Error())
		}
	}
}

type lineChange struct {
	number        int
	before, after string
}

// changedLines pairs up differing lines. Fix edits never add or remove line breaks.
func changedLines(before, after []byte) []lineChange {
	beforeLines := strings.Split(string(before), "\n")
	afterLines := strings.Split(string(after), "\n")
	if len(beforeLines) != len(afterLines) {
		return nil
	}

	var changes []lineChange
	for i := range beforeLines {
		if beforeLines[i] != afterLines[i] {
			changes = append(changes, lineChange{
				number: i + 1,
				before: strings.TrimSpace(beforeLines[i]),
				after:  strings.TrimSpace(afterLines[i]),
			})
		}
	}
	return changes
}

// ReportError prints an error with its code, location, context and suggestions
func (r *Reporter) ReportError(err error) {
	var multiple *errors.MultipleErrors
	if stderrors.As(err, &multiple) {
		for _, item := range multiple.Errors {
			r.reportOne(item)
		}
		return
	}

	var lintErr errors.LintError
	if stderrors.As(err, &lintErr) {
		r.reportOne(lintErr)
		return
	}

	fmt.Fprintf(r.errOut, "%s %s\n", r.diagnostics.Colorize(color.New(color.FgRed, color.Bold), "Error:"), err)
}

func (r *Reporter) reportOne(err errors.LintError) {
	red := color.New(color.FgRed, color.Bold)
	fmt.Fprintf(r.errOut, "%s %s\n", r.diagnostics.Colorize(red, err.ErrorCode().String()+":"), err.Error())

	if r.verbose {
		if len(err.Context()) > 0 {
			r.printContext(err.Context())
		}
		if cause := err.Unwrap(); cause != nil {
			fmt.Fprintf(r.errOut, "  Underlying cause: %v\n", cause)
		}
	}

	r.printSuggestions(err.Suggestions())
}

// printContext prints context information in a readable format
func (r *Reporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.errOut, "  Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.errOut, "     %s: %v\n", formatContextKey(key), context[key])
	}
}

// printSuggestions prints actionable suggestions
func (r *Reporter) printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintf(r.errOut, "  Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.errOut, "     %d. %s\n", i+1, suggestion)
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}
