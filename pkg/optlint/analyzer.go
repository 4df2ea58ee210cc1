package optlint

import (
	"strings"

	"github.com/toyz/axonlint/internal/detector"
	"github.com/toyz/axonlint/internal/models"
	"github.com/toyz/axonlint/internal/optionality"
	"github.com/toyz/axonlint/internal/routes"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

const name = "optlint"

// Analyzer reports optional route segments bound to non-nullable handler parameters
var Analyzer = New(detector.DefaultConfig())

// New creates an analyzer detecting registrations with config.
// The -methods and -annotations flags override config per run.
func New(config detector.Config) *analysis.Analyzer {
	r := &runner{
		methods:     strings.Join(config.Methods, ","),
		annotations: config.Annotations,
	}

	a := &analysis.Analyzer{
		Name:     name,
		Doc:      "check optional route segments against handler parameter types",
		URL:      "https://pkg.go.dev/github.com/toyz/axonlint/pkg/optlint",
		Requires: []*analysis.Analyzer{inspect.Analyzer},
		Run:      r.run,
	}
	a.Flags.StringVar(&r.methods, "methods", r.methods, "comma-separated method names that register a route")
	a.Flags.BoolVar(&r.annotations, "annotations", r.annotations, "check //axon::route annotations on //axon::controller methods")

	return a
}

type runner struct {
	methods     string
	annotations bool
}

func (r *runner) config() detector.Config {
	var methods []string
	for _, method := range strings.Split(r.methods, ",") {
		if method = strings.TrimSpace(method); method != "" {
			methods = append(methods, method)
		}
	}
	return detector.Config{
		Methods:     methods,
		Annotations: r.annotations,
	}
}

func (r *runner) run(pass *analysis.Pass) (any, error) {
	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	cache, err := routes.NewCache(routes.NewParser(), routes.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	registrations := detector.New(r.config()).Inspect(pass.Fset, ins, pass.TypesInfo)
	for _, reg := range registrations {
		diagnostic, ok := optionality.Check(reg, optionality.WithParser(cache))
		if !ok {
			continue
		}
		fix := optionality.Plan(reg, optionality.PointerStyle, optionality.WithParser(cache))
		pass.Report(toAnalysisDiagnostic(diagnostic, fix))
	}

	return nil, nil
}

func toAnalysisDiagnostic(diagnostic models.Diagnostic, fix models.Fix) analysis.Diagnostic {
	result := analysis.Diagnostic{
		Pos:      diagnostic.Span.Pos,
		End:      diagnostic.Span.End,
		Category: diagnostic.RuleID,
		Message:  diagnostic.Message,
	}
	if fix.IsEmpty() {
		return result
	}

	edits := make([]analysis.TextEdit, 0, len(fix.Edits))
	for _, edit := range fix.Edits {
		edits = append(edits, analysis.TextEdit{
			Pos:     edit.Span.Pos,
			End:     edit.Span.End,
			NewText: []byte(edit.NewText),
		})
	}
	result.SuggestedFixes = []analysis.SuggestedFix{{
		Message:   fix.Title,
		TextEdits: edits,
	}}
	return result
}
