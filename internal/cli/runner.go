package cli

import (
	"context"
	"fmt"
	"go/token"
	"sort"
	"sync"

	"github.com/toyz/axonlint/internal/detector"
	"github.com/toyz/axonlint/internal/errors"
	"github.com/toyz/axonlint/internal/models"
	"github.com/toyz/axonlint/internal/optionality"
	"github.com/toyz/axonlint/internal/routes"
	"github.com/toyz/axonlint/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// Finding is one reported registration with the fix planned for it
type Finding struct {
	Diagnostic   models.Diagnostic
	Registration models.Registration
	Fix          models.Fix
	Package      string
	Position     token.Position
	End          token.Position
}

// Result is the outcome of analyzing a set of packages
type Result struct {
	Fset          *token.FileSet
	Findings      []Finding
	Packages      int
	Registrations int
	// LoadErrors holds package errors; affected packages are still analyzed as far as possible
	LoadErrors *errors.MultipleErrors
}

// Runner loads packages and runs the optionality check over their registrations
type Runner struct {
	config      Config
	diagnostics *utils.DiagnosticSystem
	detector    *detector.Detector
	cache       *routes.Cache
}

// NewRunner creates a runner for config
func NewRunner(config Config, diagnostics *utils.DiagnosticSystem) (*Runner, error) {
	cache, err := routes.NewCache(routes.NewParser(), config.CacheSize)
	if err != nil {
		return nil, errors.WrapConfigurationError("cache_size", "apply", err)
	}

	return &Runner{
		config:      config,
		diagnostics: diagnostics,
		detector:    detector.New(config.DetectorConfig()),
		cache:       cache,
	}, nil
}

// Load loads and type-checks the packages matched by patterns, relative to dir
func (r *Runner) Load(ctx context.Context, dir string, patterns []string) ([]*packages.Package, *token.FileSet, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
		Fset:    fset,
	}

	r.diagnostics.Verbose("Loading packages %v from %s", patterns, dir)
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, nil, errors.WrapLoadError(patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, nil, errors.WrapLoadError(patterns, fmt.Errorf("no packages matched"))
	}

	return pkgs, fset, nil
}

// Check analyzes the packages matched by patterns
func (r *Runner) Check(ctx context.Context, dir string, patterns []string) (*Result, error) {
	pkgs, fset, err := r.Load(ctx, dir, patterns)
	if err != nil {
		return nil, err
	}
	return r.Analyze(ctx, fset, pkgs)
}

// Analyze runs the check over already loaded packages, several packages at a time.
// Cancellation is observed between registrations; findings gathered so far are discarded.
func (r *Runner) Analyze(ctx context.Context, fset *token.FileSet, pkgs []*packages.Package) (*Result, error) {
	result := &Result{
		Fset:     fset,
		Packages: len(pkgs),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.config.Concurrency))

	for _, pkg := range pkgs {
		pkg := pkg
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			findings, registrations, err := r.analyzePackage(gctx, fset, pkg)

			mu.Lock()
			defer mu.Unlock()
			for _, pkgErr := range pkg.Errors {
				errors.AddToMultiple(&result.LoadErrors, loadError(pkg.PkgPath, pkgErr))
			}
			result.Findings = append(result.Findings, findings...)
			result.Registrations += registrations
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(result.Findings, func(i, j int) bool {
		a, b := result.Findings[i].Position, result.Findings[j].Position
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	return result, nil
}

func (r *Runner) analyzePackage(ctx context.Context, fset *token.FileSet, pkg *packages.Package) ([]Finding, int, error) {
	if pkg.TypesInfo == nil || len(pkg.Syntax) == 0 {
		r.diagnostics.Debug("Skipping %s: no syntax or type information", pkg.PkgPath)
		return nil, 0, nil
	}

	registrations := r.detector.Detect(fset, pkg.Syntax, pkg.TypesInfo)
	r.diagnostics.Debug("%s: %d registrations", pkg.PkgPath, len(registrations))

	opts := []optionality.Option{
		optionality.WithParser(r.cache),
		optionality.WithSeverity(r.config.SeverityLevel()),
	}
	style := r.config.Style()

	var findings []Finding
	checked := 0
	for _, reg := range registrations {
		if err := ctx.Err(); err != nil {
			return nil, checked, err
		}
		if utils.MatchesAny(reg.File, r.config.Exclude) {
			r.diagnostics.Debug("Excluded %s registration in %s", reg.Template, reg.File)
			continue
		}
		checked++

		diagnostic, ok := optionality.Check(reg, opts...)
		if !ok {
			continue
		}
		findings = append(findings, Finding{
			Diagnostic:   diagnostic,
			Registration: reg,
			Fix:          optionality.Plan(reg, style, opts...),
			Package:      pkg.PkgPath,
			Position:     fset.Position(diagnostic.Span.Pos),
			End:          fset.Position(diagnostic.Span.End),
		})
	}

	return findings, checked, nil
}

func loadError(pkgPath string, pkgErr packages.Error) errors.LintError {
	loc := errors.SourceLocation{}
	if pos, err := parsePosition(pkgErr.Pos); err == nil {
		loc = pos
	}
	return errors.LoadError(pkgPath, loc, pkgErr.Msg)
}

// Inventory lists what the detector recognizes in a set of packages
type Inventory struct {
	Fset          *token.FileSet
	Registrations []models.Registration
	Controllers   []models.ControllerMetadata
}

// Inventory loads the packages matched by patterns and lists their registrations
// and annotated controllers without checking them
func (r *Runner) Inventory(ctx context.Context, dir string, patterns []string) (*Inventory, error) {
	pkgs, fset, err := r.Load(ctx, dir, patterns)
	if err != nil {
		return nil, err
	}

	inventory := &Inventory{Fset: fset}
	for _, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(pkg.Syntax) == 0 {
			continue
		}
		for _, reg := range r.detector.Detect(fset, pkg.Syntax, pkg.TypesInfo) {
			if !utils.MatchesAny(reg.File, r.config.Exclude) {
				inventory.Registrations = append(inventory.Registrations, reg)
			}
		}
		inventory.Controllers = append(inventory.Controllers, r.detector.Controllers(fset, pkg.Syntax)...)
	}
	return inventory, nil
}
