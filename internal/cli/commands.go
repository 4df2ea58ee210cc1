package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toyz/axonlint/internal/utils"
)

// Exit codes of the axonlint command
const (
	ExitOK          = 0
	ExitError       = 1
	ExitFindings    = 3
	ExitInterrupted = 130
)

// Version is set at build time with -ldflags "-X github.com/toyz/axonlint/internal/cli.Version=..."
var Version = "dev"

// App holds the state shared by axonlint's commands
type App struct {
	viper    *viper.Viper
	out      io.Writer
	errOut   io.Writer
	workDir  string
	exitCode int

	configFile  string
	verbose     bool
	quiet       bool
	noColor     bool
	concurrency int
}

// NewApp creates the command state writing to out and errOut.
// An empty workDir means the process working directory.
func NewApp(out, errOut io.Writer, workDir string) *App {
	return &App{
		viper:   NewViper(),
		out:     out,
		errOut:  errOut,
		workDir: workDir,
	}
}

// Execute runs axonlint with args and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	app := NewApp(os.Stdout, os.Stderr, "")
	return app.Run(ctx, args)
}

// Run executes the root command with args
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.RootCommand()
	root.SetArgs(args)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	if err := root.ExecuteContext(ctx); err != nil {
		reporter := NewReporter(utils.NewDiagnosticSystem(utils.DiagnosticError), a.out, a.errOut, "", a.verbose)
		if stderrors.Is(err, context.Canceled) || ctx.Err() != nil {
			fmt.Fprintln(a.errOut, "interrupted")
			return ExitInterrupted
		}
		reporter.ReportError(err)
		return ExitError
	}
	return a.exitCode
}

// RootCommand builds the axonlint command tree
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "axonlint",
		Short: "axonlint - check optional route segments against handler parameters",
		Long: `axonlint finds route registrations whose template marks a segment optional,
as in /hello/{name?}, while the handler parameter bound to it cannot be absent.

It recognizes calls such as app.MapGet("/hello/{name?}", handler) and methods
annotated with //axon::route on //axon::controller structs, and can rewrite the
offending parameters to nullable types.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "configuration file (default .axonlint.yaml in the working directory or module root)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "only show findings and errors")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	flags.IntVarP(&a.concurrency, "concurrency", "j", DefaultConfig().Concurrency, "packages analyzed in parallel")

	_ = a.viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = a.viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = a.viper.BindPFlag("no_color", flags.Lookup("no-color"))
	_ = a.viper.BindPFlag("concurrency", flags.Lookup("concurrency"))

	root.AddCommand(a.checkCommand())
	root.AddCommand(a.fixCommand())
	root.AddCommand(a.routesCommand())
	root.AddCommand(a.versionCommand())

	return root
}

// session is the per-invocation setup every command needs
type session struct {
	config      Config
	diagnostics *utils.DiagnosticSystem
	reporter    *Reporter
	runner      *Runner
	workDir     string
}

func (a *App) newSession(jsonOutput bool) (*session, error) {
	workDir := a.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		workDir = wd
	}

	config, err := LoadConfig(a.viper, a.configFile, workDir)
	if err != nil {
		return nil, err
	}

	diagnostics := utils.NewDiagnosticSystem(config.DiagnosticLevel())
	if jsonOutput {
		// Keep stdout clean for the JSON document.
		diagnostics.SetOutput(a.errOut, a.errOut)
	} else {
		diagnostics.SetOutput(a.out, a.errOut)
	}
	if config.NoColor {
		diagnostics.SetColors(false)
	}

	runner, err := NewRunner(config, diagnostics)
	if err != nil {
		return nil, err
	}

	if config.File != "" {
		diagnostics.Verbose("Using configuration %s", config.File)
	}
	if config.Module.Path != "" {
		diagnostics.Verbose("Module %s at %s", config.Module.Path, config.Module.Root)
	}

	return &session{
		config:      config,
		diagnostics: diagnostics,
		reporter:    NewReporter(diagnostics, a.out, a.errOut, workDir, config.Verbose),
		runner:      runner,
		workDir:     workDir,
	}, nil
}

func (a *App) checkCommand() *cobra.Command {
	var jsonOutput, watch bool

	cmd := &cobra.Command{
		Use:   "check [packages]",
		Short: "Report optional route segments bound to non-nullable parameters",
		Long: `Report optional route segments bound to non-nullable parameters.

Packages are given as go list patterns and default to ./...
The exit code is 3 when findings were reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(jsonOutput)
			if err != nil {
				return err
			}

			if watch && jsonOutput {
				return fmt.Errorf("--watch cannot be combined with --json")
			}

			check := func(ctx context.Context) error {
				result, err := s.runner.Check(ctx, s.workDir, args)
				if err != nil {
					return err
				}
				a.printLoadErrors(s, result)

				if jsonOutput {
					if err := s.reporter.PrintJSON(result); err != nil {
						return err
					}
				} else {
					s.reporter.PrintFindings(result)
					s.reporter.PrintSummary(result)
				}

				a.exitCode = ExitOK
				if len(result.Findings) > 0 {
					a.exitCode = ExitFindings
				} else if !jsonOutput {
					s.diagnostics.Success("No findings in %d registration(s)", result.Registrations)
				}
				return nil
			}

			if !watch {
				return check(cmd.Context())
			}
			return a.watch(cmd.Context(), s, check)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print findings as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run when Go files change")
	return cmd
}

func (a *App) watch(ctx context.Context, s *session, check func(context.Context) error) error {
	if err := check(ctx); err != nil {
		s.reporter.ReportError(err)
	}

	s.diagnostics.SetShowTime(true)
	watcher := NewWatcher(s.workDir, s.config.Exclude, s.diagnostics)
	s.diagnostics.Info("Watching for changes, press Ctrl+C to stop")

	err := watcher.Run(ctx, func(ctx context.Context, changed []string) {
		s.diagnostics.Header("changed " + strings.Join(relativeNames(s.workDir, changed), ", "))
		if err := check(ctx); err != nil && !stderrors.Is(err, context.Canceled) {
			s.reporter.ReportError(err)
		}
	})
	a.exitCode = ExitOK
	return err
}

func (a *App) fixCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix [packages]",
		Short: "Make parameters bound to optional route segments nullable",
		Long: `Make parameters bound to optional route segments nullable.

Every registration's fix is applied whole or skipped, and touched files are
gofmt-ed. With --dry-run the changes are printed and nothing is written.
The exit code is 3 when fixes were skipped, or are pending with --dry-run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(false)
			if err != nil {
				return err
			}

			result, summary, err := s.runner.Fix(cmd.Context(), s.workDir, args, dryRun)
			if err != nil {
				return err
			}
			a.printLoadErrors(s, result)

			s.reporter.PrintChanges(summary, dryRun)
			s.diagnostics.Summary("Fix complete", map[string]interface{}{
				"Findings":      len(result.Findings),
				"Fixes applied": summary.Applied,
				"Fixes skipped": summary.Skipped,
				"Files changed": len(summary.Changes),
			})

			a.exitCode = ExitOK
			if summary.Skipped > 0 || (dryRun && summary.Applied > 0) {
				a.exitCode = ExitFindings
			} else if !dryRun {
				s.diagnostics.Success("Fixed %d registration(s) in %d file(s)", summary.Applied, len(summary.Changes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print changes without writing files")
	return cmd
}

func (a *App) routesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes [packages]",
		Short: "List the route registrations axonlint recognizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(false)
			if err != nil {
				return err
			}

			inventory, err := s.runner.Inventory(cmd.Context(), s.workDir, args)
			if err != nil {
				return err
			}

			for _, reg := range inventory.Registrations {
				pos := inventory.Fset.Position(reg.Span.Pos)
				fmt.Fprintf(a.out, "%s:%d\t%s\t%s\t%s\n", s.reporter.relative(pos.Filename), pos.Line, reg.Method, reg.Template, reg.Handler)
			}

			for _, controller := range inventory.Controllers {
				s.diagnostics.Section(fmt.Sprintf("%s (%s)", controller.Name, s.reporter.relative(controller.FileName)))
				s.diagnostics.Indent()
				for _, route := range controller.Routes {
					s.diagnostics.List("%s %s -> %s (line %d)", route.Method, route.Path, route.HandlerName, route.Line)
				}
				s.diagnostics.Unindent()
			}
			return nil
		},
	}
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the axonlint version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.out, "axonlint %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func (a *App) printLoadErrors(s *session, result *Result) {
	if result.LoadErrors == nil {
		return
	}
	s.diagnostics.Warn("%d package error(s); affected packages were analyzed as far as possible", result.LoadErrors.Count())
	if s.config.Verbose {
		s.reporter.ReportError(result.LoadErrors)
	}
}
