package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string // Output format: text, markdown, json, yaml
	Severity string // Minimum severity: error, warning, info, hint
	Watch    bool   // Re-lint on file changes
	Cache    bool   // Reuse results of unchanged files
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Run lint rules on SQL files",
		Long: `Analyze SQL files for style and correctness issues.

Paths may be files or directories; directories are searched for .sql files.
Use "-" to read from standard input. Rules can be configured in leaplint.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Lint every .sql file under the current directory
  leaplint lint

  # Lint specific paths with the postgres dialect
  leaplint lint --dialect postgres queries/ report.sql

  # Output as JSON
  leaplint lint --format json

  # Disable specific rules
  leaplint lint --disable AM01,CV09

  # Only run the aliasing group
  leaplint lint --rule aliasing

  # Only report errors (ignore warnings/hints)
  leaplint lint --severity error

  # Re-lint whenever a file changes
  leaplint lint --watch models/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().StringVar(&opts.Severity, "severity", "hint", "Minimum severity: error, warning, info, hint")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and re-lint on change")
	cmd.Flags().BoolVar(&opts.Cache, "cache", false, "Skip files unchanged since the last run")
	addRuleFlags(cmd)

	return cmd
}

// addRuleFlags adds the rule selection flags shared by lint and fix. Their
// values reach the configuration through the flag provider.
func addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("rule", nil, "Run only these rules or groups")
	cmd.Flags().StringSlice("disable", nil, "Rule IDs or names to disable")
}

// fileReport is the lint outcome of one file.
type fileReport struct {
	Path        string
	Diagnostics []lint.Diagnostic
	ParseErr    error
	Cached      bool
}

// visible returns the diagnostics at or above the threshold. Engine
// diagnostics are always shown.
func (f fileReport) visible(threshold lint.Severity) []lint.Diagnostic {
	var out []lint.Diagnostic
	for _, d := range f.Diagnostics {
		if d.Kind != lint.KindViolation || d.Severity.AtLeast(threshold) {
			out = append(out, d)
		}
	}
	return out
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	threshold, ok := lint.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid --severity %q (want error, warning, info or hint)", opts.Severity)
	}

	cc := NewCommandContext(cmd, opts.Format)
	linter, err := cc.NewLinter()
	if err != nil {
		return err
	}
	paths, err := collectPaths(args)
	if err != nil {
		return err
	}

	var store state.Store
	if opts.Cache {
		s, err := openCache(cc.Cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	l := &lintRunner{
		linter:      linter,
		store:       store,
		configHash:  cc.Cfg.Fingerprint(),
		concurrency: cc.Cfg.Concurrency,
		stdin:       cmd.InOrStdin(),
		logger:      cc.Logger,
	}

	if opts.Watch {
		return watchAndLint(cmd.Context(), cc, l, paths, threshold)
	}

	reports, err := l.run(cmd.Context(), paths)
	if err != nil {
		return err
	}
	if renderLintReports(cc.Renderer, reports, threshold) {
		return ErrIssuesFound
	}
	return nil
}

// cacheFilePath returns the configured cache file, defaulting to one in the
// project root.
func cacheFilePath(cfg *config.Config) string {
	if cfg.Cache != "" {
		return cfg.Cache
	}
	root := cfg.ProjectRoot
	if root == "" {
		root = "."
	}
	return filepath.Join(root, config.DefaultCacheFile)
}

// openCache opens the lint cache configured for the project.
func openCache(cfg *config.Config) (*state.SQLiteStore, error) {
	store, err := state.Open(cacheFilePath(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open lint cache: %w", err)
	}
	return store, nil
}

// lintRunner lints a set of files concurrently, consulting the cache.
type lintRunner struct {
	linter      *lint.Linter
	store       state.Store
	configHash  string
	concurrency int
	stdin       io.Reader
	logger      *slog.Logger
}

func (l *lintRunner) run(ctx context.Context, paths []string) ([]fileReport, error) {
	var runID string
	if l.store != nil {
		run, err := l.store.CreateRun(ctx, "lint")
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}

	reports := make([]fileReport, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	limit := l.concurrency
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			report, err := l.lintFile(gctx, path, runID)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	runErr := g.Wait()

	if l.store != nil {
		violations := 0
		for _, r := range reports {
			violations += len(r.Diagnostics)
		}
		if err := l.store.CompleteRun(ctx, runID, len(paths), violations, runErr); err != nil {
			l.logger.Warn("failed to record run", "error", err.Error())
		}
	}
	return reports, runErr
}

func (l *lintRunner) lintFile(ctx context.Context, path, runID string) (fileReport, error) {
	if err := ctx.Err(); err != nil {
		return fileReport{}, err
	}
	src, err := readSource(path, l.stdin)
	if err != nil {
		return fileReport{}, err
	}

	cacheable := l.store != nil && path != stdinPath
	if cacheable {
		cached, err := l.store.GetFileResult(ctx, path, src.hash(), l.configHash)
		if err != nil {
			l.logger.Warn("cache lookup failed", "path", path, "error", err.Error())
		} else if cached != nil {
			var diags []lint.Diagnostic
			if err := json.Unmarshal(cached.Payload, &diags); err == nil {
				l.logger.Debug("cache hit", "path", path)
				return fileReport{Path: path, Diagnostics: diags, Cached: true}, nil
			}
		}
	}

	report, err := l.linter.Lint(src.Content)
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			return fileReport{Path: path, ParseErr: err}, nil
		}
		return fileReport{}, fmt.Errorf("%s: %w", path, err)
	}

	if cacheable {
		payload, err := json.Marshal(report.Diagnostics)
		if err == nil {
			err = l.store.PutFileResult(ctx, &state.FileResult{
				Path:        path,
				ContentHash: src.hash(),
				ConfigHash:  l.configHash,
				Payload:     payload,
				RunID:       runID,
			})
		}
		if err != nil {
			l.logger.Warn("failed to cache result", "path", path, "error", err.Error())
		}
	}
	return fileReport{Path: path, Diagnostics: report.Diagnostics}, nil
}

// renderLintReports prints the reports and returns whether anything at or
// above the threshold was found.
func renderLintReports(r *output.Renderer, reports []fileReport, threshold lint.Severity) bool {
	summary := output.LintSummary{FilesAnalyzed: len(reports)}
	hasIssues := false
	files := []output.LintFileResult{}
	for _, rep := range reports {
		if rep.Cached {
			summary.FilesCached++
		}
		res := output.LintFileResult{Path: rep.Path}
		if rep.ParseErr != nil {
			hasIssues = true
			summary.TotalIssues++
			summary.Errors++
			res.Diagnostics = append(res.Diagnostics, output.LintDiagnostic{
				Kind:     "parse_error",
				Severity: lint.SeverityError.String(),
				Message:  rep.ParseErr.Error(),
			})
		}
		for _, d := range rep.visible(threshold) {
			res.Diagnostics = append(res.Diagnostics, toOutputDiagnostic(d))
			if d.Kind != lint.KindViolation {
				continue
			}
			hasIssues = true
			summary.TotalIssues++
			switch d.Severity {
			case lint.SeverityError:
				summary.Errors++
			case lint.SeverityWarning:
				summary.Warnings++
			case lint.SeverityInfo:
				summary.Info++
			case lint.SeverityHint:
				summary.Hints++
			}
		}
		if len(res.Diagnostics) > 0 {
			files = append(files, res)
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		_ = r.JSON(output.LintOutput{Summary: summary, Files: files})
		return hasIssues
	case output.ModeYAML:
		_ = r.YAML(output.LintOutput{Summary: summary, Files: files})
		return hasIssues
	case output.ModeMarkdown:
		renderLintMarkdown(r, files, summary)
		return hasIssues
	}

	if len(files) == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d files", summary.FilesAnalyzed))
		return false
	}
	styles := r.Styles()
	for _, f := range files {
		r.Println(styles.Path.Render(f.Path))
		for _, d := range f.Diagnostics {
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", location(d))),
				severityStyle(r, d.Severity),
				styles.Bold.Render(fmt.Sprintf("%-5s", ruleLabel(d))),
				d.Message,
			)
		}
		r.Println("")
	}
	r.Printf("Summary: %s in %d files\n", summaryLine(summary), summary.FilesAnalyzed)
	return hasIssues
}

func renderLintMarkdown(r *output.Renderer, files []output.LintFileResult, summary output.LintSummary) {
	r.Println("# Lint Results")
	r.Println("")
	if len(files) == 0 {
		r.Printf("No lint issues found in %d files.\n", summary.FilesAnalyzed)
		return
	}
	for _, f := range files {
		r.Printf("## %s\n\n", f.Path)
		for _, d := range f.Diagnostics {
			fix := ""
			if d.Fixable {
				fix = " (fixable)"
			}
			r.Printf("- `%s` **%s** %s: %s%s\n", location(d), ruleLabel(d), d.Severity, d.Message, fix)
		}
		r.Println("")
	}
	r.Printf("**Summary:** %s in %d files\n", summaryLine(summary), summary.FilesAnalyzed)
}

func toOutputDiagnostic(d lint.Diagnostic) output.LintDiagnostic {
	return output.LintDiagnostic{
		Kind:     string(d.Kind),
		RuleID:   d.RuleID,
		Severity: d.Severity.String(),
		Message:  d.Message,
		Line:     d.Pos.Line,
		Column:   d.Pos.Column,
		Fixable:  d.AutoFixable,
	}
}

func location(d output.LintDiagnostic) string {
	if d.Line == 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%d", d.Line, d.Column)
}

func ruleLabel(d output.LintDiagnostic) string {
	if d.RuleID != "" {
		return d.RuleID
	}
	return d.Kind
}

func summaryLine(s output.LintSummary) string {
	parts := []string{fmt.Sprintf("%d issues", s.TotalIssues)}
	if s.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", s.Errors))
	}
	if s.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", s.Warnings))
	}
	if s.Info > 0 {
		parts = append(parts, fmt.Sprintf("%d info", s.Info))
	}
	if s.Hints > 0 {
		parts = append(parts, fmt.Sprintf("%d hints", s.Hints))
	}
	if s.FilesCached > 0 {
		parts = append(parts, fmt.Sprintf("%d files cached", s.FilesCached))
	}
	return strings.Join(parts, ", ")
}

func severityStyle(r *output.Renderer, sev string) string {
	switch sev {
	case "error":
		return r.Styles().Error.Render("error  ")
	case "warning":
		return r.Styles().Warning.Render("warning")
	case "info":
		return r.Styles().Info.Render("info   ")
	case "hint":
		return r.Styles().Muted.Render("hint   ")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
