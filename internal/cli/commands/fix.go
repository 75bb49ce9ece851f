package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/parser"
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	Format string // Output format: text, markdown, json, yaml
	Check  bool   // Report what would change without writing
	Diff   bool   // Print a unified diff instead of writing
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Apply automatic fixes to SQL files",
		Long: `Lint SQL files and apply every available fix until the text stops changing.

Fixes are applied in loops: each loop re-parses the text, re-runs the rules
and applies the non-conflicting fixes. The loop stops when nothing changes or
when --max-loops is reached. Files are rewritten in place; "-" reads standard
input and writes the fixed text to standard output.`,
		Example: `  # Fix every .sql file under models/
  leaplint fix models/

  # Show what would change
  leaplint fix --diff query.sql

  # Fail when any file would change (for CI)
  leaplint fix --check

  # Fix from a pipe
  cat query.sql | leaplint fix -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Exit non-zero if any file would change, without writing")
	cmd.Flags().BoolVar(&opts.Diff, "diff", false, "Print a unified diff instead of writing")
	cmd.Flags().Int("max-loops", 0, "Maximum fix loops per file")
	addRuleFlags(cmd)

	return cmd
}

func runFix(cmd *cobra.Command, args []string, opts *FixOptions) error {
	cc := NewCommandContext(cmd, opts.Format)
	linter, err := cc.NewLinter()
	if err != nil {
		return err
	}
	paths, err := collectPaths(args)
	if err != nil {
		return err
	}

	out := output.FixOutput{Files: []output.FixFileResult{}}
	writeBack := !opts.Check && !opts.Diff
	var parseErrs []error

	for _, path := range paths {
		src, err := readSource(path, cmd.InOrStdin())
		if err != nil {
			return err
		}
		result, err := linter.Fix(src.Content)
		if err != nil {
			var perr *parser.ParseError
			if errors.As(err, &perr) {
				parseErrs = append(parseErrs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			return fmt.Errorf("%s: %w", path, err)
		}
		if !result.Converged() {
			cc.Logger.Warn("fix did not converge", "path", path, "loops", result.Loops)
		}

		out.Files = append(out.Files, fixFileResult(path, result))
		if result.Changed() {
			out.Changed++
		}

		switch {
		case opts.Diff && result.Changed():
			diff, err := unifiedDiff(path, src.Content, result.Fixed)
			if err != nil {
				return err
			}
			cc.Renderer.Printf("%s", diff)
		case writeBack && path == stdinPath:
			_, _ = fmt.Fprint(cmd.OutOrStdout(), result.Fixed)
		case writeBack && result.Changed():
			if err := writeFile(path, result.Fixed); err != nil {
				return err
			}
		}
	}

	// stdin mode prints the fixed text only
	if !(writeBack && len(paths) == 1 && paths[0] == stdinPath) && !opts.Diff {
		renderFixOutput(cc.Renderer, out, writeBack)
	}
	for _, err := range parseErrs {
		cc.Renderer.Warnf("%v", err)
	}

	if len(parseErrs) > 0 || (opts.Check && out.Changed > 0) {
		return ErrIssuesFound
	}
	return nil
}

func fixFileResult(path string, result *lint.FixResult) output.FixFileResult {
	res := output.FixFileResult{
		Path:      path,
		Changed:   result.Changed(),
		Converged: result.Converged(),
		Loops:     result.Loops,
		Applied:   len(result.Applied),
	}
	for _, d := range result.Diagnostics {
		res.Remaining = append(res.Remaining, toOutputDiagnostic(d))
	}
	return res
}

// writeFile replaces path's content, keeping its permissions.
func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        diffLines(before),
		B:        diffLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}

// diffLines splits s after each line break. A last line without a break
// gets one so hunks stay line oriented.
func diffLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}
	return lines
}

func renderFixOutput(r *output.Renderer, out output.FixOutput, wrote bool) {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		_ = r.JSON(out)
		return
	case output.ModeYAML:
		_ = r.YAML(out)
		return
	case output.ModeMarkdown:
		r.Println("# Fix Results")
		r.Println("")
		for _, f := range out.Files {
			r.Printf("- `%s`: %s\n", f.Path, fixStatus(f, wrote))
			for _, d := range f.Remaining {
				r.Printf("  - `%s` **%s** %s\n", location(d), ruleLabel(d), d.Message)
			}
		}
		r.Println("")
		r.Printf("**%d of %d files changed**\n", out.Changed, len(out.Files))
		return
	}

	styles := r.Styles()
	for _, f := range out.Files {
		if !f.Changed && len(f.Remaining) == 0 {
			continue
		}
		status := fixStatus(f, wrote)
		if f.Converged {
			status = styles.Success.Render(status)
		} else {
			status = styles.Warning.Render(status)
		}
		r.Printf("%s  %s\n", styles.Path.Render(f.Path), status)
		for _, d := range f.Remaining {
			r.Printf("  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", location(d))),
				styles.Bold.Render(fmt.Sprintf("%-5s", ruleLabel(d))),
				d.Message,
			)
		}
	}
	verb := "changed"
	if !wrote {
		verb = "would change"
	}
	r.Printf("%d of %d files %s\n", out.Changed, len(out.Files), verb)
}

func fixStatus(f output.FixFileResult, wrote bool) string {
	var s string
	switch {
	case f.Changed && wrote:
		s = fmt.Sprintf("fixed (%d fixes, %d loops)", f.Applied, f.Loops)
	case f.Changed:
		s = fmt.Sprintf("would fix (%d fixes, %d loops)", f.Applied, f.Loops)
	default:
		s = "unchanged"
	}
	if !f.Converged {
		s += ", did not converge"
	}
	if n := len(f.Remaining); n > 0 {
		s += fmt.Sprintf(", %d remaining", n)
	}
	return s
}
