package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/state"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json, yaml
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor [paths...]",
		Short: "Run a SQL health check",
		Long: `Check the setup and lint every SQL file, then summarize the results.

The report includes:
- Setup checks (configuration file, dialect, rule options, lint cache)
- Health checks for each rule, grouped by category
- Health score (0-100)
- Actionable recommendations

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Run health check
  leaplint doctor

  # Check one directory and output as JSON
  leaplint doctor models/ --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")

	return cmd
}

// DoctorOutput is the machine-readable output of the doctor command.
type DoctorOutput struct {
	Summary         ProjectSummary `json:"summary" yaml:"summary"`
	Setup           []SetupCheck   `json:"setup" yaml:"setup"`
	HealthChecks    []HealthCheck  `json:"health_checks" yaml:"health_checks"`
	Score           int            `json:"score" yaml:"score"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
	IssueCount      int            `json:"issue_count" yaml:"issue_count"`
}

// ProjectSummary contains project-level statistics.
type ProjectSummary struct {
	Files        int    `json:"files" yaml:"files"`
	ParseErrors  int    `json:"parse_errors" yaml:"parse_errors"`
	Rules        int    `json:"rules" yaml:"rules"`
	Fixable      int    `json:"fixable" yaml:"fixable"`
	Dialect      string `json:"dialect" yaml:"dialect"`
	ConfigFile   string `json:"config_file,omitempty" yaml:"config_file,omitempty"`
	RecentRuns   int    `json:"recent_runs" yaml:"recent_runs"`
	CacheVersion int64  `json:"cache_version,omitempty" yaml:"cache_version,omitempty"`
}

// SetupCheck is one check of the environment.
type SetupCheck struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status" yaml:"status"` // "success", "warn", "failed"
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Name       string   `json:"name" yaml:"name"`
	Group      string   `json:"group" yaml:"group"`
	Status     string   `json:"status" yaml:"status"` // "pass", "warn", "error"
	IssueCount int      `json:"issue_count" yaml:"issue_count"`
	Fixable    int      `json:"fixable" yaml:"fixable"`
	Details    []string `json:"details,omitempty" yaml:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string, opts *DoctorOptions) error {
	cc := NewCommandContext(cmd, opts.Format)
	r := cc.Renderer

	linter, err := cc.NewLinter()
	if err != nil {
		return err
	}
	paths, err := collectPaths(args)
	if err != nil {
		return err
	}

	runner := &lintRunner{
		linter:      linter,
		concurrency: cc.Cfg.Concurrency,
		stdin:       cmd.InOrStdin(),
		logger:      cc.Logger,
	}
	reports, err := runner.run(cmd.Context(), paths)
	if err != nil {
		return err
	}

	doctorOutput := buildDoctorOutput(cmd.Context(), cc.Cfg, linter, reports)

	// Render based on mode
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(doctorOutput)
	case output.ModeYAML:
		return r.YAML(doctorOutput)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, doctorOutput)
	default:
		return renderDoctorText(r, doctorOutput)
	}
}

func buildDoctorOutput(ctx context.Context, cfg *config.Config, linter *lint.Linter, reports []fileReport) *DoctorOutput {
	summary := ProjectSummary{
		Files:      len(reports),
		Rules:      len(linter.Rules()),
		Dialect:    linter.Dialect().GetName(),
		ConfigFile: config.GetConfigFileUsed(),
	}
	setup := buildSetupChecks(ctx, cfg, &summary, reports)

	// Group violations by rule
	diagsByRule := make(map[string][]string)
	fixableByRule := make(map[string]int)
	issues := 0
	for _, rep := range reports {
		if rep.ParseErr != nil {
			summary.ParseErrors++
			continue
		}
		for _, d := range rep.Diagnostics {
			if d.Kind != lint.KindViolation {
				continue
			}
			issues++
			diagsByRule[d.RuleID] = append(diagsByRule[d.RuleID],
				fmt.Sprintf("%s:%d:%d %s", rep.Path, d.Pos.Line, d.Pos.Column, d.Message))
			if d.AutoFixable {
				fixableByRule[d.RuleID]++
				summary.Fixable++
			}
		}
	}

	// Build health checks from the selected rules
	rules := linter.Rules()
	healthChecks := make([]HealthCheck, 0, len(rules))
	for _, rule := range rules {
		ruleDiags := diagsByRule[rule.ID()]
		status := "pass"
		if len(ruleDiags) > 0 {
			if rule.DefaultSeverity() == lint.SeverityError {
				status = "error"
			} else {
				status = "warn"
			}
		}

		healthChecks = append(healthChecks, HealthCheck{
			RuleID:     rule.ID(),
			Name:       rule.Name(),
			Group:      rule.Group(),
			Status:     status,
			IssueCount: len(ruleDiags),
			Fixable:    fixableByRule[rule.ID()],
			Details:    ruleDiags,
		})
	}

	// Sort health checks by group then by rule ID
	sort.Slice(healthChecks, func(i, j int) bool {
		if healthChecks[i].Group != healthChecks[j].Group {
			return healthChecks[i].Group < healthChecks[j].Group
		}
		return healthChecks[i].RuleID < healthChecks[j].RuleID
	})

	score := calculateHealthScore(healthChecks, summary.Files)
	score -= summary.ParseErrors * 10
	if score < 0 {
		score = 0
	}

	return &DoctorOutput{
		Summary:         summary,
		Setup:           setup,
		HealthChecks:    healthChecks,
		Score:           score,
		Recommendations: generateRecommendations(healthChecks, summary),
		IssueCount:      issues,
	}
}

// buildSetupChecks reports on the configuration and the lint cache.
func buildSetupChecks(ctx context.Context, cfg *config.Config, summary *ProjectSummary, reports []fileReport) []SetupCheck {
	var checks []SetupCheck

	if summary.ConfigFile != "" {
		checks = append(checks, SetupCheck{Name: "configuration", Status: "success", Detail: summary.ConfigFile})
	} else {
		checks = append(checks, SetupCheck{Name: "configuration", Status: "warn", Detail: "no leaplint.yaml found, using defaults"})
	}
	checks = append(checks, SetupCheck{Name: "dialect", Status: "success", Detail: summary.Dialect})

	// Rule option errors surface as config diagnostics on every file
	seen := make(map[string]bool)
	for _, rep := range reports {
		for _, d := range rep.Diagnostics {
			if d.Kind == lint.KindConfig && !seen[d.Message] {
				seen[d.Message] = true
				checks = append(checks, SetupCheck{Name: "rule options", Status: "failed", Detail: d.Message})
			}
		}
	}
	if len(seen) == 0 {
		checks = append(checks, SetupCheck{Name: "rule options", Status: "success"})
	}

	checks = append(checks, cacheCheck(ctx, cfg, summary))
	return checks
}

func cacheCheck(ctx context.Context, cfg *config.Config, summary *ProjectSummary) SetupCheck {
	path := cacheFilePath(cfg)
	if _, err := os.Stat(path); err != nil {
		return SetupCheck{Name: "lint cache", Status: "success", Detail: "not created yet (lint --cache)"}
	}
	store, err := state.Open(path)
	if err != nil {
		return SetupCheck{Name: "lint cache", Status: "failed", Detail: err.Error()}
	}
	defer func() { _ = store.Close() }()

	if v, err := store.GetMigrationVersion(); err == nil {
		summary.CacheVersion = v
	}
	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		return SetupCheck{Name: "lint cache", Status: "failed", Detail: err.Error()}
	}
	summary.RecentRuns = len(runs)
	for _, run := range runs {
		if run.Status == state.RunStatusFailed {
			return SetupCheck{Name: "lint cache", Status: "warn", Detail: "last runs include failures: " + run.Error}
		}
	}
	return SetupCheck{Name: "lint cache", Status: "success", Detail: path}
}

// calculateHealthScore computes a health score from 0-100.
// The scoring weights:
// - Each issue reduces points
// - Errors count double
// - More files means issues have less individual impact
func calculateHealthScore(checks []HealthCheck, fileCount int) int {
	if len(checks) == 0 {
		return 100
	}

	// Base score starts at 100
	score := 100.0

	// Calculate penalty per issue
	// With more files, each individual issue has less impact
	basePenalty := 5.0
	if fileCount > 10 {
		basePenalty = 3.0
	}
	if fileCount > 50 {
		basePenalty = 2.0
	}
	if fileCount > 100 {
		basePenalty = 1.0
	}

	for _, check := range checks {
		switch check.Status {
		case "error":
			score -= float64(check.IssueCount) * basePenalty * 2 // Errors count double
		case "warn":
			score -= float64(check.IssueCount) * basePenalty
		}
	}

	// Clamp to 0-100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return int(score)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck, summary ProjectSummary) []string {
	var recommendations []string
	seen := make(map[string]bool)

	if summary.ParseErrors > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Fix %d file(s) that do not parse as %s SQL", summary.ParseErrors, summary.Dialect))
	}
	if summary.Fixable > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Run 'leaplint fix' to fix %d issue(s) automatically", summary.Fixable))
	}

	// Most frequent rules first
	ranked := append([]HealthCheck(nil), checks...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].IssueCount > ranked[j].IssueCount })

	for _, check := range ranked {
		if check.IssueCount == check.Fixable {
			continue
		}

		rec := getRecommendation(check.RuleID)
		if rec != "" && !seen[rec] {
			recommendations = append(recommendations, rec)
			seen[rec] = true
		}
	}

	// Limit to top 5 recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return recommendations
}

// getRecommendation returns the fix guidance of a rule.
func getRecommendation(ruleID string) string {
	rule, ok := lint.GetRuleByID(ruleID)
	if !ok {
		return ""
	}
	info := lint.GetRuleInfo(rule)
	if info.Fix != "" {
		return fmt.Sprintf("%s: %s", info.ID, info.Fix)
	}
	return fmt.Sprintf("%s: %s", info.ID, info.Description)
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	// Header
	r.Println("")
	r.Println(styles.Header1.Render("leaplint Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	// Summary
	r.Println(styles.Header2.Render("Summary"))
	r.Printf("   Files: %d | Rules: %d | Dialect: %s\n", out.Summary.Files, out.Summary.Rules, out.Summary.Dialect)
	r.Printf("   Issues: %d | Fixable: %d | Parse errors: %d\n", out.IssueCount, out.Summary.Fixable, out.Summary.ParseErrors)
	r.Println("")

	r.Println(styles.Header2.Render("Setup"))
	for _, check := range out.Setup {
		r.StatusLine(check.Name, check.Status, check.Detail)
	}
	r.Println("")

	// Health Checks grouped by category
	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case "warn":
			icon = styles.Warning.Render("!")
		case "error":
			icon = styles.StatusFailed.String()
		}

		status := fmt.Sprintf("%s %s: %s", icon, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			status += fmt.Sprintf(" (%d issues)", check.IssueCount)
		}
		r.Println("   " + status)

		// Show first 3 details for issues
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	// Health Score
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# leaplint Health Report")
	r.Println("")

	// Summary
	r.Println("## Summary")
	r.Println("")
	r.Printf("- **Files**: %d\n", out.Summary.Files)
	r.Printf("- **Rules**: %d\n", out.Summary.Rules)
	r.Printf("- **Dialect**: %s\n", out.Summary.Dialect)
	r.Printf("- **Issues**: %d (%d fixable)\n", out.IssueCount, out.Summary.Fixable)
	r.Printf("- **Parse Errors**: %d\n", out.Summary.ParseErrors)
	r.Println("")

	r.Header(2, "Setup")
	r.Println("")
	for _, check := range out.Setup {
		r.StatusLine(check.Name, check.Status, check.Detail)
	}
	r.Println("")

	// Health Checks
	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case "warn":
			status = "WARN"
		case "error":
			status = "ERROR"
		}

		r.Printf("- **[%s]** %s: %s", status, check.RuleID, check.Name)
		if check.IssueCount > 0 {
			r.Printf(" (%d issues)", check.IssueCount)
		}
		r.Println("")

		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	// Health Score
	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
