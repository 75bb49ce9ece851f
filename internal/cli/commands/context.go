package commands

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules" // register rules
)

// ErrIssuesFound is returned when a run finds violations, so the process
// exits non-zero without printing a second error.
var ErrIssuesFound = errors.New("lint issues found")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
// format overrides the configured output mode when set.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	lint.ResetDocsBaseURL()
	if cfg.DocsURL != "" {
		lint.SetDocsBaseURL(cfg.DocsURL)
	}

	mode := output.Mode(cfg.OutputFormat)
	if format != "" {
		mode = output.Mode(format)
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or defaults when the root
// command did not load one (as in tests that run a subcommand directly).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// NewLinter selects and configures the rules named by the configuration.
func (c *CommandContext) NewLinter() (*lint.Linter, error) {
	set, err := lint.SelectRules(c.Cfg.Rules...)
	if err != nil {
		return nil, err
	}
	return lint.NewLinter(set.Rules(),
		lint.WithDialect(c.Cfg.Dialect),
		lint.WithConfig(c.Cfg.LintConfig()),
		lint.WithLogger(c.Logger),
		lint.WithConcurrency(c.Cfg.Concurrency),
	)
}
