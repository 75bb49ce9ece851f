package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the leaplint version, build metadata and the rules and dialects compiled in.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "leaplint v%s\n", info.Version)
			_, _ = fmt.Fprintln(out, "SQL linter and auto-fixer")
			if info.Commit != "" && info.Commit != "unknown" {
				_, _ = fmt.Fprintf(out, "commit %s, built %s\n", info.Commit, info.Date)
			}
			_, _ = fmt.Fprintf(out, "%d rules, dialects: %s\n", len(lint.AllRules()), strings.Join(dialect.List(), ", "))
		},
	}
}
