package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/commands"
	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
)

// runRoot executes the root command in an empty working directory.
func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)
	t.Cleanup(func() { cfgFile = "" })

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd := NewRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"cache", "completion", "doctor", "fix", "init", "lint", "parse", "repl", "rules", "version"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "dialect", "concurrency", "cache-path", "verbose", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_FlagPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaplint.yaml"), []byte("dialect: postgres\nmax_loops: 5\n"), 0644))
	t.Chdir(dir)

	tests := []struct {
		name        string
		args        []string
		wantDialect string
		wantLoops   int
	}{
		{"config file", []string{"version"}, "postgres", 5},
		{"flag overrides file", []string{"--dialect", "tsql", "version"}, "tsql", 5},
		{"subcommand flag", []string{"fix", "--max-loops", "2", "--check", "-"}, "postgres", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _ = runRoot(t, "SELECT a FROM t\n", tt.args...)

			cfg := config.GetCurrentConfig()
			require.NotNil(t, cfg)
			assert.Equal(t, tt.wantDialect, cfg.Dialect)
			assert.Equal(t, tt.wantLoops, cfg.MaxLoops)
		})
	}
}

func TestRootCommand_RuleSelection(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := runRoot(t, "SELECT a AS a FROM t WHERE b = NULL\n", "lint", "--rule", "AL09", "--format", "json", "-")
	require.ErrorIs(t, err, commands.ErrIssuesFound)

	var result output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result), out)
	require.Len(t, result.Files, 1)
	require.Len(t, result.Files[0].Diagnostics, 1)
	assert.Equal(t, "AL09", result.Files[0].Diagnostics[0].RuleID)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaplint.yaml"), []byte("dialect: klingon\n"), 0644))
	t.Chdir(dir)

	_, _, err := runRoot(t, "", "lint", "-")
	require.Error(t, err)
	assert.NotErrorIs(t, err, commands.ErrIssuesFound)
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, _, err := runRoot(t, "", "completion", shell)
			require.NoError(t, err)
			assert.Contains(t, out, "leaplint")
		})
	}

	_, _, err := runRoot(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
