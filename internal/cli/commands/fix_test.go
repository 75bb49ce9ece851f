package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/cli/testutil"
)

func TestNewFixCommand(t *testing.T) {
	cmd := NewFixCommand()

	assert.Equal(t, "fix [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Example)
	for _, flag := range []string{"format", "check", "diff", "max-loops", "rule", "disable"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestFixCommand_WritesFiles(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	dirty := filepath.Join(dir, "models", "staging", "dirty.sql")

	out, _, err := execute(t, NewFixCommand(), "", dir, "--format", "json")
	require.NoError(t, err)

	var result output.FixOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.Changed)
	require.Len(t, result.Files, 2)

	for _, f := range result.Files {
		assert.True(t, f.Converged, f.Path)
		assert.Empty(t, f.Remaining, f.Path)
		if f.Path == dirty {
			assert.True(t, f.Changed)
			assert.Positive(t, f.Applied)
		}
	}

	got, err := os.ReadFile(dirty)
	require.NoError(t, err)
	assert.Equal(t, testutil.FixedSQL, string(got))

	clean, err := os.ReadFile(filepath.Join(dir, "models", "clean.sql"))
	require.NoError(t, err)
	assert.Equal(t, testutil.CleanSQL, string(clean))

	// The hidden directory is never touched
	hidden, err := os.ReadFile(filepath.Join(dir, ".hidden", "ignored.sql"))
	require.NoError(t, err)
	assert.Equal(t, testutil.DirtySQL, string(hidden))
}

func TestFixCommand_Check(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	dirty := filepath.Join(dir, "models", "staging", "dirty.sql")

	out, _, err := execute(t, NewFixCommand(), "", dirty, "--check", "--format", "text")
	require.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, out, "would fix")
	assert.Contains(t, out, "1 of 1 files would change")

	got, err := os.ReadFile(dirty)
	require.NoError(t, err)
	assert.Equal(t, testutil.DirtySQL, string(got), "--check must not write")

	_, _, err = execute(t, NewFixCommand(), "", filepath.Join(dir, "models", "clean.sql"), "--check")
	require.NoError(t, err)
}

func TestFixCommand_Diff(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	dirty := filepath.Join(dir, "models", "staging", "dirty.sql")

	out, _, err := execute(t, NewFixCommand(), "", dirty, "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/"+dirty)
	assert.Contains(t, out, "+++ b/"+dirty)
	assert.Contains(t, out, "-"+testutil.DirtySQL)
	assert.Contains(t, out, "+"+testutil.FixedSQL)

	got, err := os.ReadFile(dirty)
	require.NoError(t, err)
	assert.Equal(t, testutil.DirtySQL, string(got), "--diff must not write")
}

func TestFixCommand_Stdin(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"fixes", "SELECT DISTINCT(a) FROM t", "SELECT DISTINCT a FROM t"},
		{"clean passes through", "SELECT a FROM t", "SELECT a FROM t"},
		{"several fixes", "SELECT a AS a FROM t WHERE b != NULL", "SELECT a FROM t WHERE b IS NOT NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewFixCommand(), tt.sql, "-")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFixCommand_ParseError(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.sql")
	require.NoError(t, os.WriteFile(bad, []byte("SELECT 'abc"), 0o644))

	_, errOut, err := execute(t, NewFixCommand(), "", bad, "--format", "text")
	require.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, errOut, "unterminated string literal")
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := unifiedDiff("q.sql", "SELECT a\nFROM t\n", "SELECT a\nFROM u\n")
	require.NoError(t, err)
	assert.Equal(t, "--- a/q.sql\n+++ b/q.sql\n@@ -1,2 +1,2 @@\n SELECT a\n-FROM t\n+FROM u\n", diff)

	diff, err = unifiedDiff("q.sql", "SELECT a\nFROM t", "SELECT a\nFROM u")
	require.NoError(t, err)
	assert.Equal(t, "--- a/q.sql\n+++ b/q.sql\n@@ -1,2 +1,2 @@\n SELECT a\n-FROM t\n+FROM u\n", diff)
}

func TestDiffLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a\n", []string{"a\n"}},
		{"a\nb", []string{"a\n", "b\n"}},
		{"a\n\nb\n", []string{"a\n", "\n", "b\n"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, diffLines(tt.in), "%q", tt.in)
	}
}
