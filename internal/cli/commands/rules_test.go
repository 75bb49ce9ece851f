package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func runRules(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule-id]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"group", "verbose", "format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRulesCommand_ListAll(t *testing.T) {
	out := runRules(t)
	assert.Contains(t, out, "Lint Rules")
	assert.Contains(t, out, "Aliasing")
	assert.Contains(t, out, "Structure")
}

func TestRulesCommand_Text(t *testing.T) {
	out := runRules(t, "--format", "text", "--verbose")
	assert.Contains(t, out, "Lint Rules (")
	assert.Contains(t, out, "AL09")
	assert.Contains(t, out, "aliasing.self_alias")
	assert.Contains(t, out, "Use 'leaplint rules <rule-id>'")
}

func TestRulesCommand_FilterByGroup(t *testing.T) {
	out := runRules(t, "--group", "ambiguous", "--format", "markdown")
	assert.Contains(t, out, "## Ambiguous")
	assert.Contains(t, out, "**AM01**")
	assert.NotContains(t, out, "## Aliasing")
}

func TestRulesCommand_ShowSpecificRule(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{"by id", "AM01"},
		{"by lowercase id", "am01"},
		{"by name", "ambiguous.distinct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runRules(t, tt.arg)
			assert.Contains(t, out, "AM01")
			assert.Contains(t, out, "ambiguous")
		})
	}
}

func TestRulesCommand_NotFound(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"INVALID99"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRulesCommand_JSON(t *testing.T) {
	out := runRules(t, "--format", "json")

	var result RulesOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Rules, len(lint.AllRules()))
	assert.Equal(t, len(result.Rules), result.Count.Total)
	assert.Positive(t, result.Count.Fixable)
	assert.Less(t, result.Count.Fixable, result.Count.Total)
	for _, r := range result.Rules {
		assert.NotEmpty(t, r.DocumentationURL, r.ID)
	}
}

func TestRulesCommand_YAML(t *testing.T) {
	out := runRules(t, "--format", "yaml", "--group", "structure")

	var result RulesOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	require.Len(t, result.Rules, 1)
	assert.Equal(t, "ST08", result.Rules[0].ID)
	assert.True(t, result.Rules[0].Fixable)
}

func TestRulesCommand_Markdown(t *testing.T) {
	out := runRules(t, "--format", "markdown")
	assert.Contains(t, out, "# Lint Rules")
	assert.Contains(t, out, "## Convention")
	assert.Contains(t, out, "(fixable)")
}

func TestFilterRulesByOptions(t *testing.T) {
	rules := []lint.RuleInfoEntry{
		{RuleInfo: lint.GetRuleInfo(mustRule(t, "AL09"))},
		{RuleInfo: lint.GetRuleInfo(mustRule(t, "AM01"))},
		{RuleInfo: lint.GetRuleInfo(mustRule(t, "AM02"))},
	}

	t.Run("no filter", func(t *testing.T) {
		assert.Len(t, filterRulesByOptions(rules, &RulesOptions{}), 3)
	})

	t.Run("filter by group", func(t *testing.T) {
		got := filterRulesByOptions(rules, &RulesOptions{Group: "Ambiguous"})
		require.Len(t, got, 2)
		assert.Equal(t, "AM01", got[0].ID)
	})

	t.Run("unknown group", func(t *testing.T) {
		assert.Empty(t, filterRulesByOptions(rules, &RulesOptions{Group: "modeling"}))
	})
}

func mustRule(t *testing.T, id string) lint.Rule {
	t.Helper()
	r, ok := lint.GetRuleByID(id)
	require.True(t, ok, id)
	return r
}

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "Hello"},
		{"WORLD", "WORLD"},
		{"", ""},
		{"a", "A"},
		{"aliasing", "Aliasing"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, capitalizeFirst(tc.input))
		})
	}
}

func TestTruncateOneLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 8, "hello..."},
		{"multiline", "hello\nworld", 20, "hello world"},
		{"multiline truncated", "hello\nworld", 8, "hello..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, truncateOneLine(tc.input, tc.maxLen))
		})
	}
}

func TestRulesCommand_SingleRuleJSON(t *testing.T) {
	out := runRules(t, "AM01", "--format", "json")

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "AM01", result["id"])
	assert.Equal(t, "warning", result["default_severity"])
	assert.Contains(t, result["documentation_url"], "am01")
}

func TestRulesCommand_SingleRuleMarkdown(t *testing.T) {
	out := runRules(t, "AM01", "--format", "markdown")
	assert.True(t, strings.HasPrefix(out, "# AM01"))
	assert.Contains(t, out, "[Documentation](")
}

func TestRulesCommand_DocsURLFromConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leaplint.yaml"), []byte("docs_url: https://docs.example.com/lint/\n"), 0600))
	t.Chdir(dir)
	t.Cleanup(config.ResetConfig)
	t.Cleanup(lint.ResetDocsBaseURL)

	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	out := runRules(t, "AM01", "--format", "markdown")
	assert.Contains(t, out, "[Documentation](https://docs.example.com/lint/am01)")
}
