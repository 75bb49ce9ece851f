package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/layout"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaplint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultMaxLoops, cfg.MaxLoops)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `dialect: postgres
max_loops: 4
disabled: [AM01]
severity:
  CV05: error
options:
  AL06:
    max_alias_length: 8
layout:
  comma:
    spacing_before: single
cache: ${LEAPLINT_TEST_HOME}/cache.db
`)
	t.Setenv("LEAPLINT_TEST_HOME", "/tmp/leaplint-home")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, 4, cfg.MaxLoops)
	assert.Equal(t, []string{"AM01"}, cfg.Disabled)
	assert.Equal(t, "error", cfg.Severity["CV05"])
	assert.EqualValues(t, 8, cfg.Options["AL06"]["max_alias_length"])
	assert.Equal(t, layout.Single, cfg.Layout["comma"].Before)
	assert.Equal(t, "/tmp/leaplint-home/cache.db", cfg.Cache)
	assert.Equal(t, filepath.Dir(path), cfg.ProjectRoot)
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "dialect: mysql\n")
	nested := filepath.Join(filepath.Dir(path), "models", "staging")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_Precedence(t *testing.T) {
	newFlags := func() *pflag.FlagSet {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("dialect", "", "")
		flags.StringSlice("disable", nil, "")
		flags.String("format", "", "")
		return flags
	}

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		path := writeConfig(t, "dialect: mysql\n")
		t.Setenv("LEAPLINT_DIALECT", "postgres")

		cfg, err := LoadConfig(path, newFlags())
		require.NoError(t, err)
		assert.Equal(t, "postgres", cfg.Dialect)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		ResetConfig()
		path := writeConfig(t, "dialect: mysql\n")
		t.Setenv("LEAPLINT_DIALECT", "postgres")
		flags := newFlags()
		require.NoError(t, flags.Set("dialect", "bigquery"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "bigquery", cfg.Dialect)
	})

	t.Run("list flag maps to config key", func(t *testing.T) {
		ResetConfig()
		path := writeConfig(t, "disabled: [AM01]\n")
		flags := newFlags()
		require.NoError(t, flags.Set("disable", "CV05,ST08"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, []string{"CV05", "ST08"}, cfg.Disabled)
	})

	t.Run("env list is split", func(t *testing.T) {
		ResetConfig()
		path := writeConfig(t, "")
		t.Setenv("LEAPLINT_RULES", "aliasing, CV05")

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"aliasing", "CV05"}, cfg.Rules)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"unknown dialect", "dialect: cobol\n", "unknown dialect"},
		{"max loops", "max_loops: 0\n", "max_loops"},
		{"severity", "severity:\n  CV05: fatal\n", "unknown level"},
		{"layout", "layout:\n  comma:\n    spacing_after: wide\n", "invalid spacing"},
		{"output", "output: html\n", "unknown output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestLintConfig(t *testing.T) {
	cfg := Default()
	cfg.MaxLoops = 3
	cfg.Disabled = []string{"AM01"}
	cfg.Severity = map[string]string{"cv05": "error"}
	cfg.Options = map[string]map[string]any{"AL06": {"max_alias_length": 5}}

	lintCfg := cfg.LintConfig()
	assert.Equal(t, 3, lintCfg.MaxLoops)
	assert.True(t, lintCfg.DisabledRules["am01"])
	assert.Equal(t, lint.SeverityError, lintCfg.SeverityOverrides["cv05"])
	assert.Equal(t, map[string]any{"max_alias_length": 5}, lintCfg.RuleOptions["al06"])
}

func TestFingerprint(t *testing.T) {
	a, b := Default(), Default()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	// output settings do not change results
	b.OutputFormat = "json"
	b.Verbose = true
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Dialect = "postgres"
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"variable in path", "/path/to/${TEST_VAR_ONE}/file", "/path/to/value_one/file"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"no variables", "plain string", "plain string"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}
