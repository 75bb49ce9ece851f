package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"leaplint.yaml", ".gitignore"},
		},
		{
			name: "init example",
			args: []string{"--example"},
			wantFiles: []string{
				"leaplint.yaml",
				"models/customers.sql",
				"models/staging/stg_orders.sql",
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leaplint.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing hidden config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, ".leaplint.yml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leaplint.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"leaplint.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			// Run setup if provided
			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "leaplint initialized!")

			// Check expected files exist
			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(tmpDir, f))
				assert.NoError(t, err, "expected file %q to exist", f)
			}
		})
	}
}

func TestInitIntoDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "project")

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{dir})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(dir, "leaplint.yaml"))
	assert.NoError(t, err)
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("example"), "--example flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	for _, example := range []bool{false, true} {
		name := "minimal"
		if example {
			name = "example"
		}
		t.Run(name, func(t *testing.T) {
			t.Cleanup(config.ResetConfig)
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)

			cmd := NewInitCommand()
			cmd.SetOut(new(bytes.Buffer))
			if example {
				cmd.SetArgs([]string{"--example"})
			}
			require.NoError(t, cmd.Execute())

			cfg, err := config.LoadConfig("", nil)
			require.NoError(t, err)
			assert.Equal(t, []string{"all"}, cfg.Rules)
			assert.Equal(t, 10, cfg.MaxLoops)

			if example {
				assert.Equal(t, "postgres", cfg.Dialect)
				assert.Equal(t, []string{"CV09"}, cfg.Disabled)
				assert.Equal(t, filepath.Join(cfg.ProjectRoot, ".leaplint", "cache.db"), cfg.Cache)
				assert.NotEmpty(t, cfg.Layout)
			}
		})
	}
}

func TestInitExampleHasIssues(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir, "--example"})
	require.NoError(t, cmd.Execute())

	_, _, err := execute(t, NewLintCommand(), "", filepath.Join(tmpDir, "models"), "--format", "json")
	require.ErrorIs(t, err, ErrIssuesFound)
}

func TestInitDialect(t *testing.T) {
	dir := t.TempDir()
	r := output.NewRenderer(new(bytes.Buffer), new(bytes.Buffer), output.ModeText)
	require.NoError(t, runInit(r, dir, "minimal", "snowflake", false))

	content, err := os.ReadFile(filepath.Join(dir, "leaplint.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "\ndialect: snowflake\n")
	assert.NotContains(t, string(content), "{{")
}

func TestPlanScaffold(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("keep\n"), 0600))

	files, err := planScaffold("minimal", dir)
	require.NoError(t, err)

	exists := map[string]bool{}
	for _, f := range files {
		exists[f.Rel] = f.Exists
	}
	assert.Equal(t, map[string]bool{".gitignore": true, "leaplint.yaml": false}, exists)

	written, err := writeScaffold(files, dir, scaffoldData{Dialect: "ansi"}, false)
	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, "leaplint.yaml", written[0].Rel)

	kept, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(kept))

	_, err = planScaffold("nope", dir)
	assert.Error(t, err)
}

func TestTargetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"gitignore", ".gitignore"},
		{"leaplint.yaml.tmpl", "leaplint.yaml"},
		{"models/staging/stg_orders.sql", "models/staging/stg_orders.sql"},
		{"nested/gitignore", "nested/.gitignore"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, targetName(tt.in), tt.in)
	}
}

func TestGroupScaffold(t *testing.T) {
	groups := groupScaffold([]scaffoldFile{
		{Rel: "leaplint.yaml", Category: fileCategory("leaplint.yaml")},
		{Rel: ".gitignore", Category: fileCategory(".gitignore")},
		{Rel: "models/a.sql", Category: fileCategory("models/a.sql")},
	})
	assert.Equal(t, []string{"leaplint.yaml", ".gitignore"}, groups["config"])
	assert.Equal(t, []string{"models/a.sql"}, groups["models"])
}
