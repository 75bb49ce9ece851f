// Package main provides tests for the leaplint CLI.
package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leaplint/internal/cli"
	"github.com/leapstack-labs/leaplint/internal/cli/commands"
	"github.com/leapstack-labs/leaplint/internal/cli/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	defer config.ResetConfig()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(out, "leaplint") {
		t.Errorf("version output should contain 'leaplint', got: %s", out)
	}
}

func TestHelpCommand(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"lint", "fix", "parse", "rules", "repl", "init", "doctor", "cache"}
	for _, expected := range expectedCommands {
		if !strings.Contains(out, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, out)
		}
	}
}

func TestInitLintFixCycle(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := run(t, "init", "--example"); err != nil {
		t.Fatalf("init command error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "leaplint.yaml")); err != nil {
		t.Fatalf("init should write leaplint.yaml: %v", err)
	}

	out, err := run(t, "lint", "models")
	if !errors.Is(err, commands.ErrIssuesFound) {
		t.Fatalf("lint on the example project should find issues, got err = %v\n%s", err, out)
	}

	if out, err = run(t, "fix", "models"); err != nil && !errors.Is(err, commands.ErrIssuesFound) {
		t.Fatalf("fix command error = %v\n%s", err, out)
	}

	out, err = run(t, "fix", "--check", "models")
	if err != nil && !errors.Is(err, commands.ErrIssuesFound) {
		t.Fatalf("fix --check error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "0 of") {
		t.Errorf("second fix should change nothing, got: %s", out)
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.sql")
	if err := os.WriteFile(path, []byte("SELECT 1"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "parse", "--code-only", path)
	if err != nil {
		t.Errorf("parse command error = %v", err)
	}
	if !strings.Contains(out, "select_statement") {
		t.Errorf("parse output should contain 'select_statement', got: %s", out)
	}
}
