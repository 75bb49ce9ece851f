package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{}
	cc := NewCommandContext(cmd, "text")
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	s, err := newReplSession(cc, out, errOut)
	require.NoError(t, err)
	return s, out, errOut
}

func TestReplSession_Lint(t *testing.T) {
	s, out, _ := newTestSession(t)

	assert.False(t, s.handleLine("SELECT a AS a"))
	assert.True(t, s.pending())
	assert.Empty(t, out.String())

	assert.False(t, s.handleLine("FROM t;"))
	assert.False(t, s.pending())
	assert.Contains(t, out.String(), "AL09")
	assert.Contains(t, out.String(), "[fixable]")

	out.Reset()
	s.handleLine("SELECT a FROM t;")
	assert.Equal(t, "No issues.\n", out.String())
}

func TestReplSession_Fix(t *testing.T) {
	s, out, _ := newTestSession(t)

	s.handleLine(".fix")
	assert.Equal(t, "Fix mode on\n", out.String())

	out.Reset()
	s.handleLine("SELECT DISTINCT(a) FROM t;")
	assert.Equal(t, "SELECT DISTINCT a FROM t;\n", out.String())

	out.Reset()
	s.handleLine(".fix")
	assert.Equal(t, "Fix mode off\n", out.String())
}

func TestReplSession_DotCommands(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		quit    bool
		wantOut string
		wantErr string
	}{
		{name: "quit", line: ".quit", quit: true},
		{name: "exit", line: ".EXIT", quit: true},
		{name: "help", line: ".help", wantOut: ".dialect [name]"},
		{name: "show dialect", line: ".dialect", wantOut: "ansi (available:"},
		{name: "set dialect", line: ".dialect postgres", wantOut: "Dialect set to postgres"},
		{name: "unknown dialect", line: ".dialect klingon", wantErr: "klingon"},
		{name: "list rules", line: ".rules", wantOut: "ST08"},
		{name: "select rules", line: ".rules AL09, ambiguous", wantOut: "3 rules selected"},
		{name: "unknown rule", line: ".rules XX99", wantErr: "XX99"},
		{name: "unknown command", line: ".tables", wantErr: "Unknown command: .tables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out, errOut := newTestSession(t)
			assert.Equal(t, tt.quit, s.handleLine(tt.line))
			assert.Contains(t, out.String(), tt.wantOut)
			assert.Contains(t, errOut.String(), tt.wantErr)
		})
	}
}

func TestReplSession_FailedSwitchKeepsState(t *testing.T) {
	s, _, _ := newTestSession(t)
	before := len(s.linter.Rules())

	s.handleLine(".rules nope")
	s.handleLine(".dialect nope")

	assert.Equal(t, "ansi", s.dialect)
	assert.Len(t, s.linter.Rules(), before)
}

func TestReplSession_ParseError(t *testing.T) {
	s, _, errOut := newTestSession(t)
	s.handleLine("SELECT FROM t;")
	assert.Contains(t, errOut.String(), "Error: parse error")
}

func TestSplitSelectors(t *testing.T) {
	assert.Equal(t, []string{"AL09", "ambiguous", "CV05"}, splitSelectors([]string{"AL09,", "ambiguous,CV05"}))
	assert.Nil(t, splitSelectors([]string{","}))
}
