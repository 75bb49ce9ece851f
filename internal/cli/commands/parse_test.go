package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseCommand_Text(t *testing.T) {
	out, _, err := execute(t, NewParseCommand(), "SELECT a\nFROM t", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "1:1     file")
	assert.Contains(t, out, `keyword: "SELECT"`)
	assert.Contains(t, out, `2:1     `)
	assert.Contains(t, out, `newline: "\n"`)
}

func TestParseCommand_CodeOnly(t *testing.T) {
	out, _, err := execute(t, NewParseCommand(), "SELECT a\nFROM t", "--format", "text", "--code-only")
	require.NoError(t, err)
	assert.NotContains(t, out, "newline")
	assert.NotContains(t, out, "whitespace")
}

func TestParseCommand_JSON(t *testing.T) {
	out, _, err := execute(t, NewParseCommand(), "SELECT a FROM t", "-", "--format", "json")
	require.NoError(t, err)

	var root segmentNode
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	assert.Equal(t, "file", root.Type)
	assert.Equal(t, 1, root.Line)
	assert.Equal(t, "SELECT a FROM t", rawText(&root))
}

func TestParseCommand_YAML(t *testing.T) {
	out, _, err := execute(t, NewParseCommand(), "SELECT a FROM t", "--format", "yaml")
	require.NoError(t, err)

	var root segmentNode
	require.NoError(t, yaml.Unmarshal([]byte(out), &root))
	assert.Equal(t, "SELECT a FROM t", rawText(&root))
}

func TestParseCommand_Error(t *testing.T) {
	_, _, err := execute(t, NewParseCommand(), "SELECT FROM t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected expression")
}

// rawText reassembles the source from the leaves of a node.
func rawText(n *segmentNode) string {
	if len(n.Children) == 0 {
		return n.Raw
	}
	var s string
	for _, c := range n.Children {
		s += rawText(c)
	}
	return s
}
