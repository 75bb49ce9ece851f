package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Format   string // Output format: text, json, yaml
	CodeOnly bool   // Hide whitespace, newlines and meta segments
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [path]",
		Short: "Print the segment tree of a SQL file",
		Long: `Parse a SQL file and print its segment tree.

Each line shows the segment type, its line:column position and, for leaf
segments, the raw text. This is what lint rules see when they crawl a file.`,
		Example: `  # Show the tree of a file
  leaplint parse query.sql

  # Parse from a pipe as YAML
  echo "SELECT a FROM t" | leaplint parse --format yaml -

  # Hide whitespace
  leaplint parse --code-only query.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}
			return runParse(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&opts.CodeOnly, "code-only", false, "Hide non-code segments")

	return cmd
}

// segmentNode is the machine-readable form of a segment.
type segmentNode struct {
	Type     string         `json:"type" yaml:"type"`
	Raw      string         `json:"raw,omitempty" yaml:"raw,omitempty"`
	Line     int            `json:"line" yaml:"line"`
	Column   int            `json:"column" yaml:"column"`
	Children []*segmentNode `json:"children,omitempty" yaml:"children,omitempty"`
}

func runParse(cmd *cobra.Command, path string, opts *ParseOptions) error {
	cc := NewCommandContext(cmd, opts.Format)

	d, err := dialect.Lookup(cc.Cfg.Dialect)
	if err != nil {
		return err
	}
	src, err := readSource(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	root, err := parser.Parse(src.Content, d)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	node := buildNode(segment.NewTree(root), root, opts.CodeOnly)

	switch cc.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return cc.Renderer.JSON(node)
	case output.ModeYAML:
		return cc.Renderer.YAML(node)
	}

	var sb strings.Builder
	printNode(&sb, cc.Renderer, node, 0)
	cc.Renderer.Printf("%s", sb.String())
	return nil
}

func buildNode(tree *segment.Tree, s *segment.Segment, codeOnly bool) *segmentNode {
	n := &segmentNode{Type: s.Type()}
	if pos, ok := tree.Position(s); ok {
		n.Line, n.Column = pos.Working.Line, pos.Working.Column
	}
	if s.IsLeaf() {
		n.Raw = s.Raw()
		return n
	}
	for _, c := range s.Children() {
		if codeOnly && c.IsLeaf() && !c.IsCode() {
			continue
		}
		n.Children = append(n.Children, buildNode(tree, c, codeOnly))
	}
	return n
}

func printNode(sb *strings.Builder, r *output.Renderer, n *segmentNode, depth int) {
	styles := r.Styles()
	loc := fmt.Sprintf("%d:%d", n.Line, n.Column)
	fmt.Fprintf(sb, "%s %s%s", styles.Muted.Render(fmt.Sprintf("%-7s", loc)), strings.Repeat("  ", depth), n.Type)
	if n.Children == nil && n.Raw != "" {
		fmt.Fprintf(sb, ": %s", styles.Code.Render(fmt.Sprintf("%q", n.Raw)))
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		printNode(sb, r, c, depth+1)
	}
}
