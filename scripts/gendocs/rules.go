package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"aliasing":   "Rules about alias usage and naming conventions.",
	"ambiguous":  "Rules about ambiguous SQL constructs that may cause confusion or errors.",
	"convention": "Rules about SQL coding conventions and style consistency.",
	"layout":     "Rules about line breaks, indentation and spacing.",
	"references": "Rules about column and table references in queries.",
	"structure":  "Rules about SQL query structure and organization.",
}

// groupOrder is the order groups appear in the index.
var groupOrder = []string{"aliasing", "ambiguous", "convention", "layout", "references", "structure"}

// generateRuleDocs writes an index page plus one page per rule, named so
// lint.BuildDocURL resolves against the published directory.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	grouped := groupRules(lint.AllRules())

	if err := generateRuleIndex(outDir, grouped); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, infos := range grouped {
		for _, info := range infos {
			if err := generateRulePage(outDir, info); err != nil {
				return fmt.Errorf("failed to generate page for %s: %w", info.ID, err)
			}
			log.Printf("  Generated %s.md", strings.ToLower(info.ID))
		}
	}
	return nil
}

// groupRules organizes rule metadata by group, sorted by ID.
func groupRules(rules []lint.Rule) map[string][]core.RuleInfo {
	grouped := make(map[string][]core.RuleInfo)
	for _, r := range rules {
		grouped[r.Group()] = append(grouped[r.Group()], lint.GetRuleInfo(r))
	}
	for group := range grouped {
		sort.Slice(grouped[group], func(i, j int) bool {
			return grouped[group][i].ID < grouped[group][j].ID
		})
	}
	return grouped
}

func generateRuleIndex(outDir string, grouped map[string][]core.RuleInfo) error {
	w := NewMarkdownWriter()

	total, fixable := 0, 0
	for _, infos := range grouped {
		for _, info := range infos {
			total++
			if info.Fixable {
				fixable++
			}
		}
	}

	w.Frontmatter("Rules", "Lint rules shipped with leaplint")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("leaplint ships **%d rules**, %d of which can fix what they find.", total, fixable))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode("error"), "Critical issue that should be fixed"},
			{InlineCode("warning"), "Potential issue that should be reviewed"},
			{InlineCode("info"), "Informational feedback"},
			{InlineCode("hint"), "Suggestion for improvement"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are selected and configured in `leaplint.yaml`. Selectors accept rule IDs, names and group names:")
	w.CodeBlock("yaml", `rules: [all]
disabled: [CV09]
severity:
  AL06: error
options:
  CV01:
    preferred_not_equal: ansi`)

	for _, group := range groupOrder {
		infos := grouped[group]
		if len(infos) == 0 {
			continue
		}
		w.Header(2, capitalizeFirst(group))
		if desc, ok := groupDescriptions[group]; ok {
			w.Paragraph(desc)
		}

		var rows [][]string
		for _, info := range infos {
			fix := ""
			if info.Fixable {
				fix = "yes"
			}
			rows = append(rows, []string{
				fmt.Sprintf("[%s](%s)", info.ID, strings.ToLower(info.ID)),
				InlineCode(info.Name),
				cleanDescription(info.Description),
				fix,
			})
		}
		w.Table([]string{"ID", "Name", "Description", "Fix"}, rows)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

// generateRulePage writes detailed documentation for a single rule.
func generateRulePage(outDir string, info core.RuleInfo) error {
	w := NewMarkdownWriter()

	w.Frontmatter(info.ID+" - "+info.Name, cleanDescription(info.Description))
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s - %s", info.ID, info.Name))

	w.Line(fmt.Sprintf("**Severity:** %s", InlineCode(info.DefaultSeverity.String())))
	w.Newline()
	if info.Fixable {
		w.Line(Bold("Auto-fixable"))
		w.Newline()
	}

	w.Paragraph(cleanDescription(info.Description))

	if info.Rationale != "" {
		w.Header(2, "Why This Matters")
		w.Paragraph(info.Rationale)
	}

	if info.BadExample != "" {
		w.Header(2, "Bad")
		w.CodeBlock("sql", info.BadExample)
	}

	if info.GoodExample != "" {
		w.Header(2, "Good")
		w.CodeBlock("sql", info.GoodExample)
	}

	if info.Fix != "" {
		w.Header(2, "How to Fix")
		w.Paragraph(info.Fix)
	}

	if len(info.ConfigKeys) > 0 {
		w.Header(2, "Configuration")
		keys := make([]string, len(info.ConfigKeys))
		for i, k := range info.ConfigKeys {
			keys[i] = InlineCode(k)
		}
		w.BulletList(keys)
	}

	if len(info.Dialects) > 0 {
		w.Line(fmt.Sprintf("**Dialects:** %s", strings.Join(info.Dialects, ", ")))
		w.Newline()
	}

	return os.WriteFile(filepath.Join(outDir, strings.ToLower(info.ID)+".md"), w.Bytes(), 0600)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
