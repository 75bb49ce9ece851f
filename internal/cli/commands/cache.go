package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/internal/state"
)

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the lint cache",
		Long: `Inspect and maintain the lint cache written by 'leaplint lint --cache'.

The cache records each run and the results of files that have not changed
since. Entries are only reused when both the file content and the
configuration are unchanged.`,
	}

	cmd.AddCommand(newCacheRunsCommand())
	cmd.AddCommand(newCacheShowCommand())
	cmd.AddCommand(newCachePruneCommand())
	cmd.AddCommand(newCacheClearCommand())

	return cmd
}

func newCacheRunsCommand() *cobra.Command {
	var limit int
	var format string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent lint runs",
		Example: `  leaplint cache runs
  leaplint cache runs --limit 5 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd, format)
			store, err := openExistingCache(cc)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return renderRuns(cc.Renderer, runs)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json, yaml")
	return cmd
}

func newCacheShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one lint run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd, format)
			store, err := openExistingCache(cc)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.GetRun(cmd.Context(), args[0])
			if errors.Is(err, state.ErrRunNotFound) {
				return fmt.Errorf("run %q not found", args[0])
			}
			if err != nil {
				return err
			}
			return renderRuns(cc.Renderer, []*state.Run{run})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json, yaml")
	return cmd
}

func newCachePruneCommand() *cobra.Command {
	var olderThan time.Duration
	var paths []string
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Drop old or selected file results",
		Example: `  # Drop results not refreshed in 30 days
  leaplint cache prune --older-than 720h

  # Forget specific files
  leaplint cache prune --path models/a.sql`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd, "")
			store, err := openExistingCache(cc)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, p := range paths {
				if err := store.DeleteFileResult(cmd.Context(), p); err != nil {
					return err
				}
			}
			var n int64
			if olderThan > 0 {
				n, err = store.PruneFileResults(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
			}
			cc.Renderer.Success(fmt.Sprintf("Pruned %d cached results", n+int64(len(paths))))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Drop results not refreshed within this duration")
	cmd.Flags().StringSliceVar(&paths, "path", nil, "Drop the results of these files")
	return cmd
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the lint cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd, "")
			path := cacheFilePath(cc.Cfg)
			for _, p := range []string{path, path + "-wal", path + "-shm"} {
				if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to remove %s: %w", p, err)
				}
			}
			cc.Renderer.Success("Removed " + path)
			return nil
		},
	}
}

// openExistingCache opens the cache without creating it.
func openExistingCache(cc *CommandContext) (*state.SQLiteStore, error) {
	path := cacheFilePath(cc.Cfg)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no lint cache at %s (run 'leaplint lint --cache' first)", path)
	}
	return openCache(cc.Cfg)
}

func renderRuns(r *output.Renderer, runs []*state.Run) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(runs)
	case output.ModeYAML:
		return r.YAML(runs)
	case output.ModeMarkdown:
		r.Println("| ID | Command | Status | Started | Duration | Files | Violations |")
		r.Println("|---|---|---|---|---|---|---|")
		for _, run := range runs {
			r.Printf("| %s | %s | %s | %s | %s | %d | %d |\n",
				run.ID, run.Command, run.Status, run.StartedAt.Format(time.RFC3339),
				runDuration(run), run.Files, run.Violations)
		}
		r.Printf("\n(%d runs)\n", len(runs))
		return nil
	}

	if len(runs) == 0 {
		r.Println("(0 runs)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Command", "Status", "Started", "Duration", "Files", "Violations"})
	for _, run := range runs {
		status := string(run.Status)
		if run.Status == state.RunStatusFailed && run.Error != "" {
			status += ": " + truncateOneLine(run.Error, 40)
		}
		t.AppendRow(table.Row{
			run.ID, run.Command, status, run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			runDuration(run), run.Files, run.Violations,
		})
	}
	t.Render()
	r.Printf("(%d runs)\n", len(runs))
	return nil
}

func runDuration(run *state.Run) string {
	if run.CompletedAt == nil {
		return "-"
	}
	return run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
}
