package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a leaplint.yaml configuration",
		Long: `Create a leaplint.yaml configuration with the default settings.

The dialect is taken from --dialect (default ansi). Use --example to
also write SQL files with typical issues and a postgres configuration
that shows severity overrides, rule options and layout.`,
		Example: `  # Initialize in current directory
  leaplint init

  # Initialize for Snowflake
  leaplint init --dialect snowflake

  # Initialize with example SQL files
  leaplint init --example

  # Initialize in a new directory
  leaplint init my-project --example

  # Force overwrite existing config
  leaplint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create renderer
			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, cfg.Dialect, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Also create example SQL files")

	return cmd
}

func runInit(r *output.Renderer, dir, template, dialectName string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	for _, name := range config.ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil && !force {
			return fmt.Errorf("%s already exists. Use --force to overwrite", name)
		}
	}

	files, err := planScaffold(template, dir)
	if err != nil {
		return err
	}
	written, err := writeScaffold(files, dir, scaffoldData{Dialect: dialectName}, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	// List files by category; files kept from before are marked as skipped
	kept := make(map[string]bool)
	for _, f := range files {
		kept[f.Rel] = true
	}
	for _, f := range written {
		delete(kept, f.Rel)
	}
	status := func(rel string) (string, string) {
		if kept[rel] {
			return "skipped", "exists"
		}
		return "success", ""
	}

	groups := groupScaffold(files)
	r.Header(2, "Configuration")
	for _, f := range groups["config"] {
		st, detail := status(f)
		r.StatusLine(f, st, detail)
	}
	if len(groups["models"]) > 0 {
		r.Println("")
		r.Header(2, "Models")
		for _, f := range groups["models"] {
			st, detail := status(f)
			r.StatusLine(f, st, detail)
		}
	}

	r.Println("")
	r.Success("leaplint initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  leaplint rules    List the available rules")
	r.Println("  leaplint lint     Report issues in .sql files")
	r.Println("  leaplint fix      Fix what can be fixed automatically")

	return nil
}
