package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

const (
	replPrompt         = "leaplint> "
	replContinuePrompt = "     ...> "
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Lint SQL interactively",
		Long: `Start an interactive session that lints each statement as you type it.

Statements end with a semicolon. Use .fix to print the fixed statement
instead of the violations, and .rules to change which rules run.`,
		Example: `  # Start the REPL with the postgres dialect
  leaplint repl --dialect postgres`,
		RunE: runRepl,
	}
}

// replSession is the state of an interactive session, independent of the
// terminal so it can be driven line by line.
type replSession struct {
	cc        *CommandContext
	out       io.Writer
	errOut    io.Writer
	dialect   string
	selectors []string
	fixMode   bool
	linter    *lint.Linter
	buf       strings.Builder
}

func newReplSession(cc *CommandContext, out, errOut io.Writer) (*replSession, error) {
	s := &replSession{
		cc:        cc,
		out:       out,
		errOut:    errOut,
		dialect:   cc.Cfg.Dialect,
		selectors: cc.Cfg.Rules,
	}
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuild creates the linter for the current dialect and rule selection.
func (s *replSession) rebuild() error {
	set, err := lint.SelectRules(s.selectors...)
	if err != nil {
		return err
	}
	l, err := lint.NewLinter(set.Rules(),
		lint.WithDialect(s.dialect),
		lint.WithConfig(s.cc.Cfg.LintConfig()),
		lint.WithLogger(s.cc.Logger),
	)
	if err != nil {
		return err
	}
	s.linter = l
	return nil
}

// pending reports whether a statement is being accumulated.
func (s *replSession) pending() bool { return s.buf.Len() > 0 }

// reset discards a partially entered statement.
func (s *replSession) reset() { s.buf.Reset() }

// handleLine processes one input line and reports whether the session ends.
func (s *replSession) handleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" && !s.pending() {
		return false
	}

	// Handle dot-commands
	if !s.pending() && strings.HasPrefix(trimmed, ".") {
		return s.handleDotCommand(trimmed)
	}

	// Accumulate multi-line SQL until semicolon
	s.buf.WriteString(line)
	if !strings.HasSuffix(trimmed, ";") {
		s.buf.WriteString("\n")
		return false
	}
	sql := s.buf.String()
	s.buf.Reset()

	if err := s.run(sql); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	return false
}

func (s *replSession) run(sql string) error {
	if s.fixMode {
		result, err := s.linter.Fix(sql)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(s.out, result.Fixed)
		if !result.Converged() {
			_, _ = fmt.Fprintf(s.errOut, "fix did not converge after %d loops\n", result.Loops)
		}
		return nil
	}

	report, err := s.linter.Lint(sql)
	if err != nil {
		return err
	}
	if len(report.Diagnostics) == 0 {
		_, _ = fmt.Fprintln(s.out, "No issues.")
		return nil
	}
	for _, d := range report.Diagnostics {
		od := toOutputDiagnostic(d)
		fix := ""
		if od.Fixable {
			fix = " [fixable]"
		}
		_, _ = fmt.Fprintf(s.out, "%-7s %-5s %s%s\n", location(od), ruleLabel(od), od.Message, fix)
	}
	return nil
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".dialect":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.out, "%s (available: %s)\n", s.dialect, strings.Join(dialect.List(), ", "))
			return false
		}
		prev := s.dialect
		s.dialect = parts[1]
		if err := s.rebuild(); err != nil {
			s.dialect = prev
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		_, _ = fmt.Fprintf(s.out, "Dialect set to %s\n", s.dialect)

	case ".rules":
		if len(parts) < 2 {
			for _, r := range s.linter.Rules() {
				_, _ = fmt.Fprintf(s.out, "%-5s %s\n", r.ID(), r.Name())
			}
			return false
		}
		prev := s.selectors
		s.selectors = splitSelectors(parts[1:])
		if err := s.rebuild(); err != nil {
			s.selectors = prev
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		_, _ = fmt.Fprintf(s.out, "%d rules selected\n", len(s.linter.Rules()))

	case ".fix":
		s.fixMode = !s.fixMode
		state := "off"
		if s.fixMode {
			state = "on"
		}
		_, _ = fmt.Fprintf(s.out, "Fix mode %s\n", state)

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func splitSelectors(args []string) []string {
	var out []string
	for _, a := range args {
		for _, s := range strings.Split(a, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help              Show this help message
  .dialect [name]    Show or switch the SQL dialect
  .rules [selectors] List or select rules (IDs, names or groups)
  .fix               Toggle printing the fixed statement
  .quit / .exit      Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Ctrl+C discards the statement being typed
`
	_, _ = fmt.Fprintln(w, help)
}

// newReplCompleter completes dot-commands, dialect names and rule groups.
func newReplCompleter() *readline.PrefixCompleter {
	var dialects []readline.PrefixCompleterInterface
	for _, name := range dialect.List() {
		dialects = append(dialects, readline.PcItem(name))
	}

	groups := make(map[string]bool)
	var rules []readline.PrefixCompleterInterface
	for _, r := range lint.AllRules() {
		rules = append(rules, readline.PcItem(r.ID()))
		if !groups[r.Group()] {
			groups[r.Group()] = true
			rules = append(rules, readline.PcItem(r.Group()))
		}
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".rules", rules...),
		readline.PcItem(".fix"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cc := NewCommandContext(cmd, string(output.ModeText))
	session, err := newReplSession(cc, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	// Setup history file (project-local)
	var historyFile string
	if cc.Cfg.ProjectRoot != "" {
		dir := filepath.Join(cc.Cfg.ProjectRoot, ".leaplint")
		if err := os.MkdirAll(dir, 0o750); err == nil {
			historyFile = filepath.Join(dir, "repl_history")
		}
	}

	// Configure readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newReplCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "leaplint REPL (dialect: %s)\n", session.dialect)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if session.handleLine(line) {
			break
		}
		if session.pending() {
			rl.SetPrompt(replContinuePrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}

	return nil
}
