package lint

import (
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/layout"
	"github.com/leapstack-labs/leaplint/pkg/parser"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// Option configures a Linter.
type Option func(*settings)

type settings struct {
	dialect     string
	config      *Config
	logger      *slog.Logger
	concurrency int
}

// WithDialect selects the dialect by name. The default is ansi.
func WithDialect(name string) Option {
	return func(s *settings) { s.dialect = name }
}

// WithConfig sets the rule configuration.
func WithConfig(cfg *Config) Option {
	return func(s *settings) { s.config = cfg }
}

// WithLogger sets the structured logger (discard if nil).
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithConcurrency bounds how many rules are evaluated at once. Values below
// one mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(s *settings) { s.concurrency = n }
}

type configuredRule struct {
	rule     Rule
	options  map[string]any
	severity Severity
}

// Linter runs a fixed set of configured rules over source texts. A Linter is
// safe for concurrent use; every call works on its own trees.
type Linter struct {
	rules       []configuredRule
	dialect     *dialect.Dialect
	layout      layout.Config
	maxLoops    int
	concurrency int
	logger      *slog.Logger

	// configDiags are reported with every run.
	configDiags []Diagnostic
}

// NewLinter configures the given rules. Rules that are disabled or do not
// apply to the dialect are dropped; rules whose options are invalid are
// dropped and reported as config diagnostics on every run. Only an unknown
// dialect or an invalid layout is an error.
func NewLinter(rules []Rule, opts ...Option) (*Linter, error) {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	logger := s.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if s.concurrency < 1 {
		s.concurrency = runtime.GOMAXPROCS(0)
	}

	d, err := dialect.Lookup(s.dialect)
	if err != nil {
		return nil, err
	}

	cfg := s.config
	if cfg == nil {
		cfg = NewConfig()
	}
	lay := layout.Default().Merge(cfg.Layout)
	if err := lay.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	l := &Linter{
		dialect:     d,
		layout:      lay,
		maxLoops:    cfg.maxLoops(),
		concurrency: s.concurrency,
		logger:      logger,
	}

	for _, r := range rules {
		if cfg.IsDisabled(r) {
			logger.Debug("rule disabled", "rule", r.ID())
			continue
		}
		if !appliesTo(r, d.GetName()) {
			logger.Debug("rule not applicable to dialect", "rule", r.ID(), "dialect", d.GetName())
			continue
		}
		options := cfg.GetRuleOptions(r)
		configured, err := r.LoadFromConfig(options)
		if err != nil {
			logger.Warn("rule configuration rejected", "rule", r.ID(), "error", err.Error())
			l.configDiags = append(l.configDiags, Diagnostic{
				Kind:     KindConfig,
				RuleID:   r.ID(),
				RuleName: r.Name(),
				Severity: SeverityError,
				Message:  err.Error(),
			})
			continue
		}
		l.rules = append(l.rules, configuredRule{
			rule:     configured,
			options:  options,
			severity: cfg.GetSeverity(r),
		})
	}
	return l, nil
}

// Dialect returns the linter's dialect.
func (l *Linter) Dialect() *dialect.Dialect { return l.dialect }

// Rules returns the configured rules in evaluation order.
func (l *Linter) Rules() []Rule {
	out := make([]Rule, len(l.rules))
	for i, cr := range l.rules {
		out[i] = cr.rule
	}
	return out
}

// Lint parses source and reports every violation. Only a parse failure is
// returned as an error.
func (l *Linter) Lint(source string) (*Report, error) {
	root, err := parser.Parse(source, l.dialect)
	if err != nil {
		return nil, err
	}
	tree := segment.NewTree(root)
	outcomes := l.evaluate(tree)

	diags := append([]Diagnostic(nil), l.configDiags...)
	diags = append(diags, l.diagnose(tree, outcomes)...)
	return &Report{Dialect: l.dialect.GetName(), Diagnostics: diags}, nil
}

// Fix parses source and applies fixes until no rule has anything left to
// fix or the loop limit is reached.
func (l *Linter) Fix(source string) (*FixResult, error) {
	root, err := parser.Parse(source, l.dialect)
	if err != nil {
		return nil, err
	}

	result := &FixResult{Dialect: l.dialect.GetName(), Source: source}
	tree := segment.NewTree(root)
	faults := newFaultSet()

	var (
		outcomes []ruleOutcome
		groups   []FixGroup
		state    = StateCrawling
	)
	for state == StateCrawling || state == StateApplying {
		switch state {
		case StateCrawling:
			outcomes = l.evaluate(tree)
			faults.add(outcomes)
			groups = collectGroups(l.rules, outcomes)
			if len(groups) == 0 {
				state = StateConverged
				continue
			}
			state = StateApplying

		case StateApplying:
			result.Loops++
			newRoot, out := ApplyFixes(tree, groups)
			for _, g := range out.Applied {
				result.Applied = append(result.Applied, AppliedFix{RuleID: g.RuleID, Loop: result.Loops, Edits: len(g.Fixes)})
			}
			for _, g := range out.Deferred {
				result.Skipped = append(result.Skipped, SkippedFix{RuleID: g.RuleID, Reason: SkipConflict, Loop: result.Loops})
			}
			for _, sk := range out.Rejected {
				sk.Loop = result.Loops
				result.Skipped = append(result.Skipped, sk)
			}
			l.logger.Debug("fix loop",
				"loop", result.Loops,
				"violations", countResults(outcomes),
				"accepted", len(out.Applied),
				"deferred", len(out.Deferred),
				"rejected", len(out.Rejected),
			)

			if len(out.Applied) == 0 {
				// Nothing applicable: the tree is unchanged and outcomes
				// still describe it.
				state = StateConverged
				continue
			}
			tree = segment.NewTree(newRoot)
			if result.Loops >= l.maxLoops {
				state = StateNonConverged
				continue
			}
			state = StateCrawling
		}
	}

	if state == StateNonConverged {
		outcomes = l.evaluate(tree)
		faults.add(outcomes)
		// The last allowed loop may have fixed everything.
		if len(collectGroups(l.rules, outcomes)) == 0 {
			state = StateConverged
		}
	}

	result.State = state
	result.Tree = tree.Root()
	result.Fixed = tree.Raw()

	diags := append([]Diagnostic(nil), l.configDiags...)
	diags = append(diags, l.violations(tree, outcomes)...)
	diags = append(diags, faults.diagnostics()...)
	for _, sk := range result.Skipped {
		if sk.Reason == SkipConflict {
			continue
		}
		diags = append(diags, Diagnostic{
			Kind:     KindSkippedFix,
			RuleID:   sk.RuleID,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("fix skipped (%s): %v", sk.Reason, sk.Err),
		})
	}
	if state == StateNonConverged {
		l.logger.Warn("fix loop did not converge", "loops", result.Loops)
		diags = append(diags, Diagnostic{
			Kind:     KindNonConvergence,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("fixes did not converge after %d loops", result.Loops),
		})
	}
	result.Diagnostics = diags
	return result, nil
}

// =============================================================================
// Evaluation
// =============================================================================

type ruleOutcome struct {
	results []LintResult
	faults  []*RuleEvalFault
}

// evaluate runs every rule against the snapshot. Rules run in parallel but
// outcomes keep rule order; the call returns only when all rules finished.
func (l *Linter) evaluate(tree *segment.Tree) []ruleOutcome {
	outcomes := make([]ruleOutcome, len(l.rules))
	g := new(errgroup.Group)
	g.SetLimit(l.concurrency)
	for i, cr := range l.rules {
		g.Go(func() error {
			outcomes[i] = l.runRule(cr, tree)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (l *Linter) runRule(cr configuredRule, tree *segment.Tree) ruleOutcome {
	var out ruleOutcome
	for _, target := range cr.rule.CrawlBehaviour().Crawl(tree.Root()) {
		ctx := assemble(target, tree, l.dialect, l.layout, cr.options)
		results, fault := evalSafe(cr.rule, ctx)
		if fault != nil {
			l.logger.Debug("rule panicked", "rule", fault.RuleID, "segment", fault.SegmentType, "panic", fmt.Sprint(fault.Value))
			out.faults = append(out.faults, fault)
			continue
		}
		for _, res := range results {
			if res.Anchor == nil {
				res.Anchor = target.Segment
			}
			out.results = append(out.results, res)
		}
	}
	return out
}

// evalSafe isolates a panicking rule so it cannot take down the run.
func evalSafe(r Rule, ctx *RuleContext) (results []LintResult, fault *RuleEvalFault) {
	defer func() {
		if rec := recover(); rec != nil {
			results = nil
			fault = &RuleEvalFault{RuleID: r.ID(), SegmentType: ctx.Segment.Type(), Value: rec}
		}
	}()
	return r.Eval(ctx), nil
}

func collectGroups(rules []configuredRule, outcomes []ruleOutcome) []FixGroup {
	var groups []FixGroup
	for i, o := range outcomes {
		for _, res := range o.results {
			if len(res.Fixes) > 0 {
				groups = append(groups, FixGroup{RuleID: rules[i].rule.ID(), Fixes: res.Fixes})
			}
		}
	}
	return groups
}

func countResults(outcomes []ruleOutcome) int {
	n := 0
	for _, o := range outcomes {
		n += len(o.results)
	}
	return n
}

// diagnose converts one evaluation into violations and fault diagnostics.
func (l *Linter) diagnose(tree *segment.Tree, outcomes []ruleOutcome) []Diagnostic {
	faults := newFaultSet()
	faults.add(outcomes)
	return append(l.violations(tree, outcomes), faults.diagnostics()...)
}

func (l *Linter) violations(tree *segment.Tree, outcomes []ruleOutcome) []Diagnostic {
	var diags []Diagnostic
	for i, o := range outcomes {
		cr := l.rules[i]
		for _, res := range o.results {
			msg := res.Message
			if msg == "" {
				msg = cr.rule.Description()
			}
			d := Diagnostic{
				Kind:             KindViolation,
				RuleID:           cr.rule.ID(),
				RuleName:         cr.rule.Name(),
				Severity:         cr.severity,
				Message:          msg,
				DocumentationURL: BuildDocURL(cr.rule.ID()),
				AutoFixable:      len(res.Fixes) > 0,
			}
			if pm, ok := tree.Position(res.Anchor); ok {
				d.Pos = pm.Working
				d.EndPos = pm.WorkingEnd
			}
			diags = append(diags, d)
		}
	}
	sortDiagnostics(diags)
	return diags
}

// faultSet collects rule faults across loops, once per rule and message.
type faultSet struct {
	seen   map[string]bool
	faults []*RuleEvalFault
}

func newFaultSet() *faultSet {
	return &faultSet{seen: make(map[string]bool)}
}

func (f *faultSet) add(outcomes []ruleOutcome) {
	for _, o := range outcomes {
		for _, fault := range o.faults {
			key := fault.Error()
			if f.seen[key] {
				continue
			}
			f.seen[key] = true
			f.faults = append(f.faults, fault)
		}
	}
}

func (f *faultSet) diagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(f.faults))
	for _, fault := range f.faults {
		out = append(out, Diagnostic{
			Kind:     KindRuleFault,
			RuleID:   fault.RuleID,
			Severity: SeverityError,
			Message:  fault.Error(),
		})
	}
	return out
}

// =============================================================================
// Convenience
// =============================================================================

// Lint lints source once with the given rules.
func Lint(source, dialectName string, rules []Rule, cfg *Config) (*Report, error) {
	l, err := NewLinter(rules, WithDialect(dialectName), WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	return l.Lint(source)
}

// Fix fixes source once with the given rules.
func Fix(source string, rules []Rule, opts ...Option) (*FixResult, error) {
	l, err := NewLinter(rules, opts...)
	if err != nil {
		return nil, err
	}
	return l.Fix(source)
}
