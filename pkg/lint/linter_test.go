package lint

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/dialect"
	"github.com/leapstack-labs/leaplint/pkg/layout"
	"github.com/leapstack-labs/leaplint/pkg/segment"
)

// dropAlias removes every alias together with the whitespace before it.
type dropAlias struct{ BaseRule }

func newDropAlias() dropAlias {
	return dropAlias{NewBaseRule(RuleDef{
		ID:          "TS01",
		Name:        "test.drop_alias",
		Group:       "testing",
		Description: "Alias found.",
		Severity:    SeverityWarning,
		Crawler:     SeekTypes(segment.TypeAliasExpression),
		Fixable:     true,
	})}
}

func (r dropAlias) LoadFromConfig(map[string]any) (Rule, error) { return r, nil }

func (r dropAlias) Eval(ctx *RuleContext) []LintResult {
	fixes := []LintFix{Delete(ctx.Segment)}
	if ws, ok := ctx.SiblingsPre.Get(-1); ok && ws.IsWhitespace() {
		fixes = append(fixes, Delete(ws))
	}
	return []LintResult{{Anchor: ctx.Segment, Fixes: fixes}}
}

// swapper renames x to y and y to x forever.
type swapper struct{ BaseRule }

func (r swapper) LoadFromConfig(map[string]any) (Rule, error) { return r, nil }

func (r swapper) Eval(ctx *RuleContext) []LintResult {
	switch ctx.Segment.Raw() {
	case "x":
		return []LintResult{{Fixes: []LintFix{Replace(ctx.Segment, segment.NewLeaf(segment.TypeNakedIdentifier, "y", ctx.Segment.Pos(), segment.TypeIdentifier))}}}
	case "y":
		return []LintResult{{Fixes: []LintFix{Replace(ctx.Segment, segment.NewLeaf(segment.TypeNakedIdentifier, "x", ctx.Segment.Pos(), segment.TypeIdentifier))}}}
	}
	return nil
}

// panicky panics on every select clause.
type panicky struct{ BaseRule }

func (r panicky) LoadFromConfig(map[string]any) (Rule, error) { return r, nil }

func (r panicky) Eval(*RuleContext) []LintResult { panic("boom") }

// limited reports select clauses and requires a non-negative limit option.
type limited struct {
	BaseRule
	limit int
}

func (r limited) LoadFromConfig(opts map[string]any) (Rule, error) {
	var o struct {
		Limit int `mapstructure:"limit"`
	}
	if err := DecodeOptions(r.ID(), opts, &o); err != nil {
		return nil, err
	}
	if o.Limit < 0 {
		return nil, &ConfigError{RuleID: r.ID(), Key: "limit", Message: "must not be negative"}
	}
	r.limit = o.Limit
	return r, nil
}

func (r limited) Eval(*RuleContext) []LintResult {
	return []LintResult{{Message: "select clause"}}
}

func testRule[R Rule](wrap func(BaseRule) R, id string, crawler Crawler, dialects ...string) R {
	return wrap(NewBaseRule(RuleDef{
		ID:          id,
		Name:        "test." + id,
		Group:       "testing",
		Description: "Test rule " + id,
		Severity:    SeverityInfo,
		Crawler:     crawler,
		Dialects:    dialects,
	}))
}

func newSwapper() swapper {
	return testRule(func(b BaseRule) swapper { return swapper{b} }, "TS02", SeekTypes(segment.TypeNakedIdentifier))
}

func newPanicky() panicky {
	return testRule(func(b BaseRule) panicky { return panicky{b} }, "TS03", SeekTypes(segment.TypeSelectClause))
}

func newLimited(dialects ...string) limited {
	return testRule(func(b BaseRule) limited { return limited{BaseRule: b} }, "TS04", SeekTypes(segment.TypeSelectClause), dialects...)
}

func TestLinterLint(t *testing.T) {
	linter, err := NewLinter([]Rule{newDropAlias()}, WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)

	report, err := linter.Lint("SELECT a AS x,\n  b AS y FROM t")
	require.NoError(t, err)
	assert.Equal(t, "ansi", report.Dialect)

	violations := report.Violations()
	require.Len(t, violations, 2)
	assert.Equal(t, "TS01", violations[0].RuleID)
	assert.Equal(t, "test.drop_alias", violations[0].RuleName)
	assert.Equal(t, "Alias found.", violations[0].Message)
	assert.Equal(t, 1, violations[0].Pos.Line)
	assert.Equal(t, 10, violations[0].Pos.Column)
	assert.Equal(t, 2, violations[1].Pos.Line)
	assert.Equal(t, 5, violations[1].Pos.Column)
	assert.True(t, violations[0].AutoFixable)
	assert.Equal(t, "https://leaplint.dev/docs/rules/ts01", violations[0].DocumentationURL)
	assert.True(t, report.HasViolations(SeverityWarning))
	assert.False(t, report.HasViolations(SeverityError))
}

func TestLinterLintCompliant(t *testing.T) {
	report, err := Lint("SELECT a, b FROM t", "postgres", []Rule{newDropAlias()}, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Diagnostics)
}

func TestLinterParseErrorAborts(t *testing.T) {
	_, err := Lint("SELECT FROM", "", []Rule{newDropAlias()}, nil)
	require.Error(t, err)
	_, err = Fix("SELECT 'open", []Rule{newDropAlias()})
	require.Error(t, err)
}

func TestLinterUnknownDialect(t *testing.T) {
	_, err := NewLinter(nil, WithDialect("nope"))
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)
}

func TestLinterFixConverges(t *testing.T) {
	result, err := Fix("SELECT a AS x, b AS y FROM t", []Rule{newDropAlias()},
		WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)

	assert.Equal(t, "SELECT a, b FROM t", result.Fixed)
	assert.True(t, result.Converged())
	assert.True(t, result.Changed())
	assert.Equal(t, 1, result.Loops)
	assert.Len(t, result.Applied, 2)
	assert.Empty(t, result.Report().Violations())

	again, err := Fix(result.Fixed, []Rule{newDropAlias()})
	require.NoError(t, err)
	assert.Equal(t, result.Fixed, again.Fixed)
	assert.Equal(t, 0, again.Loops)
	assert.False(t, again.Changed())
}

func TestLinterFixNonConvergence(t *testing.T) {
	cfg := NewConfig()
	cfg.MaxLoops = 3

	logger, rec := testutil.NewRecordingLogger()
	result, err := Fix("SELECT x FROM t", []Rule{newSwapper()}, WithConfig(cfg), WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, StateNonConverged, result.State)
	entry, ok := rec.Find("fix loop did not converge")
	require.True(t, ok)
	assert.Equal(t, slog.LevelWarn, entry.Level)
	assert.Equal(t, "3", entry.Attrs["loops"])
	assert.Equal(t, 3, result.Loops)
	assert.Equal(t, "SELECT y FROM t", result.Fixed)

	var kinds []Kind
	for _, d := range result.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, KindNonConvergence)
	assert.Contains(t, kinds, KindViolation)
}

func TestLinterFixConvergesOnLastLoop(t *testing.T) {
	cfg := NewConfig()
	cfg.MaxLoops = 1

	logger, rec := testutil.NewRecordingLogger()
	result, err := Fix("SELECT a AS x FROM t", []Rule{newDropAlias()}, WithConfig(cfg), WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, "SELECT a FROM t", result.Fixed)
	assert.Equal(t, 1, result.Loops)
	assert.Equal(t, StateConverged, result.State)
	assert.Empty(t, result.Diagnostics)
	_, warned := rec.Find("fix loop did not converge")
	assert.False(t, warned)
}

func TestLinterIsolatesPanics(t *testing.T) {
	report, err := Lint("SELECT a AS x FROM t", "ansi", []Rule{newPanicky(), newDropAlias()}, nil)
	require.NoError(t, err)

	assert.Len(t, report.Violations(), 1)
	var fault *Diagnostic
	for i := range report.Diagnostics {
		if report.Diagnostics[i].Kind == KindRuleFault {
			fault = &report.Diagnostics[i]
		}
	}
	require.NotNil(t, fault)
	assert.Equal(t, "TS03", fault.RuleID)
	assert.Contains(t, fault.Message, "boom")

	result, err := Fix("SELECT a AS x FROM t", []Rule{newPanicky(), newDropAlias()})
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t", result.Fixed)
}

func TestLinterConfig(t *testing.T) {
	t.Run("invalid options exclude the rule", func(t *testing.T) {
		cfg := NewConfig().SetRuleOptions("TS04", map[string]any{"limit": -1})
		report, err := Lint("SELECT a FROM t", "ansi", []Rule{newLimited()}, cfg)
		require.NoError(t, err)
		require.Len(t, report.Diagnostics, 1)
		assert.Equal(t, KindConfig, report.Diagnostics[0].Kind)
		assert.Contains(t, report.Diagnostics[0].Message, "limit")
	})

	t.Run("unknown option", func(t *testing.T) {
		cfg := NewConfig().SetRuleOptions("test.TS04", map[string]any{"bogus": 1})
		report, err := Lint("SELECT a FROM t", "ansi", []Rule{newLimited()}, cfg)
		require.NoError(t, err)
		require.Len(t, report.Diagnostics, 1)
		assert.Equal(t, KindConfig, report.Diagnostics[0].Kind)

		var cerr *ConfigError
		_, lerr := newLimited().LoadFromConfig(map[string]any{"bogus": 1})
		assert.True(t, errors.As(lerr, &cerr))
	})

	t.Run("disabled by name", func(t *testing.T) {
		cfg := NewConfig().Disable("TEST.TS04")
		report, err := Lint("SELECT a FROM t", "ansi", []Rule{newLimited()}, cfg)
		require.NoError(t, err)
		assert.Empty(t, report.Diagnostics)
	})

	t.Run("severity override", func(t *testing.T) {
		cfg := NewConfig().SetSeverity("ts04", SeverityError)
		report, err := Lint("SELECT a FROM t", "ansi", []Rule{newLimited()}, cfg)
		require.NoError(t, err)
		require.Len(t, report.Violations(), 1)
		assert.Equal(t, SeverityError, report.Violations()[0].Severity)
	})

	t.Run("dialect gating", func(t *testing.T) {
		rules := []Rule{newLimited("postgres")}
		report, err := Lint("SELECT a FROM t", "ansi", rules, nil)
		require.NoError(t, err)
		assert.Empty(t, report.Diagnostics)

		report, err = Lint("SELECT a FROM t", "postgres", rules, nil)
		require.NoError(t, err)
		assert.Len(t, report.Violations(), 1)
	})

	t.Run("invalid layout", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Layout = layout.Config{"comma": {Before: "wide"}}
		_, err := NewLinter(nil, WithConfig(cfg))
		assert.Error(t, err)
	})
}

func TestLinterConcurrentRulesKeepOrder(t *testing.T) {
	rules := []Rule{newLimited(), newDropAlias()}
	sequential, err := NewLinter(rules, WithConcurrency(1))
	require.NoError(t, err)
	parallel, err := NewLinter(rules, WithConcurrency(8))
	require.NoError(t, err)

	sql := "SELECT a AS x FROM t UNION SELECT b AS y FROM u"
	want, err := sequential.Lint(sql)
	require.NoError(t, err)
	for range 10 {
		got, err := parallel.Lint(sql)
		require.NoError(t, err)
		assert.Equal(t, want.Diagnostics, got.Diagnostics)
	}
}
