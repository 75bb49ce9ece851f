package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	_ "github.com/leapstack-labs/leaplint/pkg/lint/rules"
	"github.com/leapstack-labs/leaplint/pkg/parser"
)

func selectRules(t *testing.T, selectors ...string) []lint.Rule {
	t.Helper()
	set, err := lint.SelectRules(selectors...)
	require.NoError(t, err)
	require.NotZero(t, set.Len())
	return set.Rules()
}

func TestAllGroupsRegistered(t *testing.T) {
	for _, group := range []string{"aliasing", "ambiguous", "convention", "layout", "references", "structure"} {
		assert.NotEmpty(t, lint.GetRulesByGroup(group), group)
	}
	for _, id := range []string{"AL06", "AL09", "AM02", "CV05", "LT09", "ST08"} {
		_, ok := lint.GetRuleByID(id)
		assert.True(t, ok, id)
	}
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name  string
		rules []string
		sql   string
		want  string
	}{
		{
			name:  "self alias removed",
			rules: []string{"AL09"},
			sql:   "SELECT col_a AS col_a, col_b AS new_col_b FROM foo",
			want:  "SELECT col_a, col_b AS new_col_b FROM foo",
		},
		{
			name:  "bare union",
			rules: []string{"AM02"},
			sql:   "SELECT a,b FROM tbl UNION SELECT c,d FROM tbl1",
			want:  "SELECT a,b FROM tbl UNION DISTINCT SELECT c,d FROM tbl1",
		},
		{
			name:  "union all passes",
			rules: []string{"AM02"},
			sql:   "SELECT a,b FROM tbl UNION ALL SELECT c,d FROM tbl1",
			want:  "SELECT a,b FROM tbl UNION ALL SELECT c,d FROM tbl1",
		},
		{
			name:  "distinct brackets",
			rules: []string{"ST08"},
			sql:   "SELECT DISTINCT(a)",
			want:  "SELECT DISTINCT a",
		},
		{
			name:  "equals null",
			rules: []string{"CV05"},
			sql:   "SELECT a FROM t WHERE a = NULL",
			want:  "SELECT a FROM t WHERE a IS NULL",
		},
		{
			name:  "not equals null",
			rules: []string{"CV05"},
			sql:   "SELECT a FROM t WHERE a <> NULL",
			want:  "SELECT a FROM t WHERE a IS NOT NULL",
		},
		{
			name:  "set clause untouched",
			rules: []string{"CV05"},
			sql:   "UPDATE t SET col = NULL",
			want:  "UPDATE t SET col = NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := selectRules(t, tt.rules...)
			result, err := lint.Fix(tt.sql, rules, lint.WithLogger(testutil.NewTestLogger(t)))
			require.NoError(t, err)
			assert.True(t, result.Converged())
			assert.Equal(t, tt.want, result.Fixed)
			assert.Equal(t, tt.want != tt.sql, result.Changed())
			assert.Empty(t, result.Report().Violations())
		})
	}
}

func TestAliasLengthIsDiagnosticOnly(t *testing.T) {
	sql := "SELECT u.id FROM users AS users_alias JOIN orders AS order_alias ON u.id = order_alias.user_id"
	cfg := lint.NewConfig().SetRuleOptions("aliasing.length", map[string]any{"max_alias_length": 4})
	rules := selectRules(t, "AL06")

	report, err := lint.Lint(sql, "ansi", rules, cfg)
	require.NoError(t, err)
	require.Len(t, report.Violations(), 2)
	for _, v := range report.Violations() {
		assert.False(t, v.AutoFixable)
	}

	result, err := lint.Fix(sql, rules, lint.WithConfig(cfg))
	require.NoError(t, err)
	assert.False(t, result.Changed())
	assert.Zero(t, result.Loops)
}

var corpus = []string{
	"SELECT col_a AS col_a, col_b AS new_col_b FROM foo",
	"SELECT a,b FROM tbl UNION SELECT c,d FROM tbl1",
	"SELECT DISTINCT(a)",
	"SELECT a FROM t WHERE a = NULL AND b <> NULL",
	"UPDATE t SET col = NULL WHERE a != NULL",
	"select count(1), ifnull(x, 0) from t right join u on t.id = u.id",
	"SELECT COUNT(DISTINCT(unique_key)) FROM t",
	"\nselect\n    a\nfrom x",
	"WITH c AS (SELECT a AS a FROM t)\nSELECT DISTINCT (a) FROM c;\n",
	"SELECT t.a, b -- trailing\nFROM t JOIN u ON t.id = u.id",
}

func TestAllRulesIdempotent(t *testing.T) {
	rules := selectRules(t, "all")
	for _, sql := range corpus {
		t.Run(sql, func(t *testing.T) {
			first, err := lint.Fix(sql, rules)
			require.NoError(t, err)
			require.True(t, first.Converged())
			for _, sk := range first.Skipped {
				assert.NotEqual(t, lint.SkipStaleAnchor, sk.Reason, "stale anchor from %s", sk.RuleID)
				assert.NotEqual(t, lint.SkipInvalidEdit, sk.Reason, "invalid edit from %s", sk.RuleID)
			}

			second, err := lint.Fix(first.Fixed, rules)
			require.NoError(t, err)
			assert.Equal(t, first.Fixed, second.Fixed)
			assert.False(t, second.Changed())
		})
	}
}

func TestUneditedTreeIsLossless(t *testing.T) {
	rules := selectRules(t, "all")
	for _, sql := range corpus {
		t.Run(sql, func(t *testing.T) {
			l, err := lint.NewLinter(rules)
			require.NoError(t, err)
			_, err = l.Lint(sql)
			require.NoError(t, err)

			root, err := parser.Parse(sql, l.Dialect())
			require.NoError(t, err)
			assert.Equal(t, sql, root.Raw())
		})
	}
}
