package references_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/references"
)

func violations(t *testing.T, sql string, r lint.Rule) []lint.Diagnostic {
	t.Helper()
	report, err := lint.Lint(sql, "ansi", []lint.Rule{r}, nil)
	require.NoError(t, err)
	return report.Violations()
}

func TestRF02_Qualification(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want int
	}{
		{"single table", "SELECT id, name FROM users", 0},
		{"join unqualified", "SELECT id, u.name FROM users AS u JOIN orders AS o ON u.id = o.user_id", 1},
		{"comma join", "SELECT id, total FROM users, orders", 2},
		{"join qualified", "SELECT u.id, o.total FROM users AS u JOIN orders AS o ON u.id = o.user_id", 0},
		{"inner query checked on its own", "SELECT s.id FROM (SELECT id FROM users) AS s JOIN orders AS o ON s.id = o.user_id", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, violations(t, tt.sql, references.NewQualifyColumns()), tt.want)
		})
	}

	got := violations(t, "SELECT id FROM a JOIN b ON a.id = b.a_id", references.NewQualifyColumns())
	require.Len(t, got, 1)
	assert.Equal(t, "Column 'id' should be qualified with table name in multi-table query.", got[0].Message)
}

func TestRF03_Consistent(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		want   bool
		column int
	}{
		{"all unqualified", "SELECT a, b FROM t", false, 0},
		{"all qualified", "SELECT t.a, t.b FROM t", false, 0},
		{"mixed", "SELECT t.a, b FROM t", true, 13},
		{"mixed unqualified first", "SELECT a, UPPER(t.b) AS b FROM t", true, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := violations(t, tt.sql, references.NewConsistentQualification())
			if !tt.want {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.column, got[0].Pos.Column)
		})
	}
}
