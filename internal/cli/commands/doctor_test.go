package commands

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/cli/testutil"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name      string
		checks    []HealthCheck
		fileCount int
		minScore  int
		maxScore  int
	}{
		{
			name:      "no checks returns 100",
			checks:    nil,
			fileCount: 10,
			minScore:  100,
			maxScore:  100,
		},
		{
			name: "all passing returns 100",
			checks: []HealthCheck{
				{RuleID: "AL09", Status: "pass", IssueCount: 0},
				{RuleID: "CV05", Status: "pass", IssueCount: 0},
			},
			fileCount: 10,
			minScore:  100,
			maxScore:  100,
		},
		{
			name: "warnings reduce score",
			checks: []HealthCheck{
				{RuleID: "AL09", Status: "pass", IssueCount: 0},
				{RuleID: "CV05", Status: "warn", IssueCount: 2},
			},
			fileCount: 10,
			minScore:  80,
			maxScore:  100,
		},
		{
			name: "errors reduce score more",
			checks: []HealthCheck{
				{RuleID: "AM01", Status: "error", IssueCount: 2},
			},
			fileCount: 10,
			minScore:  70,
			maxScore:  95,
		},
		{
			name: "more files means less impact per issue",
			checks: []HealthCheck{
				{RuleID: "CV05", Status: "warn", IssueCount: 5},
			},
			fileCount: 101,
			minScore:  90,
			maxScore:  100,
		},
		{
			name: "many issues can reduce to 0",
			checks: []HealthCheck{
				{RuleID: "AM01", Status: "error", IssueCount: 20},
				{RuleID: "AM02", Status: "error", IssueCount: 20},
			},
			fileCount: 5,
			minScore:  0,
			maxScore:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := calculateHealthScore(tt.checks, tt.fileCount)
			assert.GreaterOrEqual(t, score, tt.minScore, "score should be >= %d", tt.minScore)
			assert.LessOrEqual(t, score, tt.maxScore, "score should be <= %d", tt.maxScore)
		})
	}
}

func TestGenerateRecommendations(t *testing.T) {
	checks := []HealthCheck{
		{RuleID: "AL09", IssueCount: 3, Fixable: 3},
		{RuleID: "AM01", IssueCount: 1},
		{RuleID: "AL03", IssueCount: 4},
		{RuleID: "CV05"},
	}

	recs := generateRecommendations(checks, ProjectSummary{Fixable: 3, ParseErrors: 1, Dialect: "ansi"})
	require.Len(t, recs, 4)
	assert.Equal(t, "Fix 1 file(s) that do not parse as ansi SQL", recs[0])
	assert.Equal(t, "Run 'leaplint fix' to fix 3 issue(s) automatically", recs[1])
	assert.Contains(t, recs[2], "AL03:", "most frequent rule first")
	assert.Contains(t, recs[3], "AM01:")
}

func TestGetRecommendation(t *testing.T) {
	assert.Empty(t, getRecommendation("XX99"))
	assert.Contains(t, getRecommendation("AM01"), "AM01: ")
}

func TestDoctorCommand(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := execute(t, NewDoctorCommand(), "", filepath.Join(dir, "models"), "--format", "json")
	require.NoError(t, err)

	var result DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, 2, result.Summary.Files)
	assert.Equal(t, 2, result.IssueCount)
	assert.Equal(t, 2, result.Summary.Fixable)
	assert.Less(t, result.Score, 100)
	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "leaplint fix")

	byRule := make(map[string]HealthCheck)
	for _, c := range result.HealthChecks {
		byRule[c.RuleID] = c
	}
	assert.Equal(t, "warn", byRule["AL09"].Status)
	assert.Equal(t, 1, byRule["AL09"].IssueCount)
	assert.Equal(t, "pass", byRule["AM01"].Status)

	names := make(map[string]string)
	for _, s := range result.Setup {
		names[s.Name] = s.Status
	}
	assert.Equal(t, "success", names["dialect"])
	assert.Equal(t, "success", names["rule options"])
	assert.Contains(t, names, "lint cache")
}

func TestDoctorCommand_Markdown(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := execute(t, NewDoctorCommand(), "", filepath.Join(dir, "models"), "--format", "markdown")
	require.NoError(t, err)

	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "# leaplint Health Report")
	assert.Contains(t, out, "### Aliasing")
	assert.Contains(t, out, "**[WARN]** AL09")
	assert.Contains(t, out, "## Recommendations")
}

func TestDoctorCommand_Text(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, _, err := execute(t, NewDoctorCommand(), "", filepath.Join(dir, "models", "clean.sql"), "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Health Score: 100/100")
	assert.NotContains(t, out, "Recommendations")
}
