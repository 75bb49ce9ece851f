package output

// LintSummary counts issues across all files.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed" yaml:"files_analyzed"`
	FilesCached   int `json:"files_cached,omitempty" yaml:"files_cached,omitempty"`
	TotalIssues   int `json:"total_issues" yaml:"total_issues"`
	Errors        int `json:"errors" yaml:"errors"`
	Warnings      int `json:"warnings" yaml:"warnings"`
	Info          int `json:"info" yaml:"info"`
	Hints         int `json:"hints" yaml:"hints"`
}

// LintDiagnostic is one issue in machine-readable output.
type LintDiagnostic struct {
	Kind     string `json:"kind" yaml:"kind"`
	RuleID   string `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Fixable  bool   `json:"fixable" yaml:"fixable"`
}

// LintFileResult holds the issues of one file.
type LintFileResult struct {
	Path        string           `json:"path" yaml:"path"`
	Diagnostics []LintDiagnostic `json:"diagnostics" yaml:"diagnostics"`
}

// LintOutput is the machine-readable lint report.
type LintOutput struct {
	Summary LintSummary      `json:"summary" yaml:"summary"`
	Files   []LintFileResult `json:"files" yaml:"files"`
}

// FixFileResult is the fix outcome of one file.
type FixFileResult struct {
	Path      string           `json:"path" yaml:"path"`
	Changed   bool             `json:"changed" yaml:"changed"`
	Converged bool             `json:"converged" yaml:"converged"`
	Loops     int              `json:"loops" yaml:"loops"`
	Applied   int              `json:"applied" yaml:"applied"`
	Remaining []LintDiagnostic `json:"remaining,omitempty" yaml:"remaining,omitempty"`
}

// FixOutput is the machine-readable fix report.
type FixOutput struct {
	Files   []FixFileResult `json:"files" yaml:"files"`
	Changed int             `json:"changed" yaml:"changed"`
}
