// Package state persists lint runs and per-file results in SQLite, so
// unchanged files can be skipped on the next run.
package state

import (
	"context"
	"time"
)

// RunStatus is the status of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one invocation of a command over a set of files.
type Run struct {
	ID          string     `json:"id" yaml:"id"`
	Command     string     `json:"command" yaml:"command"`
	Status      RunStatus  `json:"status" yaml:"status"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Files       int        `json:"files" yaml:"files"`
	Violations  int        `json:"violations" yaml:"violations"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// FileResult is the cached outcome of linting one file. Payload is opaque to
// the store; it is only valid while both hashes match.
type FileResult struct {
	Path        string    `json:"path"`
	ContentHash string    `json:"content_hash"`
	ConfigHash  string    `json:"config_hash"`
	Payload     []byte    `json:"payload"`
	RunID       string    `json:"run_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is the persistence interface used by the CLI.
type Store interface {
	Close() error

	CreateRun(ctx context.Context, command string) (*Run, error)
	CompleteRun(ctx context.Context, id string, files, violations int, runErr error) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)

	// GetFileResult returns the cached result for path, or nil when there is
	// none or either hash differs.
	GetFileResult(ctx context.Context, path, contentHash, configHash string) (*FileResult, error)
	PutFileResult(ctx context.Context, r *FileResult) error
	DeleteFileResult(ctx context.Context, path string) error
	PruneFileResults(ctx context.Context, olderThan time.Time) (int64, error)
}
