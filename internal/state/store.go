// Package state records the history of apply runs in a SQLite database.
package state

import "time"

// RunStatus is the lifecycle state of an apply run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one application of a generated script to one target.
type Run struct {
	ID         string     `json:"id"`
	Target     string     `json:"target"`
	Dialect    string     `json:"dialect"`
	Table      string     `json:"table"`
	Source     string     `json:"source"`
	Status     RunStatus  `json:"status"`
	Statements int        `json:"statements"`
	Migration  int64      `json:"migration,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Duration returns how long the run took, or 0 while it is still running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists apply runs.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateRun(run *Run) error
	CompleteRun(id string, status RunStatus, statements int, migration int64, errMsg string) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
}
