package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Run Modes
// =============================================================================

// RunMode distinguishes the two entry modes of the tool.
type RunMode string

const (
	ModeDeploy  RunMode = "deploy"
	ModeCleanup RunMode = "cleanup"
)

// =============================================================================
// Run Record
// =============================================================================

// Run is one invocation recorded in the history store. The pipeline never
// reads these back; they exist for the operator.
type Run struct {
	ID         string     `db:"id"`
	Mode       RunMode    `db:"mode"`
	Host       string     `db:"host"`
	RepoURL    string     `db:"repo_url"`
	Branch     string     `db:"branch"`
	Commit     string     `db:"commit_sha"`
	FinalState string     `db:"final_state"`
	Error      string     `db:"error"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

// NewRun creates a run record in its initial state.
func NewRun(mode RunMode, host string) *Run {
	return &Run{
		ID:        uuid.New().String(),
		Mode:      mode,
		Host:      host,
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps the terminal state on the record.
func (r *Run) Finish(finalState PipelineState, runErr error) {
	now := time.Now().UTC()
	r.FinishedAt = &now
	r.FinalState = string(finalState)
	if runErr != nil {
		r.Error = runErr.Error()
	}
}

// Duration returns the elapsed run time, zero if still running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
