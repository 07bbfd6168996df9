package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/artpar/dockhand/internal/core/domain"
	"github.com/artpar/dockhand/internal/shell/pipeline"
	"github.com/artpar/dockhand/internal/shell/store"
)

// =============================================================================
// Exit Codes
// =============================================================================

// timeRounding trims sub-second noise from printed durations.
const timeRounding = time.Second

const (
	ExitSuccess           = 0
	ExitConfigError       = 1
	ExitValidationError   = 2
	ExitConnectivityError = 3
	ExitPipelineError     = 4
	ExitDatabaseError     = 5
)

// =============================================================================
// Runner
// =============================================================================

// Runner executes one invocation end to end and maps its outcome to an
// exit code.
type Runner struct {
	cfg    *Config
	logger *slog.Logger
	runs   store.Store
}

// NewRunner opens the run history store and prepares an invocation.
func NewRunner(cfg *Config, logger *slog.Logger) (*Runner, error) {
	if dir := filepath.Dir(cfg.Database.DSN); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	runs, err := store.NewSQLiteStore(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open run history: %w", err)
	}
	return &Runner{cfg: cfg, logger: logger, runs: runs}, nil
}

// Close releases the history store.
func (r *Runner) Close() {
	if err := r.runs.Close(); err != nil {
		r.logger.Warn("failed to close run history", "error", err)
	}
}

// Deploy runs the full deploy pipeline and records the outcome.
func (r *Runner) Deploy(ctx context.Context) int {
	run := domain.NewRun(domain.ModeDeploy, r.cfg.Deploy.Host)
	run.RepoURL = r.cfg.Deploy.RepoURL
	run.Branch = r.cfg.Deploy.Branch
	r.recordRun(ctx, run)

	d := pipeline.NewDeployer(&r.cfg.Deploy, r.logger, r.cfg.Paths.WorkDir)
	err := d.Run(ctx)

	run.Commit = d.Commit()
	run.Finish(d.State(), err)
	r.finishRun(ctx, run)

	if err != nil {
		r.logger.Error("deploy failed", "error", err, "duration", run.Duration())
		return exitCodeFor(err)
	}

	r.logger.Info("deploy succeeded",
		"host", r.cfg.Deploy.Host,
		"commit", d.Commit(),
		"duration", run.Duration(),
	)
	return ExitSuccess
}

// Cleanup removes everything a previous deploy put on the host.
func (r *Runner) Cleanup(ctx context.Context) int {
	run := domain.NewRun(domain.ModeCleanup, r.cfg.Deploy.Host)
	r.recordRun(ctx, run)

	c := pipeline.NewCleaner(r.cfg.CleanupConfig(), r.logger)
	err := c.Run(ctx)

	if err != nil {
		run.Finish(domain.StateAborted, err)
	} else {
		run.Finish(domain.StateCompleted, nil)
	}
	r.finishRun(ctx, run)

	if err != nil {
		r.logger.Error("cleanup failed", "error", err, "duration", run.Duration())
		return exitCodeFor(err)
	}

	r.logger.Info("cleanup succeeded", "host", r.cfg.Deploy.Host, "duration", run.Duration())
	return ExitSuccess
}

// History prints the most recent runs to stdout.
func (r *Runner) History(ctx context.Context, limit int) int {
	runs, err := r.runs.ListRecent(ctx, store.ListOptions{Limit: limit})
	if err != nil {
		r.logger.Error("failed to list run history", "error", err)
		return ExitDatabaseError
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tMODE\tHOST\tCOMMIT\tSTATE\tDURATION")
	for _, run := range runs {
		commit := run.Commit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Host,
			commit,
			run.FinalState,
			run.Duration().Round(timeRounding),
		)
	}
	w.Flush()
	return ExitSuccess
}

// recordRun persists the start of a run. History is advisory, so a store
// failure is logged and the pipeline proceeds.
func (r *Runner) recordRun(ctx context.Context, run *domain.Run) {
	if err := r.runs.RecordRun(ctx, run); err != nil {
		r.logger.Warn("failed to record run", "run", run.ID, "error", err)
	}
}

func (r *Runner) finishRun(ctx context.Context, run *domain.Run) {
	if err := r.runs.FinishRun(ctx, run); err != nil {
		r.logger.Warn("failed to finish run record", "run", run.ID, "error", err)
	}
}

// exitCodeFor maps a pipeline failure onto the exit code contract.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrValidation):
		return ExitValidationError
	case errors.Is(err, pipeline.ErrConnectivity):
		return ExitConnectivityError
	default:
		return ExitPipelineError
	}
}
