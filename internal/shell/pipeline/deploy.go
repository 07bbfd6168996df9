// Package pipeline runs the deployment stage sequence against one remote
// host, halting on the first failure. This is part of the Imperative
// Shell - it coordinates the transport, the source sync, and the file
// transfer around the pure batch builders in internal/core.
package pipeline

import (
	"context"
	"log/slog"
	"os"

	"github.com/artpar/dockhand/internal/core/buildspec"
	"github.com/artpar/dockhand/internal/core/domain"
	"github.com/artpar/dockhand/internal/shell/git"
	"github.com/artpar/dockhand/internal/shell/rsync"
	"github.com/artpar/dockhand/internal/shell/ssh"
)

// =============================================================================
// Deployer
// =============================================================================

// Deployer runs the deploy stage sequence in fixed order, aborting on
// the first stage failure. Each successful stage advances the pipeline
// state; there is no transition out of the aborted state.
type Deployer struct {
	sc    *StageContext
	state domain.PipelineState
}

// NewDeployer wires a deployer with the live collaborators. workDir is
// the local directory the source is synchronized into.
func NewDeployer(cfg *domain.DeployConfig, logger *slog.Logger, workDir string) *Deployer {
	if logger == nil {
		logger = slog.Default()
	}
	sc := &StageContext{
		Config:  cfg,
		Logger:  logger,
		WorkDir: workDir,
		Connect: func() (Transport, error) {
			return ssh.Connect(cfg.Host, cfg.User, cfg.KeyPath)
		},
		SyncSource: git.Ensure,
		HeadCommit: git.HeadCommit,
		Detect:     buildspec.Detect,
		SyncFiles:  rsync.Sync,
		StatKey: func(keyPath string) error {
			_, err := os.Stat(keyPath)
			return err
		},
		Container: domain.ContainerAbsent,
	}
	return &Deployer{sc: sc, state: domain.StateStart}
}

// State returns the pipeline's current position.
func (d *Deployer) State() domain.PipelineState {
	return d.state
}

// Commit returns the deployed commit SHA once the source stage has run.
func (d *Deployer) Commit() string {
	return d.sc.Commit
}

// deployStages is the fixed stage order of a deploy run.
func deployStages() []Stage {
	return []Stage{
		validateStage{},
		sourceSyncStage{},
		connectivityStage{},
		provisionStage{},
		fileSyncStage{},
		deployStage{},
		proxyStage{},
		verifyStage{},
	}
}

// Run executes the stage sequence. Each stage runs only if the prior one
// succeeded; the first failure moves the pipeline to the absorbing
// Aborted state and is returned wrapped with its originating stage.
func (d *Deployer) Run(ctx context.Context) error {
	logger := d.sc.Logger
	logger.Info("deploy pipeline starting", "host", d.sc.Config.Host, "repo", d.sc.Config.RepoURL)

	for _, st := range deployStages() {
		select {
		case <-ctx.Done():
			d.state = domain.StateAborted
			return &StageError{Stage: st.Name(), Err: ctx.Err()}
		default:
		}

		logger.Info("stage starting", "stage", st.Name())
		if err := st.Run(ctx, d.sc); err != nil {
			d.state = domain.StateAborted
			logger.Error("stage failed", "stage", st.Name(), "error", err)
			return &StageError{Stage: st.Name(), Err: err}
		}
		d.state = st.State()
		logger.Info("stage complete", "stage", st.Name(), "state", d.state)
	}

	d.state = domain.StateCompleted
	logger.Info("deploy pipeline complete", "host", d.sc.Config.Host, "commit", d.sc.Commit)
	return nil
}
