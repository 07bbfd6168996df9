package pipeline

import (
	"context"
	"log/slog"

	"github.com/artpar/dockhand/internal/core/buildspec"
	"github.com/artpar/dockhand/internal/core/domain"
)

// =============================================================================
// Stage Interface
// =============================================================================

// Stage is one step of the deploy sequence. A stage runs only if every
// prior stage succeeded; returning an error aborts the remaining
// sequence.
type Stage interface {
	Name() string

	// State is the pipeline state reached when the stage succeeds.
	State() domain.PipelineState

	Run(ctx context.Context, sc *StageContext) error
}

// =============================================================================
// Stage Context
// =============================================================================

// StageContext carries the shared run configuration and the collaborators
// stages act through. The collaborator fields default to the live
// implementations and are substituted in tests.
type StageContext struct {
	Config  *domain.DeployConfig
	Logger  *slog.Logger
	Connect Connector

	// WorkDir is the local working copy of the application source.
	WorkDir string

	// Collaborators.
	SyncSource func(ctx context.Context, localPath, url, branch string) error
	HeadCommit func(localPath string) (string, error)
	Detect     func(dir string) (*buildspec.Descriptor, error)
	SyncFiles  func(ctx context.Context, localPath, user, host, keyPath, remoteDir string) error
	StatKey    func(keyPath string) error

	// Enriched during the run.
	Commit     string
	Descriptor *buildspec.Descriptor
	Container  domain.ContainerState
}
