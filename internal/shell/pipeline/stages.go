package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/dockhand/internal/core/buildspec"
	"github.com/artpar/dockhand/internal/core/domain"
	"github.com/artpar/dockhand/internal/core/proxy"
	"github.com/artpar/dockhand/internal/core/remote"
	"github.com/artpar/dockhand/internal/core/validation"
	"github.com/artpar/dockhand/internal/shell/ssh"
)

// =============================================================================
// Validate
// =============================================================================

// validateStage checks the run configuration before anything touches the
// network: required fields, port range, and the presence of the
// credential key on the local filesystem.
type validateStage struct{}

func (validateStage) Name() string { return "validate" }
func (validateStage) State() domain.PipelineState { return domain.StateValidated }

func (validateStage) Run(_ context.Context, sc *StageContext) error {
	cfg := sc.Config
	if ferr := validation.ValidateDeployFields(cfg.RepoURL, cfg.Branch, cfg.User, cfg.Host, cfg.KeyPath, cfg.AppPort); ferr != nil {
		return fmt.Errorf("%w: %v", ErrValidation, ferr)
	}
	keyPath, err := ssh.ExpandKeyPath(cfg.KeyPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := sc.StatKey(keyPath); err != nil {
		return fmt.Errorf("%w: key %s: %v", ErrValidation, cfg.KeyPath, err)
	}
	return nil
}

// =============================================================================
// Source Sync
// =============================================================================

// sourceSyncStage converges the local working copy on the remote branch
// and verifies a build descriptor exists at the repository root.
type sourceSyncStage struct{}

func (sourceSyncStage) Name() string { return "source-sync" }
func (sourceSyncStage) State() domain.PipelineState { return domain.StateSourceSynced }

func (sourceSyncStage) Run(ctx context.Context, sc *StageContext) error {
	cfg := sc.Config
	sc.Logger.Info("synchronizing source", "url", cfg.RepoURL, "branch", cfg.Branch, "dir", sc.WorkDir)

	if err := sc.SyncSource(ctx, sc.WorkDir, cfg.RepoURL, cfg.Branch); err != nil {
		return fmt.Errorf("%w: %v", ErrSource, err)
	}

	if sha, err := sc.HeadCommit(sc.WorkDir); err == nil {
		sc.Commit = sha
		sc.Logger.Info("source at commit", "commit", sha)
	}

	desc, err := sc.Detect(sc.WorkDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSource, err)
	}
	sc.Descriptor = desc
	sc.Logger.Info("build descriptor found", "kind", desc.Kind, "path", desc.Path)
	return nil
}

// =============================================================================
// Connectivity
// =============================================================================

// connectivityStage confirms the host answers before any remote-affecting
// stage issues a command.
type connectivityStage struct{}

func (connectivityStage) Name() string { return "connectivity" }
func (connectivityStage) State() domain.PipelineState { return domain.StateConnectivityConfirmed }

func (connectivityStage) Run(_ context.Context, sc *StageContext) error {
	t, err := sc.Connect()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer t.Close()

	if !t.Probe(ssh.ProbeTimeout) {
		return fmt.Errorf("%w: host %s did not answer the probe", ErrConnectivity, sc.Config.Host)
	}
	sc.Logger.Info("connectivity confirmed", "host", sc.Config.Host)
	return nil
}

// =============================================================================
// Provision
// =============================================================================

// provisionStage ensures the container engine, compose plugin, and
// reverse proxy exist and run as services on the remote host.
type provisionStage struct{}

func (provisionStage) Name() string { return "provision" }
func (provisionStage) State() domain.PipelineState { return domain.StateProvisioned }

func (provisionStage) Run(ctx context.Context, sc *StageContext) error {
	t, err := sc.Connect()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvision, err)
	}
	defer t.Close()

	result, err := t.ExecuteBatch(ctx, remote.ProvisionBatch())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvision, err)
	}
	if result.Failed() {
		return fmt.Errorf("%w: %v", ErrProvision, batchError(result))
	}
	sc.Logger.Info("remote software provisioned")
	return nil
}

// =============================================================================
// File Sync
// =============================================================================

// fileSyncStage mirrors the working copy to the fixed remote path.
type fileSyncStage struct{}

func (fileSyncStage) Name() string { return "file-sync" }
func (fileSyncStage) State() domain.PipelineState { return domain.StateFilesSynced }

func (fileSyncStage) Run(ctx context.Context, sc *StageContext) error {
	cfg := sc.Config
	sc.Logger.Info("transferring files", "remote_dir", remote.AppDir())
	if err := sc.SyncFiles(ctx, sc.WorkDir, cfg.User, cfg.Host, cfg.KeyPath, remote.AppDir()); err != nil {
		return fmt.Errorf("%w: %v", ErrSync, err)
	}
	return nil
}

// =============================================================================
// Deploy
// =============================================================================

// deployStage replaces the running application instance. Both descriptor
// flavors tear down the prior instance before creating the new one, so a
// redeploy converges instead of duplicating - at the cost of a brief
// service gap.
type deployStage struct{}

func (deployStage) Name() string { return "deploy" }
func (deployStage) State() domain.PipelineState { return domain.StateDeployed }

func (deployStage) Run(ctx context.Context, sc *StageContext) error {
	if sc.Descriptor == nil {
		return fmt.Errorf("%w: no build descriptor detected", ErrDeploy)
	}

	var batch []string
	switch sc.Descriptor.Kind {
	case buildspec.KindCompose:
		batch = remote.DeployComposeBatch()
	default:
		batch = remote.DeployContainerBatch(sc.Config.AppPort)
	}

	t, err := sc.Connect()
	if err != nil {
		sc.Container = domain.ContainerFailed
		return fmt.Errorf("%w: %v", ErrDeploy, err)
	}
	defer t.Close()

	sc.Container = domain.ContainerDeploying
	sc.Logger.Info("deploying application", "mode", sc.Descriptor.Kind, "port", sc.Config.AppPort)

	result, err := t.ExecuteBatch(ctx, batch)
	if err != nil {
		sc.Container = domain.ContainerFailed
		return fmt.Errorf("%w: %v", ErrDeploy, err)
	}
	if result.Failed() {
		sc.Container = domain.ContainerFailed
		return fmt.Errorf("%w: %v", ErrDeploy, batchError(result))
	}

	sc.Container = domain.ContainerRunning
	return nil
}

// =============================================================================
// Proxy
// =============================================================================

// proxyStage installs and activates the site descriptor. The batch
// validates the full proxy configuration before the reload statement, so
// a broken descriptor never goes live.
type proxyStage struct{}

func (proxyStage) Name() string { return "proxy" }
func (proxyStage) State() domain.PipelineState { return domain.StateProxyConfigured }

func (proxyStage) Run(ctx context.Context, sc *StageContext) error {
	site := proxy.NewSiteConfig(sc.Config.AppPort)

	t, err := sc.Connect()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProxyConfig, err)
	}
	defer t.Close()

	sc.Logger.Info("configuring reverse proxy", "upstream", site.UpstreamAddress())

	result, err := t.ExecuteBatch(ctx, remote.InstallSiteBatch(site.Render()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProxyConfig, err)
	}
	if result.Failed() {
		return fmt.Errorf("%w: %v", ErrProxyConfig, batchError(result))
	}
	return nil
}

// =============================================================================
// Verify
// =============================================================================

// verifyStage reports the remote container status. Purely informational:
// it logs failures as warnings and never aborts the pipeline.
type verifyStage struct{}

func (verifyStage) Name() string { return "verify" }
func (verifyStage) State() domain.PipelineState { return domain.StateVerified }

func (verifyStage) Run(ctx context.Context, sc *StageContext) error {
	t, err := sc.Connect()
	if err != nil {
		sc.Logger.Warn("status check skipped", "error", err)
		return nil
	}
	defer t.Close()

	result, err := t.ExecuteBatch(ctx, remote.StatusBatch())
	if err != nil || result.Failed() {
		sc.Logger.Warn("status check failed", "error", err, "exit_code", result.ExitCode)
		return nil
	}
	for _, line := range strings.Split(strings.TrimRight(result.Stdout, "\n"), "\n") {
		sc.Logger.Info("container status", "line", line)
	}
	return nil
}
