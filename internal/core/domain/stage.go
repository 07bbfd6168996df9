package domain

// =============================================================================
// Pipeline State
// =============================================================================

// PipelineState is the orchestrator's position in the deploy sequence.
// Every stage success advances the state; any failure moves to the
// absorbing StateAborted.
type PipelineState string

const (
	StateStart                 PipelineState = "start"
	StateValidated             PipelineState = "validated"
	StateSourceSynced          PipelineState = "source_synced"
	StateConnectivityConfirmed PipelineState = "connectivity_confirmed"
	StateProvisioned           PipelineState = "provisioned"
	StateFilesSynced           PipelineState = "files_synced"
	StateDeployed              PipelineState = "deployed"
	StateProxyConfigured       PipelineState = "proxy_configured"
	StateVerified              PipelineState = "verified"
	StateCompleted             PipelineState = "completed"
	StateAborted               PipelineState = "aborted"
)

// Terminal reports whether the pipeline can make no further transition.
func (s PipelineState) Terminal() bool {
	return s == StateCompleted || s == StateAborted
}

// =============================================================================
// Container State
// =============================================================================

// ContainerState tracks the deployed application instance across one
// deploy call: Absent until the deployer runs, Deploying while the batch
// executes, then Running or Failed. There is no automatic retry out of
// Failed.
type ContainerState string

const (
	ContainerAbsent    ContainerState = "absent"
	ContainerDeploying ContainerState = "deploying"
	ContainerRunning   ContainerState = "running"
	ContainerFailed    ContainerState = "failed"
)
