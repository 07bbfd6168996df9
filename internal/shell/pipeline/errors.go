package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/dockhand/internal/core/domain"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrValidation is a pre-flight failure raised before any remote action.
	ErrValidation = errors.New("validation failed")

	// ErrConnectivity means the host could not be reached or probed.
	ErrConnectivity = errors.New("connectivity check failed")

	// ErrProvision means remote software provisioning failed.
	ErrProvision = errors.New("provisioning failed")

	// ErrSource means the local source copy could not be synchronized or
	// has no build descriptor.
	ErrSource = errors.New("source synchronization failed")

	// ErrSync means the file transfer to the remote host failed.
	ErrSync = errors.New("file synchronization failed")

	// ErrDeploy means the container deployment batch failed.
	ErrDeploy = errors.New("container deployment failed")

	// ErrProxyConfig means the proxy descriptor could not be installed or
	// did not validate. The proxy service is never reloaded in that case.
	ErrProxyConfig = errors.New("proxy configuration failed")

	// ErrRemoteCommand is the generic non-zero exit of a remote batch.
	ErrRemoteCommand = errors.New("remote command failed")
)

// StageError reports which stage aborted the pipeline and why.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// batchError folds a failed remote result into ErrRemoteCommand, keeping
// the exit code and trailing stderr for the log.
func batchError(result domain.CommandResult) error {
	detail := strings.TrimSpace(result.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(result.Stdout)
	}
	if detail == "" {
		return fmt.Errorf("%w: exit status %d", ErrRemoteCommand, result.ExitCode)
	}
	return fmt.Errorf("%w: exit status %d: %s", ErrRemoteCommand, result.ExitCode, detail)
}
