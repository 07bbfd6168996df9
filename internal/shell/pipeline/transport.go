package pipeline

import (
	"context"
	"time"

	"github.com/artpar/dockhand/internal/core/domain"
)

// =============================================================================
// Transport
// =============================================================================

// Transport is the capability a stage needs to affect the remote host.
// The live implementation is ssh.Session; tests substitute a recording
// fake so pipeline logic is exercised without a host.
type Transport interface {
	// Probe runs a non-interactive liveness check with a fixed timeout
	// and no retry.
	Probe(timeout time.Duration) bool

	// ExecuteBatch runs an ordered command sequence as one fail-fast
	// remote transaction.
	ExecuteBatch(ctx context.Context, commands []string) (domain.CommandResult, error)

	Close() error
}

// Connector opens a fresh authenticated channel. There is no session
// pooling: every stage that needs remote execution connects anew and
// closes its channel when done.
type Connector func() (Transport, error)
