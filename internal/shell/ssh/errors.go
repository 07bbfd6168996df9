package ssh

import "errors"

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrKeyUnavailable means the private key could not be read or parsed.
	ErrKeyUnavailable = errors.New("SSH key unavailable")

	// ErrConnectionFailed means the host could not be reached or refused
	// the handshake.
	ErrConnectionFailed = errors.New("SSH connection failed")

	// ErrEmptyBatch means ExecuteBatch was called with no statements.
	ErrEmptyBatch = errors.New("empty command batch")
)
