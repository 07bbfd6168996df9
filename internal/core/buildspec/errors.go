package buildspec

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNoDescriptor means the repository root has neither a compose
	// file nor a Dockerfile; no later stage can proceed.
	ErrNoDescriptor = errors.New("no build descriptor found (expected a compose file or Dockerfile at the repository root)")

	// ErrInvalidCompose means a compose descriptor was found but does not parse.
	ErrInvalidCompose = errors.New("invalid compose file")

	// ErrNoServices means the compose descriptor defines no services.
	ErrNoServices = errors.New("compose file defines no services")
)

// DescriptorError wraps descriptor failures with context.
type DescriptorError struct {
	File    string
	Message string
	Err     error
}

func (e *DescriptorError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// NewDescriptorError creates a new DescriptorError.
func NewDescriptorError(file, message string, err error) *DescriptorError {
	return &DescriptorError{File: file, Message: message, Err: err}
}
