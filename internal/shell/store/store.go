package store

import (
	"context"

	"github.com/artpar/dockhand/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for run history.
type Store interface {
	// RecordRun inserts a run record at the start of an invocation.
	RecordRun(ctx context.Context, run *domain.Run) error

	// FinishRun stamps the terminal state onto an existing record.
	FinishRun(ctx context.Context, run *domain.Run) error

	// GetRun fetches a single run by ID.
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// ListRecent returns the most recent runs, newest first.
	ListRecent(ctx context.Context, opts ListOptions) ([]domain.Run, error)

	// Lifecycle
	Close() error
}

// =============================================================================
// Options
// =============================================================================

// ListOptions defines pagination options.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns default list options.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:  20,
		Offset: 0,
	}
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
