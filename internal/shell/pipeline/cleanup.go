package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/artpar/dockhand/internal/core/domain"
	"github.com/artpar/dockhand/internal/core/remote"
	"github.com/artpar/dockhand/internal/core/validation"
	"github.com/artpar/dockhand/internal/shell/ssh"
)

// =============================================================================
// Cleaner
// =============================================================================

// Cleaner tears down everything a deploy produced: all containers, the
// synced source, and the proxy site. Fail-fast like the deploy pipeline;
// a partial cleanup is not rolled back.
type Cleaner struct {
	cfg     *domain.CleanupConfig
	logger  *slog.Logger
	connect Connector
	statKey func(keyPath string) error
}

// NewCleaner wires a cleaner with the live transport.
func NewCleaner(cfg *domain.CleanupConfig, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		cfg:    cfg,
		logger: logger,
		connect: func() (Transport, error) {
			return ssh.Connect(cfg.Host, cfg.User, cfg.KeyPath)
		},
		statKey: func(keyPath string) error {
			_, err := os.Stat(keyPath)
			return err
		},
	}
}

// Run validates the credential set, opens a session, and issues the
// cleanup batch as one fail-fast transaction.
func (c *Cleaner) Run(ctx context.Context) error {
	if ferr := validation.ValidateCleanupFields(c.cfg.User, c.cfg.Host, c.cfg.KeyPath); ferr != nil {
		return fmt.Errorf("%w: %v", ErrValidation, ferr)
	}
	keyPath, err := ssh.ExpandKeyPath(c.cfg.KeyPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := c.statKey(keyPath); err != nil {
		return fmt.Errorf("%w: key %s: %v", ErrValidation, c.cfg.KeyPath, err)
	}

	t, err := c.connect()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer t.Close()

	c.logger.Info("cleanup starting", "host", c.cfg.Host)

	result, err := t.ExecuteBatch(ctx, remote.CleanupBatch())
	if err != nil {
		return err
	}
	if result.Failed() {
		return batchError(result)
	}

	c.logger.Info("cleanup complete", "host", c.cfg.Host)
	return nil
}
