// Package ssh implements the remote session: an authenticated
// command-execution channel to one host. This is part of the Imperative
// Shell - it owns the only network I/O in the deploy path.
package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artpar/dockhand/internal/core/domain"
	cryptossh "golang.org/x/crypto/ssh"
)

// =============================================================================
// Timeouts
// =============================================================================

const (
	// ConnectTimeout bounds the TCP dial and handshake.
	ConnectTimeout = 10 * time.Second

	// ProbeTimeout bounds the liveness check. Fixed and short; the probe
	// is never retried.
	ProbeTimeout = 5 * time.Second
)

// =============================================================================
// Session
// =============================================================================

// Session is an open SSH connection to the target host. Stages do not
// share sessions: each remote-affecting stage opens a fresh one via
// Connector and closes it when the stage finishes.
type Session struct {
	addr   string
	client *cryptossh.Client
}

// Connect opens an authenticated channel to host as user, using the
// private key at keyPath. A leading ~/ in keyPath is expanded against the
// local home directory.
func Connect(host, user, keyPath string) (*Session, error) {
	keyPath, err := ExpandKeyPath(keyPath)
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read key %s: %v", ErrKeyUnavailable, keyPath, err)
	}

	signer, err := cryptossh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: parse key %s: %v", ErrKeyUnavailable, keyPath, err)
	}

	config := &cryptossh.ClientConfig{
		User:            user,
		Auth:            []cryptossh.AuthMethod{cryptossh.PublicKeys(signer)},
		HostKeyCallback: cryptossh.InsecureIgnoreHostKey(), // TODO: Store and verify host keys
		Timeout:         ConnectTimeout,
	}

	addr := net.JoinHostPort(host, "22")
	client, err := cryptossh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnectionFailed, addr, err)
	}

	return &Session{addr: addr, client: client}, nil
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// =============================================================================
// Probe
// =============================================================================

// Probe runs a non-interactive liveness check against the host. It
// reports false on any failure within the timeout; it never retries.
func (s *Session) Probe(timeout time.Duration) bool {
	sess, err := s.client.NewSession()
	if err != nil {
		return false
	}
	defer sess.Close()

	done := make(chan error, 1)
	go func() {
		done <- sess.Run("true")
	}()

	select {
	case <-time.After(timeout):
		return false
	case err := <-done:
		return err == nil
	}
}

// =============================================================================
// Batch Execution
// =============================================================================

// ExecuteBatch runs an ordered sequence of shell statements as one remote
// transaction. Statements are chained with && so the remote side aborts
// the rest of the batch on the first failing statement. The returned
// result carries the batch's exit code and captured output; a non-zero
// exit code is reported without an error so the caller can decide how to
// surface it.
func (s *Session) ExecuteBatch(ctx context.Context, commands []string) (domain.CommandResult, error) {
	if len(commands) == 0 {
		return domain.CommandResult{}, ErrEmptyBatch
	}

	sess, err := s.client.NewSession()
	if err != nil {
		return domain.CommandResult{}, fmt.Errorf("failed to create session: %w", err)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	cmd := strings.Join(commands, " && ")

	done := make(chan error, 1)
	go func() {
		done <- sess.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		return domain.CommandResult{}, ctx.Err()
	case err := <-done:
		result := domain.CommandResult{
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}
		if err != nil {
			var exitErr *cryptossh.ExitError
			if errors.As(err, &exitErr) {
				result.ExitCode = exitErr.ExitStatus()
				return result, nil
			}
			return result, fmt.Errorf("remote execution failed: %w", err)
		}
		return result, nil
	}
}

// =============================================================================
// Key Path Expansion
// =============================================================================

// ExpandKeyPath resolves a leading ~/ against the local home directory.
func ExpandKeyPath(keyPath string) (string, error) {
	if !strings.HasPrefix(keyPath, "~/") {
		return keyPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, keyPath[2:]), nil
}
