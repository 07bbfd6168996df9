// Package rsync mirrors the local working tree to the remote application
// directory. It shells out to rsync so transfers are delta-based: an
// unchanged tree moves no content.
package rsync

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/artpar/dockhand/internal/shell/ssh"
)

// =============================================================================
// Argument Construction
// =============================================================================

// BuildArgs assembles the rsync invocation: archive mode with
// compression, deletion of remote strays, version-control metadata
// excluded, transport over the authenticated key.
func BuildArgs(localPath, user, host, keyPath, remoteDir string) []string {
	return []string{
		"-az",
		"--delete",
		"--exclude=.git",
		"-e", fmt.Sprintf("ssh -i %s -o StrictHostKeyChecking=no -o BatchMode=yes", keyPath),
		localPath + "/",
		fmt.Sprintf("%s@%s:%s/", user, host, remoteDir),
	}
}

// =============================================================================
// Sync
// =============================================================================

// Sync performs the delta transfer of localPath to remoteDir under the
// remote user's home. Re-running after no local change is a no-op by
// content delta.
func Sync(ctx context.Context, localPath, user, host, keyPath, remoteDir string) error {
	keyPath, err := ssh.ExpandKeyPath(keyPath)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "rsync", BuildArgs(localPath, user, host, keyPath, remoteDir)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("rsync failed: %w: %s", err, stderr.String())
		}
		return fmt.Errorf("rsync failed: %w", err)
	}
	return nil
}
