// Package git keeps the local working copy of the application source in
// sync with its remote branch, using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
)

const remoteName = "origin"

// =============================================================================
// Ensure
// =============================================================================

// Ensure converges localPath on the named branch of url. An existing copy
// is fetched and hard-reset to origin/<branch>, discarding any local
// divergence - intentionally destructive so the working tree always
// matches the remote exactly. A missing copy is cloned fresh.
func Ensure(ctx context.Context, localPath, url, branch string) error {
	if _, err := os.Stat(filepath.Join(localPath, ".git")); err == nil {
		return fetchAndReset(ctx, localPath, branch)
	}
	return clone(ctx, localPath, url, branch)
}

// clone checks out the named branch into localPath.
func clone(ctx context.Context, localPath, url, branch string) error {
	_, err := gogit.PlainCloneContext(ctx, localPath, false, &gogit.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to clone %s (branch %s): %w", url, branch, err)
	}
	return nil
}

// fetchAndReset fetches the branch from origin and hard-resets the
// working copy to match it.
func fetchAndReset(ctx context.Context, localPath, branch string) error {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", localPath, err)
	}

	refSpec := config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, remoteName, branch))
	err = repo.FetchContext(ctx, &gogit.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Force:      true,
	})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch %s: %w", branch, err)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName(remoteName, branch), true)
	if err != nil {
		return fmt.Errorf("failed to resolve %s/%s: %w", remoteName, branch, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	if err := wt.Reset(&gogit.ResetOptions{
		Commit: remoteRef.Hash(),
		Mode:   gogit.HardReset,
	}); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", remoteRef.Hash(), err)
	}

	return nil
}

// =============================================================================
// Head Commit
// =============================================================================

// HeadCommit returns the working copy's current commit SHA.
func HeadCommit(localPath string) (string, error) {
	repo, err := gogit.PlainOpen(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", localPath, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}
