// Package remote contains pure functions that build the shell batches the
// pipeline executes on the target host. This is part of the Functional
// Core - the functions only assemble command text; nothing here talks to
// the network.
package remote

import "fmt"

// =============================================================================
// Remote Layout
// =============================================================================

// All remote artifacts are keyed by the fixed project name so that
// re-running a deploy converges on the same container, directory, and
// proxy site instead of accumulating duplicates.
const (
	// ProjectName keys the compose project and the proxy site.
	ProjectName = "dockhand"

	// AppDirName is the synced source directory under the remote user's home.
	AppDirName = "dockhand-app"

	// ContainerName names the single-container deployment.
	ContainerName = "dockhand-app"

	// ImageName tags images built from a Dockerfile project.
	ImageName = "dockhand-app"
)

// AppDir returns the shell path of the synced source tree. The leading
// tilde is left for the remote shell to expand, since the user's home
// directory is not known locally.
func AppDir() string {
	return "~/" + AppDirName
}

// SiteAvailablePath is the proxy descriptor's install location.
func SiteAvailablePath() string {
	return fmt.Sprintf("/etc/nginx/sites-available/%s", ProjectName)
}

// SiteEnabledPath is the symlink that activates the descriptor.
func SiteEnabledPath() string {
	return fmt.Sprintf("/etc/nginx/sites-enabled/%s", ProjectName)
}
