package remote

import "fmt"

// =============================================================================
// Provisioning
// =============================================================================

// ProvisionBatch ensures the container engine, the compose plugin, and the
// reverse proxy exist and run as persistent services. Installing an
// already-installed package is a no-op at the package-manager level, so
// the batch is safe to re-run.
func ProvisionBatch() []string {
	return []string{
		"sudo DEBIAN_FRONTEND=noninteractive apt-get update -y",
		"sudo DEBIAN_FRONTEND=noninteractive apt-get install -y docker.io docker-compose-v2 nginx",
		"sudo systemctl enable --now docker",
		"sudo systemctl enable --now nginx",
	}
}

// =============================================================================
// Container Deployment
// =============================================================================

// DeployComposeBatch tears down any existing composition for the project
// and builds and starts a fresh one in detached mode. The teardown
// tolerates "nothing to remove" so first-time deploys pass; parentheses
// keep that tolerance scoped to the teardown statement alone once the
// batch is && joined.
func DeployComposeBatch() []string {
	return []string{
		fmt.Sprintf("cd %s", AppDir()),
		fmt.Sprintf("(sudo docker compose -p %s down --remove-orphans || true)", ProjectName),
		fmt.Sprintf("sudo docker compose -p %s up -d --build", ProjectName),
	}
}

// DeployContainerBatch forcibly removes any previously-named application
// container, builds a new image from the Dockerfile, and runs it bound to
// the configured port with a restart policy that survives host reboots.
func DeployContainerBatch(appPort int) []string {
	return []string{
		fmt.Sprintf("cd %s", AppDir()),
		fmt.Sprintf("(sudo docker rm -f %s || true)", ContainerName),
		fmt.Sprintf("sudo docker build -t %s .", ImageName),
		fmt.Sprintf("sudo docker run -d --name %s --restart unless-stopped -p %d:%d %s",
			ContainerName, appPort, appPort, ImageName),
	}
}

// =============================================================================
// Reverse Proxy
// =============================================================================

// InstallSiteBatch writes the rendered site descriptor, (re)creates the
// enabling symlink, then validates the full proxy configuration before
// reloading. Because the batch is fail-fast, a failed `nginx -t` stops
// the chain and the service is never reloaded with a broken configuration.
//
// The descriptor must not contain single quotes; SiteConfig.Render
// guarantees that.
func InstallSiteBatch(descriptor string) []string {
	return []string{
		fmt.Sprintf("printf '%%s' '%s' | sudo tee %s > /dev/null", descriptor, SiteAvailablePath()),
		fmt.Sprintf("sudo ln -sfn %s %s", SiteAvailablePath(), SiteEnabledPath()),
		"sudo nginx -t",
		"sudo systemctl reload nginx",
	}
}

// =============================================================================
// Status
// =============================================================================

// StatusBatch queries the container engine for running containers. The
// output is informational only.
func StatusBatch() []string {
	return []string{
		`sudo docker ps --format 'table {{.Names}}\t{{.Image}}\t{{.Status}}\t{{.Ports}}'`,
	}
}

// =============================================================================
// Cleanup
// =============================================================================

// CleanupBatch reverses a deployment: force-remove every container on the
// host, delete the synced source, drop the proxy site and its symlink,
// then validate and reload the proxy so the removal takes effect.
func CleanupBatch() []string {
	return []string{
		"sudo docker ps -aq | xargs -r sudo docker rm -f",
		fmt.Sprintf("rm -rf %s", AppDir()),
		fmt.Sprintf("sudo rm -f %s %s", SiteAvailablePath(), SiteEnabledPath()),
		"sudo nginx -t",
		"sudo systemctl reload nginx",
	}
}
