// Package domain contains the core types shared by every pipeline stage.
// This is part of the Functional Core - no I/O, no side effects.
package domain

import "fmt"

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultBranch is the branch deployed when none is given.
	DefaultBranch = "main"

	// DefaultAppPort is the application port used when none is given.
	DefaultAppPort = 80

	// DefaultKeyPath is the conventional private key location, relative
	// to the user's home directory.
	DefaultKeyPath = "~/.ssh/id_rsa"
)

// =============================================================================
// Deploy Configuration
// =============================================================================

// DeployConfig holds everything a deploy run needs. It is assembled once
// at run start, validated, and read-only thereafter.
type DeployConfig struct {
	// RepoURL is the version-control URL the application source is pulled from.
	RepoURL string `mapstructure:"repo_url"`

	// Branch is the branch to deploy.
	Branch string `mapstructure:"branch"`

	// User is the remote login user.
	User string `mapstructure:"user"`

	// Host is the remote host address.
	Host string `mapstructure:"host"`

	// KeyPath is the local path to the SSH private key.
	KeyPath string `mapstructure:"key_path"`

	// AppPort is the host port the application container is bound to.
	AppPort int `mapstructure:"app_port"`
}

// Address returns the remote address in user@host form for display.
func (c DeployConfig) Address() string {
	return fmt.Sprintf("%s@%s", c.User, c.Host)
}

// CleanupConfig is the minimal credential set the cleanup run collects.
type CleanupConfig struct {
	User    string `mapstructure:"user"`
	Host    string `mapstructure:"host"`
	KeyPath string `mapstructure:"key_path"`
}

// Address returns the remote address in user@host form for display.
func (c CleanupConfig) Address() string {
	return fmt.Sprintf("%s@%s", c.User, c.Host)
}

// =============================================================================
// Remote Command Result
// =============================================================================

// CommandResult captures the outcome of one remote batch. It is owned
// transiently by the stage that issued the batch; a non-zero exit code is
// always a hard failure of that stage.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Failed reports whether the batch exited non-zero.
func (r CommandResult) Failed() bool {
	return r.ExitCode != 0
}
