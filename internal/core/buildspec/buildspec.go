// Package buildspec detects and validates the build descriptor of a
// synced source tree: either a multi-service compose file or a
// single-service Dockerfile. No later stage can proceed without one.
package buildspec

import (
	"os"
	"path/filepath"
)

// =============================================================================
// Descriptor Kinds
// =============================================================================

// Kind is the build descriptor flavor found at the repository root.
type Kind string

const (
	// KindCompose is a multi-service composition file.
	KindCompose Kind = "compose"

	// KindDockerfile is a single-service container build file.
	KindDockerfile Kind = "dockerfile"
)

// composeFileNames are the compose descriptor names recognized at the
// repository root, in lookup order.
var composeFileNames = []string{
	"compose.yaml",
	"compose.yml",
	"docker-compose.yaml",
	"docker-compose.yml",
}

// Descriptor is a detected build descriptor.
type Descriptor struct {
	Kind Kind
	// Path is the descriptor's absolute path.
	Path string
	// Services is the service count of a compose descriptor, zero for a
	// Dockerfile project.
	Services int
}

// =============================================================================
// Detection
// =============================================================================

// Detect finds the build descriptor at the repository root. A compose
// file wins over a Dockerfile when both are present. Compose descriptors
// are parsed and validated before being accepted, so an invalid one fails
// here rather than on the remote host.
func Detect(dir string) (*Descriptor, error) {
	for _, name := range composeFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, NewDescriptorError(name, "failed to read descriptor", err)
		}
		services, err := validateCompose(string(content))
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindCompose, Path: path, Services: services}, nil
	}

	dockerfile := filepath.Join(dir, "Dockerfile")
	if _, err := os.Stat(dockerfile); err == nil {
		return &Descriptor{Kind: KindDockerfile, Path: dockerfile}, nil
	}

	return nil, ErrNoDescriptor
}
