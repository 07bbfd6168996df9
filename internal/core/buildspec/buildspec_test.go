package buildspec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCompose = `
services:
  web:
    image: nginx:alpine
    ports:
      - "8080:80"
  worker:
    image: busybox
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// =============================================================================
// Detection Tests
// =============================================================================

func TestDetect_Dockerfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Dockerfile", "FROM alpine\n")

	desc, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, KindDockerfile, desc.Kind)
	assert.Equal(t, filepath.Join(dir, "Dockerfile"), desc.Path)
	assert.Zero(t, desc.Services)
}

func TestDetect_Compose(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "docker-compose.yml", validCompose)

	desc, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, KindCompose, desc.Kind)
	assert.Equal(t, 2, desc.Services)
}

func TestDetect_ComposeWinsOverDockerfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Dockerfile", "FROM alpine\n")
	writeFile(t, dir, "compose.yaml", validCompose)

	desc, err := Detect(dir)
	require.NoError(t, err)
	assert.Equal(t, KindCompose, desc.Kind)
}

func TestDetect_AllComposeNames(t *testing.T) {
	for _, name := range []string{"compose.yaml", "compose.yml", "docker-compose.yaml", "docker-compose.yml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, name, validCompose)

			desc, err := Detect(dir)
			require.NoError(t, err)
			assert.Equal(t, KindCompose, desc.Kind)
		})
	}
}

func TestDetect_NoDescriptor(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")

	_, err := Detect(dir)
	assert.ErrorIs(t, err, ErrNoDescriptor)
}

func TestDetect_EmptyDir(t *testing.T) {
	_, err := Detect(t.TempDir())
	assert.ErrorIs(t, err, ErrNoDescriptor)
}

// =============================================================================
// Compose Validation Tests
// =============================================================================

func TestDetect_InvalidComposeYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "compose.yaml", "services: [broken")

	_, err := Detect(dir)
	assert.ErrorIs(t, err, ErrInvalidCompose)
}

func TestDetect_ComposeWithoutServices(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "compose.yaml", "volumes:\n  data:\n")

	_, err := Detect(dir)
	// compose-go itself may reject a service-less project before our
	// explicit check does; either way the descriptor is refused.
	require.Error(t, err)
	var dErr *DescriptorError
	assert.ErrorAs(t, err, &dErr)
}

func TestDetect_EmptyComposeFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "compose.yaml", "")

	_, err := Detect(dir)
	assert.ErrorIs(t, err, ErrInvalidCompose)
}
