package rsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// BuildArgs Tests
// =============================================================================

func TestBuildArgs_Shape(t *testing.T) {
	args := BuildArgs("/tmp/src", "deploy", "10.0.0.5", "/home/me/.ssh/id_rsa", "~/dockhand-app")
	require.Len(t, args, 7)
	assert.Equal(t, "-az", args[0])
	assert.Equal(t, "--delete", args[1])
	assert.Equal(t, "--exclude=.git", args[2])
	assert.Equal(t, "-e", args[3])
	assert.Contains(t, args[4], "-i /home/me/.ssh/id_rsa")
	assert.Equal(t, "/tmp/src/", args[5])
	assert.Equal(t, "deploy@10.0.0.5:~/dockhand-app/", args[6])
}

func TestBuildArgs_TrailingSlashes(t *testing.T) {
	// Trailing slashes make rsync mirror directory contents instead of
	// nesting the directory itself.
	args := BuildArgs("/src", "u", "h", "/k", "~/app")
	assert.Equal(t, "/src/", args[len(args)-2])
	assert.Equal(t, "u@h:~/app/", args[len(args)-1])
}

func TestBuildArgs_ExcludesVersionControl(t *testing.T) {
	args := BuildArgs("/src", "u", "h", "/k", "~/app")
	assert.Contains(t, args, "--exclude=.git")
}
