package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Deploy Field Tests
// =============================================================================

func TestValidateDeployFields_Valid(t *testing.T) {
	err := ValidateDeployFields("https://example/app.git", "main", "deploy", "10.0.0.5", "/home/me/.ssh/id_rsa", 5000)
	assert.Nil(t, err)
}

func TestValidateDeployFields_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		repoURL   string
		branch    string
		user      string
		host      string
		keyPath   string
		appPort   int
		wantField string
	}{
		{"all valid", "https://example/app.git", "main", "deploy", "host", "/k", 80, ""},
		{"missing url", "", "main", "deploy", "host", "/k", 80, "repo_url"},
		{"missing branch", "u", "", "deploy", "host", "/k", 80, "branch"},
		{"missing user", "u", "main", "", "host", "/k", 80, "user"},
		{"missing host", "u", "main", "deploy", "", "/k", 80, "host"},
		{"missing key", "u", "main", "deploy", "host", "", 80, "key_path"},
		{"port zero", "u", "main", "deploy", "host", "/k", 0, "app_port"},
		{"port negative", "u", "main", "deploy", "host", "/k", -1, "app_port"},
		{"port too high", "u", "main", "deploy", "host", "/k", 70000, "app_port"},
		{"port upper bound", "u", "main", "deploy", "host", "/k", 65535, ""},
		{"port lower bound", "u", "main", "deploy", "host", "/k", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeployFields(tt.repoURL, tt.branch, tt.user, tt.host, tt.keyPath, tt.appPort)
			if tt.wantField == "" {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, tt.wantField, err.Field)
			}
		})
	}
}

// =============================================================================
// Cleanup Field Tests
// =============================================================================

func TestValidateCleanupFields_TableDriven(t *testing.T) {
	tests := []struct {
		name      string
		user      string
		host      string
		keyPath   string
		wantField string
	}{
		{"all valid", "deploy", "host", "/k", ""},
		{"missing user", "", "host", "/k", "user"},
		{"missing host", "deploy", "", "/k", "host"},
		{"missing key", "deploy", "host", "", "key_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCleanupFields(tt.user, tt.host, tt.keyPath)
			if tt.wantField == "" {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, tt.wantField, err.Field)
			}
		})
	}
}

func TestFieldError_Message(t *testing.T) {
	err := ValidateDeployFields("", "main", "u", "h", "/k", 80)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "repo_url")
	assert.Contains(t, err.Error(), "required")
}
