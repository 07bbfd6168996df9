// Package validation provides pure validation functions for run configuration.
//
// All functions are values-in, values-out: the caller is responsible for
// any filesystem checks (the pipeline's validate stage stats the key file).
package validation

import "fmt"

// =============================================================================
// Field Errors
// =============================================================================

// FieldError reports a single invalid configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// =============================================================================
// Deploy Config Validation
// =============================================================================

// ValidateDeployFields validates the required deploy fields and the port
// range. Returns the first offending field, or nil when all are valid.
func ValidateDeployFields(repoURL, branch, user, host, keyPath string, appPort int) *FieldError {
	if repoURL == "" {
		return &FieldError{Field: "repo_url", Message: "repository URL is required"}
	}
	if branch == "" {
		return &FieldError{Field: "branch", Message: "branch is required"}
	}
	if user == "" {
		return &FieldError{Field: "user", Message: "remote user is required"}
	}
	if host == "" {
		return &FieldError{Field: "host", Message: "host is required"}
	}
	if keyPath == "" {
		return &FieldError{Field: "key_path", Message: "SSH key path is required"}
	}
	if appPort < 1 || appPort > 65535 {
		return &FieldError{Field: "app_port", Message: fmt.Sprintf("port %d out of range 1-65535", appPort)}
	}
	return nil
}

// ValidateCleanupFields validates the minimal credential set of a cleanup run.
func ValidateCleanupFields(user, host, keyPath string) *FieldError {
	if user == "" {
		return &FieldError{Field: "user", Message: "remote user is required"}
	}
	if host == "" {
		return &FieldError{Field: "host", Message: "host is required"}
	}
	if keyPath == "" {
		return &FieldError{Field: "key_path", Message: "SSH key path is required"}
	}
	return nil
}
