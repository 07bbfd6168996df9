package buildspec

import (
	"context"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Compose Validation
// =============================================================================

// validateCompose parses a compose descriptor and returns its service
// count. The parse happens locally, before any remote action, so a broken
// descriptor aborts the run during source sync instead of mid-deploy.
func validateCompose(yamlContent string) (int, error) {
	if strings.TrimSpace(yamlContent) == "" {
		return 0, NewDescriptorError("", "compose file is empty", ErrInvalidCompose)
	}

	// Parse YAML into a map first
	var dict map[string]interface{}
	if err := yaml.Unmarshal([]byte(yamlContent), &dict); err != nil {
		return 0, NewDescriptorError("", "invalid YAML syntax", ErrInvalidCompose)
	}
	if dict == nil {
		return 0, NewDescriptorError("", "invalid YAML syntax", ErrInvalidCompose)
	}

	project, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: []byte(yamlContent),
				Config:  dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName("dockhand", false)
		opts.SkipValidation = false
		opts.SkipInterpolation = false
		// Don't resolve paths since we're in-memory
		opts.SkipNormalization = true
		opts.SkipExtends = true // Don't try to load external files
	})
	if err != nil {
		return 0, NewDescriptorError("", err.Error(), ErrInvalidCompose)
	}

	if len(project.Services) == 0 {
		return 0, NewDescriptorError("", "compose file must define at least one service", ErrNoServices)
	}

	return len(project.Services), nil
}
