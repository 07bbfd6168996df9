package proxy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// UpstreamAddress Tests
// =============================================================================

func TestUpstreamAddress(t *testing.T) {
	tests := []struct {
		name string
		port int
		want string
	}{
		{"default port", 80, "127.0.0.1:80"},
		{"app port", 5000, "127.0.0.1:5000"},
		{"high port", 65535, "127.0.0.1:65535"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSiteConfig(tt.port).UpstreamAddress())
		})
	}
}

// =============================================================================
// Render Tests
// =============================================================================

func TestRender_ProxiesToConfiguredPort(t *testing.T) {
	out := NewSiteConfig(5000).Render()
	assert.Contains(t, out, "proxy_pass http://127.0.0.1:5000;")
}

func TestRender_ListenAndServerName(t *testing.T) {
	out := NewSiteConfig(3000).Render()
	assert.Contains(t, out, "listen 80;")
	assert.Contains(t, out, "server_name _;")
}

func TestRender_ForwardsHostAndClientIP(t *testing.T) {
	out := NewSiteConfig(3000).Render()
	assert.Contains(t, out, "proxy_set_header Host $host;")
	assert.Contains(t, out, "proxy_set_header X-Real-IP $remote_addr;")
	assert.Contains(t, out, "proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;")
}

func TestRender_SingleServerBlock(t *testing.T) {
	out := NewSiteConfig(8080).Render()
	assert.Equal(t, 1, strings.Count(out, "server {"))
	assert.Equal(t, 1, strings.Count(out, "location / {"))
}

func TestRender_NoSingleQuotes(t *testing.T) {
	// The descriptor travels to the remote host inside a single-quoted
	// shell argument.
	out := NewSiteConfig(8080).Render()
	assert.NotContains(t, out, "'")
}
