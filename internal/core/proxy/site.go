// Package proxy provides pure types and functions for the reverse proxy
// site descriptor. This package has no I/O dependencies and is tested with
// values in/out; installing and activating the rendered descriptor is the
// pipeline's job.
package proxy

import (
	"fmt"
	"strings"
)

const (
	// ListenPort is the port the proxy listens on. Fixed: TLS and
	// alternative frontend ports are out of scope.
	ListenPort = 80

	// WildcardServerName matches any request host.
	WildcardServerName = "_"
)

// SiteConfig describes one reverse-proxy routing rule: listen on 80,
// forward everything to the application's loopback port. Derived from the
// deploy configuration and never persisted beyond the rendered descriptor.
type SiteConfig struct {
	// UpstreamPort is the host port the application container is bound to.
	UpstreamPort int
}

// NewSiteConfig builds the site config for the given application port.
func NewSiteConfig(appPort int) SiteConfig {
	return SiteConfig{UpstreamPort: appPort}
}

// UpstreamAddress returns the loopback address requests are forwarded to.
func (c SiteConfig) UpstreamAddress() string {
	return fmt.Sprintf("127.0.0.1:%d", c.UpstreamPort)
}

// Render produces the nginx server block: a single location proxying to
// the upstream and forwarding the original Host and client IP headers.
func (c SiteConfig) Render() string {
	var b strings.Builder
	b.WriteString("server {\n")
	fmt.Fprintf(&b, "    listen %d;\n", ListenPort)
	fmt.Fprintf(&b, "    server_name %s;\n", WildcardServerName)
	b.WriteString("\n")
	b.WriteString("    location / {\n")
	fmt.Fprintf(&b, "        proxy_pass http://%s;\n", c.UpstreamAddress())
	b.WriteString("        proxy_set_header Host $host;\n")
	b.WriteString("        proxy_set_header X-Real-IP $remote_addr;\n")
	b.WriteString("        proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}
