package mcppublish

import (
	"net/url"
	"strings"

	"github.com/mohammad-safakhou/agentsocial/config"
)

// ResolveBaseURL turns the configured publish URL into the endpoint used for
// JSON-RPC calls. A URL without a path (or just "/") gets the default /mcp
// path; any other URL is kept with trailing slashes stripped. The result is
// empty when raw is blank or has no scheme and host.
func ResolveBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	if u.Path == "" || u.Path == "/" {
		return u.Scheme + "://" + u.Host + config.DefaultMCPPath
	}
	return strings.TrimRight(raw, "/")
}
