package config

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
)

// HostPolicyConfig limits which hosts images may be downloaded from. An
// entry matches the host itself and any subdomain of it. An empty Allow
// list permits every host not disallowed.
type HostPolicyConfig struct {
	Allow    []string `mapstructure:"allow"`
	Disallow []string `mapstructure:"disallow"`
}

// Normalize cleans entries and removes duplicates.
func (c HostPolicyConfig) Normalize() HostPolicyConfig {
	c.Allow = sanitizeDomainList(c.Allow)
	c.Disallow = sanitizeDomainList(c.Disallow)
	return c
}

// Validate rejects hosts listed as both allowed and disallowed.
func (c HostPolicyConfig) Validate() error {
	norm := c.Normalize()
	allow := make(map[string]struct{}, len(norm.Allow))
	for _, host := range norm.Allow {
		allow[host] = struct{}{}
	}
	for _, host := range norm.Disallow {
		if _, ok := allow[host]; ok {
			return fmt.Errorf("images.host_policy conflict: host %q present in both allow and disallow lists", host)
		}
	}
	return nil
}

// Permits reports whether an image on host may be fetched. host may carry
// a port. Call on a normalized policy.
func (c HostPolicyConfig) Permits(host string) bool {
	host = normalizeHost(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" {
		return false
	}
	if matchesAny(host, c.Disallow) {
		return false
	}
	return len(c.Allow) == 0 || matchesAny(host, c.Allow)
}

func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func sanitizeDomainList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		if host := normalizeHost(raw); host != "" {
			seen[host] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for host := range seen {
		out = append(out, host)
	}
	sort.Strings(out)
	return out
}

func normalizeHost(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		if u, err := url.Parse(value); err == nil && u.Host != "" {
			return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		}
	}
	return strings.TrimPrefix(value, "www.")
}
