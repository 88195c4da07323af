package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// HostPolicyConfig restricts which hosts the indexer may fetch from.
// An empty Allow list permits every host not explicitly disallowed.
type HostPolicyConfig struct {
	Allow    []string `mapstructure:"allow" json:"allow"`
	Disallow []string `mapstructure:"disallow" json:"disallow"`
}

// Normalize cleans entries and removes duplicates.
func (c HostPolicyConfig) Normalize() HostPolicyConfig {
	return HostPolicyConfig{
		Allow:    sanitizeHostList(c.Allow),
		Disallow: sanitizeHostList(c.Disallow),
	}
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
			return fmt.Errorf("host policy conflict: host %q present in both allow and disallow lists", host)
		}
	}
	return nil
}

// Permits reports whether rawURL may be fetched. Subdomains inherit the
// rule of their parent entry.
func (c HostPolicyConfig) Permits(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := NormalizeHost(u.Hostname())
	if matchesAny(host, c.Disallow) {
		return false
	}
	if len(c.Allow) == 0 {
		return true
	}
	return matchesAny(host, c.Allow)
}

func matchesAny(host string, list []string) bool {
	for _, entry := range list {
		entry = NormalizeHost(entry)
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}

func sanitizeHostList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		host := NormalizeHost(raw)
		if host == "" {
			continue
		}
		seen[host] = struct{}{}
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

// NormalizeHost lowercases a host or URL, dropping scheme, port and "www.".
func NormalizeHost(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		u, err := url.Parse(value)
		if err != nil || u.Host == "" {
			return ""
		}
		value = u.Hostname()
	}
	return strings.TrimPrefix(value, "www.")
}
