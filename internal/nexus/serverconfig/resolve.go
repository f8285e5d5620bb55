package serverconfig

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/http/httpproxy"

	"github.com/rennerdo30/repoctl/internal/nexus/model"
	"github.com/rennerdo30/repoctl/internal/util"
)

// ResolveProxy returns the proxy URL the server would use to reach target
// with settings, or nil when the request goes direct.
//
// An exclusion containing "*" is a wildcard matched case-insensitively
// against the whole host name, as in "192.168.*" or "*.corp". Exclusions
// without a wildcard follow the usual no_proxy rules: "example.com" matches
// the domain and its subdomains. Loopback targets always go direct.
func ResolveProxy(settings *model.RemoteHTTPProxySettings, target *url.URL) (*url.URL, error) {
	if settings == nil || settings.ProxyHostname == "" {
		return nil, nil
	}
	if matchWildcard(settings.NonProxyHosts, target.Hostname()) {
		return nil, nil
	}

	proxy := (&url.URL{
		Scheme: "http",
		Host:   util.JoinHostPort(settings.ProxyHostname, settings.ProxyPort),
	}).String()

	cfg := httpproxy.Config{
		HTTPProxy:  proxy,
		HTTPSProxy: proxy,
		NoProxy:    noProxy(settings.NonProxyHosts),
	}
	return cfg.ProxyFunc()(target)
}

// matchWildcard reports whether host matches one of the wildcard
// exclusions in hosts.
func matchWildcard(hosts []string, host string) bool {
	host = strings.TrimSuffix(host, ".")
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if !strings.Contains(h, "*") {
			continue
		}
		pattern := "(?i)^" + strings.ReplaceAll(regexp.QuoteMeta(h), `\*`, ".*") + "$"
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(host) {
			return true
		}
	}
	return false
}

// noProxy renders the exclusions without a wildcard as a no_proxy list.
// Wildcard entries are handled by matchWildcard.
func noProxy(hosts []string) string {
	patterns := make([]string, 0, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" || strings.Contains(h, "*") {
			continue
		}
		patterns = append(patterns, h)
	}
	return strings.Join(patterns, ",")
}
