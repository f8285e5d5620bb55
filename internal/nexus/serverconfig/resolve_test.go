package serverconfig

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rennerdo30/repoctl/internal/nexus/model"
)

func TestResolveProxy(t *testing.T) {
	settings := &model.RemoteHTTPProxySettings{
		ProxyHostname: "proxy.example.com",
		ProxyPort:     3128,
		NonProxyHosts: []string{"*.internal", "repo.example.com", " ", "10.1.2.3"},
	}

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"proxied http", "http://repo1.maven.org/maven2/", "http://proxy.example.com:3128"},
		{"proxied https", "https://registry.npmjs.org/", "http://proxy.example.com:3128"},
		{"wildcard subdomain", "https://build.internal/artifacts", ""},
		{"exact host", "https://repo.example.com/", ""},
		{"subdomain of plain entry", "https://mirror.repo.example.com/", ""},
		{"excluded ip", "http://10.1.2.3:8081/", ""},
		{"loopback", "http://localhost:8081/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := url.Parse(tt.target)
			require.NoError(t, err)

			got, err := ResolveProxy(settings, target)
			require.NoError(t, err)

			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestResolveProxy_NoProxyConfigured(t *testing.T) {
	target, _ := url.Parse("https://repo1.maven.org/")

	got, err := ResolveProxy(nil, target)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveProxy_StarDisablesProxy(t *testing.T) {
	target, _ := url.Parse("https://repo1.maven.org/")
	settings := &model.RemoteHTTPProxySettings{ProxyHostname: "proxy", ProxyPort: 80, NonProxyHosts: []string{"*"}}

	got, err := ResolveProxy(settings, target)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveProxy_WildcardExclusions(t *testing.T) {
	settings := &model.RemoteHTTPProxySettings{
		ProxyHostname: "proxy",
		ProxyPort:     3128,
		NonProxyHosts: []string{"192.168.*", "*.corp", "repo.*", "build-*.example.org"},
	}

	tests := []struct {
		target string
		direct bool
	}{
		{"http://192.168.1.5/x", true},
		{"http://192.169.1.5/x", false},
		{"http://a.corp/x", true},
		{"http://corp/x", false},
		{"http://repo.internal/x", true},
		{"http://REPO.Internal:8081/x", true},
		{"http://myrepo.internal/x", false},
		{"https://build-17.example.org/", true},
		{"https://build.example.org/", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			target, err := url.Parse(tt.target)
			require.NoError(t, err)

			got, err := ResolveProxy(settings, target)
			require.NoError(t, err)

			if tt.direct {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, "proxy:3128", got.Host)
			}
		})
	}
}

func TestNoProxy(t *testing.T) {
	assert.Equal(t, "localhost,10.0.0.1", noProxy([]string{"*.corp", "localhost", "", "*", " 10.0.0.1 "}))
}
