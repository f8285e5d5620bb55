package serverconfig

import (
	"context"

	"github.com/rennerdo30/repoctl/internal/nexus/model"
	"github.com/rennerdo30/repoctl/internal/util"
)

// HTTPProxy edits the proxy the server uses for its own outbound requests.
type HTTPProxy struct {
	config *ServerConfiguration
}

// SetTo points the server at the proxy host:port.
//
// nonProxyHosts replaces the exclusion list. Calling SetTo without any
// exclusions clears a previously stored list; lists are never merged.
// Existing credentials are kept.
func (p *HTTPProxy) SetTo(ctx context.Context, host string, port int, nonProxyHosts ...string) error {
	if host == "" {
		return util.InvalidArgument("host cannot be empty")
	}

	cfg, err := p.config.fetch(ctx)
	if err != nil {
		return err
	}

	settings := cfg.GlobalHTTPProxySettings
	if settings == nil {
		settings = &model.RemoteHTTPProxySettings{}
	}
	settings.ProxyHostname = host
	settings.ProxyPort = port
	if len(nonProxyHosts) > 0 {
		settings.NonProxyHosts = append([]string(nil), nonProxyHosts...)
	} else {
		settings.NonProxyHosts = nil
	}
	cfg.GlobalHTTPProxySettings = settings

	return p.config.push(ctx, cfg)
}

// SetCredentials sets the username and password presented to the proxy.
// It is SetNTLMCredentials without NTLM host and domain.
func (p *HTTPProxy) SetCredentials(ctx context.Context, username, password string) error {
	return p.SetNTLMCredentials(ctx, username, password, "", "")
}

// SetNTLMCredentials replaces the proxy credentials as a whole; values from
// earlier credentials are not carried over.
//
// A proxy target must already be configured. Otherwise ErrProxyNotConfigured
// is returned and nothing is written.
func (p *HTTPProxy) SetNTLMCredentials(ctx context.Context, username, password, ntlmHost, ntlmDomain string) error {
	if username == "" {
		return util.InvalidArgument("user name cannot be empty")
	}

	cfg, err := p.config.fetch(ctx)
	if err != nil {
		return err
	}

	if cfg.GlobalHTTPProxySettings == nil {
		return ErrProxyNotConfigured
	}
	cfg.GlobalHTTPProxySettings.Authentication = &model.AuthenticationSettings{
		Username:   username,
		Password:   password,
		NTLMHost:   ntlmHost,
		NTLMDomain: ntlmDomain,
	}

	return p.config.push(ctx, cfg)
}

// Reset removes the proxy configuration: target, exclusions and credentials.
func (p *HTTPProxy) Reset(ctx context.Context) error {
	cfg, err := p.config.fetch(ctx)
	if err != nil {
		return err
	}
	cfg.GlobalHTTPProxySettings = nil
	return p.config.push(ctx, cfg)
}

// Current returns the proxy settings stored on the server, or nil when no
// proxy is configured.
func (p *HTTPProxy) Current(ctx context.Context) (*model.RemoteHTTPProxySettings, error) {
	cfg, err := p.config.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.GlobalHTTPProxySettings, nil
}
