// Package serverconfig edits the global HTTP proxy configuration of a
// repository manager.
//
// Every operation is a self-contained read-modify-write of the whole global
// settings resource: one GET, an in-memory change, one PUT. Nothing is cached
// between calls and concurrent writers are not coordinated; the last PUT wins.
package serverconfig

import (
	"context"
	"fmt"

	"github.com/rennerdo30/repoctl/internal/nexus"
	"github.com/rennerdo30/repoctl/internal/nexus/model"
	"github.com/rennerdo30/repoctl/internal/util"
)

// GlobalSettingsPath is the service resource holding the global settings.
const GlobalSettingsPath = "global_settings/current"

// ErrProxyNotConfigured is returned when credentials are set while the server
// has no proxy target.
var ErrProxyNotConfigured = fmt.Errorf("http proxy: %w", util.ErrNotConfigured)

// Transport reads and writes service resources. *nexus.Client implements it.
type Transport interface {
	Get(ctx context.Context, path string, out any) error
	Put(ctx context.Context, path string, in any) error
}

var _ Transport = (*nexus.Client)(nil)

// ServerConfiguration is the server configuration subsystem.
type ServerConfiguration struct {
	transport Transport
	httpProxy *HTTPProxy
}

// New creates the subsystem on top of transport.
func New(transport Transport) *ServerConfiguration {
	sc := &ServerConfiguration{transport: transport}
	sc.httpProxy = &HTTPProxy{config: sc}
	return sc
}

// ProxySettings returns the HTTP proxy handle. The same handle is returned on
// every call.
func (sc *ServerConfiguration) ProxySettings() *HTTPProxy {
	return sc.httpProxy
}

func (sc *ServerConfiguration) fetch(ctx context.Context) (*model.GlobalConfiguration, error) {
	var resp model.GlobalConfigurationResponse
	if err := sc.transport.Get(ctx, GlobalSettingsPath, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, &nexus.DeserializationError{
			URL: sc.resourceURL(GlobalSettingsPath),
			Err: fmt.Errorf("response has no data"),
		}
	}
	return resp.Data, nil
}

// resourceURL returns the absolute URL of path when the transport can
// report it, and path itself otherwise.
func (sc *ServerConfiguration) resourceURL(path string) string {
	if r, ok := sc.transport.(interface{ ResourceURL(string) string }); ok {
		return r.ResourceURL(path)
	}
	return path
}

func (sc *ServerConfiguration) push(ctx context.Context, cfg *model.GlobalConfiguration) error {
	return sc.transport.Put(ctx, GlobalSettingsPath, model.GlobalConfigurationRequest{Data: cfg})
}
