// Package nexus provides the REST transport for a repository manager's
// service API.
package nexus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rennerdo30/repoctl/internal/logging"
	"github.com/rennerdo30/repoctl/internal/metrics"
	"github.com/rennerdo30/repoctl/internal/util"
	"github.com/rennerdo30/repoctl/internal/version"
)

// ServicePath is the prefix of every service resource below the base URL.
const ServicePath = "/service/local/"

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

// Config holds transport configuration.
type Config struct {
	BaseURL   string
	Username  string
	Password  string
	Timeout   time.Duration
	UserAgent string

	// Metrics, when set, instruments every request.
	Metrics *metrics.Metrics
	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client issues JSON requests against service resources.
type Client struct {
	baseURL   *url.URL
	username  string
	password  string
	userAgent string
	http      *http.Client
}

// New creates a new Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, util.WrapErrorf(util.ErrInvalidConfig, "server url %q: %v", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, util.WrapErrorf(util.ErrInvalidConfig, "server url %q must use http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, util.WrapErrorf(util.ErrInvalidConfig, "server url %q has no host", cfg.BaseURL)
	}
	base.Path = strings.TrimRight(base.Path, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := cfg.Transport
	if cfg.Metrics != nil {
		transport = cfg.Metrics.InstrumentRoundTripper(transport)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	return &Client{
		baseURL:   base,
		username:  cfg.Username,
		password:  cfg.Password,
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout, Transport: transport},
	}, nil
}

// ResourceURL returns the absolute URL of the service resource at path.
func (c *Client) ResourceURL(path string) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + ServicePath + strings.TrimLeft(path, "/")
	return u.String()
}

// Get fetches the resource at path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Put sends in as the JSON body of a PUT to path. The response body is
// discarded.
func (c *Client) Put(ctx context.Context, path string, in any) error {
	return c.do(ctx, http.MethodPut, path, in, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	target := c.ResourceURL(path)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &TransportError{Method: method, URL: target, Err: err}
	}

	requestID := util.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	logger := logging.FromContext(ctx).With("method", method, "url", target, "request_id", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("request completed", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DeserializationError{URL: target, Err: err}
	}
	return nil
}
