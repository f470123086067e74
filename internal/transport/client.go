package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/agentstation/ingest/pkg/constants"
	"github.com/agentstation/ingest/pkg/errors"
	"github.com/agentstation/ingest/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client sends authenticated JSON requests relative to a base URL.
type Client struct {
	http    *http.Client
	auth    Authenticator
	apiKey  string
	base    *url.URL
	service string
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit paces requests to perSecond. Zero or less disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithService names the remote service in errors and logs.
func WithService(name string) Option {
	return func(c *Client) {
		c.service = name
	}
}

// New creates a client for baseURL. A trailing slash is added to the base
// path so relative endpoints resolve beneath it.
func New(baseURL string, auth Authenticator, apiKey string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.NewConfigError("transport", "invalid base URL "+baseURL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if auth == nil {
		auth = &NoAuth{}
	}

	c := &Client{
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
		auth:    auth,
		apiKey:  apiKey,
		base:    base,
		service: base.Host,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Service returns the service name used in errors.
func (c *Client) Service() string {
	return c.service
}

// URL resolves endpoint against the base URL and adds query parameters.
func (c *Client) URL(endpoint string, query url.Values) string {
	ref := &url.URL{Path: strings.TrimPrefix(endpoint, "/")}
	u := c.base.ResolveReference(ref)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Do paces, authenticates and sends req.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.FromContext(ctx).Trace().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("InterLex request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Service:  c.service,
			Endpoint: req.URL.Path,
			Message:  "request failed",
			Err:      errors.Join(errors.ErrServiceUnavailable, err),
		}
	}
	return resp, nil
}

// Get sends a GET request for endpoint.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(endpoint, query), nil)
	if err != nil {
		return nil, errors.WrapAPI(c.service, 0, err)
	}
	return c.Do(ctx, req)
}

// PostJSON sends payload as a JSON body to endpoint.
func (c *Client) PostJSON(ctx context.Context, endpoint string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WrapParse("json", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint, nil), bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapAPI(c.service, 0, err)
	}
	return c.Do(ctx, req)
}

// CloseIdleConnections drops pooled connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// drain discards the remainder of a body so the connection can be reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, constants.MaxErrorBodyBytes))
	_ = body.Close()
}
