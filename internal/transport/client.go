// Package transport provides the authenticated, rate-limited JSON HTTP client
// shared by the vendor integrations.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	vendor  string
	http    *http.Client
	auth    Authenticator
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit throttles requests to rps with the given burst. A
// non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a new transport client for a vendor with the specified authenticator.
func New(vendor string, auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		vendor: vendor,
		http:   &http.Client{Timeout: DefaultHTTPTimeout},
		auth:   auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Vendor returns the vendor name used in errors.
func (c *Client) Vendor() string {
	return c.vendor
}

// Do sends body (when non-nil) as JSON and decodes the response into out
// (when non-nil). Non-2xx responses become *errors.APIError.
func (c *Client) Do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapParse("json", "request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return errors.WrapResource("create", "request", method+" "+url, err)
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	return DecodeResponse(ctx, resp, c.vendor, out)
}

// Get performs a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	return c.Do(ctx, http.MethodGet, url, nil, out)
}

func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}
	}

	c.auth.Apply(req)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.FromContext(ctx).Debug().
		Str("vendor", c.vendor).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("Sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Join(errors.ErrCanceled, err)
		}
		return nil, &errors.APIError{
			Vendor:   c.vendor,
			Message:  err.Error(),
			Endpoint: req.Method + " " + req.URL.Path,
			Err:      err,
		}
	}
	return resp, nil
}

// DecodeResponse decodes a JSON response into the target structure.
func DecodeResponse(ctx context.Context, resp *http.Response, vendor string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		endpoint := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.Method + " " + resp.Request.URL.Path
		}
		return &errors.APIError{
			Vendor:     vendor,
			StatusCode: resp.StatusCode,
			Message:    string(bytes.TrimSpace(body)),
			Endpoint:   endpoint,
		}
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", vendor+" response", err)
	}
	return nil
}
