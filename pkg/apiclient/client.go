// Package apiclient holds the wire-level plumbing shared by every entity
// gateway: request building, auth header handling, error mapping, and the
// snake_case/camelCase translation applied at the HTTP boundary.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/subtrackhq/subtrack-go/pkg/config"
	pkgerrors "github.com/subtrackhq/subtrack-go/pkg/errors"
	"github.com/subtrackhq/subtrack-go/pkg/logger"
	"github.com/subtrackhq/subtrack-go/pkg/metrics"
	"github.com/subtrackhq/subtrack-go/pkg/wirecase"
)

const errorBodyReadLimit int64 = 1024

// Client issues authenticated requests against the Subtrack API.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	logg          *logger.Logger
	metrics       *metrics.GatewayMetrics
	onAuthFailure func()

	mu     sync.RWMutex
	bearer string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics attaches gateway call metrics.
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithAuthFailureHook installs a callback invoked when the API rejects the
// session (401/403). Typically wired to clear the current user.
func WithAuthFailureHook(hook func()) Option {
	return func(c *Client) {
		c.onAuthFailure = hook
	}
}

// New builds the API client. A cookie jar is installed so first-party session
// cookies issued by the auth endpoints persist across calls.
func New(cfg config.APIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("api client logger is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("build cookie jar: %w", err)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		baseURL:    baseURL,
		logg:       logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient.Jar == nil {
		client.httpClient.Jar = jar
	}
	return client, nil
}

// OnAuthFailure installs the auth-failure callback after construction, for
// callers whose session state only exists once the client does.
func (c *Client) OnAuthFailure(hook func()) {
	c.onAuthFailure = hook
}

// SetBearerToken attaches a bearer token to subsequent requests.
func (c *Client) SetBearerToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = strings.TrimSpace(token)
}

// ClearBearerToken removes the bearer token.
func (c *Client) ClearBearerToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bearer = ""
}

// Request describes one API call.
type Request struct {
	// Operation names the call for logs and metrics, e.g. "plan.create".
	Operation string
	Method    string
	Path      string
	Query     url.Values
	// Body is a camelCase-keyed payload converted to the snake_case wire
	// shape before sending. Mutually exclusive with Form.
	Body any
	// Form is sent as application/x-www-form-urlencoded without conversion.
	Form url.Values
}

// Do executes the request and returns the raw response body. Unauthorized and
// forbidden statuses become auth failures and trigger the auth failure hook;
// other error statuses map onto the client error taxonomy.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "api client not configured")
	}

	started := time.Now()
	body, err := c.do(ctx, req)
	c.metrics.ObserveDuration(req.Operation, time.Since(started))
	if err != nil {
		c.metrics.IncFailure(req.Operation)
		return nil, err
	}
	c.metrics.IncSuccess(req.Operation)
	return body, nil
}

func (c *Client) do(ctx context.Context, req Request) ([]byte, error) {
	ctx = c.logg.WithField(ctx, "operation", req.Operation)

	var payload io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		payload = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		wire, err := EncodeWire(req.Body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(wire)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.buildURL(req.Path, req.Query), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	c.mu.RLock()
	if c.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	c.mu.RUnlock()

	c.logg.Debug(ctx, fmt.Sprintf("%s %s", req.Method, req.Path))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logg.Error(ctx, "request failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if code, failed := pkgerrors.FromStatus(resp.StatusCode); failed {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		apiErr := pkgerrors.Wrap(
			code,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
			req.Operation+" rejected",
		)
		if pkgerrors.IsAuthFailure(apiErr) {
			c.logg.Warn(ctx, "session rejected by api")
			if c.onAuthFailure != nil {
				c.onAuthFailure()
			}
		} else {
			c.logg.Error(ctx, "api call failed", apiErr)
		}
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response body")
	}
	return data, nil
}

func (c *Client) buildURL(path string, query url.Values) string {
	full := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		full += "?" + query.Encode()
	}
	return full
}

// EncodeWire marshals a camelCase-keyed value into snake_case JSON.
func EncodeWire(body any) ([]byte, error) {
	camel, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal payload")
	}
	var generic any
	if err := json.Unmarshal(camel, &generic); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reshape payload")
	}
	converted, err := wirecase.ToWire(generic)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "convert payload keys")
	}
	wire, err := json.Marshal(converted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal wire payload")
	}
	return wire, nil
}

// DecodeWire converts snake_case response JSON into camelCase JSON.
func DecodeWire(data []byte) ([]byte, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeContract, err, "decode response body")
	}
	converted, err := wirecase.FromWire(generic)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeContract, err, "convert response keys")
	}
	camel, err := json.Marshal(converted)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeContract, err, "remarshal response")
	}
	return camel, nil
}
