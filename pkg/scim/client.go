// Package scim provides the rate-governed dispatcher for the Slack SCIM
// API. It shares the throttle-retry core and rate policy with the Web API
// client but speaks plain REST: success is judged by both the HTTP status
// and the absence of an Errors field in the decoded body, and the pacing
// tier is resolved from the first path segment of the resource.
package scim

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/mmercad0/slack-objects/pkg/dispatch"
	"github.com/mmercad0/slack-objects/pkg/identity"
	"github.com/mmercad0/slack-objects/pkg/logging"
	"github.com/mmercad0/slack-objects/pkg/ratelimit"
)

// Defaults for the production Slack SCIM endpoint.
const (
	DefaultBaseURL = "https://api.slack.com/scim"
	DefaultVersion = "v2"
)

// Prometheus metrics for SCIM calls.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slack_scim_requests_total",
		Help: "Total SCIM calls by resource and outcome",
	}, []string{"resource", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slack_scim_request_duration_seconds",
		Help:    "SCIM call duration in seconds by resource, including waits",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 120},
	}, []string{"resource"})
)

// Config holds the SCIM client configuration.
type Config struct {
	// Token is the bearer token. Required.
	Token string

	// BaseURL is the SCIM root without the version segment
	// (defaults to DefaultBaseURL).
	BaseURL string

	// Version is the SCIM API version segment (defaults to DefaultVersion).
	Version string

	// Policy resolves synthetic scim.<segment> operation names to tiers.
	// Zero value means ratelimit.DefaultPolicy().
	Policy *ratelimit.Policy

	// HTTPClient customizes the underlying HTTP client.
	HTTPClient *http.Client

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// Client dispatches SCIM calls. Safe for concurrent use; each call owns its
// own retry state.
type Client struct {
	baseURL string
	version string
	token   string
	client  *http.Client
	policy  ratelimit.Policy
	logger  zerolog.Logger
}

// Response is the structured result of one SCIM call. Unlike the Web API
// there is no ok boolean in the body; OK is computed from the HTTP status
// and the Errors field, which can disagree.
type Response struct {
	OK         bool
	StatusCode int
	Body       map[string]any
	RawText    string
}

// New creates a SCIM client.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("scim token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	policy := ratelimit.DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	logger := logging.NewLogger("scim")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/" + version + "/",
		version: version,
		token:   cfg.Token,
		client:  httpClient,
		policy:  policy,
		logger:  logger,
	}, nil
}

// Version returns the configured SCIM API version segment.
func (c *Client) Version() string {
	return c.version
}

// Request performs one SCIM call against path (e.g. "Users/U123") and
// returns the structured response.
//
// The pacing tier comes from the synthetic operation scim.<first segment>,
// so Users and Groups endpoints are paced independently through the shared
// rate policy. Throttling (429) is retried under the dispatch budget.
//
// When the HTTP status and the Errors field disagree with a clean success,
// Request returns the Response together with an *EnvelopeError so callers
// can distinguish a protocol-level rejection from a network failure.
func (c *Client) Request(ctx context.Context, httpMethod, path string, payload map[string]any, params url.Values) (*Response, error) {
	op := "scim." + firstSegment(path)
	tier := c.policy.Resolve(op)

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var resp *Response
	err := dispatch.Do(ctx, c.logger, op, tier.Duration(), func(ctx context.Context) error {
		var innerErr error
		resp, innerErr = c.send(ctx, op, httpMethod, path, payload, params)
		return innerErr
	})
	if err != nil {
		requestsTotal.WithLabelValues(op, "error").Inc()
		return nil, err
	}

	if !resp.OK {
		requestsTotal.WithLabelValues(op, "envelope_error").Inc()
		c.logger.Warn().
			Str("method", op).
			Int("status_code", resp.StatusCode).
			Msg("SCIM envelope not ok")
		return resp, &EnvelopeError{
			Operation:  op,
			StatusCode: resp.StatusCode,
			Errors:     resp.Body["Errors"],
		}
	}

	requestsTotal.WithLabelValues(op, "ok").Inc()
	return resp, nil
}

// send performs a single HTTP attempt.
func (c *Client) send(ctx context.Context, op, httpMethod, path string, payload map[string]any, params url.Values) (*Response, error) {
	endpoint := c.baseURL + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(httpMethod), endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", op, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, httpResp.Body)
		return nil, &dispatch.ThrottleError{
			Method:     op,
			RetryAfter: httpResp.Header.Get("Retry-After"),
		}
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	text := string(raw)
	decoded := map[string]any{}
	if text != "" {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			// Non-JSON bodies stay reachable through _raw_text.
			decoded = map[string]any{"_raw_text": text}
		}
	}

	statusOK := httpResp.StatusCode >= 200 && httpResp.StatusCode < 300
	return &Response{
		OK:         statusOK && decoded["Errors"] == nil,
		StatusCode: httpResp.StatusCode,
		Body:       decoded,
		RawText:    text,
	}, nil
}

// Get fetches a single resource by ID, e.g. Get(ctx, "Users", "U123").
// The ID is validated before any path is built.
func (c *Client) Get(ctx context.Context, resource, id string) (*Response, error) {
	path, err := resourcePath(resource, id)
	if err != nil {
		return nil, err
	}
	return c.Request(ctx, http.MethodGet, path, nil, nil)
}

// List fetches a resource collection, e.g. List(ctx, "Groups", params).
func (c *Client) List(ctx context.Context, resource string, params url.Values) (*Response, error) {
	if _, err := identity.ValidateID(resource, "resource"); err != nil {
		return nil, err
	}
	return c.Request(ctx, http.MethodGet, resource, nil, params)
}

// Patch applies a partial update to a resource by ID.
func (c *Client) Patch(ctx context.Context, resource, id string, payload map[string]any) (*Response, error) {
	path, err := resourcePath(resource, id)
	if err != nil {
		return nil, err
	}
	return c.Request(ctx, http.MethodPatch, path, payload, nil)
}

// Delete removes a resource by ID.
func (c *Client) Delete(ctx context.Context, resource, id string) (*Response, error) {
	path, err := resourcePath(resource, id)
	if err != nil {
		return nil, err
	}
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// resourcePath joins a resource collection and an ID, validating both so
// nothing path-traversal-shaped reaches the URL.
func resourcePath(resource, id string) (string, error) {
	if _, err := identity.ValidateID(resource, "resource"); err != nil {
		return "", err
	}
	if _, err := identity.ValidateID(id, "id"); err != nil {
		return "", err
	}
	return resource + "/" + id, nil
}

// firstSegment extracts the leading path segment used for tier resolution.
func firstSegment(path string) string {
	trimmed := strings.Trim(path, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}
