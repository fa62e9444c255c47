// Package webapi provides the rate-governed dispatcher for the Slack Web
// API. Each call resolves its pacing tier, runs under the shared
// throttle-retry loop, and returns the decoded response body once the
// envelope reports ok=true.
package webapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/mmercad0/slack-objects/pkg/dispatch"
	"github.com/mmercad0/slack-objects/pkg/logging"
	"github.com/mmercad0/slack-objects/pkg/ratelimit"
)

// DefaultBaseURL is the production Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// Prometheus metrics for Web API calls.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slack_webapi_requests_total",
		Help: "Total Web API calls by method and outcome",
	}, []string{"method", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slack_webapi_request_duration_seconds",
		Help:    "Web API call duration in seconds by method, including waits",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 120},
	}, []string{"method"})
)

// Config holds the Web API client configuration.
type Config struct {
	// Token is the bearer token for the Authorization header.
	// Required unless a custom Transport is supplied.
	Token string

	// BaseURL overrides the API root (defaults to DefaultBaseURL).
	BaseURL string

	// Policy resolves method names to pacing tiers.
	// Zero value means ratelimit.DefaultPolicy().
	Policy *ratelimit.Policy

	// Transport replaces the HTTP transport, for tests.
	Transport Transport

	// HTTPClient customizes the underlying HTTP client when the default
	// transport is used.
	HTTPClient *http.Client

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// Client dispatches Web API calls. Safe for concurrent use; each call owns
// its own retry state.
type Client struct {
	transport Transport
	policy    ratelimit.Policy
	logger    zerolog.Logger
}

// New creates a Web API client.
func New(cfg Config) (*Client, error) {
	transport := cfg.Transport
	if transport == nil {
		if cfg.Token == "" {
			return nil, fmt.Errorf("token is required")
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultBaseURL
		}
		transport = NewHTTPTransport(baseURL, cfg.Token, cfg.HTTPClient)
	}

	policy := ratelimit.DefaultPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	logger := logging.NewLogger("webapi")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Client{
		transport: transport,
		policy:    policy,
		logger:    logger,
	}, nil
}

// callOptions carries per-call overrides.
type callOptions struct {
	tier  *ratelimit.Tier
	style Style
}

// CallOption customizes a single Call.
type CallOption func(*callOptions)

// WithTier overrides the pacing tier the policy would resolve for the method.
func WithTier(tier ratelimit.Tier) CallOption {
	return func(o *callOptions) {
		o.tier = &tier
	}
}

// WithStyle selects the request body encoding for all attempts of the call.
func WithStyle(style Style) CallOption {
	return func(o *callOptions) {
		o.style = style
	}
}

// Call invokes one Web API method and returns the decoded body.
//
// Throttling is retried transparently up to the dispatch budget, then
// surfaced as dispatch.ThrottleExhaustedError. Transport failures propagate
// unchanged. An ok=false envelope is returned as *APIError.
func (c *Client) Call(ctx context.Context, method string, args map[string]any, opts ...CallOption) (map[string]any, error) {
	options := callOptions{style: StyleJSON}
	for _, opt := range opts {
		opt(&options)
	}

	tier := c.policy.Resolve(method)
	if options.tier != nil {
		tier = *options.tier
	}

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()

	var body map[string]any
	err := dispatch.Do(ctx, c.logger, method, tier.Duration(), func(ctx context.Context) error {
		resp, sendErr := c.transport.Send(ctx, method, args, options.style)
		if sendErr != nil {
			return sendErr
		}
		body = resp.Body
		return nil
	})
	if err != nil {
		requestsTotal.WithLabelValues(method, "error").Inc()
		return nil, err
	}

	if ok, _ := body["ok"].(bool); !ok {
		code, _ := body["error"].(string)
		requestsTotal.WithLabelValues(method, "not_ok").Inc()
		c.logger.Warn().
			Str("method", method).
			Str("error_code", code).
			Msg("Web API envelope not ok")
		return nil, &APIError{Method: method, Code: code, Body: body}
	}

	requestsTotal.WithLabelValues(method, "ok").Inc()
	return body, nil
}

// Policy returns the client's rate policy, for callers that resolve tiers
// themselves.
func (c *Client) Policy() ratelimit.Policy {
	return c.policy
}
