// Package objects provides the per-entity helpers (users, conversations,
// user groups, workspaces, IdP groups) built on top of the rate-governed
// dispatchers. Everything here is thin sequential glue: validate inputs,
// invoke the dispatcher, decode the result.
package objects

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"

	"github.com/mmercad0/slack-objects/pkg/logging"
	"github.com/mmercad0/slack-objects/pkg/ratelimit"
	"github.com/mmercad0/slack-objects/pkg/scim"
	"github.com/mmercad0/slack-objects/pkg/webapi"
)

// ErrSCIMNotConfigured is returned by helpers that need the SCIM API when
// the client was built without a SCIM token.
var ErrSCIMNotConfigured = errors.New("scim token not configured")

// Config holds everything the helper layer needs to talk to both API
// families.
type Config struct {
	// BotToken authenticates Web API calls. Required.
	BotToken string

	// ScimToken authenticates SCIM calls. Optional; SCIM-backed helpers
	// fail with ErrSCIMNotConfigured when absent.
	ScimToken string

	// WebBaseURL / ScimBaseURL / ScimVersion override the production
	// endpoints, mainly for tests.
	WebBaseURL  string
	ScimBaseURL string
	ScimVersion string

	// Policy overrides the default rate policy for both API families.
	Policy *ratelimit.Policy

	// HTTPClient customizes the underlying HTTP client.
	HTTPClient *http.Client

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// Client is the central factory: it owns the two dispatchers and hands out
// entity helpers sharing them.
type Client struct {
	api    *webapi.Client
	scim   *scim.Client
	logger zerolog.Logger
}

// New creates the helper client from configuration.
func New(cfg Config) (*Client, error) {
	api, err := webapi.New(webapi.Config{
		Token:      cfg.BotToken,
		BaseURL:    cfg.WebBaseURL,
		Policy:     cfg.Policy,
		HTTPClient: cfg.HTTPClient,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("web api client: %w", err)
	}

	var scimClient *scim.Client
	if cfg.ScimToken != "" {
		scimClient, err = scim.New(scim.Config{
			Token:      cfg.ScimToken,
			BaseURL:    cfg.ScimBaseURL,
			Version:    cfg.ScimVersion,
			Policy:     cfg.Policy,
			HTTPClient: cfg.HTTPClient,
			Logger:     cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("scim client: %w", err)
		}
	}

	return NewWithClients(api, scimClient, cfg.Logger), nil
}

// NewWithClients wires prebuilt dispatchers, for tests and callers that
// customize transports.
func NewWithClients(api *webapi.Client, scimClient *scim.Client, logger *zerolog.Logger) *Client {
	l := logging.NewLogger("objects")
	if logger != nil {
		l = *logger
	}
	return &Client{api: api, scim: scimClient, logger: l}
}

// Users returns the users helper.
func (c *Client) Users() *Users {
	return &Users{c: c}
}

// Conversations returns the conversations helper.
func (c *Client) Conversations() *Conversations {
	return &Conversations{c: c}
}

// Messages returns the messages helper.
func (c *Client) Messages() *Messages {
	return &Messages{c: c}
}

// Files returns the files helper.
func (c *Client) Files() *Files {
	return &Files{c: c}
}

// UserGroups returns the user groups helper.
func (c *Client) UserGroups() *UserGroups {
	return &UserGroups{c: c}
}

// Workspaces returns the workspaces helper.
func (c *Client) Workspaces() *Workspaces {
	return &Workspaces{c: c}
}

// IDPGroups returns the IdP (SCIM) groups helper.
func (c *Client) IDPGroups() *IDPGroups {
	return &IDPGroups{c: c}
}

// requireSCIM returns the SCIM client or ErrSCIMNotConfigured.
func (c *Client) requireSCIM() (*scim.Client, error) {
	if c.scim == nil {
		return nil, ErrSCIMNotConfigured
	}
	return c.scim, nil
}

// decode maps a decoded JSON value onto a typed struct.
func decode(in any, out any) error {
	return mapstructure.Decode(in, out)
}

// nextCursor extracts the pagination cursor from a Web API body. Most
// listing methods nest it under response_metadata; a few legacy ones put it
// at the top level.
func nextCursor(body map[string]any) string {
	if meta, ok := body["response_metadata"].(map[string]any); ok {
		if cursor, ok := meta["next_cursor"].(string); ok && cursor != "" {
			return cursor
		}
	}
	cursor, _ := body["next_cursor"].(string)
	return cursor
}

// asInt converts the number shapes encoding/json produces.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// stringList extracts a []string field from a decoded body.
func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
