package webapi

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

	"github.com/mmercad0/slack-objects/pkg/dispatch"
)

// Style selects the request body encoding. Whichever style the first attempt
// of a call uses is preserved verbatim across its retries; switching
// encodings mid-retry can silently change which fields the API accepts.
type Style string

const (
	// StyleJSON encodes arguments as a JSON object body.
	StyleJSON Style = "json"

	// StyleForm encodes arguments as application/x-www-form-urlencoded.
	StyleForm Style = "form"
)

// Response carries the decoded JSON body of one Web API call.
type Response struct {
	Body map[string]any
}

// Transport performs the actual network call for one Web API method.
// Implementations return *dispatch.ThrottleError when the server signals
// throttling and any other error for hard failures. Timeouts are the
// transport's responsibility.
type Transport interface {
	Send(ctx context.Context, method string, args map[string]any, style Style) (*Response, error)
}

// HTTPTransport is the production Transport over net/http.
type HTTPTransport struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPTransport builds a transport posting to baseURL/<method> with the
// given bearer token. A nil httpClient gets a 30s-timeout default.
func NewHTTPTransport(baseURL, token string, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  httpClient,
	}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, method string, args map[string]any, style Style) (*Response, error) {
	body, contentType, err := encodeArgs(args, style)
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/"+method, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, &dispatch.ThrottleError{
			Method:     method,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, StatusCode: resp.StatusCode}
	}

	decoded := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", method, err)
		}
	}

	return &Response{Body: decoded}, nil
}

// encodeArgs serializes call arguments for the requested style.
func encodeArgs(args map[string]any, style Style) (io.Reader, string, error) {
	switch style {
	case StyleForm:
		form := url.Values{}
		for key, value := range args {
			form.Set(key, fmt.Sprint(value))
		}
		return strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil
	case StyleJSON, "":
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(raw), "application/json; charset=utf-8", nil
	default:
		return nil, "", fmt.Errorf("unknown serialization style %q", style)
	}
}
