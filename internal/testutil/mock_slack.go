// Package testutil provides a configurable mock Slack server covering the
// Web API and SCIM API shapes the dispatchers expect.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// MockResponse defines the behavior of one mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// MockSlack is a configurable mock Slack server. Web API methods live under
// /api/<method>, SCIM resources under /scim/<version>/<path>.
type MockSlack struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	requestCount      int
	lastRequestHeader http.Header
}

// NewMockSlack creates a mock server. Unconfigured paths answer with a
// minimal ok envelope.
func NewMockSlack() *MockSlack {
	mock := &MockSlack{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.lastRequestHeader = r.Header.Clone()
		handler := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if handler != nil {
			handler(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"ok": true}`))
	}))

	return mock
}

// WebURL returns the base URL for Web API calls.
func (m *MockSlack) WebURL() string {
	return m.server.URL + "/api"
}

// SCIMURL returns the root URL for SCIM calls.
func (m *MockSlack) SCIMURL() string {
	return m.server.URL + "/scim"
}

// Close shuts down the mock server.
func (m *MockSlack) Close() {
	m.server.Close()
}

// Reset clears tracking state.
func (m *MockSlack) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.lastRequestHeader = nil
}

// SetHandler sets a custom handler for a path.
func (m *MockSlack) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetWebMethod configures the response of one Web API method.
func (m *MockSlack) SetWebMethod(method string, resp MockResponse) {
	m.SetHandler("/api/"+method, respond(resp))
}

// SetSCIMPath configures the response of one SCIM path, e.g. "v2/Users/U1".
func (m *MockSlack) SetSCIMPath(path string, resp MockResponse) {
	m.SetHandler("/scim/"+path, respond(resp))
}

// SetThrottleThenOK makes a path answer 429 with a Retry-After hint for the
// first n requests, then serve okBody.
func (m *MockSlack) SetThrottleThenOK(path string, n int, retryAfter string, okBody string) {
	var mu sync.Mutex
	remaining := n

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		throttled := remaining > 0
		if throttled {
			remaining--
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if throttled {
			w.Header().Set("Retry-After", retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok": false, "error": "ratelimited"}`))
			return
		}
		w.Write([]byte(okBody))
	})
}

// RequestCount returns the number of requests served.
func (m *MockSlack) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockSlack) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestHeader
}

func respond(resp MockResponse) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if resp.StatusCode != 0 {
			w.WriteHeader(resp.StatusCode)
		}
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}
}

// OKResponse creates a 200 Web API envelope carrying extra body text merged
// into the ok field, e.g. `"user": {"id": "U1"}`.
func OKResponse(fields string) MockResponse {
	body := `{"ok": true}`
	if fields != "" {
		body = `{"ok": true, ` + fields + `}`
	}
	return MockResponse{StatusCode: http.StatusOK, Body: body}
}

// ErrorResponse creates a 200 envelope with ok=false and an error code.
func ErrorResponse(code string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"ok": false, "error": ` + strconv.Quote(code) + `}`,
	}
}

// RateLimitResponse creates a 429 with the given Retry-After hint.
func RateLimitResponse(retryAfterSeconds int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"ok": false, "error": "ratelimited"}`,
		Headers:    map[string]string{"Retry-After": strconv.Itoa(retryAfterSeconds)},
	}
}

// ServerErrorResponse creates a 500 Internal Server Error response.
func ServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"ok": false, "error": "internal_error"}`,
	}
}
