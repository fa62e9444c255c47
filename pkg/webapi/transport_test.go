package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmercad0/slack-objects/pkg/dispatch"
)

func TestHTTPTransportSendJSON(t *testing.T) {
	var gotAuth, gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)

		assert.Equal(t, "/users.info", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"user":{"id":"U123"}}`)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "xoxb-secret", nil)
	resp, err := transport.Send(context.Background(), "users.info", map[string]any{"user": "U123"}, StyleJSON)
	require.NoError(t, err)

	assert.Equal(t, "Bearer xoxb-secret", gotAuth)
	assert.Contains(t, gotContentType, "application/json")

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(gotBody), &sent))
	assert.Equal(t, "U123", sent["user"])

	assert.Equal(t, true, resp.Body["ok"])
}

func TestHTTPTransportSendForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "C42", r.PostForm.Get("channel"))
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "xoxb-secret", nil)
	_, err := transport.Send(context.Background(), "conversations.info", map[string]any{"channel": "C42"}, StyleForm)
	require.NoError(t, err)
}

func TestHTTPTransportThrottleSignal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "17")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "xoxb-secret", nil)
	_, err := transport.Send(context.Background(), "users.list", nil, StyleJSON)
	require.Error(t, err)

	var throttle *dispatch.ThrottleError
	require.True(t, errors.As(err, &throttle))
	assert.Equal(t, "users.list", throttle.Method)
	assert.Equal(t, "17", throttle.RetryAfter)
}

func TestHTTPTransportUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "xoxb-secret", nil)
	_, err := transport.Send(context.Background(), "users.list", nil, StyleJSON)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestHTTPTransportMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok": tru`)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, "xoxb-secret", nil)
	_, err := transport.Send(context.Background(), "users.list", nil, StyleJSON)
	require.Error(t, err)
}
