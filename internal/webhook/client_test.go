package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Normalize
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		text string
		key  string
	}{
		{`{"output":"Hola"}`, "Hola", "output"},
		{`{"foo":"bar"}`, FallbackReply, ""},
		{`{"text":"t","reply":"r","output":"o"}`, "o", "output"},
		{`{"text":"t","response":"r"}`, "r", "response"},
		{`{"message":"m","text":"t"}`, "m", "message"},
		{`{"output":"","reply":"second"}`, "second", "reply"},
		{`{"output":null,"reply":0,"message":false,"text":"last"}`, "last", "text"},
		{`{"output":42}`, "42", "output"},
		{`{"output":{"a":1}}`, `{"a":1}`, "output"},
		{`"just a string"`, "just a string", ""},
		{`[{"output":"inside array"}]`, FallbackReply, ""},
		{`null`, FallbackReply, ""},
		{`{"output":"primero","output":"segundo"}`, "segundo", "output"},
		{`{"output":"antes","output":""}`, FallbackReply, ""},
	}
	for _, tc := range cases {
		text, key, err := Normalize([]byte(tc.raw))
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.text, text, tc.raw)
		require.Equal(t, tc.key, key, tc.raw)
	}
}

func TestNormalize_Malformed(t *testing.T) {
	for _, raw := range []string{``, `not-json`, `{"output":`} {
		_, _, err := Normalize([]byte(raw))
		require.ErrorIs(t, err, ErrMalformedReply, raw)
	}
}

// ---------------------------------------------------------------------------
// NewClient
// ---------------------------------------------------------------------------

func TestNewClient_EmptyURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty")
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(" https://example.com/hook ")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/hook", c.URL())
	require.Equal(t, defaultTimeout, c.httpClient.Timeout)

	c, err = NewClient("https://example.com/hook", WithTimeout(3*time.Second))
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, c.httpClient.Timeout)
}

// ---------------------------------------------------------------------------
// Client.Send
// ---------------------------------------------------------------------------

func TestClient_Send_HappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body sendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "usuario-1", body.User)
		require.Equal(t, "Ana", body.Message)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":"Hola Ana"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	raw, err := c.Send(context.Background(), "usuario-1", "Ana")
	require.NoError(t, err)
	require.JSONEq(t, `{"output":"Hola Ana"}`, string(raw))
}

func TestClient_Send_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`workflow failed`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = c.Send(context.Background(), "u", "m")
	require.Error(t, err)

	var statusErr *HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusBadGateway, statusErr.HTTPStatusCode())
	require.Equal(t, "workflow failed", statusErr.Body)
	require.Contains(t, err.Error(), "unexpected status 502")
}

func TestClient_Send_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	_, err = c.Send(context.Background(), "u", "m")
	require.Error(t, err)
	require.Contains(t, err.Error(), "request failed")
}

func TestClient_Send_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Send(ctx, "u", "m")
	require.ErrorIs(t, err, context.Canceled)
}
