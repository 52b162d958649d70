// Package chatclient calls the relay's /api/chat endpoint on behalf of a
// front-end, keeping the relay's session cookie between calls.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"formchat/internal/types"
)

// NetworkError is any failure to get a successful reply from the relay.
// StatusCode is 0 when no HTTP response was received.
type NetworkError struct {
	StatusCode int
	Reply      string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("chatclient: relay unreachable: %v", e.Err)
	}
	return fmt.Sprintf("chatclient: relay returned %d: %s", e.StatusCode, e.Reply)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("chatclient: base url must not be empty")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("chatclient: cookie jar: %w", err)
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second, Jar: jar},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c, nil
}

// Send posts message to the relay and returns its reply.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(types.ChatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("chatclient: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chatclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	var out types.ChatResponse
	decErr := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&out)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", &NetworkError{StatusCode: res.StatusCode, Reply: out.Reply}
	}
	if decErr != nil {
		return "", &NetworkError{StatusCode: res.StatusCode, Err: fmt.Errorf("decode reply: %w", decErr)}
	}
	return out.Reply, nil
}
