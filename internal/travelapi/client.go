// Package travelapi provides a client for the trip planning and insight HTTP API.
package travelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "github.com/theirongolddev/tripmeter/1.0"
)

var (
	// ErrUnauthorized indicates the bearer token is missing, expired or invalid.
	ErrUnauthorized = errors.New("travelapi: unauthorized (token expired or invalid)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("travelapi: rate limited")
	// ErrInsightUnavailable indicates the service could not produce an insight.
	ErrInsightUnavailable = errors.New("travelapi: insight unavailable")
)

// Client talks to the planner, insight, chat and media endpoints.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for the API at baseURL.
// Returns nil if baseURL is empty or not an http(s) URL.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(token),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasToken reports whether requests carry a bearer token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Chat sends one message to the travel assistant.
func (c *Client) Chat(ctx context.Context, message, chatContext string) (string, error) {
	var resp ChatResponse
	err := c.do(ctx, http.MethodPost, "/api/ai/chat", ChatRequest{Message: message, Context: chatContext}, &resp)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Response), nil
}

// Videos searches for destination video tours. An empty result is not an error.
func (c *Client) Videos(ctx context.Context, query string) ([]Video, error) {
	var resp VideoResponse
	if err := c.do(ctx, http.MethodPost, "/api/media/videos", VideoRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	videos := resp.Videos[:0]
	for _, v := range resp.Videos {
		if v.ID == "" {
			continue
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// do performs one JSON request. A nil in sends no body; a nil out discards
// the response.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("travelapi: encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("travelapi: creating request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("travelapi: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("travelapi: unexpected status %d from %s", resp.StatusCode, path)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("travelapi: reading response: %w", err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("travelapi: parsing %s response: %w", path, err)
	}
	return nil
}
