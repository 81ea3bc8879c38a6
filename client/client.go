// Package client is the Go SDK for the CSX Hub API. It wraps the HTTP
// surface with a cookie-backed session, transparent CSRF handling, an
// auth-state tracker with bootstrap semantics, and an accumulating
// pager for the blog feed.
package client

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
	"time"
)

const defaultTimeout = 10 * time.Second

// csrfCookieName mirrors the server's double-submit cookie.
const (
	csrfCookieName = "csx_csrf"
	csrfHeaderName = "X-CSRF-Token"
)

// APIError is a non-2xx response from the server, carrying the decoded
// error message when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == status
}

// Client talks to one CSX Hub server. Sessions live in the cookie jar,
// so a single Client represents a single member (or anonymous caller).
// Auth state is tracked per client, never globally.
type Client struct {
	http    *http.Client
	baseURL string
	auth    *AuthState
}

// New creates a client for the given base URL (scheme and host, no
// trailing slash required).
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: cookie jar: %w", err)
	}
	return &Client{
		http: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    NewAuthState(),
	}, nil
}

// Auth returns the client's auth-state tracker.
func (c *Client) Auth() *AuthState {
	return c.auth
}

// do performs one JSON request. A nil body sends no payload; a non-nil
// out decodes the response body into it. State-changing methods carry
// the CSRF token, priming it with a cheap read first if needed.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if method != http.MethodGet && method != http.MethodHead {
		token, err := c.csrfToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set(csrfHeaderName, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody.Error
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
	}
	return nil
}

// csrfToken returns the double-submit token from the cookie jar,
// fetching a public page first when the jar is still empty.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	if token := c.jarToken(); token != "" {
		return token, nil
	}

	// Any /api GET sets the cookie; the feed is the cheapest.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/blogs?limit=1", nil)
	if err != nil {
		return "", fmt.Errorf("client: build csrf prime request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("client: prime csrf token: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	token := c.jarToken()
	if token == "" {
		return "", fmt.Errorf("client: server did not issue a csrf token")
	}
	return token, nil
}

func (c *Client) jarToken() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}
