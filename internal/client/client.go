package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/session"
	"token-rush-go/internal/store"

	"go.uber.org/zap"
)

// ErrUnauthorized is returned for every 401 after the unauthorized hook has run
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer from the game API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the game API the way a browser would: cookies in a jar,
// the CSRF token echoed in a header and the API's own origin on every
// state-changing request.
type Client struct {
	baseURL        *url.URL
	origin         string
	httpClient     *http.Client
	users          store.UserStore
	onUnauthorized func()
}

type Option func(*Client)

// WithOnUnauthorized registers the hook fired whenever the API answers 401
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func New(baseURL string, timeout time.Duration, users store.UserStore, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}

	c := &Client{
		baseURL: parsed,
		origin:  parsed.Scheme + "://" + parsed.Host,
		users:   users,
	}
	for _, opt := range opts {
		opt(c)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create cookie jar: %w", err)
	}
	c.httpClient = &http.Client{Timeout: timeout, Jar: jar}

	return c, nil
}

// csrfToken prefers the readable CSRF cookie, falling back to the token
// cached with the stored user.
func (c *Client) csrfToken(ctx context.Context) string {
	for _, cookie := range c.httpClient.Jar.Cookies(c.baseURL) {
		if cookie.Name == session.CSRFCookieName && cookie.Value != "" {
			return cookie.Value
		}
	}
	if user, err := c.users.GetCurrentUser(ctx); err == nil {
		return user.CsrfToken
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("unable to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("Origin", c.origin)
		if token := c.csrfToken(ctx); token != "" {
			req.Header.Set(session.CSRFHeaderName, token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		zap.L().Debug("API answered unauthorized", zap.String("path", path))
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return resp, fmt.Errorf("%w: %s", ErrUnauthorized, errorMessage(data))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp, fmt.Errorf("unable to decode response: %w", err)
		}
	}
	return resp, nil
}

func errorMessage(data []byte) string {
	var body models.ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}
