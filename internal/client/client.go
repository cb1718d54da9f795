// Package client is the typed HTTP client for the Anvaya API.
//
// Every call goes through one core (Client.do) that:
//
//   - resolves the path against the configured base URL
//   - attaches "Authorization: Bearer <token>" when the session store holds a token
//   - on a 401 response clears the stored token and fires the
//     session-invalidated hook before returning the error
//   - normalizes every failure into an *apierr.Error
//
// The client never retries and never caches. Each method is one round trip.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anvaya-club/anvaya/internal/apierr"
)

const (
	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8000"

	requestTimeout   = 30 * time.Second
	defaultUserAgent = "anvaya-client/1.0"
	jsonContentType  = "application/json"
	maxErrorBody     = 1 << 20
)

// Client talks to the Anvaya REST API.
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	store         SessionStore
	onInvalidated func(ctx context.Context)
	logger        *slog.Logger
	userAgent     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is left
// as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithSessionStore sets where the auth token and username are persisted.
// The default is a fresh MemoryStore.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

// WithSessionInvalidatedHook registers fn to run after a 401 response has
// cleared the stored token. The hosting application decides what to do
// with it, e.g. send the user back to a login screen.
func WithSessionInvalidatedHook(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onInvalidated = fn
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		store:     NewMemoryStore(),
		logger:    slog.New(slog.DiscardHandler),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url: missing host in %q", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// resolve joins path segments onto the base URL. Each segment is
// percent-encoded on its own, so a slug containing "/" stays one segment.
func (c *Client) resolve(query url.Values, segments ...string) *url.URL {
	u := *c.baseURL
	plain := strings.TrimSuffix(c.baseURL.Path, "/")
	escaped := strings.TrimSuffix(c.baseURL.EscapedPath(), "/")
	for _, seg := range segments {
		plain += "/" + seg
		escaped += "/" + url.PathEscape(seg)
	}
	u.Path = plain
	u.RawPath = escaped
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

// request describes one API call.
type request struct {
	method      string
	url         *url.URL
	body        io.Reader
	contentType string
}

func (c *Client) getJSON(ctx context.Context, u *url.URL, out any) error {
	return c.do(ctx, request{method: http.MethodGet, url: u}, out)
}

func (c *Client) sendJSON(ctx context.Context, method string, u *url.URL, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return apierr.Normalize(fmt.Errorf("encode request: %w", err))
	}
	return c.do(ctx, request{method: method, url: u, body: bytes.NewReader(payload)}, out)
}

// do performs the call and decodes a successful JSON body into out (if out
// is non-nil). The returned error, if any, is always an *apierr.Error.
func (c *Client) do(ctx context.Context, r request, out any) error {
	if c == nil {
		return apierr.Normalize(fmt.Errorf("client is nil"))
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url.String(), r.body)
	if err != nil {
		return apierr.Normalize(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", jsonContentType)
	req.Header.Set("User-Agent", c.userAgent)
	contentType := r.contentType
	if contentType == "" {
		contentType = jsonContentType
	}
	req.Header.Set("Content-Type", contentType)

	token, ok, err := c.store.Get(AuthTokenKey)
	if err != nil {
		return apierr.Normalize(fmt.Errorf("read session: %w", err))
	}
	if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api.request",
			slog.String("method", r.method),
			slog.String("path", r.url.Path),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return apierr.Normalize(&apierr.TransportError{Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "api.request",
		slog.String("method", r.method),
		slog.String("path", r.url.Path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateSession(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apierr.FromResponse(resp.StatusCode, body)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apierr.Normalize(fmt.Errorf("decode %s %s: %w", r.method, r.url.Path, err))
	}
	return nil
}

// invalidateSession clears the token and notifies the host. The username is
// kept so a login prompt can prefill it.
func (c *Client) invalidateSession(ctx context.Context) {
	if err := c.store.Delete(AuthTokenKey); err != nil {
		c.logger.ErrorContext(ctx, "clear auth token", slog.String("error", err.Error()))
	}
	c.logger.WarnContext(ctx, "session invalidated by server")
	if c.onInvalidated != nil {
		c.onInvalidated(ctx)
	}
}
