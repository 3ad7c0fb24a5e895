// Package api is the gateway to the storefront backend. All business
// authority (inventory, pricing, payment capture, order persistence) lives
// behind its HTTP/JSON contract; this package injects the session credential,
// issues requests, and classifies failures into the faults taxonomy.
package api

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

	"craftfield.org/atelier-web/internal/platform/faults"
)

const defaultTimeout = 8 * time.Second

// TokenSource yields the bearer credential of the held principal, or empty
// when no principal is held.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenSourceFunc adapts ordinary functions to TokenSource.
type TokenSourceFunc func(ctx context.Context) string

// Token returns the credential produced by the wrapped function.
func (f TokenSourceFunc) Token(ctx context.Context) string { return f(ctx) }

// Client issues requests against the backend API under its /api base path.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
}

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport (tests).
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithTokenSource attaches the credential source consulted on every request.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

// NewClient constructs a backend client rooted at baseURL (e.g.
// "http://localhost:5000/api").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request and decodes a successful JSON body into out. Failures
// come back as *faults.Fault; the caller never sees a raw transport error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return faults.Transport(err)
	}
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return faults.Transport(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return faults.Transport(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token(ctx)); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return faults.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classify(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return faults.Transport(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// classify maps a failure response onto the closed fault taxonomy:
// 401/403 become auth faults, other 4xx carry the backend message verbatim,
// and everything else is a transport fault.
func classify(resp *http.Response) error {
	message := drainMessage(resp.Body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return faults.Auth(resp.StatusCode, message)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return faults.Business(resp.StatusCode, message)
	default:
		return faults.Transport(fmt.Errorf("backend status %d: %s", resp.StatusCode, message))
	}
}

// drainMessage extracts the backend's {"message": ...} payload, falling back
// to the raw (truncated) body.
func drainMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(raw))
}
