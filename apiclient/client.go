package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TokenSource supplies the current bearer token, if any. The session
// store satisfies this; requests pick up a freshly stored token without
// rebuilding the client.
type TokenSource interface {
	Token() string
}

// APIError is any non-success HTTP response. The client performs no
// retries; callers decide whether to surface the error or fall back to a
// full reload.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Body)
}

// Client issues REST calls against one backend base URL. All operations
// are relative to <base>/api.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
}

// New builds a client for the given base URL. tokens may be nil for
// anonymous use (the public boards work without a token).
func New(baseURL string, tokens TokenSource) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https, got %q", baseURL)
	}
	return &Client{
		base:   strings.TrimRight(u.String(), "/"),
		http:   &http.Client{},
		tokens: tokens,
	}, nil
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.base
}

// do issues one request and decodes the response body into out (when out
// is non-nil). body (when non-nil) is JSON-encoded. The bearer token is
// attached when present; tokens are never refreshed or validated here.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.base + "/api" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) postQuery(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodPost, path, query, nil, nil)
}

// The backend wraps some array payloads in a reference-tracking envelope:
//
//	{"$id": "1", "$values": [ ... ]}
//
// and returns bare arrays elsewhere. listPayload tolerates both, plus
// anything that is neither, which decodes as an empty sequence rather
// than an error.
type listPayload[T any] struct {
	items []T
}

func (p *listPayload[T]) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Values json.RawMessage `json:"$values"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Values != nil {
		data = envelope.Values
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		// Not an array after unwrapping; treat as empty.
		p.items = []T{}
		return nil
	}
	if items == nil {
		items = []T{}
	}
	p.items = items
	return nil
}

// getList fetches one collection endpoint and returns a plain ordered
// slice, never nil.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var payload listPayload[T]
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	if payload.items == nil {
		payload.items = []T{}
	}
	return payload.items, nil
}
