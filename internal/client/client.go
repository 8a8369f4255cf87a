// Package client is a typed HTTP client for the drive API.
//
// Besides one method per route it carries the orchestration a UI needs:
// concurrent batch uploads with per-file progress, fail-fast view loading,
// and bulk restore. Requests are never retried.
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
	"strconv"
	"strings"
	"sync"
	"time"

	models "drive/internal/domain/models/drive"
)

// Client talks to one drive API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.RWMutex
	authToken string
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	AuthToken  string
	Timeout    time.Duration // zero means no client-side timeout
	HTTPClient *http.Client  // overrides Timeout when set
	Logger     *slog.Logger
}

// New creates a new client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		authToken:  cfg.AuthToken,
	}
}

// SetAuthToken sets the bearer token for subsequent requests.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

func (c *Client) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, method+" "+path, out)
}

// send executes req and maps the response onto out or an error.
func (c *Client) send(req *http.Request, op string, out interface{}) error {
	c.applyAuth(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("drive api call",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// listQuery encodes paging and search, omitting unset values.
func listQuery(opts models.ListOptions) url.Values {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	return q
}

func withFolder(q url.Values, key string, folderID *string) url.Values {
	if folderID != nil && *folderID != "" {
		q.Set(key, *folderID)
	}
	return q
}
