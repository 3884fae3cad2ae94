// Package client is a typed HTTP client for the inventory API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/inventory-api/internal/dto"
	"github.com/noah-isme/inventory-api/internal/models"
	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// Client talks to a running inventory API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New builds a client for the server at baseURL. A bare host:port is
// treated as http.
func New(baseURL string, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, fmt.Errorf("server address is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("server address %q has no host", baseURL)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List returns every item in the catalogue.
func (c *Client) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := c.do(ctx, http.MethodGet, "/api/inventory", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns a single item.
func (c *Client) Get(ctx context.Context, id int) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.do(ctx, http.MethodGet, "/api/inventory/"+strconv.Itoa(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create adds an item and returns it as stored by the server.
func (c *Client) Create(ctx context.Context, req dto.CreateInventoryItemRequest) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.do(ctx, http.MethodPost, "/api/inventory", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Version returns build information.
func (c *Client) Version(ctx context.Context) (*dto.VersionResponse, error) {
	var resp dto.VersionResponse
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfigStatus reports whether the remote secret store is configured.
func (c *Client) ConfigStatus(ctx context.Context) (*dto.ConfigStatusResponse, error) {
	var resp dto.ConfigStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/config/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := *c.baseURL
	target.Path += path
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorPayload covers both the client error body and the problem document.
type errorPayload struct {
	Error   string                     `json:"error"`
	Title   string                     `json:"title"`
	Code    string                     `json:"code"`
	Details []appErrors.FieldViolation `json:"details"`
}

// decodeError turns a failed response into a typed *errors.Error so callers
// can match it against the shared sentinels.
func decodeError(status int, raw []byte) error {
	var payload errorPayload
	_ = json.Unmarshal(raw, &payload)

	message := payload.Error
	if message == "" {
		message = payload.Title
	}
	if message == "" {
		message = http.StatusText(status)
	}
	code := payload.Code
	if code == "" {
		code = fmt.Sprintf("HTTP_%d", status)
	}
	appErr := appErrors.New(code, status, message)
	appErr.Violations = payload.Details
	return appErr
}
