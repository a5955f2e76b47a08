// Package chroma is a small client for the Chroma vector database's v2 HTTP
// API. It covers what the vector tour needs: collections, adding records and
// nearest neighbour queries with metadata filters.
package chroma

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("chroma: not found")

// Client is a wrapper to more easily make HTTP calls to a Chroma server
type Client struct {
	// URL is the base URL of the server, e.g. http://localhost:8000
	URL string
	// Tenant and Database scope every collection call
	Tenant   string
	Database string

	HTTPClient *http.Client
}

// New creates a new instance of a Client
func New(baseURL, tenant, database string) *Client {
	return &Client{
		URL:        strings.TrimRight(baseURL, "/"),
		Tenant:     tenant,
		Database:   database,
		HTTPClient: http.DefaultClient,
	}
}

// APIError carries the status and body of a failed request.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chroma: status %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Heartbeat checks that the server is up.
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.Request(ctx, http.MethodGet, "/api/v2/heartbeat", nil, nil)
}

func (c *Client) collectionsPath() string {
	return fmt.Sprintf("/api/v2/tenants/%s/databases/%s/collections",
		url.PathEscape(c.Tenant), url.PathEscape(c.Database))
}

// Request sends body as JSON and decodes the response into out when out
// is not nil.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL+endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}
