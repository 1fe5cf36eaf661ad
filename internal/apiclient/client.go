// Package apiclient fetches the page-description envelope from the backend
// management endpoint. One call, no parameters, no auth.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/goline/ams/internal/types"
)

// managementPath is the single endpoint this client talks to.
const managementPath = "/products/management"

// Client fetches envelopes from a backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL. The default http.Client is
// deliberate: the fetch carries no timeout, a hang blocks only this flow
// and the caller's context can still cancel it.
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}}
}

// NewWithHTTPClient creates a client with a caller-supplied http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}

// FetchManagement retrieves and decodes the page-description envelope.
func (c *Client) FetchManagement(ctx context.Context) (*types.Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+managementPath, nil)
	if err != nil {
		return nil, fmt.Errorf("building management request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", managementPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", managementPath, resp.StatusCode)
	}

	var env types.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding management response: %w", err)
	}
	return &env, nil
}
