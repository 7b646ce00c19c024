package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ManifestSource produces the version manifest for one stack.
type ManifestSource interface {
	Versions(ctx context.Context, organizationID, stackID string) (Manifest, error)
}

// Client fetches version manifests over HTTP from the gateway.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a gateway client. token may be empty when the gateway
// does not require authentication (local development).
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Versions fetches the manifest for one stack. Transport and HTTP errors
// propagate to the caller; the resolver's fallback handling only covers
// version strings, not gateway availability.
func (c *Client) Versions(ctx context.Context, organizationID, stackID string) (Manifest, error) {
	url := fmt.Sprintf("%s/api/%s/%s/versions", c.baseURL, organizationID, stackID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("build gateway request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Manifest{}, fmt.Errorf("gateway versions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Manifest{}, fmt.Errorf("gateway versions: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var manifest Manifest
	if err := json.NewDecoder(resp.Body).Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode gateway manifest: %w", err)
	}
	return manifest, nil
}
