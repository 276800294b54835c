// Package feed implements the HTTP client for the external notification
// source the reconciliation engine consumes.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"assettrack/internal/domain/reconcile"
)

// Client fetches raw records from the notification feed.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a feed client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch implements reconcile.Feed. Transport errors and non-2xx statuses
// surface as errors; the sync run aborts entirely on either.
func (c *Client) Fetch(ctx context.Context) ([]*reconcile.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var records []*reconcile.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return records, nil
}
