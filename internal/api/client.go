// Package api talks to the archive lookup service and carries the HTTP
// plumbing (transport-level request logging) shared by all outbound calls.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-channel-archiver/internal/models"
)

// Custom Error Types
var (
	ErrLookupNotFound    = errors.New("lookup service has no record of this video")
	ErrLookupRateLimited = errors.New("lookup service rate limit exceeded")
	ErrLookupServer      = errors.New("lookup service server error")
)

// Client queries the archive lookup service. One lookup per video, one
// attempt per lookup: a failed request is the caller's signal to move on,
// never to retry the same request.
type Client struct {
	BaseUrl    string
	Version    string
	HttpClient *http.Client
}

// NewClient creates a lookup client. A nil httpClient gets a default with a
// 30 second timeout.
func NewClient(baseUrl, version string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		BaseUrl:    baseUrl,
		Version:    version,
		HttpClient: httpClient,
	}
}

// Lookup asks the service what archives hold videoID, requesting the verbose
// response variant. The raw body is preserved on the response for the
// per-video metadata record.
func (c *Client) Lookup(videoID string) (models.LookupResponse, error) {
	var lookup models.LookupResponse

	apiUrl := fmt.Sprintf("%s/api/%s/%s?includeRaw=true", c.BaseUrl, c.Version, videoID)
	resp, err := c.HttpClient.Get(apiUrl)
	if err != nil {
		return lookup, fmt.Errorf("error contacting lookup service for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return lookup, fmt.Errorf("lookup for %s: %w", videoID, ErrLookupNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return lookup, fmt.Errorf("lookup for %s: %w", videoID, ErrLookupRateLimited)
	case resp.StatusCode >= 500:
		return lookup, fmt.Errorf("lookup for %s (status %d): %w", videoID, resp.StatusCode, ErrLookupServer)
	case resp.StatusCode != http.StatusOK:
		return lookup, fmt.Errorf("lookup for %s: unexpected status %d", videoID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return lookup, fmt.Errorf("error reading lookup response for %s: %w", videoID, err)
	}

	if err := json.Unmarshal(body, &lookup); err != nil {
		return lookup, fmt.Errorf("error decoding lookup response for %s: %w", videoID, err)
	}
	lookup.Raw = json.RawMessage(body)

	return lookup, nil
}
