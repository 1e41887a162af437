package catalog

import (
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// browserHeaders make catalog requests look like an ordinary browser session;
// the catalog site applies naive bot-blocking to bare clients.
var browserHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// Fetcher retrieves one catalog page body. The walker depends on this
// interface so tests can drive it with synthetic page chains.
type Fetcher interface {
	FetchPage(pageUrl string) (string, error)
}

// HttpFetcher is the production Fetcher: plain sequential GETs with
// browser-like headers over a shared transport.
type HttpFetcher struct {
	client *http.Client
}

// NewHttpFetcher builds a fetcher around the given transport (which may be
// the logging-wrapped global transport) and timeout.
func NewHttpFetcher(transport http.RoundTripper, timeout time.Duration) *HttpFetcher {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HttpFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// FetchPage GETs one catalog page and returns its body as a string.
func (f *HttpFetcher) FetchPage(pageUrl string) (string, error) {
	req, err := http.NewRequest("GET", pageUrl, nil)
	if err != nil {
		return "", fmt.Errorf("error creating request for %s: %w", pageUrl, err)
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error fetching %s: %w", pageUrl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("Catalog fetch of %s returned status %d", pageUrl, resp.StatusCode)
		return "", fmt.Errorf("catalog fetch of %s: unexpected status %d", pageUrl, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading body of %s: %w", pageUrl, err)
	}
	return string(body), nil
}
