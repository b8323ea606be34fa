package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodySize caps metadata responses. oEmbed documents are a few hundred bytes.
const maxBodySize = 1 << 20

// DefaultOEmbedEndpoint is YouTube's public oEmbed service.
const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

// Client fetches small metadata documents for the download strategies.
//
// Client provides:
//   - Configured User-Agent header
//   - Timeout handling
//   - Bounded JSON decoding
//
// Example usage:
//
//	client := NewClient()
//	title, err := client.VideoTitle(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
type Client struct {
	httpClient *http.Client
	userAgent  string

	// OEmbedEndpoint is the oEmbed service queried by VideoTitle.
	OEmbedEndpoint string
}

// NewClient creates a client with a 60 second timeout and the "stemline"
// User-Agent.
func NewClient() *Client {
	return &Client{
		httpClient:     &http.Client{Timeout: 60 * time.Second},
		userAgent:      "stemline",
		OEmbedEndpoint: DefaultOEmbedEndpoint,
	}
}

// fetch issues a GET and returns at most maxBodySize bytes of a 200 response.
func (c *Client) fetch(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.fetch(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
