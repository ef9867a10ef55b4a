// Package transport provides the HTTP collaborator the carrier adapters
// post through, plus the recorder hook that captures raw exchanges.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a carrier reply is read. Label images
// are the largest payloads and stay well under this.
const maxResponseBytes = 8 << 20

// Client implements ports.Transport over net/http. Safe for concurrent use.
type Client struct {
	http *http.Client
}

// NewClient builds a Client. A non-positive timeout falls back to the
// default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Post submits an XML payload and returns the response body. Any non-2xx
// status is a transport failure; carrier-level failures arrive inside 200
// bodies and are not this layer's concern.
func (c *Client) Post(ctx context.Context, url string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return out, nil
}
