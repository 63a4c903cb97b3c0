// Package media talks to the external blob store holding post images, videos
// and profile pictures. The store is opaque: upload a payload, get back a URL;
// destroy by the public ID derived from that URL.
package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"resty.dev/v3"
)

// Client is the blob-store HTTP client. A client with no base URL is a no-op
// passthrough so local development works without a configured store.
type Client struct {
	http    *resty.Client
	baseURL string
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// NewClient creates a blob-store client
func NewClient(baseURL, apiKey string) *Client {
	httpClient := resty.New()
	if apiKey != "" {
		httpClient.SetAuthToken(apiKey)
	}
	return &Client{http: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload sends the payload (a data URI or raw base64 body) to the store and
// returns the hosted URL. With no store configured it returns the payload
// unchanged.
func (c *Client) Upload(ctx context.Context, payload, folder string) (string, error) {
	if c.baseURL == "" {
		return payload, nil
	}

	var out uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"file":   payload,
			"folder": folder,
		}).
		SetResult(&out).
		Post(c.baseURL + "/upload")
	if err != nil {
		return "", fmt.Errorf("blob upload: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("blob upload: status %d", resp.StatusCode())
	}
	return out.SecureURL, nil
}

// Destroy removes a blob by public ID. Best-effort: callers log the error and
// move on, deletion failures are not surfaced to the user.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if c.baseURL == "" || publicID == "" {
		return nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"public_id": publicID}).
		Post(c.baseURL + "/destroy")
	if err != nil {
		return fmt.Errorf("blob destroy: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("blob destroy: status %d", resp.StatusCode())
	}
	return nil
}

// PublicIDFromURL derives the store's public ID from a hosted URL: the last
// path segment without its extension.
func PublicIDFromURL(url string) string {
	base := path.Base(url)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
