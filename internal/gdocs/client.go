// internal/gdocs/client.go
package gdocs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	apperrors "github.com/lumenbio/labsite/internal/errors"
)

const defaultBaseURL = "https://docs.googleapis.com/v1/documents"

// Fetcher performs an authorized GET and returns body and Content-Type.
// Satisfied by *gauth.Credentials.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Client reads document structure from the Google Docs API.
type Client struct {
	fetcher Fetcher
	baseURL string
}

// NewClient creates a Docs client on top of an authorized fetcher.
func NewClient(fetcher Fetcher) *Client {
	return &Client{
		fetcher: fetcher,
		baseURL: defaultBaseURL,
	}
}

// GetDocument fetches and decodes one document by ID.
func (c *Client) GetDocument(ctx context.Context, docID string) (*Document, error) {
	if docID == "" {
		return nil, apperrors.NewConfigError("no document ID provided", nil)
	}

	body, _, err := c.fetcher.Get(ctx, fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(docID)))
	if err != nil {
		return nil, apperrors.WrapError(err, "document fetch failed", apperrors.ErrorTypeUpstream)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.NewParseError("document body is not valid JSON", err)
	}
	return &doc, nil
}

// FetchImage retrieves the binary content behind a per-image content URI.
// Content URIs are short-lived and already carry their own access scoping,
// but still require the credential.
func (c *Client) FetchImage(ctx context.Context, contentURI string) ([]byte, string, error) {
	return c.fetcher.Get(ctx, contentURI)
}
