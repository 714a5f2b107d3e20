// internal/gsheets/client.go
package gsheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/lumenbio/labsite/internal/errors"
)

const defaultBaseURL = "https://docs.google.com/spreadsheets/d"

// Client fetches public spreadsheet exports. Both endpoints are
// unauthenticated; the worksheet is addressed by gid, or by sheet name for
// the gviz endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a sheet export client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// FetchGViz retrieves and parses the gviz query export of one worksheet.
// A non-2xx response is an upstream error; a parse problem is an empty row
// set, so the caller can tell "sheet unreachable" from "sheet empty" and
// fall back either way.
func (c *Client) FetchGViz(ctx context.Context, sheetID, gid, sheetName string) ([]Row, error) {
	endpoint := fmt.Sprintf("%s/%s/gviz/tq?tqx=out:json", c.baseURL, url.PathEscape(sheetID))
	if gid != "" {
		endpoint += "&gid=" + url.QueryEscape(gid)
	} else if sheetName != "" {
		endpoint += "&sheet=" + url.QueryEscape(sheetName)
	}

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return ParseGViz(body), nil
}

// FetchCSV retrieves and parses the CSV export of one worksheet.
func (c *Client) FetchCSV(ctx context.Context, sheetID, gid string) ([]Row, error) {
	if gid == "" {
		gid = "0"
	}
	endpoint := fmt.Sprintf("%s/%s/export?format=csv&gid=%s",
		c.baseURL, url.PathEscape(sheetID), url.QueryEscape(gid))

	body, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return ParseCSV(body), nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewUpstreamError("sheet fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewUpstreamError("sheet fetch failed",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewUpstreamError("sheet read failed", err)
	}
	return string(body), nil
}
