package pdf

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client converts documents through a remote rendering service exposing the
// POST /convert API. Used when PDF generation runs as its own deployment.
type Client struct {
	client *resty.Client
}

var _ Converter = (*Client)(nil)

// NewClient creates a client for the rendering service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{client: client}
}

type convertRequest struct {
	HTML string `json:"html"`
	Options
}

type convertURLRequest struct {
	URL string `json:"url"`
	URLOptions
}

type convertResponse struct {
	PDFBase64    string `json:"pdf_base64"`
	SizeBytes    int    `json:"size_bytes"`
	RenderTimeMS int64  `json:"render_time_ms"`
}

// Convert sends the HTML to the rendering service and decodes the returned
// document.
func (c *Client) Convert(ctx context.Context, html string, opts Options) (*Result, error) {
	return c.post(ctx, "/convert", &convertRequest{HTML: html, Options: opts})
}

// ConvertURL asks the rendering service to print a live page.
func (c *Client) ConvertURL(ctx context.Context, pageURL string, opts URLOptions) (*Result, error) {
	return c.post(ctx, "/convert/url", &convertURLRequest{URL: pageURL, URLOptions: opts})
}

func (c *Client) post(ctx context.Context, path string, body any) (*Result, error) {
	var result convertResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("pdf service request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("pdf service returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	pdf, err := base64.StdEncoding.DecodeString(result.PDFBase64)
	if err != nil {
		return nil, fmt.Errorf("pdf service returned invalid base64: %w", err)
	}
	return &Result{PDF: pdf, RenderTimeMS: result.RenderTimeMS}, nil
}
