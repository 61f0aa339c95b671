// Package render talks to the external HTML-to-PDF service (headless
// Chromium behind an HTTP endpoint). The core's responsibility ends at the
// HTML document; everything past this client is the collaborator's problem.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRenderFailed marks any failure to obtain a PDF from the rendering
// service, including timeouts. Callers must surface it, never substitute an
// empty document.
var ErrRenderFailed = errors.New("pdf rendering failed")

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a renderer client with an explicit request timeout. The
// renderer is the one collaborator slow enough to need one.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// RenderPDF posts a self-contained HTML document and returns the PDF bytes.
func (c *Client) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrRenderFailed, resp.StatusCode, string(b))
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: renderer returned an empty document", ErrRenderFailed)
	}
	return pdf, nil
}
