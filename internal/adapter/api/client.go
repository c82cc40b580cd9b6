// Package api is the HTTP client for the praise object API: directory
// listings, item blobs and scripture texts.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tejashwikalptaru/gopraise/internal/domain"
	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// DefaultTimeout bounds listing and text requests. Blob downloads are bounded
// by the caller's context only.
const DefaultTimeout = 30 * time.Second

// Client talks to the object API at a base URL such as "http://localhost:8787".
type Client struct {
	baseURL    string
	httpClient *http.Client
	blobClient *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		blobClient: &http.Client{},
	}
}

// listResponse is the body of GET /api/list.
type listResponse struct {
	Songs []string `json:"songs"`
}

// List returns the item names directly under dir.
func (c *Client) List(ctx context.Context, dir string) ([]string, error) {
	u := c.baseURL + "/api/list?dir=" + url.QueryEscape(dir)

	var body listResponse
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, err
	}
	if body.Songs == nil {
		return []string{}, nil
	}
	return body.Songs, nil
}

// SourceURL returns the URL streaming the item stored under key.
func (c *Client) SourceURL(key string) string {
	return c.baseURL + "/api/file/" + url.PathEscape(key)
}

// Fetch downloads the item stored under key. The caller closes Blob.Body.
func (c *Client) Fetch(ctx context.Context, key string) (*domain.Blob, error) {
	resp, err := c.get(ctx, c.blobClient, c.SourceURL(key))
	if err != nil {
		return nil, err
	}
	return &domain.Blob{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// Books returns the scripture index.
func (c *Client) Books(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.getJSON(ctx, c.baseURL+"/api/bible/books", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// FetchText returns the named scripture file, e.g. "01-创世记.txt".
func (c *Client) FetchText(ctx context.Context, name string) (string, error) {
	resp, err := c.get(ctx, c.httpClient, c.baseURL+"/api/bible/file/"+url.PathEscape(name))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	resp, err := c.get(ctx, c.httpClient, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

// get issues a GET and returns the response only for 2xx statuses.
// A 404 is reported as an error wrapping domain.ErrObjectNotFound.
func (c *Client) get(ctx context.Context, hc *http.Client, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		statusErr := &domain.HTTPStatusError{URL: u, StatusCode: resp.StatusCode}
		if statusErr.NotFound() {
			return nil, fmt.Errorf("%w: %w", domain.ErrObjectNotFound, statusErr)
		}
		return nil, statusErr
	}
	return resp, nil
}

var (
	_ ports.DirectoryLister = (*Client)(nil)
	_ ports.BlobFetcher     = (*Client)(nil)
	_ ports.TextFetcher     = (*Client)(nil)
	_ ports.SourceLocator   = (*Client)(nil)
)
