package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.themoviedb.org/3"

// UpstreamError is returned for any non-2xx response from the metadata API.
type UpstreamError struct {
	StatusCode int
	Status     string
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to fetch data from TMDB: %s", e.Status)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var uerr *UpstreamError
	return errors.As(err, &uerr) && uerr.StatusCode == http.StatusNotFound
}

// Result is one untyped object from a results array.
type Result map[string]any

// ID returns the numeric "id" field, or 0 when absent.
func (r Result) ID() int64 {
	switch v := r["id"].(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}

// String returns a string field, or "" when absent or null.
func (r Result) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Page is a decoded metadata response. Raw keeps the full body for
// endpoints that return a single object rather than a result list.
type Page struct {
	Results []Result        `json:"results"`
	Raw     json.RawMessage `json:"-"`
}

// Client talks to the metadata API
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	logger     *slog.Logger
}

// NewClient creates a new metadata client. An empty baseURL uses
// DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Fetch GETs url with the bearer credential and decodes the body.
func (c *Client) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("metadata request failed", "url", url, "status", resp.StatusCode)
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	page := &Page{Raw: body}
	if err := json.Unmarshal(body, page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if page.Results == nil {
		page.Results = []Result{}
	}
	return page, nil
}
