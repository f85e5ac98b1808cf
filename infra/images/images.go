// Package images resolves vehicle thumbnails from the Wikipedia REST API.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public English Wikipedia endpoint.
const DefaultBaseURL = "https://en.wikipedia.org"

// Config configures the thumbnail client.
type Config struct {
	BaseURL string  `json:"base_url"`
	RPS     float64 `json:"rps"`
	Burst   int     `json:"burst"`
	// Timeout bounds a single HTTP request.
	Timeout time.Duration `json:"timeout"`
}

// Client looks up one thumbnail per query and caches the answer, including
// misses, for the lifetime of the client.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	cache   sync.Map // query -> string
}

// New returns a Client with defaults applied to unset fields.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		base:    strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
	}
}

type searchResponse struct {
	Pages []struct {
		Title string `json:"title"`
	} `json:"pages"`
}

type summaryResponse struct {
	Thumbnail *struct {
		Source string `json:"source"`
	} `json:"thumbnail"`
}

// Thumbnail returns the thumbnail URL of the best title match for query,
// or an empty string when the search has no page or the page no image.
func (c *Client) Thumbnail(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	if v, ok := c.cache.Load(query); ok {
		return v.(string), nil
	}

	var search searchResponse
	found, err := c.getJSON(ctx, c.base+"/w/rest.php/v1/search/title?q="+url.QueryEscape(query)+"&limit=1", &search)
	if err != nil {
		return "", err
	}
	if !found || len(search.Pages) == 0 || search.Pages[0].Title == "" {
		c.cache.Store(query, "")
		return "", nil
	}

	var sum summaryResponse
	found, err = c.getJSON(ctx, c.base+"/api/rest_v1/page/summary/"+url.PathEscape(search.Pages[0].Title), &sum)
	if err != nil {
		return "", err
	}
	thumb := ""
	if found && sum.Thumbnail != nil {
		thumb = sum.Thumbnail.Source
	}
	c.cache.Store(query, thumb)
	return thumb, nil
}

// getJSON decodes the body of a 2xx response into out. Non-2xx responses
// report found=false without an error.
func (c *Client) getJSON(ctx context.Context, u string, out any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("images: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("images: decode %s: %w", u, err)
	}
	return true, nil
}
