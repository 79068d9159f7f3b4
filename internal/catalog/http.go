package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mealsexplorer/internal/domain"
)

// maxBodyBytes bounds how much of a response is decoded
const maxBodyBytes = 8 << 20

// HTTPClient is the Client implementation backed by the TheMealDB JSON API
type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// HTTPOption configures an HTTPClient
type HTTPOption func(*HTTPClient)

// WithHTTPClient sets the underlying *http.Client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(hc *HTTPClient) {
		if c != nil {
			hc.http = c
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) HTTPOption {
	return func(hc *HTTPClient) {
		hc.userAgent = ua
	}
}

// NewHTTPClient creates a client for the API rooted at baseURL
func NewHTTPClient(baseURL string, opts ...HTTPOption) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog base URL %q: missing scheme or host", baseURL)
	}

	hc := &HTTPClient{
		baseURL: u,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(hc)
	}
	return hc, nil
}

// ListCategories returns every category name known to the catalog
func (c *HTTPClient) ListCategories(ctx context.Context) ([]string, error) {
	var resp categoriesResponse
	if err := c.getJSON(ctx, "categories", "list.php", url.Values{"c": {"list"}}, &resp); err != nil {
		return nil, err
	}
	return resp.names(), nil
}

// SearchByTerm returns the meals whose name contains term
func (c *HTTPClient) SearchByTerm(ctx context.Context, term string) ([]domain.Meal, error) {
	if err := requireArg("search", "term", term); err != nil {
		return nil, err
	}
	var resp mealsResponse
	if err := c.getJSON(ctx, "search", "search.php", url.Values{"s": {term}}, &resp); err != nil {
		return nil, err
	}
	return resp.meals(), nil
}

// FilterByCategory returns the meals of one category. The endpoint only
// sends id, name and thumbnail, so the category is filled in here.
func (c *HTTPClient) FilterByCategory(ctx context.Context, category string) ([]domain.Meal, error) {
	if err := requireArg("filter", "category", category); err != nil {
		return nil, err
	}
	var resp mealsResponse
	if err := c.getJSON(ctx, "filter", "filter.php", url.Values{"c": {category}}, &resp); err != nil {
		return nil, err
	}
	meals := resp.meals()
	for i := range meals {
		meals[i].Category = category
	}
	return meals, nil
}

// LookupByID returns the full record for id, or nil if there is none
func (c *HTTPClient) LookupByID(ctx context.Context, id string) (*domain.Meal, error) {
	if err := requireArg("lookup", "id", id); err != nil {
		return nil, err
	}
	var resp mealsResponse
	if err := c.getJSON(ctx, "lookup", "lookup.php", url.Values{"i": {id}}, &resp); err != nil {
		return nil, err
	}
	meals := resp.meals()
	if len(meals) == 0 {
		return nil, nil
	}
	return &meals[0], nil
}

func (c *HTTPClient) getJSON(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: endpoint, RawQuery: params.Encode()})
	target := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &TransportError{
			Op:         op,
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("bad status %s: %s", resp.Status, strings.TrimSpace(string(b))),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &TransportError{Op: op, URL: target, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
