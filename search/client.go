package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSearchAPI = "https://serpapi.com/search.json"
	searchTimeout    = 12 * time.Second
	resultCount      = 10
)

// ShoppingResult is one listing from the shopping-search service.
type ShoppingResult struct {
	Title       string  `json:"title"`
	Price       string  `json:"price"`
	Source      string  `json:"source"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	Delivery    string  `json:"delivery"`
	Thumbnail   string  `json:"thumbnail"`
	Link        string  `json:"link"`
	ProductLink string  `json:"product_link"`
}

// URL prefers the direct retailer link over the aggregator product page.
func (r ShoppingResult) URL() string {
	if r.Link != "" {
		return r.Link
	}
	return r.ProductLink
}

// ShoppingClient queries the external shopping-search service, scoped to the
// Indian locale. A small client-side limiter keeps bursts of comparison
// requests inside the service's quota.
type ShoppingClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewShoppingClient creates a client for the given API key.
func NewShoppingClient(apiKey string) *ShoppingClient {
	return &ShoppingClient{
		httpClient:  &http.Client{Timeout: searchTimeout},
		apiKey:      apiKey,
		baseURL:     defaultSearchAPI,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

// Shopping runs a product query and returns the raw result list.
func (c *ShoppingClient) Shopping(ctx context.Context, query string) ([]ShoppingResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("engine", "google_shopping")
	params.Set("q", query)
	params.Set("gl", "in")
	params.Set("hl", "en")
	params.Set("num", fmt.Sprintf("%d", resultCount))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search service status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		ShoppingResults []ShoppingResult `json:"shopping_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return payload.ShoppingResults, nil
}
