package models

// ProductExtraction is the raw product data returned by the AI extractor.
// It is request-scoped and never persisted.
type ProductExtraction struct {
	Name        string   `json:"name"`
	PriceText   string   `json:"priceText"`
	Currency    string   `json:"currency"`
	Description []string `json:"description"`
	Image       string   `json:"image"`
}

// NormalizedProduct is the unit returned to callers of /scrape.
// Invariant: Blocked implies Price == nil and Description is empty.
type NormalizedProduct struct {
	Name           string   `json:"name"`
	Price          *int     `json:"price"`
	PriceText      string   `json:"priceText"`
	OriginalPrice  string   `json:"originalPrice"`
	Currency       string   `json:"currency"`
	Description    []string `json:"description"`
	Image          string   `json:"image"`
	URL            string   `json:"url"`
	WebsiteName    string   `json:"websiteName"`
	Blocked        bool     `json:"blocked"`
	BlockerMessage string   `json:"blockerMessage,omitempty"`
	SearchQuery    string   `json:"searchQuery,omitempty"`
}

// HasPrice returns true if the product carries a converted price.
func (p *NormalizedProduct) HasPrice() bool {
	return p.Price != nil
}

// ComparisonEntry is a single comparable listing returned by /search.
// Rating, Reviews and Delivery are omitted individually when the search
// service does not provide them.
type ComparisonEntry struct {
	Name        string   `json:"name"`
	Price       *int     `json:"price"`
	PriceText   string   `json:"priceText"`
	Source      string   `json:"source"`
	Rating      *float64 `json:"rating,omitempty"`
	Reviews     *int     `json:"reviews,omitempty"`
	Delivery    string   `json:"delivery,omitempty"`
	Description []string `json:"description,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Link        string   `json:"link"`
	IsLowest    bool     `json:"isLowest"`
	IsHighest   bool     `json:"isHighest"`
}

// ScrapeRequest is the body of POST /scrape.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	ProductName string `json:"productName"`
}

// SearchResponse is the body returned by POST /search. Fallback is set when
// the static retailer links were used instead of the live search service.
type SearchResponse struct {
	Products []ComparisonEntry `json:"products"`
	Fallback bool              `json:"fallback,omitempty"`
}
