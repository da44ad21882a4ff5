package search

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"golang.org/x/sync/errgroup"

	"pricelens/models"
	"pricelens/scraper"
)

// topResults is how many live search hits become comparison entries.
const topResults = 3

// Converter is the service's view of currency normalization.
type Converter interface {
	ToINR(amount *float64, code string) *int
}

// Retailer is a known storefront used for the static fallback. QueryURL is a
// format string receiving the URL-escaped product name.
type Retailer struct {
	Name     string
	QueryURL string
}

// DefaultRetailers are the storefronts linked when the live search service is
// unavailable.
var DefaultRetailers = []Retailer{
	{Name: "Amazon.in", QueryURL: "https://www.amazon.in/s?k=%s"},
	{Name: "Flipkart", QueryURL: "https://www.flipkart.com/search?q=%s"},
	{Name: "Croma", QueryURL: "https://www.croma.com/searchB?q=%s"},
	{Name: "Reliance Digital", QueryURL: "https://www.reliancedigital.in/search?q=%s"},
}

// Service finds comparable listings for a product name. Primary path is the
// live shopping-search service; when no key is configured or the call fails,
// it degrades to static retailer search links with no prices.
type Service struct {
	client    *ShoppingClient
	converter Converter
	retailers []Retailer
}

// NewService creates a comparison-search service. An empty API key disables
// the live path entirely.
func NewService(apiKey string, converter Converter) *Service {
	s := &Service{
		converter: converter,
		retailers: DefaultRetailers,
	}
	if apiKey != "" {
		s.client = NewShoppingClient(apiKey)
	}
	return s
}

// Search returns ranked comparison entries and whether the static fallback
// was used. It never fails: any primary-path error degrades to the fallback.
func (s *Service) Search(ctx context.Context, productName string) ([]models.ComparisonEntry, bool) {
	if s.client == nil {
		log.Printf("No search-service key configured, using static retailer links")
		return s.fallbackEntries(productName), true
	}

	results, err := s.client.Shopping(ctx, productName)
	if err != nil {
		log.Printf("Shopping search failed for %q, using static retailer links: %v", productName, err)
		return s.fallbackEntries(productName), true
	}
	if len(results) == 0 {
		log.Printf("Shopping search returned nothing for %q, using static retailer links", productName)
		return s.fallbackEntries(productName), true
	}

	if len(results) > topResults {
		results = results[:topResults]
	}

	// Currency conversions are independent, so fan them out and join.
	entries := make([]models.ComparisonEntry, len(results))
	g, gctx := errgroup.WithContext(ctx)
	for i, result := range results {
		i, result := i, result
		g.Go(func() error {
			entries[i] = s.buildEntry(gctx, result)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	MarkExtremes(entries)
	return entries, false
}

// buildEntry normalizes one live search result into a comparison entry.
func (s *Service) buildEntry(_ context.Context, result ShoppingResult) models.ComparisonEntry {
	amount := scraper.ParsePriceText(result.Price)
	code := scraper.InferCurrency(result.Price)

	entry := models.ComparisonEntry{
		Name:      result.Title,
		Price:     s.converter.ToINR(amount, code),
		PriceText: result.Price,
		Source:    result.Source,
		Thumbnail: result.Thumbnail,
		Link:      result.URL(),
	}
	if result.Rating > 0 {
		rating := result.Rating
		entry.Rating = &rating
	}
	if result.Reviews > 0 {
		reviews := result.Reviews
		entry.Reviews = &reviews
	}
	if result.Delivery != "" {
		entry.Delivery = result.Delivery
	}
	return entry
}

// fallbackEntries synthesizes one priceless entry per configured retailer,
// each pointing at that retailer's search results for the product.
func (s *Service) fallbackEntries(productName string) []models.ComparisonEntry {
	escaped := url.QueryEscape(productName)
	entries := make([]models.ComparisonEntry, 0, len(s.retailers))
	for _, retailer := range s.retailers {
		entries = append(entries, models.ComparisonEntry{
			Name:      fmt.Sprintf("%s on %s", productName, retailer.Name),
			Price:     nil,
			PriceText: "Check website",
			Source:    retailer.Name,
			Description: []string{
				"Live price comparison is unavailable right now",
				"Open the retailer's search results to check availability",
			},
			Link: fmt.Sprintf(retailer.QueryURL, escaped),
		})
	}
	return entries
}

// MarkExtremes flags the lowest- and highest-priced entries, ignoring
// entries without a price. All tied entries are marked: a shared minimum
// means several listings are equally the best deal.
func MarkExtremes(entries []models.ComparisonEntry) {
	var lowest, highest *int
	for i := range entries {
		p := entries[i].Price
		if p == nil {
			continue
		}
		if lowest == nil || *p < *lowest {
			lowest = p
		}
		if highest == nil || *p > *highest {
			highest = p
		}
	}
	if lowest == nil {
		return
	}
	for i := range entries {
		p := entries[i].Price
		if p == nil {
			continue
		}
		entries[i].IsLowest = *p == *lowest
		entries[i].IsHighest = *p == *highest
	}
}
