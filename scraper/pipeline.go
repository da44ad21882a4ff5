package scraper

import (
	"context"
	"log"
	"strings"

	"pricelens/models"
)

// minReducedLength is the floor below which reduced text is treated as a
// bot/CAPTCHA wall rather than a real product page.
const minReducedLength = 200

// Extractor is the pipeline's view of the AI extraction step.
type Extractor interface {
	Extract(ctx context.Context, reducedText, sourceURL string) (*models.ProductExtraction, error)
}

// Converter is the pipeline's view of currency normalization.
type Converter interface {
	ToINR(amount *float64, code string) *int
}

// Pipeline sequences fetch → reduce → extract → validate → convert and
// degrades to a URL-slug-derived blocked response at every recoverable
// failure. Run never returns an error: the caller always gets a payload.
type Pipeline struct {
	fetcher   Fetcher
	extractor Extractor
	converter Converter
}

// NewPipeline wires the extraction pipeline.
func NewPipeline(fetcher Fetcher, extractor Extractor, converter Converter) *Pipeline {
	return &Pipeline{fetcher: fetcher, extractor: extractor, converter: converter}
}

// Run executes the full pipeline for one URL.
func (p *Pipeline) Run(ctx context.Context, pageURL string) *models.NormalizedProduct {
	// FETCHING
	html, err := p.fetcher.FetchHTML(ctx, pageURL)
	if err != nil {
		log.Printf("Fetch failed for %s: %v", pageURL, err)
		return BlockedResult(pageURL, "The site could not be reached or refused the request.")
	}
	if len(html) < MinHTMLLength {
		log.Printf("Implausibly short HTML (%d chars) for %s", len(html), pageURL)
		return BlockedResult(pageURL, "The site returned an implausibly small page, likely a block screen.")
	}

	// REDUCING
	reduced := Reduce(html)
	if len(reduced) < minReducedLength {
		log.Printf("Reduced text too short (%d chars) for %s: %v", len(reduced), pageURL, ErrReducedTooShort)
		return BlockedResult(pageURL, DescribeBlock(reduced))
	}

	// EXTRACTING
	extraction, err := p.extractor.Extract(ctx, reduced, pageURL)
	if err != nil {
		log.Printf("Extraction failed for %s: %v", pageURL, err)
		return BlockedResult(pageURL, "Product details could not be extracted from the page.")
	}

	// VALIDATING
	if err := validateExtraction(extraction); err != nil {
		log.Printf("Extraction rejected for %s: %v", pageURL, err)
		return BlockedResult(pageURL, "The page did not yield a recognizable product name.")
	}

	// CONVERTING
	amount := ParsePriceText(extraction.PriceText)
	code := NormalizeCurrencyCode(extraction.Currency, extraction.PriceText)
	price := p.converter.ToINR(amount, code)

	description := extraction.Description
	if description == nil {
		description = []string{}
	}

	return &models.NormalizedProduct{
		Name:          strings.TrimSpace(extraction.Name),
		Price:         price,
		PriceText:     extraction.PriceText,
		OriginalPrice: extraction.PriceText,
		Currency:      code,
		Description:   description,
		Image:         extraction.Image,
		URL:           pageURL,
		WebsiteName:   SiteName(pageURL),
		Blocked:       false,
	}
}

// validateExtraction rejects extractions whose name is absent, a placeholder,
// or too short to be a product name.
func validateExtraction(extraction *models.ProductExtraction) error {
	name := strings.TrimSpace(extraction.Name)
	if name == "" || len(name) < 3 {
		return ErrInvalidExtraction
	}
	if strings.Contains(strings.ToLower(name), "unknown") {
		return ErrInvalidExtraction
	}
	return nil
}

// BlockedResult builds the terminal blocked payload for a URL. The product
// name is recovered from the URL slug alone; SearchQuery lets the caller
// still run a comparison search. Blocked implies no price and no description.
func BlockedResult(pageURL, message string) *models.NormalizedProduct {
	name := NameFromURL(pageURL)
	return &models.NormalizedProduct{
		Name:           name,
		Price:          nil,
		PriceText:      "",
		Currency:       "INR",
		Description:    []string{},
		URL:            pageURL,
		WebsiteName:    SiteName(pageURL),
		Blocked:        true,
		BlockerMessage: message,
		SearchQuery:    name,
	}
}
