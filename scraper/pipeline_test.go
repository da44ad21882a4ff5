package scraper

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelens/models"
)

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) FetchHTML(context.Context, string) (string, error) {
	return f.html, f.err
}

type fakeExtractor struct {
	extraction *models.ProductExtraction
	err        error
	gotText    string
}

func (f *fakeExtractor) Extract(_ context.Context, reducedText, _ string) (*models.ProductExtraction, error) {
	f.gotText = reducedText
	return f.extraction, f.err
}

// identityConverter treats every amount as already-INR.
type identityConverter struct{}

func (identityConverter) ToINR(amount *float64, _ string) *int {
	if amount == nil {
		return nil
	}
	v := int(*amount)
	return &v
}

// productHTML builds a plausible page comfortably above both length floors.
func productHTML(body string) string {
	return "<html><body><h1>" + body + "</h1><p>" +
		strings.Repeat("Great product detail text. ", 40) + "</p></body></html>"
}

const testURL = "https://www.example.com/p/widget-pro-max"

func TestPipelineHappyPath(t *testing.T) {
	extractor := &fakeExtractor{extraction: &models.ProductExtraction{
		Name:        "Widget Pro Max",
		PriceText:   "₹1,999",
		Currency:    "INR",
		Description: []string{"Compact", "Durable"},
		Image:       "https://cdn.example.com/w.jpg",
	}}
	p := NewPipeline(&fakeFetcher{html: productHTML("Widget Pro Max ₹1,999")}, extractor, identityConverter{})

	got := p.Run(context.Background(), testURL)

	assert.False(t, got.Blocked)
	assert.Equal(t, "Widget Pro Max", got.Name)
	require.NotNil(t, got.Price)
	assert.Equal(t, 1999, *got.Price)
	assert.Equal(t, "₹1,999", got.PriceText)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, "Example", got.WebsiteName)
	assert.Equal(t, testURL, got.URL)
	assert.NotEmpty(t, extractor.gotText)
	assert.NotContains(t, extractor.gotText, "<h1>")
}

func TestPipelineFetchFailureBlocks(t *testing.T) {
	p := NewPipeline(&fakeFetcher{err: errors.New("connection refused")}, &fakeExtractor{}, identityConverter{})

	got := p.Run(context.Background(), testURL)

	assert.True(t, got.Blocked)
	assert.Nil(t, got.Price)
	assert.Empty(t, got.Description)
	assert.NotEmpty(t, got.BlockerMessage)
	assert.Equal(t, "Widget Pro Max", got.Name)
	assert.Equal(t, "Widget Pro Max", got.SearchQuery)
	assert.Equal(t, "INR", got.Currency)
}

func TestPipelineShortHTMLBlocks(t *testing.T) {
	p := NewPipeline(&fakeFetcher{html: "<html><body>tiny</body></html>"}, &fakeExtractor{}, identityConverter{})

	got := p.Run(context.Background(), testURL)

	assert.True(t, got.Blocked)
	assert.Nil(t, got.Price)
}

func TestPipelineShortReducedTextBlocks(t *testing.T) {
	// Plenty of markup but almost no text once tags are stripped.
	html := strings.Repeat("<div class='spacer-block-element'></div>", 100) + "captcha"
	p := NewPipeline(&fakeFetcher{html: html}, &fakeExtractor{}, identityConverter{})

	got := p.Run(context.Background(), testURL)

	assert.True(t, got.Blocked)
	assert.Contains(t, got.BlockerMessage, "CAPTCHA")
}

func TestPipelineExtractionFailureBlocks(t *testing.T) {
	extractor := &fakeExtractor{err: &ExtractionError{Models: []string{"m"}, Last: errors.New("boom")}}
	p := NewPipeline(&fakeFetcher{html: productHTML("Widget")}, extractor, identityConverter{})

	got := p.Run(context.Background(), testURL)

	assert.True(t, got.Blocked)
	assert.NotEmpty(t, got.BlockerMessage)
}

func TestPipelineRejectsPlaceholderNames(t *testing.T) {
	for _, name := range []string{"", "ab", "Unknown Product", "  unknown  "} {
		extractor := &fakeExtractor{extraction: &models.ProductExtraction{Name: name, PriceText: "₹100"}}
		p := NewPipeline(&fakeFetcher{html: productHTML("x")}, extractor, identityConverter{})

		got := p.Run(context.Background(), testURL)
		assert.True(t, got.Blocked, "name=%q should be rejected", name)
	}
}

func TestPipelineUnparseablePriceKeepsProduct(t *testing.T) {
	extractor := &fakeExtractor{extraction: &models.ProductExtraction{
		Name:      "Widget Pro Max",
		PriceText: "Currently unavailable",
	}}
	p := NewPipeline(&fakeFetcher{html: productHTML("Widget")}, extractor, identityConverter{})

	got := p.Run(context.Background(), testURL)

	assert.False(t, got.Blocked)
	assert.Nil(t, got.Price)
	assert.Equal(t, "Currently unavailable", got.PriceText)
}

func TestPipelineNilDescriptionBecomesEmptySlice(t *testing.T) {
	extractor := &fakeExtractor{extraction: &models.ProductExtraction{
		Name:      "Widget Pro Max",
		PriceText: "₹500",
	}}
	p := NewPipeline(&fakeFetcher{html: productHTML("Widget")}, extractor, identityConverter{})

	got := p.Run(context.Background(), testURL)

	require.NotNil(t, got.Description)
	assert.Empty(t, got.Description)
}

func TestBlockedResultShape(t *testing.T) {
	got := BlockedResult("https://www.amazon.in/dp/amazing-wireless-headphones-B08XYZ123/", "blocked by wall")

	assert.True(t, got.Blocked)
	assert.Equal(t, "Amazing Wireless Headphones", got.Name)
	assert.Equal(t, "Amazing Wireless Headphones", got.SearchQuery)
	assert.Equal(t, "blocked by wall", got.BlockerMessage)
	assert.Equal(t, "Amazon", got.WebsiteName)
	assert.Nil(t, got.Price)
	assert.Equal(t, "INR", got.Currency)
	assert.NotNil(t, got.Description)
	assert.Empty(t, got.Description)
}
