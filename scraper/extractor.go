package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"pricelens/models"
)

// DefaultModels is the priority-ordered model list for extraction. The cheap
// model goes first; the stronger one only runs when the cheap one fails.
var DefaultModels = []string{
	"claude-haiku-4-5-20251001",
	"claude-sonnet-4-5-20250929",
}

const extractionMaxTokens = 1024

// TextCompleter is the capability the extractor needs from a generative-AI
// backend: one prompt in, free-form text out.
type TextCompleter interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// AnthropicCompleter implements TextCompleter with the official SDK.
type AnthropicCompleter struct {
	client sdk.Client
}

// NewAnthropicCompleter creates a completer for the given API key.
func NewAnthropicCompleter(apiKey string) *AnthropicCompleter {
	return &AnthropicCompleter{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Complete sends a single user message and concatenates the text blocks of
// the response.
func (c *AnthropicCompleter) Complete(ctx context.Context, model, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: extractionMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: create message: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

// ModelExtractor turns reduced page text into a ProductExtraction by walking
// a prioritized model list until one produces parseable JSON.
type ModelExtractor struct {
	completer TextCompleter
	models    []string
}

// NewModelExtractor creates an extractor over the given completer. A nil or
// empty model list selects DefaultModels.
func NewModelExtractor(completer TextCompleter, modelList []string) *ModelExtractor {
	if len(modelList) == 0 {
		modelList = DefaultModels
	}
	return &ModelExtractor{completer: completer, models: modelList}
}

// Extract asks each model in priority order to pull the product fields out of
// the reduced text. Returns *ExtractionError when every model fails.
func (e *ModelExtractor) Extract(ctx context.Context, reducedText, sourceURL string) (*models.ProductExtraction, error) {
	prompt := buildPrompt(reducedText, sourceURL)

	var lastErr error
	for _, model := range e.models {
		response, err := e.completer.Complete(ctx, model, prompt)
		if err != nil {
			log.Printf("Model %s failed: %v", model, err)
			lastErr = err
			continue
		}

		extraction, err := parseExtraction(response)
		if err != nil {
			log.Printf("Model %s returned unparseable response: %v", model, err)
			lastErr = err
			continue
		}

		log.Printf("✅ Extracted %q via %s", extraction.Name, model)
		return extraction, nil
	}

	return nil, &ExtractionError{Models: e.models, Last: lastErr}
}

// buildPrompt produces the one fixed-shape extraction prompt. The contract
// with the model is a bare JSON object with exactly these fields.
func buildPrompt(reducedText, sourceURL string) string {
	return fmt.Sprintf(`You are extracting product data from the text of an e-commerce page.
Page URL: %s

Return ONLY a JSON object with exactly these fields and nothing else:
{
  "name": "full product name",
  "priceText": "the current price exactly as shown, including its currency symbol",
  "currency": "ISO 4217 code for that price (₹ or Rs means INR, $ means USD, € means EUR, £ means GBP)",
  "description": ["up to 3 short bullet points about the product"],
  "image": "main product image URL if present, else empty string"
}

If several prices are shown, pick the lowest current selling price (deal or
sale price), not the struck-through MRP or list price. If a field cannot be
determined, use an empty string (or empty array for description) — never
invent values.

Page text:
%s`, sourceURL, reducedText)
}

var (
	reJSONFence = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	reJSONSpan  = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseExtraction recovers the JSON contract from a free-form model
// response: fenced block first, then the widest top-level brace span.
func parseExtraction(response string) (*models.ProductExtraction, error) {
	raw := ""
	if m := reJSONFence.FindStringSubmatch(response); m != nil {
		raw = m[1]
	} else if m := reJSONSpan.FindString(response); m != "" {
		raw = m
	}
	if raw == "" {
		return nil, &ParseError{Raw: response}
	}

	var extraction models.ProductExtraction
	if err := json.Unmarshal([]byte(raw), &extraction); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	if len(extraction.Description) > 3 {
		extraction.Description = extraction.Description[:3]
	}
	return &extraction, nil
}
