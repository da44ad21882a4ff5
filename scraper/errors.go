package scraper

import (
	"errors"
	"fmt"
)

// ErrReducedTooShort means the reduced page text was too small to contain a
// real product page, which usually indicates a CAPTCHA or bot wall.
var ErrReducedTooShort = errors.New("reduced content too short")

// ErrInvalidExtraction means the AI extractor returned no usable product name.
var ErrInvalidExtraction = errors.New("extraction produced no usable product name")

// FetchError wraps a failure to obtain HTML for a URL with either strategy.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError means no JSON object could be recovered from a model response.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse model response: %v", e.Err)
	}
	return "parse model response: no JSON object found"
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractionError means every model in the priority list failed. Last holds
// the final underlying error.
type ExtractionError struct {
	Models []string
	Last   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("all %d models failed, last error: %v", len(e.Models), e.Last)
}

func (e *ExtractionError) Unwrap() error { return e.Last }
