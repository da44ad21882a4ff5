package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// boilerplateSegments are path segments that never encode a product name.
var boilerplateSegments = map[string]bool{
	"p": true, "dp": true, "gp": true, "b": true, "s": true,
	"product": true, "products": true, "item": true, "itm": true,
	"buy": true, "shop": true, "store": true, "category": true,
	"categories": true, "collections": true, "collection": true,
	"ref": true, "search": true, "en": true, "in": true, "us": true,
	"html": true, "php": true, "www": true,
}

var (
	reAlphaRun   = regexp.MustCompile(`[a-zA-Z]{3,}`)
	reSlugSplit  = regexp.MustCompile(`[-_+.,]+`)
	reDigit      = regexp.MustCompile(`[0-9]`)
	reAllDigits  = regexp.MustCompile(`^[0-9]+$`)
	reHexLooking = regexp.MustCompile(`^[0-9a-fA-F]{8,}$`)

	titleCaser = cases.Title(language.English)
)

// NameFromURL derives a human-readable candidate product name from the URL
// path alone. Used for the blocked recovery path when the page itself could
// not be read. Returns "" when no path segment qualifies.
func NameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	var best string
	for _, seg := range strings.Split(u.Path, "/") {
		if decoded, err := url.PathUnescape(seg); err == nil {
			seg = decoded
		}
		seg = strings.TrimSuffix(strings.TrimSuffix(seg, ".html"), ".php")
		if seg == "" || boilerplateSegments[strings.ToLower(seg)] {
			continue
		}
		if !reAlphaRun.MatchString(seg) {
			continue
		}
		if len(seg) > len(best) {
			best = seg
		}
	}
	if best == "" {
		return ""
	}

	var words []string
	for _, tok := range reSlugSplit.Split(best, -1) {
		if tok == "" || looksLikeID(tok) {
			continue
		}
		words = append(words, tok)
	}
	if len(words) == 0 {
		return ""
	}

	name := strings.Join(words, " ")
	name = strings.Join(strings.Fields(name), " ")
	return titleCaser.String(strings.ToLower(name))
}

// looksLikeID filters out tokens that are item IDs rather than words:
// bare numbers, long hex runs, and digit-heavy alphanumeric codes.
func looksLikeID(tok string) bool {
	if reAllDigits.MatchString(tok) || reHexLooking.MatchString(tok) {
		return true
	}
	digits := len(reDigit.FindAllString(tok, -1))
	return len(tok) >= 6 && digits >= 3
}

// SiteName derives a display name for the source site from the URL host,
// e.g. "https://www.amazon.in/..." -> "Amazon".
func SiteName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return ""
	}
	label := strings.Split(host, ".")[0]
	return titleCaser.String(label)
}
