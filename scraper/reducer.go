package scraper

import (
	"regexp"
	"strings"
)

// maxReducedLen caps the reduced text so it fits the extraction prompt's
// token budget.
const maxReducedLen = 8000

// Noise elements are removed with their content before tags are stripped.
// Regex-based on purpose: product pages are full of unbalanced markup and a
// strict parser buys nothing here.
var (
	reNoiseElements = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`),
		regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`),
		regexp.MustCompile(`(?is)<nav\b[^>]*>.*?</nav>`),
		regexp.MustCompile(`(?is)<footer\b[^>]*>.*?</footer>`),
		regexp.MustCompile(`(?is)<header\b[^>]*>.*?</header>`),
		regexp.MustCompile(`(?is)<aside\b[^>]*>.*?</aside>`),
		regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe>`),
		regexp.MustCompile(`(?is)<svg\b[^>]*>.*?</svg>`),
	}
	reComment    = regexp.MustCompile(`(?s)<!--.*?-->`)
	reTag        = regexp.MustCompile(`<[^>]*>`)
	reWhitespace = regexp.MustCompile(`\s{2,}`)

	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	)
)

// Reduce strips an HTML document down to dense human-readable text within the
// character budget. Pure and deterministic; malformed markup never panics.
func Reduce(html string) string {
	text := html
	for _, re := range reNoiseElements {
		text = re.ReplaceAllString(text, " ")
	}
	text = reComment.ReplaceAllString(text, " ")
	text = reTag.ReplaceAllString(text, " ")
	text = entityReplacer.Replace(text)
	text = reWhitespace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if runes := []rune(text); len(runes) > maxReducedLen {
		text = strings.TrimSpace(string(runes[:maxReducedLen]))
	}
	return text
}
