package scraper

import "regexp"

// The patterns below identify the usual suspects when a product page comes
// back nearly empty: CAPTCHA interstitials, WAF block pages, and rate-limit
// screens.
var (
	captchaPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)captcha`),
		regexp.MustCompile(`(?i)recaptcha`),
		regexp.MustCompile(`(?i)hcaptcha`),
		regexp.MustCompile(`(?i)turnstile`),
		regexp.MustCompile(`(?i)verify you are (a )?human`),
		regexp.MustCompile(`(?i)checking your browser`),
	}
	accessPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)access denied`),
		regexp.MustCompile(`(?i)403 forbidden`),
		regexp.MustCompile(`(?i)bot detected`),
		regexp.MustCompile(`(?i)unusual traffic`),
		regexp.MustCompile(`(?i)rate limit`),
		regexp.MustCompile(`(?i)too many requests`),
		regexp.MustCompile(`(?i)ddos protection`),
		regexp.MustCompile(`(?i)cloudflare`),
	}
)

// DescribeBlock turns near-empty page content into a human-readable reason
// for the blocked response. Best-effort classification only.
func DescribeBlock(content string) string {
	for _, re := range captchaPatterns {
		if re.MatchString(content) {
			return "The site is showing a CAPTCHA or human-verification wall."
		}
	}
	for _, re := range accessPatterns {
		if re.MatchString(content) {
			return "The site denied access, likely due to bot protection."
		}
	}
	return "The site returned too little readable content to extract product details."
}
