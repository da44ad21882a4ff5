package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// MinHTMLLength is the plausibility floor for fetched HTML. Anything shorter
// is treated as a blocked or broken page by the pipeline.
const MinHTMLLength = 500

const (
	navigationTimeout = 30 * time.Second
	settleDelay       = 3 * time.Second
	staticTimeout     = 20 * time.Second
	maxRedirects      = 5

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetcher obtains raw HTML for a URL.
type Fetcher interface {
	FetchHTML(ctx context.Context, pageURL string) (string, error)
}

// StaticFetcher performs a plain HTTP GET with a realistic browser header
// set. Cheap, works everywhere, defeated by JavaScript-rendered storefronts.
type StaticFetcher struct {
	client *http.Client
}

// NewStaticFetcher creates a StaticFetcher with bounded timeout and
// redirect limit.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		client: &http.Client{
			Timeout: staticTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// FetchHTML retrieves the page body. Statuses below 400 are all considered
// retrievable: several storefronts serve product pages behind soft redirects.
func (f *StaticFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}

	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	return string(body), nil
}

// RenderedFetcher launches an isolated headless browser per call, renders
// the page, and returns the post-JavaScript document. The browser instance
// is torn down on every exit path; a leaked Chromium process is a defect.
type RenderedFetcher struct{}

// NewRenderedFetcher creates a RenderedFetcher.
func NewRenderedFetcher() *RenderedFetcher {
	return &RenderedFetcher{}
}

// navigatorSpoof masks the usual headless giveaways before any page script
// runs.
const navigatorSpoof = `
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	Object.defineProperty(navigator, 'platform', { get: () => 'Win32' });
	window.chrome = { runtime: {} };
`

// consentDismiss clicks through the common cookie/consent dialogs. Failures
// are irrelevant: the dialog text is stripped later anyway, this just keeps
// overlays from hiding the product content on some sites.
const consentDismiss = `
	() => {
		const selectors = [
			'#onetrust-accept-btn-handler',
			'#sp-cc-accept',
			'button[id*="accept"]',
			'button[class*="accept"]',
			'button[aria-label*="Accept"]',
			'button[data-testid*="accept"]',
		];
		for (const sel of selectors) {
			const el = document.querySelector(sel);
			if (el) { el.click(); return true; }
		}
		return false;
	}
`

// FetchHTML renders the page in a sandboxed headless browser and returns the
// final document markup.
func (f *RenderedFetcher) FetchHTML(ctx context.Context, pageURL string) (html string, err error) {
	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false).
		Set("blink-settings", "imagesEnabled=false").
		Set("disable-remote-fonts").
		Set("mute-audio")

	controlURL, err := l.Launch()
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("launch browser: %w", err)}
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("connect browser: %w", err)}
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.Printf("Failed to close browser: %v", closeErr)
		}
		l.Kill()
		l.Cleanup()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("open page: %w", err)}
	}
	page = page.Timeout(navigationTimeout)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      browserUserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("set user agent: %w", err)}
	}
	if _, err := page.EvalOnNewDocument(navigatorSpoof); err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("install spoof: %w", err)}
	}

	if err := page.Navigate(pageURL); err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("navigate: %w", err)}
	}
	if err := page.WaitLoad(); err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("wait load: %w", err)}
	}
	time.Sleep(settleDelay)

	// Best-effort consent dismissal, then a short beat for any reflow.
	if _, err := page.Eval(consentDismiss); err == nil {
		time.Sleep(500 * time.Millisecond)
	}

	html, err = page.HTML()
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: fmt.Errorf("read document: %w", err)}
	}
	return html, nil
}

// Orchestrator selects between the rendered and static strategies.
// When rendering is allowed it goes browser-first with a static fallback;
// otherwise it is static-only.
type Orchestrator struct {
	rendered      Fetcher
	static        Fetcher
	allowRendered bool
}

// NewOrchestrator builds the default orchestrator for the given capability
// flag.
func NewOrchestrator(allowRendered bool) *Orchestrator {
	return &Orchestrator{
		rendered:      NewRenderedFetcher(),
		static:        NewStaticFetcher(),
		allowRendered: allowRendered,
	}
}

// FetchHTML runs the strategy chain.
func (o *Orchestrator) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	if o.allowRendered {
		html, err := o.rendered.FetchHTML(ctx, pageURL)
		if err == nil {
			return html, nil
		}
		log.Printf("Rendered fetch failed for %s, falling back to static: %v", pageURL, err)
	}
	return o.static.FetchHTML(ctx, pageURL)
}
