package currency

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ReferenceCode is the currency every price is normalized into.
const ReferenceCode = "INR"

const (
	snapshotTTL    = 30 * time.Minute
	refreshTimeout = 5 * time.Second

	// Approximate USD-per-INR rate used when a currency code is unknown even
	// after a refresh. A rough number beats a user-facing error here.
	defaultUSDPerINR = 0.012

	defaultRateAPI = "https://open.er-api.com/v6/latest"
)

// fallbackRates is a small table of major currencies, expressed as units of
// foreign currency per 1 INR. It replaces the snapshot wholesale when the
// rate API is unreachable.
var fallbackRates = map[string]float64{
	"INR": 1,
	"USD": 0.012,
	"EUR": 0.011,
	"GBP": 0.0095,
	"JPY": 1.78,
	"AUD": 0.018,
	"CAD": 0.016,
	"AED": 0.044,
	"SGD": 0.016,
	"CNY": 0.086,
}

// Snapshot is the cached set of conversion rates plus its fetch timestamp.
// Rates are units of foreign currency per 1 INR.
type Snapshot struct {
	Rates     map[string]float64
	FetchedAt time.Time
}

// Converter normalizes amounts in arbitrary currencies to whole INR.
// The snapshot is refreshed lazily: only when it is older than 30 minutes or
// is missing the requested code. A failed refresh swaps in the fallback table
// without resetting the age, so the next call tries the network again.
type Converter struct {
	mu       sync.Mutex
	snapshot Snapshot

	client  *http.Client
	baseURL string
	now     func() time.Time
}

// NewConverter creates a Converter backed by the public exchange-rate API.
func NewConverter() *Converter {
	return &Converter{
		client:  &http.Client{Timeout: refreshTimeout},
		baseURL: defaultRateAPI,
		now:     time.Now,
	}
}

// RateToINR returns the multiplier that converts one unit of the given
// currency into INR. Unknown codes fall back to an approximate USD rate so
// the caller always gets a number.
func (c *Converter) RateToINR(code string) float64 {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == ReferenceCode || code == "" {
		return 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale() || c.missing(code) {
		c.refreshLocked()
	}

	rate, ok := c.snapshot.Rates[code]
	if !ok || rate <= 0 {
		log.Printf("currency: no rate for %s, using approximate USD fallback", code)
		return 1 / defaultUSDPerINR
	}
	return 1 / rate
}

// ToINR converts an amount in the given currency to whole INR. It returns nil
// when the amount is missing or not a finite number.
func (c *Converter) ToINR(amount *float64, code string) *int {
	if amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) {
		return nil
	}
	v := int(math.Round(*amount * c.RateToINR(code)))
	return &v
}

// Refresh forces a rate refresh regardless of snapshot age. Used by the
// scheduled warmer so interactive requests rarely pay the network latency.
func (c *Converter) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked()
}

func (c *Converter) stale() bool {
	return c.now().Sub(c.snapshot.FetchedAt) > snapshotTTL
}

func (c *Converter) missing(code string) bool {
	_, ok := c.snapshot.Rates[code]
	return !ok
}

// refreshLocked fetches the full rate table keyed by INR. On failure the
// snapshot is replaced with the fallback table but FetchedAt is left alone,
// so the snapshot stays "stale" and the next call retries the network.
func (c *Converter) refreshLocked() error {
	rates, err := c.fetchRates()
	if err != nil {
		log.Printf("currency: rate refresh failed, using fallback table: %v", err)
		c.snapshot.Rates = fallbackRates
		return err
	}

	c.snapshot = Snapshot{Rates: rates, FetchedAt: c.now()}
	log.Printf("currency: refreshed %d exchange rates", len(rates))
	return nil
}

func (c *Converter) fetchRates() (map[string]float64, error) {
	resp, err := c.client.Get(c.baseURL + "/" + ReferenceCode)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rates: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("fetch rates: empty rate table")
	}
	return body.Rates, nil
}
