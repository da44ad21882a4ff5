package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"pricelens/models"
	"pricelens/scraper"
)

// Scraper runs the extraction pipeline for one URL.
type Scraper interface {
	Run(ctx context.Context, pageURL string) *models.NormalizedProduct
}

// Searcher finds comparison entries for a product name. The bool reports
// whether the static retailer fallback was used.
type Searcher interface {
	Search(ctx context.Context, productName string) ([]models.ComparisonEntry, bool)
}

// Handlers holds the HTTP endpoints.
type Handlers struct {
	pipeline Scraper
	search   Searcher
}

// NewHandlers wires the endpoints to their collaborators.
func NewHandlers(pipeline Scraper, search Searcher) *Handlers {
	return &Handlers{pipeline: pipeline, search: search}
}

// HealthCheck returns a simple health check response.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   "pricelens",
		"status":    "healthy",
		"timestamp": time.Now(),
		"endpoints": map[string]string{
			"scrape": "POST /scrape",
			"search": "POST /search",
		},
	})
}

// Scrape handles POST /scrape. Every recoverable scraping failure comes back
// as a blocked payload, never as an HTTP error; only a missing URL is a 400.
func (h *Handlers) Scrape(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	// Last-resort boundary: an unexpected internal error still produces a
	// usable blocked payload when the URL slug yields a name.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ Scrape panicked for %s: %v", req.URL, rec)
			if name := scraper.NameFromURL(req.URL); name != "" {
				writeJSON(w, http.StatusOK, scraper.BlockedResult(req.URL, "Something went wrong while reading this site."))
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to process the page")
		}
	}()

	product := h.pipeline.Run(r.Context(), req.URL)
	writeJSON(w, http.StatusOK, product)
}

// Search handles POST /search.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductName == "" {
		writeError(w, http.StatusBadRequest, "productName is required")
		return
	}

	products, fallback := h.search.Search(r.Context(), req.ProductName)
	writeJSON(w, http.StatusOK, models.SearchResponse{
		Products: products,
		Fallback: fallback,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
