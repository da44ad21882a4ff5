package main

import (
	"log"
	"net/http"

	"pricelens/config"
	"pricelens/currency"
	"pricelens/handlers"
	"pricelens/middleware"
	"pricelens/scheduler"
	"pricelens/scraper"
	"pricelens/search"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.AnthropicAPIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY is required")
	}

	// Currency conversion, pre-warmed on a schedule
	converter := currency.NewConverter()
	warmer := scheduler.NewRateWarmer(converter)
	warmer.Start()
	defer warmer.Stop()

	// Extraction pipeline
	completer := scraper.NewAnthropicCompleter(cfg.AnthropicAPIKey)
	extractor := scraper.NewModelExtractor(completer, nil)
	fetcher := scraper.NewOrchestrator(cfg.AllowRendered)
	pipeline := scraper.NewPipeline(fetcher, extractor, converter)

	// Comparison search
	searchService := search.NewService(cfg.SerpAPIKey, converter)

	h := handlers.NewHandlers(pipeline, searchService)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitRPS))

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/scrape", h.Scrape).Methods("POST")
	r.HandleFunc("/search", h.Search).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         cfg.Host + ":" + cfg.Port,
		Handler:      c.Handler(r),
		WriteTimeout: cfg.RequestTimeout,
	}

	log.Printf("🌐 Server starting on port %s", cfg.Port)
	if cfg.AllowRendered {
		log.Printf("🖥️  Rendered fetching enabled (headless browser + static fallback)")
	} else {
		log.Printf("📄 Rendered fetching disabled, static fetching only")
	}
	log.Printf("📋 Endpoints:")
	log.Printf("   GET  /health - Health check")
	log.Printf("   POST /scrape - Extract product data from a URL")
	log.Printf("   POST /search - Compare prices across retailers")

	log.Fatal(server.ListenAndServe())
}
