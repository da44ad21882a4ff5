package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"

	"pricelens/currency"
)

// RateWarmer refreshes the exchange-rate snapshot on a schedule so
// interactive requests rarely pay the refresh latency. The converter's own
// lazy refresh remains authoritative; this is just pre-warming.
type RateWarmer struct {
	cron      *cron.Cron
	converter *currency.Converter
}

// NewRateWarmer creates a warmer for the given converter.
func NewRateWarmer(converter *currency.Converter) *RateWarmer {
	return &RateWarmer{
		cron:      cron.New(),
		converter: converter,
	}
}

// Start schedules the refresh just inside the snapshot TTL and runs one
// immediately.
func (rw *RateWarmer) Start() {
	_, err := rw.cron.AddFunc("@every 25m", rw.refresh)
	if err != nil {
		log.Printf("Failed to schedule rate warmer: %v", err)
		return
	}

	go rw.refresh()

	rw.cron.Start()
	log.Println("Exchange-rate warmer scheduled every 25 minutes")
}

// Stop stops the scheduled refreshes.
func (rw *RateWarmer) Stop() {
	if rw.cron != nil {
		rw.cron.Stop()
	}
}

func (rw *RateWarmer) refresh() {
	if err := rw.converter.Refresh(); err != nil {
		log.Printf("Scheduled rate refresh failed: %v", err)
		return
	}
	log.Println("💱 Exchange rates warmed")
}
