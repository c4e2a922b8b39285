package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"PriceForecaster/internal/model"
)

// Collector fetches the raw quote table for one ticker over a trailing window.
type Collector struct {
	Fetcher    Fetcher
	Symbol     string
	WindowDays int
	Now        func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, windowDays int) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, WindowDays: windowDays, Now: time.Now}
}

// Window returns the requested [start, end) range: the trailing window ending today.
func (c *Collector) Window() (time.Time, time.Time) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	end := truncateDay(now())
	return end.AddDate(0, 0, -c.WindowDays), end
}

// Collect fetches the raw daily quotes. A failed or empty download is
// reported as model.ErrDataUnavailable.
func (c *Collector) Collect(ctx context.Context) ([]model.OHLCV, error) {
	start, end := c.Window()
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %s from %s: %v", model.ErrDataUnavailable, c.Symbol, c.Fetcher.Name(), err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s returned no rows for %s between %s and %s",
			model.ErrDataUnavailable, c.Fetcher.Name(), c.Symbol,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	log.Printf("[INFO] fetched %d bars for %s from %s", len(bars), c.Symbol, c.Fetcher.Name())
	return bars, nil
}
