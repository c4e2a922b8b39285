package model

import "time"

// OHLCV represents a single daily quote row.
type OHLCV struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   float64
}

// PriceSeries is the (date, close) series the analysis runs on.
// Dates are ascending and unique.
type PriceSeries struct {
	Symbol    string
	Dates     []time.Time
	Closes    []float64
	FetchedAt time.Time
}

// Len returns the number of observations.
func (s *PriceSeries) Len() int { return len(s.Closes) }

// Last returns the most recent date and close.
func (s *PriceSeries) Last() (time.Time, float64) {
	n := len(s.Closes)
	if n == 0 {
		return time.Time{}, 0
	}
	return s.Dates[n-1], s.Closes[n-1]
}
