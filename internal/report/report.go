// Package report renders run results as console text and Telegram messages.
package report

import (
	"time"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/stats"
)

// ModelResult pairs a fitted model's summary with its forecast.
type ModelResult struct {
	Name     string // "ARIMA" or "SARIMA"
	Summary  *arima.Summary
	Forecast *arima.Forecast
}

// RunReport is everything a report needs about one run.
type RunReport struct {
	RunID     string
	Symbol    string
	Source    string
	StartedAt time.Time
	Series    *model.PriceSeries
	Stats     *model.SeriesStats
	ACF       *stats.Correlogram
	PACF      *stats.Correlogram
	Models    []ModelResult
	Warnings  []string
	Charts    []string
}
