package recorder

import (
	"time"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/model"
)

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// FitRecord holds one fitted model of a run.
type FitRecord struct {
	Model    string // "ARIMA" or "SARIMA"
	Summary  *arima.Summary
	Forecast *arima.Forecast
}

// RunRecord holds all data of one pipeline run.
type RunRecord struct {
	ID          string // assigned by RecordRun when empty
	Symbol      string
	Source      string
	StartedAt   time.Time
	FinishedAt  time.Time
	Status      string
	FailedStage string
	Error       string
	Series      *model.PriceSeries
	Fits        []FitRecord
}

// Recorder persists run history for analysis.
type Recorder interface {
	RecordRun(run *RunRecord) error
	Close() error
}
