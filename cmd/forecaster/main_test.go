package main

import (
	"testing"

	"PriceForecaster/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRunFlags(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, runCmd.Flags().Parse([]string{"--ticker", "msft", "--csv", "q.csv", "--no-charts", "--horizon", "5"}))
	t.Cleanup(func() { runFlags.noCharts = false })

	applyRunFlags(runCmd, cfg)
	assert.Equal(t, "MSFT", cfg.Ticker)
	assert.Equal(t, config.SourceCSV, cfg.DataSource.Type)
	assert.Equal(t, "q.csv", cfg.DataSource.CSVPath)
	assert.False(t, cfg.Output.Render)
	assert.Equal(t, 5, cfg.Forecast.Horizon)
	assert.NoError(t, cfg.Validate())
}

func TestPipelineOptions(t *testing.T) {
	opts := pipelineOptions(config.Default())
	assert.Equal(t, "ARIMA(5, 1, 2)", opts.ARIMA.String())
	assert.Equal(t, "SARIMAX(5, 1, 2)x(5, 1, 2, 12)", opts.SARIMA.String())
	assert.Equal(t, 30, opts.DecompositionPeriod)
	assert.Equal(t, 11, opts.Horizon)
	assert.Equal(t, 0.05, opts.Fit.Alpha)
}

func TestNewFetcher(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "yahoo", newFetcher(cfg).Name())
	cfg.DataSource.Type = config.SourceMock
	assert.Equal(t, "mock", newFetcher(cfg).Name())
	cfg.DataSource.Type = config.SourceCSV
	assert.Equal(t, "csv", newFetcher(cfg).Name())
	cfg.DataSource.Type = config.SourceREST
	assert.Equal(t, "rest", newFetcher(cfg).Name())
}
