package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/stats"

	"github.com/stretchr/testify/assert"
)

func sampleReport() (*RunReport, []model.OHLCV) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var bars []model.OHLCV
	series := &model.PriceSeries{Symbol: "GOOG"}
	for i := 0; i < 8; i++ {
		d := start.AddDate(0, 0, i)
		c := 100 + float64(i)
		bars = append(bars, model.OHLCV{Time: d, Open: c, High: c + 1, Low: c - 1, Close: c, AdjClose: c, Volume: 1e6})
		series.Dates = append(series.Dates, d)
		series.Closes = append(series.Closes, c)
	}
	spec := arima.Spec{Order: arima.Order{P: 1, D: 1, Q: 0}}
	sum := &arima.Summary{
		Spec:   spec,
		NObs:   8,
		NEff:   6,
		Params: []arima.Param{{Name: "ar.L1", Value: 0.5, StdErr: 0.1, Z: 5, PValue: 0, Lower: 0.3, Upper: 0.7}},
		Sigma2: 1.5, LogLik: -10, AIC: 24, BIC: 25, HQIC: 24.5,
		LjungBox: &stats.LjungBoxResult{Statistic: 3.2, PValue: 0.9, Lags: 5, DOF: 4},
		Warnings: []string{"covariance matrix is ill-conditioned"},
	}
	fc := &arima.Forecast{
		Start: 8, Alpha: 0.05,
		Mean:   []float64{108.123, 108.5},
		StdErr: []float64{1, 1.4},
		Lower:  []float64{106.1, 105.7},
		Upper:  []float64{110.1, 111.3},
	}
	return &RunReport{
		RunID:     "run-1",
		Symbol:    "GOOG",
		StartedAt: start,
		Series:    series,
		Stats:     &model.SeriesStats{LastClose: 107, Observations: 8},
		ACF:       &stats.Correlogram{Values: []float64{1, 0.9, 0.1, -0.8}, NObs: 100, Conf95: 0.196, Conf99: 0.2576},
		PACF:      &stats.Correlogram{Values: []float64{1, 0.1, 0.05}, NObs: 100, Conf95: 0.196, Conf99: 0.2576},
		Models:    []ModelResult{{Name: "ARIMA", Summary: sum, Forecast: fc}},
		Warnings:  []string{"SARIMA forecast step 3 outside band <x>"},
	}, bars
}

func TestConsoleRun(t *testing.T) {
	r, bars := sampleReport()
	var buf bytes.Buffer
	NewConsole(&buf).Run(r, bars)
	out := buf.String()

	// tail(5) of quotes: first row shown is 2024-01-04
	assert.Contains(t, out, "2024-01-04")
	assert.Contains(t, out, "ARIMA(1, 1, 0)")
	assert.Contains(t, out, "ar.L1")
	assert.Contains(t, out, "Ljung-Box (L5)")
	assert.Contains(t, out, "[1] covariance matrix is ill-conditioned")
	assert.Contains(t, out, "108.12")
	assert.Contains(t, out, "95% interval")
	assert.Contains(t, out, "warning: SARIMA forecast")
	assert.Contains(t, out, "ACF: 2 of 3 lags outside ±0.196: 1 3\n")
	assert.Contains(t, out, "PACF: 0 of 2 lags outside ±0.196\n")
}

func TestConsoleCorrelation_Truncates(t *testing.T) {
	values := make([]float64, 31)
	for i := range values {
		values[i] = 0.9
	}
	var buf bytes.Buffer
	NewConsole(&buf).Correlation("ACF", &stats.Correlogram{Values: values, NObs: 100, Conf95: 0.196})
	out := buf.String()
	assert.Contains(t, out, "ACF: 30 of 30 lags outside")
	assert.Contains(t, out, " 19 20 ...\n")
	assert.NotContains(t, out, " 21")
}

func TestConsoleQuotesTail(t *testing.T) {
	_, bars := sampleReport()
	var buf bytes.Buffer
	NewConsole(&buf).QuotesTail(bars, 5)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[1], "2024-01-04"))
	assert.True(t, strings.HasPrefix(lines[5], "2024-01-08"))
}

func TestConsoleSeriesHead(t *testing.T) {
	r, _ := sampleReport()
	var buf bytes.Buffer
	NewConsole(&buf).SeriesHead(r.Series, 5)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[1], "2024-01-01")
	assert.Contains(t, lines[1], "100.00")
}

func TestFormatForecastMessage(t *testing.T) {
	r, _ := sampleReport()
	msg := FormatForecastMessage(r)

	assert.Contains(t, msg, "<b>GOOG forecast</b>")
	assert.Contains(t, msg, "Last close: 107.00 (2024-01-08)")
	assert.Contains(t, msg, "t+1: 108.12")
	assert.Contains(t, msg, "t+2: 108.50 [105.70, 111.30]")
	assert.Contains(t, msg, "&lt;x&gt;")
	assert.Contains(t, msg, "<code>run-1</code>")
}

func TestFormatFailure(t *testing.T) {
	msg := FormatFailure("GOOG", errors.New("fetch: no data <empty>"))
	assert.Contains(t, msg, "GOOG forecast failed")
	assert.Contains(t, msg, "&lt;empty&gt;")
}
