package chart

import (
	"math"
	"os"
	"testing"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 100 + 0.1*float64(i) + 5*math.Sin(2*math.Pi*float64(i)/30)
	}
	return v
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestFiniteXYsSkipsNaN(t *testing.T) {
	pts := finiteXYs([]float64{math.NaN(), 1, math.Inf(1), 2}, 10)
	require.Len(t, pts, 2)
	assert.Equal(t, 11.0, pts[0].X)
	assert.Equal(t, 13.0, pts[1].X)
}

func TestDecomposition(t *testing.T) {
	d, err := stats.Decompose(series(120), 30, stats.Multiplicative)
	require.NoError(t, err)

	path, err := NewRenderer(t.TempDir()).Decomposition(d, "GOOG")
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestCorrelogram(t *testing.T) {
	c := stats.PartialAutocorrelationPlot(series(120), 30)
	require.NotNil(t, c)

	path, err := NewRenderer(t.TempDir()).Correlogram(c, "Partial autocorrelation", "pacf.png")
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestForecasts(t *testing.T) {
	fc := &arima.Forecast{
		Start:  120,
		Alpha:  0.05,
		Mean:   []float64{112, 113, 114},
		StdErr: []float64{1, 1.5, 2},
		Lower:  []float64{110, 110, 110},
		Upper:  []float64{114, 116, 118},
	}
	path, err := NewRenderer(t.TempDir()).Forecasts(series(120), "GOOG", []NamedForecast{
		{Name: "ARIMA", Forecast: fc},
		{Name: "SARIMA", Forecast: nil},
	})
	require.NoError(t, err)
	assertPNG(t, path)
}
