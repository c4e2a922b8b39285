package stats

import (
	"math"
	"math/rand"
	"testing"

	"PriceForecaster/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driftSine returns 100 + drift*t + amp*sin(2*pi*t/period) plus seeded noise.
func driftSine(n int, drift, amp float64, period int, noise float64) []float64 {
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, n)
	for t := range values {
		values[t] = 100 + drift*float64(t) + amp*math.Sin(2*math.Pi*float64(t)/float64(period)) + noise*rng.NormFloat64()
	}
	return values
}

func TestDecompose_MultiplicativeReconstructs(t *testing.T) {
	values := driftSine(400, 0.1, 5, 30, 0.3)

	res, err := Decompose(values, 30, Multiplicative)
	require.NoError(t, err)
	require.Len(t, res.Trend, len(values))
	require.Len(t, res.Seasonal, len(values))
	require.Len(t, res.Residual, len(values))
	assert.Equal(t, 400-30, res.Valid())

	defined := 0
	for i, y := range values {
		if math.IsNaN(res.Trend[i]) {
			assert.True(t, math.IsNaN(res.Residual[i]), "residual defined where trend is not at %d", i)
			continue
		}
		defined++
		got := res.Trend[i] * res.Seasonal[i] * res.Residual[i]
		assert.InDelta(t, y, got, 1e-9, "T*S*R != Y at %d", i)
	}
	assert.Equal(t, res.Valid(), defined)

	// seasonal factors average to one over a cycle
	sum := 0.0
	for i := 0; i < 30; i++ {
		sum += res.Seasonal[i]
	}
	assert.InDelta(t, 1.0, sum/30, 1e-12)
}

func TestDecompose_TrendFollowsDrift(t *testing.T) {
	values := driftSine(400, 0.1, 5, 30, 0.3)

	res, err := Decompose(values, 30, Multiplicative)
	require.NoError(t, err)

	prev := math.NaN()
	for i, tr := range res.Trend {
		if math.IsNaN(tr) {
			continue
		}
		want := 100 + 0.1*float64(i)
		assert.InDelta(t, want, tr, 0.5, "trend off the injected drift at %d", i)
		if !math.IsNaN(prev) {
			assert.Greater(t, tr, prev, "trend not increasing at %d", i)
		}
		prev = tr
	}
}

func TestDecompose_Additive(t *testing.T) {
	values := driftSine(120, 0.05, 2, 12, 0)

	res, err := Decompose(values, 12, Additive)
	require.NoError(t, err)
	for i, y := range values {
		if math.IsNaN(res.Trend[i]) {
			continue
		}
		assert.InDelta(t, y, res.Trend[i]+res.Seasonal[i]+res.Residual[i], 1e-9)
	}
}

func TestDecompose_Errors(t *testing.T) {
	_, err := Decompose(make([]float64, 59), 30, Multiplicative)
	assert.ErrorIs(t, err, model.ErrInsufficientHistory)

	values := driftSine(100, 0, 1, 10, 0)
	values[42] = 0
	_, err = Decompose(values, 10, Multiplicative)
	assert.ErrorIs(t, err, model.ErrNonPositiveValues)

	// additive accepts non-positive values
	_, err = Decompose(values, 10, Additive)
	assert.NoError(t, err)

	_, err = Decompose(values, 10, "logistic")
	assert.Error(t, err)
	_, err = Decompose(values, 1, Additive)
	assert.Error(t, err)
}

func TestACF(t *testing.T) {
	n := 200
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = 0.8*values[i-1] + (float64(i%10)-5)/10
	}

	acf := ACF(values, 10)
	require.Len(t, acf, 11)
	assert.InDelta(t, 1.0, acf[0], 1e-12)
	assert.Greater(t, acf[1], 0.3)

	all := ACF(values, 0)
	assert.Len(t, all, n)

	assert.Nil(t, ACF([]float64{3, 3, 3, 3}, 2))
}

func TestPACF_AR1CutsOff(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 5000
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		values[i] = 0.7*values[i-1] + rng.NormFloat64()
	}

	pacf := PACF(values, 10)
	require.Len(t, pacf, 11)
	assert.Equal(t, 1.0, pacf[0])
	assert.InDelta(t, 0.7, pacf[1], 0.05)
	for k := 2; k <= 10; k++ {
		assert.Less(t, math.Abs(pacf[k]), 0.1, "lag %d", k)
	}
}

func TestCorrelogramBounds(t *testing.T) {
	values := driftSine(100, 0.5, 1, 10, 0.1)

	c := AutocorrelationPlot(values, 0)
	require.NotNil(t, c)
	assert.Equal(t, 99, c.MaxLag())
	assert.InDelta(t, 0.196, c.Conf95, 1e-3)
	assert.InDelta(t, 0.2576, c.Conf99, 1e-3)
	assert.Contains(t, c.Significant(), 1)

	p := PartialAutocorrelationPlot(values, 30)
	require.NotNil(t, p)
	assert.Equal(t, 30, p.MaxLag())
}

func TestLjungBox(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	white := make([]float64, 500)
	for i := range white {
		white[i] = rng.NormFloat64()
	}
	lb := LjungBox(white, 10, 0)
	require.NotNil(t, lb)
	assert.Equal(t, 10, lb.DOF)
	assert.Greater(t, lb.PValue, 0.001)

	correlated := make([]float64, 500)
	for i := 1; i < len(correlated); i++ {
		correlated[i] = 0.9*correlated[i-1] + white[i]
	}
	lb = LjungBox(correlated, 10, 0)
	require.NotNil(t, lb)
	assert.Less(t, lb.PValue, 0.001)

	assert.Nil(t, LjungBox([]float64{1, 2}, 5, 0))
}
