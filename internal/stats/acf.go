package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Correlogram holds (partial) autocorrelations for lags 0..MaxLag with the usual
// white-noise confidence bounds.
type Correlogram struct {
	Values []float64
	NObs   int
	Conf95 float64 // 1.96/sqrt(n)
	Conf99 float64 // 2.576/sqrt(n)
}

// MaxLag returns the largest lag held.
func (c *Correlogram) MaxLag() int { return len(c.Values) - 1 }

// Significant returns the lags (>= 1) whose absolute value exceeds the 95% bound.
func (c *Correlogram) Significant() []int {
	var lags []int
	for k := 1; k < len(c.Values); k++ {
		if math.Abs(c.Values[k]) > c.Conf95 {
			lags = append(lags, k)
		}
	}
	return lags
}

// ACF returns the sample autocorrelation function for lags 0..maxLag.
// maxLag <= 0 or >= n selects every lag up to n-1. Returns nil for constant input.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if n < 2 {
		return nil
	}
	if maxLag <= 0 || maxLag >= n {
		maxLag = n - 1
	}

	mean := stat.Mean(values, nil)
	denom := 0.0
	for _, v := range values {
		denom += (v - mean) * (v - mean)
	}
	if denom == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / denom
	}
	return acf
}

// PACF returns the partial autocorrelation function for lags 0..maxLag,
// computed from the biased ACF with the Durbin-Levinson recursion.
func PACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}
	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1
	phi := make([]float64, maxLag+1)
	prev := make([]float64, maxLag+1)
	v := 1.0
	for k := 1; k <= maxLag; k++ {
		num := acf[k]
		for j := 1; j < k; j++ {
			num -= prev[j] * acf[k-j]
		}
		if v <= 0 {
			break
		}
		phi[k] = num / v
		for j := 1; j < k; j++ {
			phi[j] = prev[j] - phi[k]*prev[k-j]
		}
		pacf[k] = phi[k]
		v *= 1 - phi[k]*phi[k]
		copy(prev, phi)
	}
	return pacf
}

// AutocorrelationPlot computes the ACF correlogram. maxLag <= 0 means all lags.
func AutocorrelationPlot(values []float64, maxLag int) *Correlogram {
	return newCorrelogram(ACF(values, maxLag), len(values))
}

// PartialAutocorrelationPlot computes the PACF correlogram.
func PartialAutocorrelationPlot(values []float64, maxLag int) *Correlogram {
	return newCorrelogram(PACF(values, maxLag), len(values))
}

func newCorrelogram(values []float64, n int) *Correlogram {
	if values == nil {
		return nil
	}
	sq := math.Sqrt(float64(n))
	return &Correlogram{
		Values: values,
		NObs:   n,
		Conf95: 1.959963984540054 / sq,
		Conf99: 2.5758293035489004 / sq,
	}
}
