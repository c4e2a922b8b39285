package stats

import (
	"fmt"
	"math"

	"PriceForecaster/internal/model"
)

// Decomposition models.
const (
	Additive       = "additive"
	Multiplicative = "multiplicative"
)

// DecompositionResult holds the components of a classical decomposition.
// All slices have the length of Observed; Trend and Residual are NaN at the edges.
type DecompositionResult struct {
	Observed []float64
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Period   int
	Model    string
}

// Decompose splits values into trend, seasonal and residual components.
// Multiplicative: Y = T * S * R. Additive: Y = T + S + R.
func Decompose(values []float64, period int, decompositionModel string) (*DecompositionResult, error) {
	if period < 2 {
		return nil, fmt.Errorf("decomposition period must be >= 2, got %d", period)
	}
	if decompositionModel != Additive && decompositionModel != Multiplicative {
		return nil, fmt.Errorf("unknown decomposition model %q", decompositionModel)
	}
	n := len(values)
	if n < 2*period {
		return nil, fmt.Errorf("%w: decomposition with period %d needs %d observations, have %d",
			model.ErrInsufficientHistory, period, 2*period, n)
	}
	if decompositionModel == Multiplicative {
		for i, v := range values {
			if v <= 0 {
				return nil, fmt.Errorf("%w: multiplicative decomposition got %g at index %d",
					model.ErrNonPositiveValues, v, i)
			}
		}
	}

	trend := centeredMovingAverage(values, period)

	detrended := make([]float64, n)
	for i := range values {
		switch {
		case math.IsNaN(trend[i]):
			detrended[i] = math.NaN()
		case decompositionModel == Multiplicative:
			detrended[i] = values[i] / trend[i]
		default:
			detrended[i] = values[i] - trend[i]
		}
	}

	// Average each phase of the cycle over the defined detrended values.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if math.IsNaN(v) {
			continue
		}
		pattern[i%period] += v
		counts[i%period]++
	}
	mean := 0.0
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
		mean += pattern[i]
	}
	mean /= float64(period)
	for i := range pattern {
		if decompositionModel == Multiplicative {
			pattern[i] /= mean
		} else {
			pattern[i] -= mean
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := range values {
		seasonal[i] = pattern[i%period]
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case decompositionModel == Multiplicative:
			residual[i] = values[i] / (trend[i] * seasonal[i])
		default:
			residual[i] = values[i] - trend[i] - seasonal[i]
		}
	}

	observed := make([]float64, n)
	copy(observed, values)

	return &DecompositionResult{
		Observed: observed,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
		Model:    decompositionModel,
	}, nil
}

// Valid returns the number of points where every component is defined.
func (d *DecompositionResult) Valid() int {
	return len(d.Observed) - 2*(d.Period/2)
}

// centeredMovingAverage returns the centered MA of length period, NaN where the window
// does not fit. Even periods use the 2xperiod MA with half weights on the end points.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		if period%2 == 0 {
			sum += 0.5*values[i-half] + 0.5*values[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		trend[i] = sum / float64(period)
	}
	return trend
}
