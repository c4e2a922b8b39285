package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// CalculateVolatility returns the sample standard deviation of the last window
// one-step price changes.
func CalculateVolatility(prices []float64, window int) (float64, error) {
	if len(prices) < 3 {
		return 0, errors.New("not enough data for volatility calculation")
	}
	start := len(prices) - window - 1
	if window <= 0 || start < 0 {
		start = 0
	}
	changes := make([]float64, 0, len(prices)-start-1)
	for i := start + 1; i < len(prices); i++ {
		changes = append(changes, prices[i]-prices[i-1])
	}
	return stat.StdDev(changes, nil), nil
}

// Band is the plausibility envelope last ± k·vol·√h for step h (1-based).
func Band(last, vol, k float64, h int) (lower, upper float64) {
	w := k * vol * math.Sqrt(float64(h))
	return last - w, last + w
}

// OutsideBand returns the 1-based steps whose value falls outside Band.
func OutsideBand(values []float64, last, vol, k float64) []int {
	var out []int
	for i, v := range values {
		lo, hi := Band(last, vol, k, i+1)
		if v < lo || v > hi {
			out = append(out, i+1)
		}
	}
	return out
}
