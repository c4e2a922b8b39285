package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CalculateRange returns the extremes of the trailing window of closes.
// window <= 0, or a window longer than the series, covers the whole series.
func CalculateRange(prices []float64, window int) (high, low float64, err error) {
	if len(prices) == 0 {
		return 0, 0, errors.New("empty price series")
	}
	tail := prices
	if window > 0 && window < len(prices) {
		tail = prices[len(prices)-window:]
	}
	return floats.Max(tail), floats.Min(tail), nil
}

// CalculatePosition places current inside [low, high], clamped to [0, 1].
// A flat range puts it in the middle.
func CalculatePosition(current, high, low float64) (float64, error) {
	switch {
	case high < low:
		return 0, errors.New("high below low")
	case high == low:
		return 0.5, nil
	}
	return math.Max(0, math.Min(1, (current-low)/(high-low))), nil
}
