package calculator

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// CalculateSMA is the mean of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	switch {
	case period <= 0:
		return 0, errors.New("period must be positive")
	case len(prices) < period:
		return 0, fmt.Errorf("SMA%d needs %d prices, have %d", period, period, len(prices))
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}
