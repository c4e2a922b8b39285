package collector

import (
	"fmt"
	"math"
	"sort"
	"time"

	"PriceForecaster/internal/model"
)

// Prepare projects raw bars onto an ascending (date, close) series. Bars on
// the same date collapse to the last one supplied. Missing trading days are
// not filled, so the series index counts observations, not calendar days.
func Prepare(symbol string, bars []model.OHLCV) (*model.PriceSeries, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: empty quote table for %s", model.ErrDataUnavailable, symbol)
	}

	byDay := make(map[time.Time]float64, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			return nil, fmt.Errorf("%w: close on %s", model.ErrNonFiniteValues, b.Time.Format("2006-01-02"))
		}
		byDay[truncateDay(b.Time)] = b.Close
	}

	dates := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	s := &model.PriceSeries{
		Symbol:    symbol,
		Dates:     dates,
		Closes:    make([]float64, len(dates)),
		FetchedAt: time.Now(),
	}
	for i, d := range dates {
		s.Closes[i] = byDay[d]
	}
	return s, nil
}
