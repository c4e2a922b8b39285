package collector

import (
	"context"
	"math"
	"math/rand"
	"time"

	"PriceForecaster/internal/model"
)

// MockFetcher returns deterministic synthetic data for development and testing.
// Without fixed bars it generates one bar per weekday: a linear drift plus a
// sinusoid plus seeded noise.
type MockFetcher struct {
	Price     float64 // level of the first bar, default 100
	Drift     float64 // change per bar
	Amplitude float64
	Period    int // sinusoid period in bars, default 30
	Noise     float64
	Seed      int64
	DailyData []model.OHLCV
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, start, end time.Time) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return m.generate(start, end), nil
}

func (m *MockFetcher) generate(start, end time.Time) []model.OHLCV {
	base := m.Price
	if base == 0 {
		base = 100
	}
	period := m.Period
	if period <= 0 {
		period = 30
	}
	rng := rand.New(rand.NewSource(m.Seed))

	var bars []model.OHLCV
	i := 0
	for d := truncateDay(start); d.Before(truncateDay(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := base + m.Drift*float64(i) +
			m.Amplitude*math.Sin(2*math.Pi*float64(i)/float64(period)) +
			m.Noise*rng.NormFloat64()
		bars = append(bars, model.OHLCV{
			Time:     d,
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			AdjClose: p,
			Volume:   1000000,
		})
		i++
	}
	return bars
}
