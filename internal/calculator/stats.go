package calculator

import (
	"log"

	"PriceForecaster/internal/model"
)

// Summarize computes the report header statistics. Statistics that cannot be
// computed on a short series fall back to the last close.
func Summarize(closes []float64) *model.SeriesStats {
	st := &model.SeriesStats{Observations: len(closes)}
	if len(closes) == 0 {
		return st
	}
	last := closes[len(closes)-1]
	st.LastClose = last

	if ma, err := CalculateSMA(closes, 20); err != nil {
		log.Printf("[WARN] SMA20 calculation failed: %v, using last close", err)
		st.SMA20 = last
	} else {
		st.SMA20 = ma
	}
	if ma, err := CalculateSMA(closes, 50); err != nil {
		log.Printf("[WARN] SMA50 calculation failed: %v, using last close", err)
		st.SMA50 = last
	} else {
		st.SMA50 = ma
	}

	st.High, st.Low, _ = CalculateRange(closes, 0)
	st.High30d, st.Low30d, _ = CalculateRange(closes, 22)
	if pos, err := CalculatePosition(last, st.High, st.Low); err == nil {
		st.Position = pos
	} else {
		st.Position = 0.5
	}

	if vol, err := CalculateVolatility(closes, 30); err != nil {
		log.Printf("[WARN] volatility calculation failed: %v", err)
	} else {
		st.Volatility = vol
	}
	return st
}
