package model

// SeriesStats are the descriptive statistics printed above the model output.
type SeriesStats struct {
	LastClose    float64
	SMA20        float64
	SMA50        float64
	High         float64 // over the whole window
	Low          float64
	High30d      float64
	Low30d       float64
	Position     float64 // 0.0 ~ 1.0 within [Low, High]
	Volatility   float64 // stddev of daily close changes, last 30 observations
	Observations int
}
