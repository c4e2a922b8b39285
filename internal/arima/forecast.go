package arima

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Forecast holds out-of-sample predictions in price levels for the positions
// Start, Start+1, ... of the fitted series.
type Forecast struct {
	Start  int
	Mean   []float64
	StdErr []float64
	Lower  []float64
	Upper  []float64
	Alpha  float64
}

// Len returns the number of forecast steps.
func (f *Forecast) Len() int { return len(f.Mean) }

// Index returns the series positions the forecasts refer to.
func (f *Forecast) Index() []int {
	idx := make([]int, len(f.Mean))
	for i := range idx {
		idx[i] = f.Start + i
	}
	return idx
}

// Predict forecasts steps values past the end of the fitted series.
func (m *Model) Predict(steps int) (*Forecast, error) {
	if !m.fitted {
		return nil, errNotFitted
	}
	if steps < 1 {
		return nil, errors.New("steps must be at least 1")
	}

	s := m.Spec
	a := integratedARLags(m.AR, m.SAR, s)
	b := maLags(m.MA, m.SMA, s.period())
	n := len(m.levels)
	offset := s.differencingLoss()

	y := make([]float64, n+steps)
	copy(y, m.levels)
	e := make([]float64, n+steps)
	for t := offset + m.start; t < n; t++ {
		e[t] = m.residuals[t-offset]
	}

	mu := 0.0
	if s.hasMean() {
		mu = m.Mean
	}
	for t := n; t < n+steps; t++ {
		v := mu
		for k := 1; k < len(a) && t-k >= 0; k++ {
			if a[k] != 0 {
				v += a[k] * (y[t-k] - mu)
			}
		}
		for k := 1; k < len(b) && t-k >= 0; k++ {
			if b[k] != 0 {
				v += b[k] * e[t-k]
			}
		}
		y[t] = v
	}

	psi := psiWeights(a, b, steps)
	alpha := m.opts.alpha()
	z := distuv.UnitNormal.Quantile(1 - alpha/2)

	fc := &Forecast{
		Start:  n,
		Mean:   append([]float64(nil), y[n:]...),
		StdErr: make([]float64, steps),
		Lower:  make([]float64, steps),
		Upper:  make([]float64, steps),
		Alpha:  alpha,
	}
	acc := 0.0
	for h := 0; h < steps; h++ {
		acc += psi[h] * psi[h]
		se := math.Sqrt(m.Sigma2 * acc)
		fc.StdErr[h] = se
		fc.Lower[h] = fc.Mean[h] - z*se
		fc.Upper[h] = fc.Mean[h] + z*se
	}
	return fc, nil
}

// psiWeights returns the first n MA(infinity) weights of b(B)/(1 - sum a_k B^k).
func psiWeights(a, b []float64, n int) []float64 {
	psi := make([]float64, n)
	if n == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < n; j++ {
		v := 0.0
		if j < len(b) {
			v = b[j]
		}
		for k := 1; k < len(a) && k <= j; k++ {
			v += a[k] * psi[j-k]
		}
		psi[j] = v
	}
	return psi
}
