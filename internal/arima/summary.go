package arima

import (
	"fmt"
	"math"

	"PriceForecaster/internal/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// Param is one row of the coefficient table.
type Param struct {
	Name   string
	Value  float64
	StdErr float64
	Z      float64
	PValue float64
	Lower  float64 // 95% interval
	Upper  float64
}

// Summary describes a fitted model.
type Summary struct {
	Spec     Spec
	NObs     int // observations supplied to Fit
	NEff     int // innovations in the conditional likelihood
	Params   []Param
	Sigma2   float64
	LogLik   float64
	AIC      float64
	BIC      float64
	HQIC     float64
	LjungBox *stats.LjungBoxResult
	Evals    int
	Warnings []string
}

// Summary returns the fit summary, nil before Fit.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}
	s := m.Spec
	z975 := distuv.UnitNormal.Quantile(0.975)

	names := paramNames(s)
	values := params{ar: m.AR, ma: m.MA, sar: m.SAR, sma: m.SMA, mean: m.Mean}.flatten(s.hasMean())

	rows := make([]Param, 0, len(values)+1)
	for i, v := range values {
		rows = append(rows, newParam(names[i], v, m.stdErrors[i], z975))
	}
	// Var(sigma2_hat) ~ 2*sigma2^2/n under the concentrated likelihood.
	nEff := m.nEff()
	rows = append(rows, newParam("sigma2", m.Sigma2, m.Sigma2*math.Sqrt(2/float64(nEff)), z975))

	return &Summary{
		Spec:     s,
		NObs:     len(m.levels),
		NEff:     nEff,
		Params:   rows,
		Sigma2:   m.Sigma2,
		LogLik:   m.LogLik,
		AIC:      m.AIC,
		BIC:      m.BIC,
		HQIC:     m.HQIC,
		LjungBox: stats.LjungBox(m.Residuals(), 10, s.Order.P+s.Order.Q),
		Evals:    m.Evaluations,
		Warnings: append([]string(nil), m.warnings...),
	}
}

// Param returns the row with the given name.
func (s *Summary) Param(name string) (Param, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func newParam(name string, value, se, z975 float64) Param {
	p := Param{Name: name, Value: value, StdErr: se}
	if se > 0 && !math.IsNaN(se) {
		p.Z = value / se
		p.PValue = 2 * (1 - distuv.UnitNormal.CDF(math.Abs(p.Z)))
		p.Lower = value - z975*se
		p.Upper = value + z975*se
	} else {
		p.Z, p.PValue, p.Lower, p.Upper = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	}
	return p
}

func paramNames(s Spec) []string {
	var names []string
	for i := 1; i <= s.Order.P; i++ {
		names = append(names, fmt.Sprintf("ar.L%d", i))
	}
	for i := 1; i <= s.Order.Q; i++ {
		names = append(names, fmt.Sprintf("ma.L%d", i))
	}
	for i := 1; i <= s.Seasonal.P; i++ {
		names = append(names, fmt.Sprintf("ar.S.L%d", i*s.Seasonal.Period))
	}
	for i := 1; i <= s.Seasonal.Q; i++ {
		names = append(names, fmt.Sprintf("ma.S.L%d", i*s.Seasonal.Period))
	}
	if s.hasMean() {
		names = append(names, "const")
	}
	return names
}
