package stats

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult is the outcome of a Ljung-Box test.
// A small PValue rejects "no autocorrelation up to Lags".
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// LjungBox tests residuals for autocorrelation up to lags.
// fitdf is the number of estimated ARMA coefficients.
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < 3 || lags < 1 {
		return nil
	}
	if lags >= n {
		lags = n - 1
	}
	acf := ACF(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}
	chi2 := distuv.ChiSquared{K: float64(dof)}
	return &LjungBoxResult{
		Statistic: q,
		PValue:    1 - chi2.CDF(q),
		Lags:      lags,
		DOF:       dof,
	}
}
