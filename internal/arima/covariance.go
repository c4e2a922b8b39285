package arima

import (
	"errors"
	"fmt"
	"math"

	"PriceForecaster/internal/model"

	"gonum.org/v1/gonum/mat"
)

// estimateCovariance computes coefficient standard errors from the inverse
// numerical Hessian of the concentrated negative log-likelihood at p.
// A singular Hessian fails the fit; an ill-conditioned one only adds a warning.
func (m *Model) estimateCovariance(p params) error {
	withMean := m.Spec.hasMean()
	beta := p.flatten(withMean)
	k := len(beta)
	if k == 0 {
		m.stdErrors = nil
		return nil
	}

	f := func(b []float64) float64 {
		_, sse := m.residualsFor(m.unflatten(b))
		return m.negLogLik(sse)
	}

	h := make([]float64, k)
	for i, b := range beta {
		h[i] = 1e-4 * math.Max(math.Abs(b), 1)
	}

	f0 := f(beta)
	hess := mat.NewDense(k, k, nil)
	x := make([]float64, k)
	eval := func(i int, di float64, j int, dj float64) float64 {
		copy(x, beta)
		x[i] += di
		x[j] += dj
		return f(x)
	}
	for i := 0; i < k; i++ {
		hii := (eval(i, 2*h[i], i, 0) - 2*f0 + eval(i, -2*h[i], i, 0)) / (4 * h[i] * h[i])
		hess.Set(i, i, hii)
		for j := i + 1; j < k; j++ {
			hij := (eval(i, h[i], j, h[j]) - eval(i, h[i], j, -h[j]) -
				eval(i, -h[i], j, h[j]) + eval(i, -h[i], j, -h[j])) / (4 * h[i] * h[j])
			hess.Set(i, j, hij)
			hess.Set(j, i, hij)
		}
	}

	var cov mat.Dense
	if err := cov.Inverse(hess); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) || math.IsNaN(float64(cond)) {
			return fmt.Errorf("%w: %s: singular covariance matrix: %v", model.ErrModelFit, m.Spec, err)
		}
		m.warnings = append(m.warnings,
			fmt.Sprintf("covariance matrix is ill-conditioned (condition number %.3g); standard errors may be unstable", float64(cond)))
	}

	m.stdErrors = make([]float64, k)
	negative := false
	for i := 0; i < k; i++ {
		v := cov.At(i, i)
		if v > 0 && !math.IsInf(v, 0) {
			m.stdErrors[i] = math.Sqrt(v)
		} else {
			m.stdErrors[i] = math.NaN()
			negative = true
		}
	}
	if negative {
		m.warnings = append(m.warnings, "covariance matrix has non-positive variances; some standard errors are undefined")
	}
	return nil
}
