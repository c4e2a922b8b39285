// Package arima fits ARIMA(p,d,q) and seasonal ARIMA(p,d,q)x(P,D,Q,s) models
// to a price series and forecasts it in levels.
//
// A model is described by a Spec. Seasonal terms are optional; a Spec with
// a zero Seasonal part is a plain ARIMA model.
//
//	m := arima.New(arima.Spec{Order: arima.Order{P: 5, D: 1, Q: 2}}, arima.Options{})
//	if err := m.Fit(closes); err != nil {
//	    return err
//	}
//	fc, err := m.Predict(11)
//
// # Estimation
//
// Coefficients maximise the conditional Gaussian likelihood of the
// differenced series (conditional sum of squares, pre-sample innovations set
// to zero) with the Nelder-Mead simplex method. AR and MA polynomials are
// searched through their partial autocorrelations, so every estimate is
// stationary and invertible. A constant is estimated only when the model has
// no differencing (d+D == 0), matching the usual state-space defaults.
//
// Standard errors come from the inverse of a numerical Hessian of the
// concentrated log-likelihood.
//
// # Forecasting
//
// Predict multiplies the AR polynomial by the differencing operators and runs
// the recursion directly on price levels, so forecasts never need a separate
// integration step. Forecast variance uses the psi weights of the same
// integrated representation.
package arima
