package arima

// Lag polynomials are stored as coefficient slices c where c[k] multiplies B^k
// and c[0] == 1.

func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// lagPoly builds 1 + sign*c1*B^step + sign*c2*B^(2*step) + ...
func lagPoly(coeffs []float64, step int, sign float64) []float64 {
	out := make([]float64, len(coeffs)*step+1)
	out[0] = 1
	for i, c := range coeffs {
		out[(i+1)*step] = sign * c
	}
	return out
}

// differencingPoly builds (1-B)^d (1-B^s)^D.
func differencingPoly(d, seasonalD, period int) []float64 {
	out := []float64{1}
	for i := 0; i < d; i++ {
		out = polyMul(out, []float64{1, -1})
	}
	for i := 0; i < seasonalD; i++ {
		out = polyMul(out, lagPoly([]float64{1}, period, -1))
	}
	return out
}

// arLags expands phi(B)Phi(B^s) and returns a with a[k] the coefficient on the
// k-th lag in x_t = sum a[k] x_{t-k} + ... (a[0] unused).
func arLags(ar, sar []float64, period int) []float64 {
	poly := lagPoly(ar, 1, -1)
	if len(sar) > 0 {
		poly = polyMul(poly, lagPoly(sar, period, -1))
	}
	return negateTail(poly)
}

// maLags expands theta(B)Theta(B^s); m[k] multiplies e_{t-k}.
func maLags(ma, sma []float64, period int) []float64 {
	poly := lagPoly(ma, 1, 1)
	if len(sma) > 0 {
		poly = polyMul(poly, lagPoly(sma, period, 1))
	}
	return poly
}

// integratedARLags folds the differencing operators into the AR lags so the
// recursion runs on levels.
func integratedARLags(ar, sar []float64, s Spec) []float64 {
	poly := lagPoly(ar, 1, -1)
	if len(sar) > 0 {
		poly = polyMul(poly, lagPoly(sar, s.Seasonal.Period, -1))
	}
	poly = polyMul(poly, differencingPoly(s.Order.D, s.Seasonal.D, s.Seasonal.Period))
	return negateTail(poly)
}

func negateTail(poly []float64) []float64 {
	out := make([]float64, len(poly))
	for k := 1; k < len(poly); k++ {
		out[k] = -poly[k]
	}
	return out
}

// difference applies d regular then D seasonal differences.
func difference(values []float64, d, seasonalD, period int) []float64 {
	out := append([]float64(nil), values...)
	for i := 0; i < d; i++ {
		out = lagDiff(out, 1)
	}
	for i := 0; i < seasonalD; i++ {
		out = lagDiff(out, period)
	}
	return out
}

func lagDiff(values []float64, lag int) []float64 {
	if len(values) <= lag {
		return nil
	}
	out := make([]float64, len(values)-lag)
	for i := lag; i < len(values); i++ {
		out[i-lag] = values[i] - values[i-lag]
	}
	return out
}
