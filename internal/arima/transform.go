package arima

import "math"

// constrainStationary maps unconstrained reals to the coefficients of a
// stationary AR polynomial: each value becomes a partial autocorrelation in
// (-1, 1) and the Durbin-Levinson recursion turns those into coefficients.
func constrainStationary(x []float64) []float64 {
	n := len(x)
	phi := make([]float64, n)
	prev := make([]float64, n)
	for k := 0; k < n; k++ {
		r := x[k] / math.Sqrt(1+x[k]*x[k])
		copy(prev, phi[:k])
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - r*prev[k-1-j]
		}
		phi[k] = r
	}
	return phi
}

// unconstrainStationary inverts constrainStationary. Partial autocorrelations
// outside (-1, 1) are pulled back to +-0.95.
func unconstrainStationary(phi []float64) []float64 {
	n := len(phi)
	x := make([]float64, n)
	cur := append([]float64(nil), phi...)
	for k := n - 1; k >= 0; k-- {
		r := cur[k]
		if math.IsNaN(r) {
			r = 0
		}
		r = math.Max(-0.95, math.Min(0.95, r))
		x[k] = r / math.Sqrt(1-r*r)

		prev := make([]float64, k)
		for j := 0; j < k; j++ {
			prev[j] = (cur[j] + r*cur[k-1-j]) / (1 - r*r)
		}
		cur = prev
	}
	return x
}

// yuleWalker solves the Yule-Walker equations for order p from autocorrelations
// acf[0..p] with the Levinson-Durbin recursion.
func yuleWalker(acf []float64, p int) []float64 {
	if p <= 0 || len(acf) <= p {
		return make([]float64, p)
	}
	phi := make([]float64, p)
	prev := make([]float64, p)
	v := 1.0
	for k := 0; k < p; k++ {
		num := acf[k+1]
		for j := 0; j < k; j++ {
			num -= prev[j] * acf[k-j]
		}
		if v <= 0 {
			break
		}
		r := num / v
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - r*prev[k-1-j]
		}
		phi[k] = r
		v *= 1 - r*r
		copy(prev, phi)
	}
	return phi
}
