package arima

import "fmt"

// Order is the non-seasonal (p, d, q) order.
type Order struct {
	P int // autoregressive lags
	D int // differences
	Q int // moving-average lags
}

// SeasonalOrder is the seasonal (P, D, Q, s) order.
type SeasonalOrder struct {
	P      int
	D      int
	Q      int
	Period int
}

// IsZero reports whether the seasonal part is absent.
func (s SeasonalOrder) IsZero() bool {
	return s.P == 0 && s.D == 0 && s.Q == 0
}

// Spec fully describes a model.
type Spec struct {
	Order    Order
	Seasonal SeasonalOrder
}

// String renders the spec the way fit summaries name models.
func (s Spec) String() string {
	if s.Seasonal.IsZero() {
		return fmt.Sprintf("ARIMA(%d, %d, %d)", s.Order.P, s.Order.D, s.Order.Q)
	}
	return fmt.Sprintf("SARIMAX(%d, %d, %d)x(%d, %d, %d, %d)",
		s.Order.P, s.Order.D, s.Order.Q,
		s.Seasonal.P, s.Seasonal.D, s.Seasonal.Q, s.Seasonal.Period)
}

// Validate checks the orders are usable.
func (s Spec) Validate() error {
	o, so := s.Order, s.Seasonal
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return fmt.Errorf("negative order in %s", s)
	}
	if so.P < 0 || so.D < 0 || so.Q < 0 || so.Period < 0 {
		return fmt.Errorf("negative seasonal order in %s", s)
	}
	if !so.IsZero() && so.Period < 2 {
		return fmt.Errorf("seasonal period must be >= 2, got %d", so.Period)
	}
	return nil
}

// hasMean reports whether a constant is estimated.
func (s Spec) hasMean() bool {
	return s.Order.D+s.Seasonal.D == 0
}

// period returns the seasonal period, 0 when there are no seasonal terms.
func (s Spec) period() int {
	if s.Seasonal.IsZero() {
		return 0
	}
	return s.Seasonal.Period
}

// arDegree is the degree of phi(B)*Phi(B^s).
func (s Spec) arDegree() int {
	return s.Order.P + s.Seasonal.P*s.period()
}

// maDegree is the degree of theta(B)*Theta(B^s).
func (s Spec) maDegree() int {
	return s.Order.Q + s.Seasonal.Q*s.period()
}

// differencingLoss is the number of observations consumed by differencing.
func (s Spec) differencingLoss() int {
	return s.Order.D + s.Seasonal.D*s.period()
}

// numCoefficients counts estimated coefficients, excluding the innovation variance.
func (s Spec) numCoefficients() int {
	k := s.Order.P + s.Order.Q + s.Seasonal.P + s.Seasonal.Q
	if s.hasMean() {
		k++
	}
	return k
}

// MinObservations is the shortest series Fit accepts for this spec.
func (s Spec) MinObservations() int {
	o := s.Order
	n := s.differencingLoss() + s.arDegree() + s.numCoefficients() + 10
	if v := o.P + o.D + o.Q + 10; v > n {
		n = v
	}
	if !s.Seasonal.IsZero() {
		so := s.Seasonal
		if v := so.Period * (so.P + so.D + so.Q + 1); v > n {
			n = v
		}
	}
	return n
}
