package arima

import (
	"errors"
	"fmt"
	"math"

	"PriceForecaster/internal/model"
	"PriceForecaster/internal/stats"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

const (
	defaultMaxEvaluations = 40000
	defaultAlpha          = 0.05
)

// Options tunes estimation and prediction.
type Options struct {
	MaxEvaluations int     // objective evaluations per optimizer run, 0 selects 40000
	Alpha          float64 // prediction interval is (1-Alpha), 0 selects 0.05
}

func (o Options) maxEvaluations() int {
	if o.MaxEvaluations <= 0 {
		return defaultMaxEvaluations
	}
	return o.MaxEvaluations
}

func (o Options) alpha() float64 {
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return defaultAlpha
	}
	return o.Alpha
}

// Model is an ARIMA or seasonal ARIMA model.
type Model struct {
	Spec Spec
	opts Options

	AR     []float64 // phi
	MA     []float64 // theta
	SAR    []float64 // seasonal Phi
	SMA    []float64 // seasonal Theta
	Mean   float64   // constant, only when Spec has no differencing
	Sigma2 float64

	LogLik float64
	AIC    float64
	BIC    float64
	HQIC   float64

	Evaluations int

	fitted    bool
	levels    []float64
	diffed    []float64
	residuals []float64 // aligned with diffed, zero before start
	start     int       // first conditioned index in diffed
	stdErrors []float64
	warnings  []string
}

// New creates an unfitted model.
func New(spec Spec, opts Options) *Model {
	return &Model{Spec: spec, opts: opts}
}

// params is one point of the coefficient space.
type params struct {
	ar, ma, sar, sma []float64
	mean             float64
}

// Fit estimates the model on values, ordered oldest first.
func (m *Model) Fit(values []float64) error {
	if err := m.Spec.Validate(); err != nil {
		return err
	}
	if need := m.Spec.MinObservations(); len(values) < need {
		return fmt.Errorf("%w: %s needs at least %d observations, have %d",
			model.ErrInsufficientHistory, m.Spec, need, len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: index %d", model.ErrNonFiniteValues, i)
		}
	}

	s := m.Spec
	m.levels = append([]float64(nil), values...)
	m.diffed = difference(values, s.Order.D, s.Seasonal.D, s.Seasonal.Period)
	m.start = s.arDegree()
	m.fitted = false
	m.warnings = nil

	x0 := m.startingValues()
	x, evals, err := m.optimize(x0)
	m.Evaluations = evals
	if err != nil {
		return err
	}

	p := m.constrain(x)
	m.AR, m.MA, m.SAR, m.SMA, m.Mean = p.ar, p.ma, p.sar, p.sma, p.mean

	res, sse := m.residualsFor(p)
	nEff := float64(m.nEff())
	m.residuals = res
	m.Sigma2 = sse / nEff
	m.LogLik = -m.negLogLik(sse)
	if math.IsNaN(m.LogLik) || math.IsInf(m.LogLik, 0) {
		return fmt.Errorf("%w: %s: non-finite log-likelihood", model.ErrModelFit, s)
	}

	// Parameter count includes the innovation variance.
	k := float64(s.numCoefficients() + 1)
	m.AIC = -2*m.LogLik + 2*k
	m.BIC = -2*m.LogLik + k*math.Log(nEff)
	m.HQIC = -2*m.LogLik + 2*k*math.Log(math.Log(nEff))

	if err := m.estimateCovariance(p); err != nil {
		return err
	}

	m.fitted = true
	return nil
}

// nEff is the number of innovations in the conditional likelihood.
func (m *Model) nEff() int {
	return len(m.diffed) - m.start
}

// startingValues returns the unconstrained starting point: Yule-Walker AR
// estimates, zero MA and seasonal terms, sample mean.
func (m *Model) startingValues() []float64 {
	s := m.Spec
	x := make([]float64, 0, s.numCoefficients())

	ar := make([]float64, s.Order.P)
	if s.Order.P > 0 {
		if acf := stats.ACF(m.diffed, s.Order.P); acf != nil {
			ar = yuleWalker(acf, s.Order.P)
		}
	}
	x = append(x, unconstrainStationary(ar)...)
	x = append(x, make([]float64, s.Order.Q+s.Seasonal.P+s.Seasonal.Q)...)
	if s.hasMean() {
		x = append(x, stat.Mean(m.diffed, nil))
	}
	return x
}

// constrain maps an optimizer point to model coefficients.
func (m *Model) constrain(x []float64) params {
	s := m.Spec
	i := 0
	next := func(n int) []float64 {
		v := x[i : i+n]
		i += n
		return v
	}
	p := params{
		ar:  constrainStationary(next(s.Order.P)),
		ma:  negate(constrainStationary(next(s.Order.Q))),
		sar: constrainStationary(next(s.Seasonal.P)),
		sma: negate(constrainStationary(next(s.Seasonal.Q))),
	}
	if s.hasMean() {
		p.mean = x[i]
	}
	return p
}

// flatten lays coefficients out in summary order.
func (p params) flatten(withMean bool) []float64 {
	out := make([]float64, 0, len(p.ar)+len(p.ma)+len(p.sar)+len(p.sma)+1)
	out = append(out, p.ar...)
	out = append(out, p.ma...)
	out = append(out, p.sar...)
	out = append(out, p.sma...)
	if withMean {
		out = append(out, p.mean)
	}
	return out
}

// unflatten is the inverse of flatten.
func (m *Model) unflatten(beta []float64) params {
	s := m.Spec
	i := 0
	next := func(n int) []float64 {
		v := append([]float64(nil), beta[i:i+n]...)
		i += n
		return v
	}
	p := params{
		ar:  next(s.Order.P),
		ma:  next(s.Order.Q),
		sar: next(s.Seasonal.P),
		sma: next(s.Seasonal.Q),
	}
	if s.hasMean() {
		p.mean = beta[i]
	}
	return p
}

// residualsFor runs the conditional innovations recursion on the differenced series.
func (m *Model) residualsFor(p params) ([]float64, float64) {
	period := m.Spec.period()
	ar := arLags(p.ar, p.sar, period)
	ma := maLags(p.ma, p.sma, period)
	w := m.diffed
	mu := p.mean

	e := make([]float64, len(w))
	sse := 0.0
	for t := m.start; t < len(w); t++ {
		v := w[t] - mu
		for k := 1; k < len(ar); k++ {
			if ar[k] != 0 {
				v -= ar[k] * (w[t-k] - mu)
			}
		}
		for k := 1; k < len(ma) && t-k >= m.start; k++ {
			if ma[k] != 0 {
				v -= ma[k] * e[t-k]
			}
		}
		e[t] = v
		sse += v * v
	}
	return e, sse
}

// negLogLik is the concentrated Gaussian negative log-likelihood for a given SSE.
func (m *Model) negLogLik(sse float64) float64 {
	n := float64(m.nEff())
	sigma2 := math.Max(sse/n, math.SmallestNonzeroFloat64)
	return 0.5 * n * (math.Log(2*math.Pi*sigma2) + 1)
}

func (m *Model) objective(x []float64) float64 {
	_, sse := m.residualsFor(m.constrain(x))
	f := m.negLogLik(sse)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.MaxFloat64
	}
	return f
}

// optimize minimises the objective with Nelder-Mead. A run that stops on an
// evaluation limit is resumed once from its best point before giving up.
func (m *Model) optimize(x0 []float64) ([]float64, int, error) {
	if len(x0) == 0 {
		return x0, 0, nil
	}
	problem := optimize.Problem{Func: m.objective}
	evals := 0
	x := x0
	for attempt := 0; attempt < 2; attempt++ {
		settings := &optimize.Settings{
			FuncEvaluations: m.opts.maxEvaluations(),
			Converger: &optimize.FunctionConverge{
				Absolute:   1e-8,
				Relative:   1e-10,
				Iterations: 100,
			},
		}
		res, err := optimize.Minimize(problem, x, settings, &optimize.NelderMead{})
		if res == nil {
			return nil, evals, fmt.Errorf("%w: %s: %v", model.ErrModelFit, m.Spec, err)
		}
		evals += res.Stats.FuncEvaluations
		x = res.X

		if !stoppedOnLimit(res.Status) {
			if err != nil {
				return nil, evals, fmt.Errorf("%w: %s: %v", model.ErrModelFit, m.Spec, err)
			}
			if res.F == math.MaxFloat64 {
				return nil, evals, fmt.Errorf("%w: %s: objective is not finite", model.ErrModelFit, m.Spec)
			}
			return x, evals, nil
		}
	}
	return nil, evals, fmt.Errorf("%w: %s: optimizer did not converge after %d evaluations",
		model.ErrModelFit, m.Spec, evals)
}

func stoppedOnLimit(s optimize.Status) bool {
	switch s {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit, optimize.Failure:
		return true
	}
	return false
}

func negate(v []float64) []float64 {
	for i := range v {
		v[i] = -v[i]
	}
	return v
}

// Residuals returns the innovations used by the likelihood.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals[m.start:]...)
}

// IsFitted reports whether Fit completed.
func (m *Model) IsFitted() bool { return m.fitted }

var errNotFitted = errors.New("model must be fitted before prediction")
