package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"PriceForecaster/internal/arima"
	"PriceForecaster/internal/model"
	"PriceForecaster/internal/stats"

	"github.com/shopspring/decimal"
)

const (
	ruleWidth  = 78
	maxLagList = 20
)

// Console writes the human-readable run output.
type Console struct {
	W io.Writer
}

// NewConsole creates a console writer on w.
func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.W, format, args...)
}

// price formats a price with two decimals.
func price(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// QuotesTail prints the last n rows of the raw quote table.
func (c *Console) QuotesTail(bars []model.OHLCV, n int) {
	start := len(bars) - n
	if start < 0 {
		start = 0
	}
	c.printf("%-12s %10s %10s %10s %10s %10s %14s\n", "Date", "Open", "High", "Low", "Close", "Adj Close", "Volume")
	for _, b := range bars[start:] {
		c.printf("%-12s %10s %10s %10s %10s %10s %14s\n",
			b.Time.Format("2006-01-02"), price(b.Open), price(b.High), price(b.Low),
			price(b.Close), price(b.AdjClose), decimal.NewFromFloat(b.Volume).StringFixed(0))
	}
	c.printf("\n")
}

// SeriesHead prints the first n observations of the price series.
func (c *Console) SeriesHead(s *model.PriceSeries, n int) {
	if n > s.Len() {
		n = s.Len()
	}
	c.printf("%-12s %10s\n", "Date", "Close")
	for i := 0; i < n; i++ {
		c.printf("%-12s %10s\n", s.Dates[i].Format("2006-01-02"), price(s.Closes[i]))
	}
	c.printf("\n")
}

// Stats prints the descriptive statistics header.
func (c *Console) Stats(symbol string, st *model.SeriesStats) {
	c.printf("%s: %d observations, last close %s\n", symbol, st.Observations, price(st.LastClose))
	c.printf("SMA20 %s | SMA50 %s | range %s - %s (position %.0f%%) | 30d range %s - %s | volatility %s\n\n",
		price(st.SMA20), price(st.SMA50), price(st.Low), price(st.High), st.Position*100,
		price(st.Low30d), price(st.High30d), decimal.NewFromFloat(st.Volatility).StringFixed(4))
}

// Correlation lists the lags whose (partial) autocorrelation falls outside the
// 95% white-noise bound.
func (c *Console) Correlation(name string, cg *stats.Correlogram) {
	lags := cg.Significant()
	c.printf("%s: %d of %d lags outside ±%.3f", name, len(lags), cg.MaxLag(), cg.Conf95)
	if len(lags) == 0 {
		c.printf("\n")
		return
	}
	shown := lags
	if len(shown) > maxLagList {
		shown = shown[:maxLagList]
	}
	parts := make([]string, len(shown))
	for i, k := range shown {
		parts[i] = fmt.Sprint(k)
	}
	c.printf(": %s", strings.Join(parts, " "))
	if len(lags) > len(shown) {
		c.printf(" ...")
	}
	c.printf("\n")
}

// Summary prints a coefficient table in the layout statistical packages use.
func (c *Console) Summary(s *arima.Summary) {
	rule := strings.Repeat("=", ruleWidth)
	dash := strings.Repeat("-", ruleWidth)

	c.printf("%s\n", center("SARIMAX Results", ruleWidth))
	c.printf("%s\n", rule)
	c.printf("%-20s%22s   %-20s%13d\n", "Dep. Variable:", "Close", "No. Observations:", s.NObs)
	c.printf("%-20s%22s   %-20s%13.3f\n", "Model:", s.Spec.String(), "Log Likelihood", s.LogLik)
	c.printf("%-20s%22s   %-20s%13.3f\n", "Method:", "css", "AIC", s.AIC)
	c.printf("%-20s%22d   %-20s%13.3f\n", "Innovations:", s.NEff, "BIC", s.BIC)
	c.printf("%-20s%22d   %-20s%13.3f\n", "Evaluations:", s.Evals, "HQIC", s.HQIC)
	c.printf("%s\n", rule)
	c.printf("%-12s %11s %10s %10s %10s %11s %11s\n", "", "coef", "std err", "z", "P>|z|", "[0.025", "0.975]")
	c.printf("%s\n", dash)
	for _, p := range s.Params {
		c.printf("%-12s %11.4f %10.3f %10.3f %10.3f %11.3f %11.3f\n",
			p.Name, p.Value, p.StdErr, p.Z, p.PValue, p.Lower, p.Upper)
	}
	c.printf("%s\n", rule)
	if lb := s.LjungBox; lb != nil {
		c.printf("Ljung-Box (L%d) (Q): %.2f   Prob(Q): %.2f\n", lb.Lags, lb.Statistic, lb.PValue)
		c.printf("%s\n", rule)
	}
	if len(s.Warnings) > 0 {
		c.printf("\nWarnings:\n")
		for i, w := range s.Warnings {
			c.printf("[%d] %s\n", i+1, w)
		}
	}
	c.printf("\n")
}

// Forecast prints a forecast table indexed by series position.
func (c *Console) Forecast(name string, fc *arima.Forecast) {
	level := 100 * (1 - fc.Alpha)
	c.printf("%s forecast, %d steps, %.0f%% interval\n", name, fc.Len(), level)
	c.printf("%6s %12s %10s %12s %12s\n", "index", "mean", "std err", "lower", "upper")
	for h := 0; h < fc.Len(); h++ {
		c.printf("%6d %12s %10s %12s %12s\n", fc.Start+h,
			price(fc.Mean[h]), decimal.NewFromFloat(fc.StdErr[h]).StringFixed(3),
			price(fc.Lower[h]), price(fc.Upper[h]))
	}
	c.printf("\n")
}

// Run prints the full report of a run.
func (c *Console) Run(r *RunReport, bars []model.OHLCV) {
	if len(bars) > 0 {
		c.QuotesTail(bars, 5)
	}
	if r.Series != nil {
		c.SeriesHead(r.Series, 5)
	}
	if r.Stats != nil {
		c.Stats(r.Symbol, r.Stats)
	}
	if r.ACF != nil && r.PACF != nil {
		c.Correlation("ACF", r.ACF)
		c.Correlation("PACF", r.PACF)
		c.printf("\n")
	}
	for _, m := range r.Models {
		if m.Summary != nil {
			c.Summary(m.Summary)
		}
	}
	for _, m := range r.Models {
		if m.Forecast != nil {
			c.Forecast(m.Name, m.Forecast)
		}
	}
	for _, w := range r.Warnings {
		c.printf("warning: %s\n", w)
	}
	for _, ch := range r.Charts {
		c.printf("chart written: %s\n", ch)
	}
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
