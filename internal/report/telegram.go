package report

import (
	"fmt"
	"html"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatForecastMessage formats a run into a Telegram HTML message.
func FormatForecastMessage(r *RunReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s forecast</b> | %s\n\n", html.EscapeString(r.Symbol), r.StartedAt.Format("2006-01-02")))

	if r.Series != nil && r.Series.Len() > 0 {
		d, last := r.Series.Last()
		b.WriteString(fmt.Sprintf("Last close: %s (%s)\n", price(last), d.Format("2006-01-02")))
	}
	if st := r.Stats; st != nil {
		b.WriteString(fmt.Sprintf("SMA20: %s | SMA50: %s\n", price(st.SMA20), price(st.SMA50)))
		b.WriteString(fmt.Sprintf("Range: %s - %s | Vol: %s\n", price(st.Low), price(st.High),
			decimal.NewFromFloat(st.Volatility).StringFixed(3)))
	}

	for _, m := range r.Models {
		if m.Forecast == nil || m.Forecast.Len() == 0 {
			continue
		}
		fc := m.Forecast
		name := m.Name
		if m.Summary != nil {
			name = m.Summary.Spec.String()
		}
		b.WriteString(fmt.Sprintf("\n📈 <b>%s</b>\n", html.EscapeString(name)))
		if m.Summary != nil {
			b.WriteString(fmt.Sprintf("  AIC %.1f | σ² %.4f\n", m.Summary.AIC, m.Summary.Sigma2))
		}
		last := fc.Len() - 1
		b.WriteString(fmt.Sprintf("  t+1: %s\n", price(fc.Mean[0])))
		b.WriteString(fmt.Sprintf("  t+%d: %s [%s, %s]\n", fc.Len(), price(fc.Mean[last]),
			price(fc.Lower[last]), price(fc.Upper[last])))
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n⚠️ ")
		b.WriteString(html.EscapeString(strings.Join(r.Warnings, "; ")))
		b.WriteString("\n")
	}
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("\n<code>%s</code>", r.RunID))
	}
	return b.String()
}

// FormatFailure formats a failed run for Telegram.
func FormatFailure(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>%s forecast failed</b>\n%s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}
